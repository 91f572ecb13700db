package history

import (
	"context"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"mangashelf/pkg/database"
	"mangashelf/pkg/models"
)

func newTestRepo(t *testing.T) *Repo {
	t.Helper()
	db, err := database.OpenAndMigrate(database.Config{Path: filepath.Join(t.TempDir(), "history.db")})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return NewRepo(db)
}

func TestSaveAndGet(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	run := models.Run{
		ID:              "run-1",
		StartedAt:       time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC),
		LibrarySource:   "my_library.txt",
		ReferenceSource: "list.csv",
		LibraryCount:    3,
		ReferenceCount:  5,
		Matches: []models.MatchView{
			{LibraryTitle: "Naruto", ReferenceTitle: "NARUTO", Aliases: []string{}},
			{LibraryTitle: "The Promised Neverland", ReferenceTitle: "Promised Neverland", Aliases: []string{"Yakusoku no Nebarando"}},
		},
	}
	if err := repo.Save(ctx, run); err != nil {
		t.Fatalf("Save: %v", err)
	}

	got, err := repo.Get(ctx, "run-1")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got == nil {
		t.Fatal("run not found")
	}
	if got.MatchCount != 2 || got.LibraryCount != 3 || got.ReferenceCount != 5 {
		t.Fatalf("counts = %+v", got)
	}
	if !got.StartedAt.Equal(run.StartedAt) {
		t.Fatalf("StartedAt = %v, want %v", got.StartedAt, run.StartedAt)
	}
	if !reflect.DeepEqual(got.Matches, run.Matches) {
		t.Fatalf("Matches = %#v, want %#v", got.Matches, run.Matches)
	}
}

func TestGetUnknown(t *testing.T) {
	repo := newTestRepo(t)
	got, err := repo.Get(context.Background(), "nope")
	if err != nil || got != nil {
		t.Fatalf("Get = %v, %v", got, err)
	}
}

func TestListNewestFirst(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	base := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)

	for i, id := range []string{"a", "b", "c"} {
		run := models.Run{ID: id, StartedAt: base.Add(time.Duration(i) * time.Hour), LibrarySource: "l", ReferenceSource: "r"}
		if err := repo.Save(ctx, run); err != nil {
			t.Fatalf("Save %s: %v", id, err)
		}
	}

	runs, total, err := repo.List(ctx, 2, 0)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if total != 3 || len(runs) != 2 || runs[0].ID != "c" || runs[1].ID != "b" {
		t.Fatalf("List = %+v (total %d)", runs, total)
	}

	runs, _, err = repo.List(ctx, 2, 2)
	if err != nil {
		t.Fatalf("List page 2: %v", err)
	}
	if len(runs) != 1 || runs[0].ID != "a" {
		t.Fatalf("page 2 = %+v", runs)
	}
}

func TestSaveDuplicateID(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	run := models.Run{ID: "dup", StartedAt: time.Now(), LibrarySource: "l", ReferenceSource: "r"}
	if err := repo.Save(ctx, run); err != nil {
		t.Fatal(err)
	}
	if err := repo.Save(ctx, run); err == nil {
		t.Fatal("expected error on duplicate run id")
	}
}
