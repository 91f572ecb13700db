package library

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"time"

	"mangashelf/pkg/models"
)

func TestFormatEntry(t *testing.T) {
	got := FormatEntry(models.TitleRecord{MainTitle: "Berserk", Aliases: []string{"ベルセルク", "Berserk"}})
	want := "Main Title: Berserk\nAlternative Titles:\n  • ベルセルク\n"
	if got != want {
		t.Fatalf("FormatEntry = %q, want %q", got, want)
	}
	if got := FormatEntry(models.TitleRecord{MainTitle: "Akira"}); got != "Main Title: Akira\n" {
		t.Fatalf("FormatEntry without aliases = %q", got)
	}
}

func TestAppendThenLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "lib", "my_library.txt")
	at := time.Date(2024, 5, 6, 7, 8, 9, 0, time.UTC)

	first := []models.TitleRecord{
		{MainTitle: "Vinland Saga", Aliases: []string{"ヴィンランド・サガ"}},
		{MainTitle: "Monster"},
	}
	var seen []int
	if err := Append(path, first, AppendOptions{At: at, OnEntry: func(n int, _ models.TitleRecord) { seen = append(seen, n) }}); err != nil {
		t.Fatalf("Append: %v", err)
	}
	second := []models.TitleRecord{{MainTitle: "Pluto", Aliases: []string{"プルートウ"}}}
	if err := Append(path, second, AppendOptions{At: at}); err != nil {
		t.Fatalf("Append second: %v", err)
	}
	if !reflect.DeepEqual(seen, []int{1, 2}) {
		t.Fatalf("OnEntry calls = %v", seen)
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if n := strings.Count(string(raw), "Batch added on: 2024-05-06 07:08:09"); n != 2 {
		t.Fatalf("batch headers = %d, want 2", n)
	}

	got, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	want := append(append([]models.TitleRecord{}, first...), second...)
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("Load = %#v, want %#v", got, want)
	}
}

func TestAppendNothing(t *testing.T) {
	path := filepath.Join(t.TempDir(), "my_library.txt")
	if err := Append(path, nil, AppendOptions{}); err != nil {
		t.Fatalf("Append: %v", err)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Fatalf("expected no file, stat err = %v", err)
	}
}
