package compare

import (
	"reflect"
	"testing"

	"mangashelf/pkg/models"
)

func TestNewRecordDropsEquivalentAliases(t *testing.T) {
	rec := NewRecord(" Naruto ", "NARUTO", "", "Naruto Shippuden", "naruto shippuden", "  ナルト ")
	want := models.TitleRecord{
		MainTitle: "Naruto",
		Aliases:   []string{"Naruto Shippuden", "ナルト"},
	}
	if !reflect.DeepEqual(rec, want) {
		t.Fatalf("NewRecord = %#v, want %#v", rec, want)
	}
}

func TestKeysOrderAndDedup(t *testing.T) {
	rec := models.TitleRecord{
		MainTitle: "The Promised Neverland",
		Aliases:   []string{"Yakusoku no Nebarando", "Promised Neverland", "yakusoku no nebarando"},
	}
	got := Keys(rec)
	want := []string{"promised neverland", "yakusoku no nebarando"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("Keys = %v, want %v", got, want)
	}
}

func TestBuildIndexContainsMainKey(t *testing.T) {
	records := []models.TitleRecord{
		NewRecord("The Great Saga", "Saga"),
		NewRecord("A Tale"),
		NewRecord("Berserk", "ベルセルク"),
	}
	idx := BuildIndex(records)
	for pos, rec := range records {
		found := false
		for _, p := range idx.Lookup(Normalize(rec.MainTitle)) {
			if p == pos {
				found = true
			}
		}
		if !found {
			t.Errorf("main key of %q not indexed", rec.MainTitle)
		}
	}
	if idx.Len() != 5 {
		t.Fatalf("Len = %d, want 5", idx.Len())
	}
}

func TestBuildIndexKeepsCollisionsInOrder(t *testing.T) {
	records := []models.TitleRecord{
		NewRecord("Dragon Quest", "DQ"),
		NewRecord("Dragon Quest: Dai no Daibouken", "dq"),
	}
	idx := BuildIndex(records)
	got := idx.Records("dq")
	if len(got) != 2 || got[0].MainTitle != "Dragon Quest" || got[1].MainTitle != "Dragon Quest: Dai no Daibouken" {
		t.Fatalf("Records(dq) = %#v", got)
	}
}

func TestBuildIndexEmpty(t *testing.T) {
	idx := BuildIndex(nil)
	if idx.Len() != 0 {
		t.Fatalf("Len = %d, want 0", idx.Len())
	}
	if idx.Records("anything") != nil {
		t.Fatal("expected no records")
	}
}
