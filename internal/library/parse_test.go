package library

import (
	"errors"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"mangashelf/pkg/models"
)

const sampleLibrary = `

Batch added on: 2024-03-01 10:00:00
================================================================================

Manga #1:
----------------------------------------
Main Title: The Promised Neverland
Alternative Titles:
  • Yakusoku no Nebarando
  • 約束のネバーランド

Manga #2:
----------------------------------------
Main Title: Naruto
================================================================================


Batch added on: 2024-03-02 10:00:00
================================================================================

Manga #1:
----------------------------------------
Main Title: Shingeki no Kyojin
Alternative Titles:
  • Attack on Titan
  • attack on titan
  • Shingeki no Kyojin
================================================================================
`

func TestParse(t *testing.T) {
	got, err := Parse(strings.NewReader(sampleLibrary))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	want := []models.TitleRecord{
		{MainTitle: "The Promised Neverland", Aliases: []string{"Yakusoku no Nebarando", "約束のネバーランド"}},
		{MainTitle: "Naruto"},
		{MainTitle: "Shingeki no Kyojin", Aliases: []string{"Attack on Titan"}},
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("Parse = %#v, want %#v", got, want)
	}
}

func TestParseIgnoresBulletsWithoutEntry(t *testing.T) {
	input := strings.Join([]string{
		"  • orphan alias",
		"Main Title:",
		"  • belongs to nothing",
		"Main Title: Berserk",
		"•no space is not a bullet",
		"  • ベルセルク",
	}, "\n")
	got, err := Parse(strings.NewReader(input))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	want := []models.TitleRecord{{MainTitle: "Berserk", Aliases: []string{"ベルセルク"}}}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("Parse = %#v, want %#v", got, want)
	}
}

func TestParseEmpty(t *testing.T) {
	got, err := Parse(strings.NewReader(""))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("expected no records, got %d", len(got))
	}
}

func TestLoadMissing(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.txt"))
	if !errors.Is(err, models.ErrMissingSource) {
		t.Fatalf("err = %v, want ErrMissingSource", err)
	}
}
