package reference

import (
	"errors"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"mangashelf/pkg/models"
)

func TestParse(t *testing.T) {
	input := "Title,Alt Title,Notes\n" +
		"NARUTO\n" +
		"Promised Neverland,Yakusoku no Nebarando,removed\n" +
		"\n" +
		" ,orphan alt\n" +
		"\"Kaguya-sama: Love Is War\", \n" +
		"Berserk,berserk\n"

	got, err := Parse(strings.NewReader(input))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	want := []models.TitleRecord{
		{MainTitle: "NARUTO"},
		{MainTitle: "Promised Neverland", Aliases: []string{"Yakusoku no Nebarando"}},
		{MainTitle: "Kaguya-sama: Love Is War"},
		{MainTitle: "Berserk"},
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("Parse = %#v, want %#v", got, want)
	}
}

func TestParseHeaderOnly(t *testing.T) {
	got, err := Parse(strings.NewReader("Title,Alt\n"))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("expected no records, got %#v", got)
	}
}

func TestParseEmptyInput(t *testing.T) {
	got, err := Parse(strings.NewReader(""))
	if err != nil || got != nil {
		t.Fatalf("Parse(\"\") = %#v, %v", got, err)
	}
}

func TestLoadMissing(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.csv"))
	if !errors.Is(err, models.ErrMissingSource) {
		t.Fatalf("err = %v, want ErrMissingSource", err)
	}
}
