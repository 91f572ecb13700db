package ingest

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"mangashelf/pkg/models"
)

func newTestParser(t *testing.T) *Parser {
	t.Helper()
	p, err := NewParser()
	if err != nil {
		t.Fatalf("NewParser: %v", err)
	}
	return p
}

func TestParseExport(t *testing.T) {
	doc := `{
	  "result": "ok",
	  "data": [
	    {
	      "id": "a1",
	      "attributes": {
	        "title": {"ja-ro": "Yakusoku no Neverland", "en": "The Promised Neverland"},
	        "altTitles": [
	          {"ja": "約束のネバーランド"},
	          {"ja-ro": "Yakusoku no Neverland"},
	          {"en": "The Promised Neverland"},
	          {"ja": "約束のネバーランド"}
	        ]
	      }
	    },
	    {
	      "id": "a2",
	      "attributes": {
	        "title": {"ko": "나 혼자만 레벨업", "ja-ro": "Ore dake Level Up na Ken"},
	        "altTitles": [{"en": "<b>Solo Leveling</b>"}, {"en": "<i>Tom &amp; Jerry</i>"}]
	      }
	    },
	    {
	      "id": "a3",
	      "attributes": {
	        "title": {},
	        "altTitles": [{"en": "Orphaned Alt"}, {"fr": "Deuxième"}]
	      }
	    },
	    {"id": "a4", "attributes": {"title": {"en": "  "}, "altTitles": []}},
	    {"id": "a5"}
	  ]
	}`

	got, err := newTestParser(t).Parse([]byte(doc))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	want := []models.TitleRecord{
		{MainTitle: "The Promised Neverland", Aliases: []string{"約束のネバーランド", "Yakusoku no Neverland"}},
		{MainTitle: "나 혼자만 레벨업", Aliases: []string{"Solo Leveling", "Tom & Jerry"}},
		{MainTitle: "Orphaned Alt", Aliases: []string{"Deuxième"}},
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("Parse = %#v, want %#v", got, want)
	}
}

func TestParseMalformed(t *testing.T) {
	p := newTestParser(t)
	inputs := map[string]string{
		"invalid json":   `{"data": [`,
		"missing data":   `{"results": []}`,
		"data not array": `{"data": {"id": "x"}}`,
		"top-level list": `[{"attributes": {}}]`,
	}
	for name, in := range inputs {
		t.Run(name, func(t *testing.T) {
			got, err := p.Parse([]byte(in))
			if !errors.Is(err, models.ErrMalformedSource) {
				t.Fatalf("err = %v, want ErrMalformedSource", err)
			}
			if len(got) != 0 {
				t.Fatalf("expected no records, got %#v", got)
			}
		})
	}
}

func TestParseFile(t *testing.T) {
	p := newTestParser(t)
	dir := t.TempDir()

	if _, err := p.ParseFile(filepath.Join(dir, "missing.json")); !errors.Is(err, models.ErrMissingSource) {
		t.Fatalf("missing err = %v", err)
	}

	empty := filepath.Join(dir, "mangas.json")
	if err := os.WriteFile(empty, nil, 0o644); err != nil {
		t.Fatal(err)
	}
	got, err := p.ParseFile(empty)
	if err != nil || len(got) != 0 {
		t.Fatalf("empty file = %#v, %v", got, err)
	}
}

func TestParseKeepsBracketedTitles(t *testing.T) {
	doc := `{"data": [{"attributes": {
	  "title": {"en": "Kono Oto Tomare! <Sounds of Life>"},
	  "altTitles": [
	    {"en": "I <3 You"},
	    {"en": "Tom &amp; Jerry"},
	    {"en": "<Infinite Dendrogram>"},
	    {"en": "<b>Bold</b> <Not A Tag>"},
	    {"en": "<S>"}
	  ]
	}}]}`

	got, err := newTestParser(t).Parse([]byte(doc))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	want := []models.TitleRecord{{
		MainTitle: "Kono Oto Tomare! <Sounds of Life>",
		Aliases:   []string{"I <3 You", "Tom &amp; Jerry", "<Infinite Dendrogram>", "<b>Bold</b> <Not A Tag>", "<S>"},
	}}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("Parse = %#v, want %#v", got, want)
	}
}
