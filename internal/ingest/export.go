package ingest

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// exportDoc is the subset of a MangaDex list export this package reads.
type exportDoc struct {
	Data []exportManga `json:"data"`
}

type exportManga struct {
	ID         string `json:"id"`
	Attributes struct {
		Title     langTitles   `json:"title"`
		AltTitles []langTitles `json:"altTitles"`
	} `json:"attributes"`
}

type langTitle struct {
	Lang string
	Text string
}

// langTitles is a {"lang": "title"} object decoded in document order, so
// "first language" is stable across runs.
type langTitles []langTitle

func (l *langTitles) UnmarshalJSON(b []byte) error {
	dec := json.NewDecoder(bytes.NewReader(b))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if tok == nil {
		*l = nil
		return nil
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return fmt.Errorf("language map: expected object, got %v", tok)
	}

	var out langTitles
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return err
		}
		key, _ := keyTok.(string)

		var v any
		if err := dec.Decode(&v); err != nil {
			return err
		}
		// non-string values are not titles
		if s, ok := v.(string); ok {
			out = append(out, langTitle{Lang: key, Text: s})
		}
	}
	if _, err := dec.Token(); err != nil {
		return err
	}
	*l = out
	return nil
}

// pick returns the title for lang, or "" if absent or blank.
func (l langTitles) pick(lang string) string {
	for _, t := range l {
		if t.Lang == lang && t.Text != "" {
			return t.Text
		}
	}
	return ""
}
