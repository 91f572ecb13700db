// Package ingest turns a MangaDex-style JSON export into library records.
package ingest

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"html"
	"io/fs"
	"os"
	"regexp"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"github.com/xeipuuv/gojsonschema"

	"mangashelf/internal/compare"
	"mangashelf/pkg/models"
)

// DefaultLanguage is the title language preferred for the main title.
const DefaultLanguage = "en"

// Parser validates and flattens export documents. It is safe for concurrent
// use.
type Parser struct {
	Language string

	schema *gojsonschema.Schema
	policy *bluemonday.Policy
}

// NewParser compiles the export schema.
func NewParser() (*Parser, error) {
	schema, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(exportSchema))
	if err != nil {
		return nil, fmt.Errorf("compile export schema: %w", err)
	}
	return &Parser{
		Language: DefaultLanguage,
		schema:   schema,
		policy:   bluemonday.StrictPolicy(),
	}, nil
}

// ParseFile reads an export file. A missing file is models.ErrMissingSource;
// an empty file holds nothing to ingest and yields no records.
func (p *Parser) ParseFile(path string) ([]models.TitleRecord, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("export %s: %w", path, models.ErrMissingSource)
		}
		return nil, fmt.Errorf("read export: %w", err)
	}
	return p.Parse(data)
}

// Parse validates the document shape and returns one record per entry that
// carries at least one title. Invalid JSON or a document without a "data"
// array is models.ErrMalformedSource and yields no records.
func (p *Parser) Parse(data []byte) ([]models.TitleRecord, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, nil
	}

	res, err := p.schema.Validate(gojsonschema.NewBytesLoader(data))
	if err != nil {
		return nil, fmt.Errorf("decode export: %w: %w", models.ErrMalformedSource, err)
	}
	if !res.Valid() {
		msgs := make([]string, 0, len(res.Errors()))
		for _, e := range res.Errors() {
			msgs = append(msgs, e.String())
		}
		return nil, fmt.Errorf("unexpected export shape (%s): %w", strings.Join(msgs, "; "), models.ErrMalformedSource)
	}

	var doc exportDoc
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decode export: %w: %w", models.ErrMalformedSource, err)
	}

	out := make([]models.TitleRecord, 0, len(doc.Data))
	for _, m := range doc.Data {
		if rec, ok := p.record(m); ok {
			out = append(out, rec)
		}
	}
	return out, nil
}

// record extracts the main title (preferred language, else the first one in
// the document) and every alternate title. An entry without a main title
// promotes its first alternate title.
func (p *Parser) record(m exportManga) (models.TitleRecord, bool) {
	main := p.clean(m.Attributes.Title.pick(p.Language))
	if main == "" {
		for _, t := range m.Attributes.Title {
			if main = p.clean(t.Text); main != "" {
				break
			}
		}
	}

	var alts []string
	for _, group := range m.Attributes.AltTitles {
		for _, t := range group {
			if at := p.clean(t.Text); at != "" && at != main {
				alts = appendIfMissing(alts, at)
			}
		}
	}

	if main == "" {
		if len(alts) == 0 {
			return models.TitleRecord{}, false
		}
		main, alts = alts[0], alts[1:]
	}
	return compare.NewRecord(main, alts...), true
}

// htmlElement matches the inline HTML elements exports occasionally wrap
// titles in. Anything else in angle brackets is title text.
var htmlElement = regexp.MustCompile(`(?i)</?(?:a|b|big|br|div|em|font|i|p|s|small|span|strong|sub|sup|u)(?:\s[^<>]*)?/?>`)

// clean trims a title. Titles carrying HTML elements are sanitized, but only
// when the sanitizer removed nothing besides those elements; otherwise the
// title is kept as written.
func (p *Parser) clean(s string) string {
	s = strings.TrimSpace(s)
	if !htmlElement.MatchString(s) {
		return s
	}
	sanitized := html.UnescapeString(p.policy.Sanitize(s))
	if sanitized != html.UnescapeString(htmlElement.ReplaceAllString(s, "")) {
		return s
	}
	if sanitized = strings.TrimSpace(sanitized); sanitized == "" {
		return s
	}
	return sanitized
}

func appendIfMissing(slice []string, v string) []string {
	for _, x := range slice {
		if x == v {
			return slice
		}
	}
	return append(slice, v)
}
