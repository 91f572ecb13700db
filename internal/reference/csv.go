// Package reference reads the external reference list: a CSV table whose
// first column is a title and whose optional second column is one alternate
// title.
package reference

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strings"

	"mangashelf/internal/compare"
	"mangashelf/pkg/models"
)

// Parse reads reference records in row order. The first row is a header and
// is skipped; rows with an empty title column are skipped.
func Parse(r io.Reader) ([]models.TitleRecord, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	if _, err := cr.Read(); err != nil {
		if err == io.EOF {
			return nil, nil
		}
		return nil, fmt.Errorf("read header: %w: %w", models.ErrMalformedSource, err)
	}

	var out []models.TitleRecord
	for {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read row: %w: %w", models.ErrMalformedSource, err)
		}

		title := valueAt(row, 0)
		if title == "" {
			continue
		}
		var aliases []string
		if alt := valueAt(row, 1); alt != "" {
			aliases = append(aliases, alt)
		}
		out = append(out, compare.NewRecord(title, aliases...))
	}
	return out, nil
}

func valueAt(row []string, idx int) string {
	if idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

// Load opens and parses the reference CSV at path. A missing file is
// reported as models.ErrMissingSource.
func Load(path string) ([]models.TitleRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("reference %s: %w", path, models.ErrMissingSource)
		}
		return nil, fmt.Errorf("open reference: %w", err)
	}
	defer f.Close()

	return Parse(f)
}
