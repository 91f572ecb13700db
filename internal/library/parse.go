// Package library reads and appends the flat-text personal library file.
//
// The file is a sequence of entries. A line starting with "Main Title:"
// opens an entry; bullet lines ("  • title") below it are its alternate
// titles. Every other line (batch headers, separators, "Manga #n:") is
// decoration and is ignored when reading.
package library

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strings"

	"mangashelf/internal/compare"
	"mangashelf/pkg/models"
)

const (
	mainTitlePrefix = "Main Title:"
	bullet          = "•"
	// BulletPrefix is how alias lines are written.
	BulletPrefix = "  " + bullet + " "
)

// entry accumulates one record while its lines are being read.
type entry struct {
	main    string
	aliases []string
}

func (e *entry) record() models.TitleRecord {
	return compare.NewRecord(e.main, e.aliases...)
}

// Parse reads library records in file order. Each record is complete (main
// title plus all of its bullets) before it is added to the result.
func Parse(r io.Reader) ([]models.TitleRecord, error) {
	var (
		out     []models.TitleRecord
		current *entry
	)

	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())

		if strings.HasPrefix(line, mainTitlePrefix) {
			if current != nil {
				out = append(out, current.record())
			}
			main := strings.TrimSpace(strings.TrimPrefix(line, mainTitlePrefix))
			if main == "" {
				current = nil
				continue
			}
			current = &entry{main: main}
			continue
		}

		if alias, ok := bulletText(line); ok && current != nil {
			current.aliases = append(current.aliases, alias)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("scan library: %w", err)
	}
	if current != nil {
		out = append(out, current.record())
	}
	return out, nil
}

// bulletText extracts the title from a trimmed "• title" line.
func bulletText(line string) (string, bool) {
	if !strings.HasPrefix(line, bullet+" ") {
		return "", false
	}
	text := strings.TrimSpace(strings.TrimPrefix(line, bullet))
	return text, text != ""
}

// Load opens and parses the library file at path. A missing file is
// reported as models.ErrMissingSource.
func Load(path string) ([]models.TitleRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("library %s: %w", path, models.ErrMissingSource)
		}
		return nil, fmt.Errorf("open library: %w", err)
	}
	defer f.Close()

	return Parse(f)
}
