package library

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gofrs/flock"

	"mangashelf/pkg/models"
)

const timestampLayout = "2006-01-02 15:04:05"

var (
	batchRule = strings.Repeat("=", 80)
	entryRule = strings.Repeat("-", 40)
)

// AppendOptions tunes Append.
type AppendOptions struct {
	// At is the batch timestamp; zero means now.
	At time.Time
	// OnEntry is called after each entry is written.
	OnEntry func(n int, rec models.TitleRecord)
}

// FormatEntry renders one record the way it is stored in the library file.
func FormatEntry(rec models.TitleRecord) string {
	var b strings.Builder
	b.WriteString(mainTitlePrefix + " " + rec.MainTitle + "\n")

	var aliases []string
	for _, a := range rec.Aliases {
		if a != rec.MainTitle {
			aliases = append(aliases, a)
		}
	}
	if len(aliases) > 0 {
		b.WriteString("Alternative Titles:\n")
		for _, a := range aliases {
			b.WriteString(BulletPrefix + a + "\n")
		}
	}
	return b.String()
}

// Append writes records as one timestamped batch at the end of the library
// file, creating it if needed. The file is held under an exclusive lock
// (path + ".lock") for the duration of the write.
func Append(path string, records []models.TitleRecord, opts AppendOptions) error {
	if len(records) == 0 {
		return nil
	}
	at := opts.At
	if at.IsZero() {
		at = time.Now()
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("ensure library dir: %w: %w", models.ErrPersistence, err)
		}
	}

	lock := flock.New(path + ".lock")
	if err := lock.Lock(); err != nil {
		return fmt.Errorf("lock library: %w: %w", models.ErrPersistence, err)
	}
	defer lock.Unlock()

	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open library for append: %w: %w", models.ErrPersistence, err)
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	fmt.Fprintf(w, "\n\nBatch added on: %s\n", at.Format(timestampLayout))
	fmt.Fprintln(w, batchRule)
	for i, rec := range records {
		fmt.Fprintf(w, "\nManga #%d:\n", i+1)
		fmt.Fprintln(w, entryRule)
		w.WriteString(FormatEntry(rec))
		if opts.OnEntry != nil {
			opts.OnEntry(i+1, rec)
		}
	}
	fmt.Fprintln(w, batchRule)

	if err := w.Flush(); err != nil {
		return fmt.Errorf("write library batch: %w: %w", models.ErrPersistence, err)
	}
	if err := f.Sync(); err != nil {
		return fmt.Errorf("sync library: %w: %w", models.ErrPersistence, err)
	}
	return nil
}
