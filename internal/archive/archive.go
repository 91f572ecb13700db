// Package archive moves processed export files out of the way once their
// entries are in the library.
package archive

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"mangashelf/pkg/models"
)

const stampLayout = "20060102_150405"

// Archiver moves processed files into Dir under a timestamped name.
type Archiver struct {
	Dir string
	Now func() time.Time
}

// New returns an Archiver writing into dir.
func New(dir string) *Archiver {
	return &Archiver{Dir: dir, Now: time.Now}
}

// Archive moves processed into the archive directory as
// "processed_<stamp>_<name>", moves any sibling *.json file whose name
// contains "copy" the same way, and leaves an empty file at processed so the
// next export can be dropped in. It returns the archived paths.
func (a *Archiver) Archive(processed string) ([]string, error) {
	if err := os.MkdirAll(a.Dir, 0o755); err != nil {
		return nil, fmt.Errorf("ensure archive dir: %w: %w", models.ErrPersistence, err)
	}

	now := time.Now
	if a.Now != nil {
		now = a.Now
	}
	prefix := "processed_" + now().Format(stampLayout) + "_"

	var moved []string
	dst := filepath.Join(a.Dir, prefix+filepath.Base(processed))
	if err := move(processed, dst); err != nil {
		return nil, fmt.Errorf("archive %s: %w: %w", processed, models.ErrPersistence, err)
	}
	moved = append(moved, dst)

	related, err := relatedFiles(filepath.Dir(processed))
	if err != nil {
		return moved, fmt.Errorf("list related files: %w: %w", models.ErrPersistence, err)
	}
	for _, src := range related {
		dst := filepath.Join(a.Dir, prefix+filepath.Base(src))
		if err := move(src, dst); err != nil {
			return moved, fmt.Errorf("archive %s: %w: %w", src, models.ErrPersistence, err)
		}
		moved = append(moved, dst)
	}

	f, err := os.Create(processed)
	if err != nil {
		return moved, fmt.Errorf("reset %s: %w: %w", processed, models.ErrPersistence, err)
	}
	if err := f.Close(); err != nil {
		return moved, fmt.Errorf("reset %s: %w: %w", processed, models.ErrPersistence, err)
	}
	return moved, nil
}

// relatedFiles lists leftover export copies ("mangas copy.json" and the like).
func relatedFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	var out []string
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasSuffix(name, ".json") {
			continue
		}
		if strings.Contains(strings.ToLower(name), "copy") {
			out = append(out, filepath.Join(dir, name))
		}
	}
	sort.Strings(out)
	return out, nil
}

// move renames src to dst, copying across filesystems when rename cannot.
func move(src, dst string) error {
	err := os.Rename(src, dst)
	if err == nil {
		return nil
	}
	var linkErr *os.LinkError
	if !errors.As(err, &linkErr) {
		return err
	}

	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	if err := out.Close(); err != nil {
		return err
	}
	return os.Remove(src)
}
