// Package report renders comparison results for people: the text report
// file, a console table and a CSV export.
package report

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"mangashelf/pkg/models"
)

const timestampLayout = "2006-01-02 15:04:05"

var (
	headerRule = strings.Repeat("=", 80)
	blockRule  = strings.Repeat("-", 40)
)

// Format renders the full text report.
func Format(views []models.MatchView, at time.Time) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Comparison performed on: %s\n", at.Format(timestampLayout))
	fmt.Fprintf(&b, "Matching Titles Found: %d\n", len(views))
	b.WriteString(headerRule + "\n")

	for i, v := range views {
		fmt.Fprintf(&b, "\nManga #%d:\n", i+1)
		b.WriteString(blockRule + "\n")

		b.WriteString("From Your Library:\n")
		fmt.Fprintf(&b, "  Main: %s\n", v.LibraryTitle)

		b.WriteString("\nFrom Reference List:\n")
		fmt.Fprintf(&b, "  Main: %s\n", v.ReferenceTitle)

		if len(v.Aliases) > 0 {
			b.WriteString("\nAlternative Titles:\n")
			for _, a := range v.Aliases {
				fmt.Fprintf(&b, "  • %s\n", a)
			}
		}
		b.WriteString(blockRule + "\n")
	}
	return b.String()
}

// Save writes the text report to path, replacing any previous report.
func Save(path string, views []models.MatchView, at time.Time) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("ensure report dir: %w: %w", models.ErrPersistence, err)
		}
	}
	if err := os.WriteFile(path, []byte(Format(views, at)), 0o644); err != nil {
		return fmt.Errorf("write report: %w: %w", models.ErrPersistence, err)
	}
	return nil
}
