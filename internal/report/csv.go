package report

import (
	"encoding/csv"
	"io"
	"strings"

	"mangashelf/pkg/models"
)

// AliasSeparator joins aliases inside the single CSV aliases column.
const AliasSeparator = "; "

// WriteCSV writes one row per match: library title, reference title and the
// aggregated aliases.
func WriteCSV(w io.Writer, views []models.MatchView) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"library_title", "reference_title", "aliases"}); err != nil {
		return err
	}
	for _, v := range views {
		if err := cw.Write([]string{
			v.LibraryTitle,
			v.ReferenceTitle,
			strings.Join(v.Aliases, AliasSeparator),
		}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
