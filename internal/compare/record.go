package compare

import (
	"strings"

	"mangashelf/pkg/models"
)

// NewRecord builds a TitleRecord from a main title and its alternate titles.
// Blank aliases, aliases equivalent to the main title and aliases equivalent
// to an earlier alias are dropped; the rest keep their order.
func NewRecord(mainTitle string, aliases ...string) models.TitleRecord {
	mainTitle = strings.TrimSpace(mainTitle)
	rec := models.TitleRecord{MainTitle: mainTitle}

	seen := map[string]struct{}{Normalize(mainTitle): {}}
	for _, a := range aliases {
		a = strings.TrimSpace(a)
		if a == "" {
			continue
		}
		key := Normalize(a)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		rec.Aliases = append(rec.Aliases, a)
	}
	return rec
}
