package compare

import (
	"sort"

	"golang.org/x/text/cases"

	"mangashelf/pkg/models"
)

// Aggregate merges the aliases known on both sides of a match into a display
// record. Aliases byte-equal to either main title are dropped; the rest are
// de-duplicated and sorted case-insensitively. Neither record is modified.
func Aggregate(m models.Match) models.MatchView {
	view := models.MatchView{
		LibraryTitle:   m.Library.MainTitle,
		ReferenceTitle: m.Reference.MainTitle,
		Aliases:        []string{},
	}

	seen := map[string]struct{}{
		view.LibraryTitle:   {},
		view.ReferenceTitle: {},
	}
	for _, list := range [][]string{m.Library.Aliases, m.Reference.Aliases} {
		for _, a := range list {
			if _, ok := seen[a]; ok {
				continue
			}
			seen[a] = struct{}{}
			view.Aliases = append(view.Aliases, a)
		}
	}

	fold := cases.Fold()
	sort.SliceStable(view.Aliases, func(i, j int) bool {
		return lessFold(fold, view.Aliases[i], view.Aliases[j])
	})
	return view
}

// Views aggregates every match and orders the result by library title,
// case-insensitively. Equal titles keep discovery order.
func Views(matches []models.Match) []models.MatchView {
	views := make([]models.MatchView, 0, len(matches))
	for _, m := range matches {
		views = append(views, Aggregate(m))
	}
	// Casers keep state, so each call gets its own.
	fold := cases.Fold()
	sort.SliceStable(views, func(i, j int) bool {
		return fold.String(views[i].LibraryTitle) < fold.String(views[j].LibraryTitle)
	})
	return views
}

func lessFold(fold cases.Caser, a, b string) bool {
	fa, fb := fold.String(a), fold.String(b)
	if fa != fb {
		return fa < fb
	}
	return a < b
}
