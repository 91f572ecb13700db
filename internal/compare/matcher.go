package compare

import "mangashelf/pkg/models"

// Collision records a library entry whose selection was not clear-cut: its
// keys reached more than one distinct reference entry, the reference it
// selected was already selected by earlier library entries, or (with
// ExclusiveReferences) every candidate was already taken.
type Collision struct {
	LibraryTitle string   `json:"library_title"`
	Selected     string   `json:"selected,omitempty"` // empty when every candidate was already taken
	Candidates   []string `json:"candidates"`         // reference main titles in walk order
	// SharedWith lists earlier library entries holding the selected
	// reference, or holding the candidates when nothing could be selected.
	SharedWith []string `json:"shared_with,omitempty"`
}

// Result is the outcome of one matching pass.
type Result struct {
	Matches    []models.Match
	Collisions []Collision
}

type options struct {
	exclusive bool
}

// Option adjusts how Match selects reference records.
type Option func(*options)

// ExclusiveReferences lets each reference record be selected by at most one
// library record. Later library records fall through to their next candidate.
func ExclusiveReferences() Option {
	return func(o *options) { o.exclusive = true }
}

// WithExclusive is ExclusiveReferences driven by a flag.
func WithExclusive(on bool) Option {
	return func(o *options) { o.exclusive = on }
}

// Match pairs library records with reference records whose key sets
// intersect.
//
// Library records are visited in catalog order and each produces at most one
// Match. Candidates are walked key by key (main title first, then aliases in
// list order) and, within a key, in reference catalog order; the first one
// reached is selected. By default a reference record can be selected any
// number of times. Library records with no candidate are left out.
func Match(library, reference []models.TitleRecord, opts ...Option) Result {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	var res Result
	if len(library) == 0 || len(reference) == 0 {
		return res
	}

	idx := BuildIndex(reference)
	holders := make(map[int][]string)

	for _, lib := range library {
		candidates := candidatesFor(idx, lib)
		if len(candidates) == 0 {
			continue
		}

		selected := -1
		for _, pos := range candidates {
			if o.exclusive && len(holders[pos]) > 0 {
				continue
			}
			selected = pos
			break
		}

		var shared []string
		if selected >= 0 {
			shared = holders[selected]
		} else {
			for _, pos := range candidates {
				shared = append(shared, holders[pos]...)
			}
		}

		if len(candidates) > 1 || selected < 0 || len(shared) > 0 {
			c := Collision{LibraryTitle: lib.MainTitle}
			for _, pos := range candidates {
				c.Candidates = append(c.Candidates, idx.Record(pos).MainTitle)
			}
			if selected >= 0 {
				c.Selected = idx.Record(selected).MainTitle
			}
			if len(shared) > 0 {
				c.SharedWith = append([]string(nil), shared...)
			}
			res.Collisions = append(res.Collisions, c)
		}

		if selected < 0 {
			continue
		}
		holders[selected] = append(holders[selected], lib.MainTitle)
		res.Matches = append(res.Matches, models.Match{
			Library:   lib,
			Reference: idx.Record(selected),
		})
	}
	return res
}

// candidatesFor returns the distinct reference positions reachable from the
// record's keys, in selection order.
func candidatesFor(idx *Index, rec models.TitleRecord) []int {
	var out []int
	seen := make(map[int]struct{})
	for _, k := range Keys(rec) {
		for _, pos := range idx.Lookup(k) {
			if _, ok := seen[pos]; ok {
				continue
			}
			seen[pos] = struct{}{}
			out = append(out, pos)
		}
	}
	return out
}
