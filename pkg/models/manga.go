package models

// TitleRecord is one catalog entry: the title it is displayed under plus every
// alternate title it is known by.
//
// Records are built once per catalog entry by a loader and are not modified
// afterwards. Use compare.NewRecord to build one so aliases stay distinct.
type TitleRecord struct {
	MainTitle string   `json:"main_title"`        // display name
	Aliases   []string `json:"aliases,omitempty"` // alternate titles, insertion order
}

// Titles returns the main title followed by every alias.
func (r TitleRecord) Titles() []string {
	out := make([]string, 0, len(r.Aliases)+1)
	out = append(out, r.MainTitle)
	out = append(out, r.Aliases...)
	return out
}

// Match pairs a library record with the reference record it answers to.
type Match struct {
	Library   TitleRecord `json:"library"`
	Reference TitleRecord `json:"reference"`
}

// MatchView is the aggregated, presentation-ready form of a Match.
type MatchView struct {
	LibraryTitle   string   `json:"library_title"`
	ReferenceTitle string   `json:"reference_title"`
	Aliases        []string `json:"aliases"`
}
