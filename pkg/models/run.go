package models

import "time"

// Run is one comparison between a library and a reference list, as stored in
// the history database and returned by the API.
type Run struct {
	ID              string      `json:"id"`
	StartedAt       time.Time   `json:"started_at"`
	LibrarySource   string      `json:"library_source"`
	ReferenceSource string      `json:"reference_source"`
	LibraryCount    int         `json:"library_count"`
	ReferenceCount  int         `json:"reference_count"`
	MatchCount      int         `json:"match_count"`
	Matches         []MatchView `json:"matches,omitempty"`
}
