package sync

import "time"

const (
	EventCompareCompleted = "compare.completed"
	EventIngestCompleted  = "ingest.completed"
)

// CompareEvent is broadcast after a comparison run finishes.
type CompareEvent struct {
	Type            string    `json:"type"` // "compare.completed"
	RunID           string    `json:"run_id"`
	LibrarySource   string    `json:"library_source"`
	ReferenceSource string    `json:"reference_source"`
	MatchCount      int       `json:"match_count"`
	Collisions      int       `json:"collisions,omitempty"`
	At              time.Time `json:"at"`
}

// IngestEvent is broadcast after export entries were appended to the library.
type IngestEvent struct {
	Type     string    `json:"type"` // "ingest.completed"
	RunID    string    `json:"run_id"`
	Library  string    `json:"library"`
	Entries  int       `json:"entries"`
	Archived []string  `json:"archived,omitempty"`
	At       time.Time `json:"at"`
}

// Envelope is the common part of every event, used by readers that switch on
// Type before decoding the rest.
type Envelope struct {
	Type  string `json:"type"`
	RunID string `json:"run_id,omitempty"`
}
