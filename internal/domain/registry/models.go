package registry

import (
	"time"

	"github.com/google/uuid"
)

// PlateRecord is one registry entry. PlateNumber is always canonical
// (normalized before any write) and unique across the registry.
type PlateRecord struct {
	PlateNumber string    `json:"plate_number"`
	OwnerName   string    `json:"owner_name"`
	Department  string    `json:"department"`
	CreatedAt   time.Time `json:"created_at"`
}

// MatchStatus is the terminal state of one resolution pass.
type MatchStatus string

const (
	// StatusMatched means a candidate had a registry hit.
	StatusMatched MatchStatus = "MATCHED"
	// StatusUnmatched means candidates existed but none was registered.
	StatusUnmatched MatchStatus = "UNMATCHED"
	// StatusNoCandidates means the OCR pass produced nothing usable.
	StatusNoCandidates MatchStatus = "NO_CANDIDATES"
)

// MatchResult is the outcome of resolving an ordered candidate list against
// the registry. For StatusMatched, Plate/OwnerName/Department carry the hit.
// For StatusUnmatched, Candidates carries the full list for human review and
// Candidates[0] is the conventional best guess.
type MatchResult struct {
	Status     MatchStatus `json:"status"`
	Plate      string      `json:"plate,omitempty"`
	OwnerName  string      `json:"owner_name,omitempty"`
	Department string      `json:"department,omitempty"`
	Candidates []string    `json:"candidates,omitempty"`
}

// RecognitionEvent is the persisted audit record of one recognition pass.
type RecognitionEvent struct {
	ID           uuid.UUID   `json:"id"`
	Status       MatchStatus `json:"status"`
	MatchedPlate *string     `json:"matched_plate,omitempty"`
	Candidates   []string    `json:"candidates"`
	SnapshotURL  *string     `json:"snapshot_url,omitempty"`
	CreatedAt    time.Time   `json:"created_at"`
}

// ImportRow is one logical row of a bulk-import table, already reduced to the
// three required fields.
type ImportRow struct {
	Plate      string
	Name       string
	Department string
}

// ImportReport summarizes one bulk-import run. Failed counts rows skipped
// because the canonical plate already existed; duplicates are routine, not
// fatal.
type ImportReport struct {
	Total   int `json:"total"`
	Success int `json:"success"`
	Failed  int `json:"failed"`
}
