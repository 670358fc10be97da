package fetch

import (
	"time"

	"github.com/google/uuid"

	"github.com/roach88/execdash/internal/records"
)

// Snapshot is the immutable result of one successful FetchAll.
// A new fetch produces a new Snapshot; snapshots are never updated in place.
type Snapshot struct {
	// ID is a time-sortable identifier used to correlate log lines.
	ID string `json:"id"`

	// FetchedAt is when the last response was decoded.
	FetchedAt time.Time `json:"fetched_at"`

	// Source is the API base URL or the directory the payloads came from.
	Source string `json:"source"`

	Financial *records.FinancialPayload `json:"financial"`
	HR        *records.HRPayload        `json:"hr"`
	RND       *records.RNDPayload       `json:"rnd"`
	Security  *records.SecurityPayload  `json:"security"`
}

// Counts returns the number of decoded rows per category.
func (s *Snapshot) Counts() map[records.Category]int {
	return map[records.Category]int{
		records.CategoryFinancial: s.Financial.Len(),
		records.CategoryHR:        s.HR.Len(),
		records.CategoryRND:       s.RND.Len(),
		records.CategorySecurity:  s.Security.Len(),
	}
}

// Skipped returns the number of rows dropped by lenient decoding.
func (s *Snapshot) Skipped() int {
	total := 0
	if s.Financial != nil {
		total += s.Financial.Skipped
	}
	if s.HR != nil {
		total += s.HR.Skipped
	}
	if s.RND != nil {
		total += s.RND.Skipped
	}
	if s.Security != nil {
		total += s.Security.Skipped
	}
	return total
}

// IDGenerator produces snapshot IDs.
type IDGenerator interface {
	Generate() string
}

// UUIDv7Generator generates time-sortable UUIDv7 snapshot IDs.
//
// Thread-safety: UUIDv7Generator is stateless and safe for concurrent use.
type UUIDv7Generator struct{}

// Generate creates a new UUIDv7 and returns it as a hyphenated string.
// Panics if UUID generation fails (should never happen in practice).
func (UUIDv7Generator) Generate() string {
	return uuid.Must(uuid.NewV7()).String()
}
