package waste

import (
	"time"

	"github.com/xraph/pantry/id"
	"github.com/xraph/pantry/types"
)

// Reason records why stock was thrown away.
type Reason string

const (
	ReasonExpired   Reason = "expired"
	ReasonSpoiled   Reason = "spoiled"
	ReasonDiscarded Reason = "discarded" // unspecified manual discard
)

// Entry is one waste log record, written whenever a discard draws from a
// lot. The log is append-only.
type Entry struct {
	types.Entity
	ID          id.WasteID     `json:"id"`
	LotID       id.LotID       `json:"lot_id"`
	Name        string         `json:"name"`
	Quantity    types.Quantity `json:"quantity"`
	Reason      Reason         `json:"reason"`
	DiscardedAt time.Time      `json:"discarded_at"`
}

// QueryOpts filters waste log listings.
type QueryOpts struct {
	Name   string
	Start  time.Time
	End    time.Time
	Limit  int
	Offset int
}
