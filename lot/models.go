package lot

import (
	"time"

	"github.com/xraph/pantry/expiry"
	"github.com/xraph/pantry/id"
	"github.com/xraph/pantry/types"
)

// Status is the persisted lifecycle state of a lot. Freshness tiers
// (fresh/expiring_soon/expired) are computed at read time and never stored;
// only the terminal outcomes are written back. Terminal statuses are
// monotonic: a consumed or discarded lot never becomes active again.
type Status string

const (
	StatusActive    Status = "active"
	StatusConsumed  Status = "consumed"
	StatusDiscarded Status = "discarded"
)

// Terminal reports whether the status can no longer change.
func (s Status) Terminal() bool {
	return s == StatusConsumed || s == StatusDiscarded
}

// Lot is one discrete inventory entry from a single add operation. Each add
// creates a new, independent lot and lots are never merged, so expiry
// ordering between entries is preserved.
type Lot struct {
	types.Entity
	ID           id.LotID       `json:"id"`
	Name         string         `json:"name"` // normalized canonical key
	Quantity     types.Quantity `json:"quantity"`
	EnteredAt    time.Time      `json:"entered_at"`
	ExpiresAt    time.Time      `json:"expires_at"`
	ExpirySource expiry.Source  `json:"expiry_source"`
	Status       Status         `json:"status"`
}

// View is a lot annotated with freshly computed read-time classification.
type View struct {
	Lot
	Freshness     expiry.Freshness `json:"freshness"`
	DaysRemaining int              `json:"days_remaining"`
}

// Draw records how much was taken from one lot during a consume or discard.
type Draw struct {
	LotID    id.LotID       `json:"lot_id"`
	Name     string         `json:"name"`
	Amount   types.Quantity `json:"amount"`
	Depleted bool           `json:"depleted"` // lot reached zero and went terminal
}

// ListOpts filters store-level lot listings. Results are always ordered by
// expiry ascending, then entry time, then ID.
type ListOpts struct {
	Name            string // normalized item name; empty matches all items
	IncludeTerminal bool   // include consumed/discarded lots
	ExpiresBefore   time.Time
	Limit           int
	Offset          int
}
