package reconcile

import (
	"time"

	"github.com/xraph/pantry/id"
	"github.com/xraph/pantry/types"
)

// WarningKind classifies a reconciliation advisory.
type WarningKind string

const (
	// WarnUnitMismatch marks an ingredient whose stock is held in a unit
	// that does not convert to the recipe's unit. Coverage for such stock
	// is zero; nothing is guessed.
	WarnUnitMismatch WarningKind = "unit_mismatch"

	// WarnExpiredStock marks an ingredient whose only (or partial) stock
	// has already expired. Expired lots never count toward coverage.
	WarnExpiredStock WarningKind = "expired_stock"

	// WarnAllergen marks an ingredient matching a profile allergen.
	WarnAllergen WarningKind = "allergen"

	// WarnAvoid marks an ingredient a profile prefers to avoid.
	WarnAvoid WarningKind = "avoid"
)

// Warning is one advisory attached to the reconciliation result.
type Warning struct {
	Ingredient string      `json:"ingredient"`
	Kind       WarningKind `json:"kind"`
	Message    string      `json:"message"`
}

// PlannedDraw is one simulated take from a lot, in earliest-expiry-first
// order. Nothing is written; the plan shows what a consume would do.
type PlannedDraw struct {
	LotID     id.LotID       `json:"lot_id"`
	Amount    types.Quantity `json:"amount"`
	ExpiresAt time.Time      `json:"expires_at"`
}

// Item is the per-ingredient outcome of a reconciliation.
type Item struct {
	Name      string         `json:"name"`
	Required  types.Quantity `json:"required"`
	Covered   types.Quantity `json:"covered"`
	Shortfall types.Quantity `json:"shortfall"`
	Draws     []PlannedDraw  `json:"draws,omitempty"`
}

// Short reports whether the ingredient is not fully covered by stock.
func (i Item) Short() bool { return i.Shortfall.IsPositive() }

// Result is a full recipe-against-inventory reconciliation. It is a pure
// read-time computation; running it twice against the same snapshot returns
// the same result.
type Result struct {
	Fulfillable bool      `json:"fulfillable"`
	Items       []Item    `json:"items"`
	Warnings    []Warning `json:"warnings,omitempty"`
}

// ShortItems returns the ingredients with a positive shortfall.
func (r *Result) ShortItems() []Item {
	var out []Item
	for _, it := range r.Items {
		if it.Short() {
			out = append(out, it)
		}
	}
	return out
}
