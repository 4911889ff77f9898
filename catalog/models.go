package catalog

import (
	"github.com/xraph/pantry/id"
	"github.com/xraph/pantry/types"
)

// Entry is a default shelf life for one item, consulted when an add
// supplies no explicit expiry.
type Entry struct {
	types.Entity
	ID            id.CatalogID `json:"id"`
	Name          string       `json:"name"` // normalized canonical key
	ShelfLifeDays int          `json:"shelf_life_days"`
}
