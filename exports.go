package pantry

import "github.com/xraph/pantry/types"

// Re-export common types for convenience so users don't have to import types package.

// Quantity is re-exported from types package.
type Quantity = types.Quantity

// Unit is re-exported from types package.
type Unit = types.Unit

// Entity is re-exported from types package.
type Entity = types.Entity

// Re-export Quantity constructors
var (
	Grams       = types.Grams
	Kilograms   = types.Kilograms
	Milliliters = types.Milliliters
	Liters      = types.Liters
	Pieces      = types.Pieces
	Portions    = types.Portions
	ZeroOf      = types.ZeroOf
)

// Re-export Entity constructor
var NewEntity = types.NewEntity
