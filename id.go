package pantry

import "github.com/xraph/pantry/id"

// ID is the primary identifier type for all Pantry entities.
type ID = id.ID

// Prefix identifies the entity type encoded in a TypeID.
type Prefix = id.Prefix
