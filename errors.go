package pantry

import (
	"errors"
	"fmt"

	"github.com/xraph/pantry/types"
)

// Sentinel errors for common failure scenarios.
var (
	// General errors
	ErrNotFound      = errors.New("pantry: not found")
	ErrAlreadyExists = errors.New("pantry: already exists")
	ErrInvalidInput  = errors.New("pantry: invalid input")

	// Lot errors
	ErrLotNotFound       = errors.New("pantry: lot not found")
	ErrItemNotFound      = errors.New("pantry: no active lots for item")
	ErrLotTerminal       = errors.New("pantry: lot is consumed or discarded")
	ErrInsufficientStock = errors.New("pantry: insufficient stock")
	ErrUnitMismatch      = errors.New("pantry: unit mismatch")
	ErrInvalidQuantity   = errors.New("pantry: invalid quantity")
	ErrInvalidExpiry     = errors.New("pantry: invalid expiry timestamp")

	// Shelf-life catalog errors
	ErrCatalogEntryNotFound = errors.New("pantry: no shelf life default for item")
	ErrInvalidShelfLife     = errors.New("pantry: shelf life must be positive")

	// Profile errors
	ErrProfileNotFound = errors.New("pantry: profile not found")
	ErrInvalidProfile  = errors.New("pantry: invalid profile")

	// Recipe errors
	ErrNoIngredients = errors.New("pantry: recipe has no ingredients")

	// Store errors
	ErrStoreNotReady     = errors.New("pantry: store not ready")
	ErrStoreClosed       = errors.New("pantry: store is closed")
	ErrTransactionFailed = errors.New("pantry: transaction failed")
	ErrMigrationFailed   = errors.New("pantry: migration failed")
)

// InsufficientStockError carries the shortfall detail for a rejected consume
// or discard. The whole operation is rejected; no partial draw happens.
type InsufficientStockError struct {
	Name      string
	Requested types.Quantity
	Available types.Quantity
}

func (e InsufficientStockError) Error() string {
	return fmt.Sprintf("pantry: insufficient stock of %q: requested %s, available %s",
		e.Name, e.Requested, e.Available)
}

// Unwrap lets errors.Is match ErrInsufficientStock.
func (e InsufficientStockError) Unwrap() error { return ErrInsufficientStock }

// UnitMismatchError reports a requested unit that does not convert to the
// unit the item's stock is held in.
type UnitMismatchError struct {
	Name string
	Have types.Unit
	Want types.Unit
}

func (e UnitMismatchError) Error() string {
	return fmt.Sprintf("pantry: unit mismatch for %q: stock in %s, requested %s",
		e.Name, e.Have, e.Want)
}

// Unwrap lets errors.Is match ErrUnitMismatch.
func (e UnitMismatchError) Unwrap() error { return ErrUnitMismatch }

// ValidationError represents a validation failure with details.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("pantry: validation failed for %s: %s", e.Field, e.Message)
}

// MultiError represents multiple errors that occurred.
type MultiError struct {
	Errors []error
}

func (e MultiError) Error() string {
	if len(e.Errors) == 0 {
		return "pantry: no errors"
	}
	if len(e.Errors) == 1 {
		return e.Errors[0].Error()
	}
	return fmt.Sprintf("pantry: %d errors occurred", len(e.Errors))
}

// Add adds an error to the multi-error.
func (e *MultiError) Add(err error) {
	if err != nil {
		e.Errors = append(e.Errors, err)
	}
}

// HasErrors returns true if there are any errors.
func (e MultiError) HasErrors() bool {
	return len(e.Errors) > 0
}

// First returns the first error or nil.
func (e MultiError) First() error {
	if len(e.Errors) > 0 {
		return e.Errors[0]
	}
	return nil
}

// IsNotFound returns true if the error is a not found error.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound) ||
		errors.Is(err, ErrLotNotFound) ||
		errors.Is(err, ErrItemNotFound) ||
		errors.Is(err, ErrCatalogEntryNotFound) ||
		errors.Is(err, ErrProfileNotFound)
}

// IsStockError returns true if the error is related to stock levels or units.
func IsStockError(err error) bool {
	return errors.Is(err, ErrInsufficientStock) ||
		errors.Is(err, ErrUnitMismatch) ||
		errors.Is(err, ErrInvalidQuantity)
}

// IsRetryable returns true if the error is temporary and the operation can be retried.
func IsRetryable(err error) bool {
	return errors.Is(err, ErrStoreNotReady) ||
		errors.Is(err, ErrTransactionFailed)
}
