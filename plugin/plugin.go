// Package plugin provides an extensible plugin system for Pantry.
// Plugins can hook into various lifecycle events to extend functionality.
package plugin

import (
	"context"
)

// Plugin is the base interface that all plugins must implement.
type Plugin interface {
	Name() string
}

// ──────────────────────────────────────────────────
// Lifecycle hooks
// ──────────────────────────────────────────────────

// OnInit is called when the plugin is initialized.
type OnInit interface {
	Plugin
	OnInit(ctx context.Context, p interface{}) error
}

// OnShutdown is called when the plugin is shutting down.
type OnShutdown interface {
	Plugin
	OnShutdown(ctx context.Context) error
}

// ──────────────────────────────────────────────────
// Inventory lifecycle hooks
// ──────────────────────────────────────────────────

// OnLotAdded is called when a new lot enters the inventory.
type OnLotAdded interface {
	Plugin
	OnLotAdded(ctx context.Context, l interface{}) error
}

// OnLotConsumed is called after a consume draws from one or more lots.
type OnLotConsumed interface {
	Plugin
	OnLotConsumed(ctx context.Context, name string, draws []interface{}) error
}

// OnLotDiscarded is called after a discard draws from one or more lots.
type OnLotDiscarded interface {
	Plugin
	OnLotDiscarded(ctx context.Context, name string, draws []interface{}) error
}

// OnStockShort is called when a consume is rejected for insufficient stock.
type OnStockShort interface {
	Plugin
	OnStockShort(ctx context.Context, name string, requested, available interface{}) error
}

// OnExpiryUpdated is called when a lot's expiry timestamp is corrected.
type OnExpiryUpdated interface {
	Plugin
	OnExpiryUpdated(ctx context.Context, l interface{}) error
}

// ──────────────────────────────────────────────────
// Shelf-life catalog hooks
// ──────────────────────────────────────────────────

// OnShelfLifeChanged is called when an item's default shelf life is set,
// after any recalculation of derived lot expiries.
type OnShelfLifeChanged interface {
	Plugin
	OnShelfLifeChanged(ctx context.Context, name string, days int, recalculated int) error
}

// ──────────────────────────────────────────────────
// Recipe and reconciliation hooks
// ──────────────────────────────────────────────────

// OnRecipeExtracted is called after a recipe is parsed into ingredients.
type OnRecipeExtracted interface {
	Plugin
	OnRecipeExtracted(ctx context.Context, extraction interface{}) error
}

// OnReconciled is called after a recipe is reconciled against the inventory.
type OnReconciled interface {
	Plugin
	OnReconciled(ctx context.Context, result interface{}) error
}

// ──────────────────────────────────────────────────
// Waste and profile hooks
// ──────────────────────────────────────────────────

// OnWasteRecorded is called when entries are appended to the waste log.
type OnWasteRecorded interface {
	Plugin
	OnWasteRecorded(ctx context.Context, entries []interface{}) error
}

// OnProfileSaved is called when a household profile is created or updated.
type OnProfileSaved interface {
	Plugin
	OnProfileSaved(ctx context.Context, p interface{}) error
}

// ──────────────────────────────────────────────────
// Shelf-life estimators
// ──────────────────────────────────────────────────

// ShelfLifeEstimator provides a custom shelf-life guess for items with no
// catalog entry. The first estimator returning ok wins; the built-in default
// applies when none do.
type ShelfLifeEstimator interface {
	Plugin
	EstimateShelfLife(ctx context.Context, name string) (days int, ok bool)
}
