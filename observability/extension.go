// Package observability provides a metrics extension for Pantry that records
// lifecycle event counts via a MetricFactory.
package observability

import (
	"context"

	"github.com/xraph/pantry/plugin"
)

// Ensure MetricsExtension implements required interfaces.
var (
	_ plugin.Plugin             = (*MetricsExtension)(nil)
	_ plugin.OnInit             = (*MetricsExtension)(nil)
	_ plugin.OnLotAdded         = (*MetricsExtension)(nil)
	_ plugin.OnLotConsumed      = (*MetricsExtension)(nil)
	_ plugin.OnLotDiscarded     = (*MetricsExtension)(nil)
	_ plugin.OnStockShort       = (*MetricsExtension)(nil)
	_ plugin.OnExpiryUpdated    = (*MetricsExtension)(nil)
	_ plugin.OnShelfLifeChanged = (*MetricsExtension)(nil)
	_ plugin.OnRecipeExtracted  = (*MetricsExtension)(nil)
	_ plugin.OnReconciled       = (*MetricsExtension)(nil)
	_ plugin.OnWasteRecorded    = (*MetricsExtension)(nil)
	_ plugin.OnProfileSaved     = (*MetricsExtension)(nil)
)

// Counter interface for metric counters.
type Counter interface {
	Inc()
	Add(float64)
}

// Histogram interface for metric histograms.
type Histogram interface {
	Observe(float64)
}

// MetricFactory creates metrics.
type MetricFactory interface {
	Counter(name string) Counter
	Histogram(name string) Histogram
}

// MetricsExtension records system-wide lifecycle metrics.
// Register it as a Pantry plugin to automatically track inventory metrics.
type MetricsExtension struct {
	factory MetricFactory

	// Lot metrics
	LotAdded      Counter
	LotConsumed   Counter
	LotDiscarded  Counter
	DrawBatchSize Histogram

	// Stock metrics
	StockShort    Counter
	ExpiryUpdated Counter

	// Shelf-life metrics
	ShelfLifeChanged Counter
	LotsRecalculated Counter
	RecalcBatchSize  Histogram

	// Recipe metrics
	RecipesExtracted   Counter
	ExtractionWarnings Histogram
	ReconcileRuns      Counter

	// Waste metrics
	WasteRecorded  Counter
	WasteBatchSize Histogram

	// Profile metrics
	ProfilesSaved Counter

	// Error metrics
	StoreErrors  Counter
	PluginErrors Counter
}

// NewMetricsExtension creates a MetricsExtension with the provided MetricFactory.
// Use app.Metrics() in forge extensions.
func NewMetricsExtension(factory MetricFactory) *MetricsExtension {
	return &MetricsExtension{
		factory: factory,

		// Lot metrics
		LotAdded:      factory.Counter("pantry.lot.added"),
		LotConsumed:   factory.Counter("pantry.lot.consumed"),
		LotDiscarded:  factory.Counter("pantry.lot.discarded"),
		DrawBatchSize: factory.Histogram("pantry.draw.batch.size"),

		// Stock metrics
		StockShort:    factory.Counter("pantry.stock.short"),
		ExpiryUpdated: factory.Counter("pantry.expiry.updated"),

		// Shelf-life metrics
		ShelfLifeChanged: factory.Counter("pantry.shelf_life.changed"),
		LotsRecalculated: factory.Counter("pantry.shelf_life.lots_recalculated"),
		RecalcBatchSize:  factory.Histogram("pantry.shelf_life.recalc.size"),

		// Recipe metrics
		RecipesExtracted:   factory.Counter("pantry.recipe.extracted"),
		ExtractionWarnings: factory.Histogram("pantry.recipe.warnings"),
		ReconcileRuns:      factory.Counter("pantry.reconcile.runs"),

		// Waste metrics
		WasteRecorded:  factory.Counter("pantry.waste.recorded"),
		WasteBatchSize: factory.Histogram("pantry.waste.batch.size"),

		// Profile metrics
		ProfilesSaved: factory.Counter("pantry.profile.saved"),

		// Error metrics
		StoreErrors:  factory.Counter("pantry.store.errors"),
		PluginErrors: factory.Counter("pantry.plugin.errors"),
	}
}

// Name implements plugin.Plugin.
func (m *MetricsExtension) Name() string { return "observability-metrics" }

// OnInit implements plugin.OnInit.
func (m *MetricsExtension) OnInit(_ context.Context, _ interface{}) error {
	// No initialization needed
	return nil
}

// ──────────────────────────────────────────────────
// Inventory lifecycle hooks
// ──────────────────────────────────────────────────

// OnLotAdded implements plugin.OnLotAdded.
func (m *MetricsExtension) OnLotAdded(_ context.Context, _ interface{}) error {
	m.LotAdded.Inc()
	return nil
}

// OnLotConsumed implements plugin.OnLotConsumed.
func (m *MetricsExtension) OnLotConsumed(_ context.Context, _ string, draws []interface{}) error {
	m.LotConsumed.Inc()
	m.DrawBatchSize.Observe(float64(len(draws)))
	return nil
}

// OnLotDiscarded implements plugin.OnLotDiscarded.
func (m *MetricsExtension) OnLotDiscarded(_ context.Context, _ string, draws []interface{}) error {
	m.LotDiscarded.Inc()
	m.DrawBatchSize.Observe(float64(len(draws)))
	return nil
}

// OnStockShort implements plugin.OnStockShort.
func (m *MetricsExtension) OnStockShort(_ context.Context, _ string, _, _ interface{}) error {
	m.StockShort.Inc()
	return nil
}

// OnExpiryUpdated implements plugin.OnExpiryUpdated.
func (m *MetricsExtension) OnExpiryUpdated(_ context.Context, _ interface{}) error {
	m.ExpiryUpdated.Inc()
	return nil
}

// ──────────────────────────────────────────────────
// Shelf-life catalog hooks
// ──────────────────────────────────────────────────

// OnShelfLifeChanged implements plugin.OnShelfLifeChanged.
func (m *MetricsExtension) OnShelfLifeChanged(_ context.Context, _ string, _ int, recalculated int) error {
	m.ShelfLifeChanged.Inc()
	m.LotsRecalculated.Add(float64(recalculated))
	m.RecalcBatchSize.Observe(float64(recalculated))
	return nil
}

// ──────────────────────────────────────────────────
// Recipe and reconciliation hooks
// ──────────────────────────────────────────────────

// OnRecipeExtracted implements plugin.OnRecipeExtracted.
func (m *MetricsExtension) OnRecipeExtracted(_ context.Context, _ interface{}) error {
	m.RecipesExtracted.Inc()
	return nil
}

// OnReconciled implements plugin.OnReconciled.
func (m *MetricsExtension) OnReconciled(_ context.Context, _ interface{}) error {
	m.ReconcileRuns.Inc()
	return nil
}

// ──────────────────────────────────────────────────
// Waste and profile hooks
// ──────────────────────────────────────────────────

// OnWasteRecorded implements plugin.OnWasteRecorded.
func (m *MetricsExtension) OnWasteRecorded(_ context.Context, entries []interface{}) error {
	m.WasteRecorded.Add(float64(len(entries)))
	m.WasteBatchSize.Observe(float64(len(entries)))
	return nil
}

// OnProfileSaved implements plugin.OnProfileSaved.
func (m *MetricsExtension) OnProfileSaved(_ context.Context, _ interface{}) error {
	m.ProfilesSaved.Inc()
	return nil
}
