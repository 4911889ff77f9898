package plugin

import (
	"context"
	"fmt"
	"log/slog"
	"reflect"
	"sync"
	"time"
)

// Registry manages all registered plugins and provides efficient dispatch.
// It uses type-cached discovery for O(1) dispatch performance.
type Registry struct {
	mu      sync.RWMutex
	plugins []Plugin
	logger  *slog.Logger

	// Type-cached plugin lists for efficient dispatch
	onInit              []OnInit
	onShutdown          []OnShutdown
	onLotAdded          []OnLotAdded
	onLotConsumed       []OnLotConsumed
	onLotDiscarded      []OnLotDiscarded
	onStockShort        []OnStockShort
	onExpiryUpdated     []OnExpiryUpdated
	onShelfLifeChanged  []OnShelfLifeChanged
	onRecipeExtracted   []OnRecipeExtracted
	onReconciled        []OnReconciled
	onWasteRecorded     []OnWasteRecorded
	onProfileSaved      []OnProfileSaved
	shelfLifeEstimators []ShelfLifeEstimator
}

// NewRegistry creates a new plugin registry.
func NewRegistry() *Registry {
	return &Registry{
		logger: slog.Default(),
	}
}

// WithLogger sets the logger for the registry.
func (r *Registry) WithLogger(logger *slog.Logger) *Registry {
	r.logger = logger
	return r
}

// Register adds a plugin to the registry and caches its interfaces.
func (r *Registry) Register(p Plugin) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	// Check for duplicate
	for _, existing := range r.plugins {
		if existing.Name() == p.Name() {
			return fmt.Errorf("plugin: duplicate registration: %s", p.Name())
		}
	}

	r.plugins = append(r.plugins, p)

	// Type-switch to cache interfaces
	if v, ok := p.(OnInit); ok {
		r.onInit = append(r.onInit, v)
	}
	if v, ok := p.(OnShutdown); ok {
		r.onShutdown = append(r.onShutdown, v)
	}
	if v, ok := p.(OnLotAdded); ok {
		r.onLotAdded = append(r.onLotAdded, v)
	}
	if v, ok := p.(OnLotConsumed); ok {
		r.onLotConsumed = append(r.onLotConsumed, v)
	}
	if v, ok := p.(OnLotDiscarded); ok {
		r.onLotDiscarded = append(r.onLotDiscarded, v)
	}
	if v, ok := p.(OnStockShort); ok {
		r.onStockShort = append(r.onStockShort, v)
	}
	if v, ok := p.(OnExpiryUpdated); ok {
		r.onExpiryUpdated = append(r.onExpiryUpdated, v)
	}
	if v, ok := p.(OnShelfLifeChanged); ok {
		r.onShelfLifeChanged = append(r.onShelfLifeChanged, v)
	}
	if v, ok := p.(OnRecipeExtracted); ok {
		r.onRecipeExtracted = append(r.onRecipeExtracted, v)
	}
	if v, ok := p.(OnReconciled); ok {
		r.onReconciled = append(r.onReconciled, v)
	}
	if v, ok := p.(OnWasteRecorded); ok {
		r.onWasteRecorded = append(r.onWasteRecorded, v)
	}
	if v, ok := p.(OnProfileSaved); ok {
		r.onProfileSaved = append(r.onProfileSaved, v)
	}
	if v, ok := p.(ShelfLifeEstimator); ok {
		r.shelfLifeEstimators = append(r.shelfLifeEstimators, v)
	}

	r.logger.Info("plugin registered",
		"name", p.Name(),
		"interfaces", r.getImplementedInterfaces(p),
	)

	return nil
}

// getImplementedInterfaces returns a list of interfaces implemented by the plugin.
func (r *Registry) getImplementedInterfaces(p Plugin) []string {
	var interfaces []string
	v := reflect.TypeOf(p)

	// Check each interface
	checkInterface := func(iface reflect.Type, name string) {
		if v.Implements(iface) {
			interfaces = append(interfaces, name)
		}
	}

	// List all interfaces to check
	checkInterface(reflect.TypeOf((*OnInit)(nil)).Elem(), "OnInit")
	checkInterface(reflect.TypeOf((*OnShutdown)(nil)).Elem(), "OnShutdown")
	checkInterface(reflect.TypeOf((*OnLotAdded)(nil)).Elem(), "OnLotAdded")
	checkInterface(reflect.TypeOf((*OnLotConsumed)(nil)).Elem(), "OnLotConsumed")
	checkInterface(reflect.TypeOf((*OnLotDiscarded)(nil)).Elem(), "OnLotDiscarded")
	checkInterface(reflect.TypeOf((*OnStockShort)(nil)).Elem(), "OnStockShort")
	checkInterface(reflect.TypeOf((*OnExpiryUpdated)(nil)).Elem(), "OnExpiryUpdated")
	checkInterface(reflect.TypeOf((*OnShelfLifeChanged)(nil)).Elem(), "OnShelfLifeChanged")
	checkInterface(reflect.TypeOf((*OnRecipeExtracted)(nil)).Elem(), "OnRecipeExtracted")
	checkInterface(reflect.TypeOf((*OnReconciled)(nil)).Elem(), "OnReconciled")
	checkInterface(reflect.TypeOf((*OnWasteRecorded)(nil)).Elem(), "OnWasteRecorded")
	checkInterface(reflect.TypeOf((*OnProfileSaved)(nil)).Elem(), "OnProfileSaved")
	checkInterface(reflect.TypeOf((*ShelfLifeEstimator)(nil)).Elem(), "ShelfLifeEstimator")

	return interfaces
}

// Get returns a plugin by name.
func (r *Registry) Get(name string) Plugin {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, p := range r.plugins {
		if p.Name() == name {
			return p
		}
	}
	return nil
}

// List returns all registered plugins.
func (r *Registry) List() []Plugin {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]Plugin, len(r.plugins))
	copy(result, r.plugins)
	return result
}

// Count returns the number of registered plugins.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.plugins)
}

// ──────────────────────────────────────────────────
// Event emission methods
// ──────────────────────────────────────────────────

// EmitInit calls OnInit for all plugins that implement it.
func (r *Registry) EmitInit(ctx context.Context, engine interface{}) {
	r.mu.RLock()
	plugins := r.onInit
	r.mu.RUnlock()

	for _, p := range plugins {
		if err := r.callWithTimeout(ctx, p.Name(), func() error {
			return p.OnInit(ctx, engine)
		}); err != nil {
			r.logger.Warn("plugin OnInit failed",
				"plugin", p.Name(),
				"error", err,
			)
		}
	}
}

// EmitShutdown calls OnShutdown for all plugins that implement it.
func (r *Registry) EmitShutdown(ctx context.Context) {
	r.mu.RLock()
	plugins := r.onShutdown
	r.mu.RUnlock()

	for _, p := range plugins {
		if err := r.callWithTimeout(ctx, p.Name(), func() error {
			return p.OnShutdown(ctx)
		}); err != nil {
			r.logger.Warn("plugin OnShutdown failed",
				"plugin", p.Name(),
				"error", err,
			)
		}
	}
}

// EmitLotAdded emits a lot added event.
func (r *Registry) EmitLotAdded(ctx context.Context, l interface{}) {
	r.mu.RLock()
	plugins := r.onLotAdded
	r.mu.RUnlock()

	for _, p := range plugins {
		if err := r.callWithTimeout(ctx, p.Name(), func() error {
			return p.OnLotAdded(ctx, l)
		}); err != nil {
			r.logger.Warn("plugin OnLotAdded failed",
				"plugin", p.Name(),
				"error", err,
			)
		}
	}
}

// EmitLotConsumed emits a lot consumed event.
func (r *Registry) EmitLotConsumed(ctx context.Context, name string, draws []interface{}) {
	r.mu.RLock()
	plugins := r.onLotConsumed
	r.mu.RUnlock()

	for _, p := range plugins {
		if err := r.callWithTimeout(ctx, p.Name(), func() error {
			return p.OnLotConsumed(ctx, name, draws)
		}); err != nil {
			r.logger.Warn("plugin OnLotConsumed failed",
				"plugin", p.Name(),
				"error", err,
			)
		}
	}
}

// EmitLotDiscarded emits a lot discarded event.
func (r *Registry) EmitLotDiscarded(ctx context.Context, name string, draws []interface{}) {
	r.mu.RLock()
	plugins := r.onLotDiscarded
	r.mu.RUnlock()

	for _, p := range plugins {
		if err := r.callWithTimeout(ctx, p.Name(), func() error {
			return p.OnLotDiscarded(ctx, name, draws)
		}); err != nil {
			r.logger.Warn("plugin OnLotDiscarded failed",
				"plugin", p.Name(),
				"error", err,
			)
		}
	}
}

// EmitStockShort emits a stock short event.
func (r *Registry) EmitStockShort(ctx context.Context, name string, requested, available interface{}) {
	r.mu.RLock()
	plugins := r.onStockShort
	r.mu.RUnlock()

	for _, p := range plugins {
		if err := r.callWithTimeout(ctx, p.Name(), func() error {
			return p.OnStockShort(ctx, name, requested, available)
		}); err != nil {
			r.logger.Warn("plugin OnStockShort failed",
				"plugin", p.Name(),
				"error", err,
			)
		}
	}
}

// EmitExpiryUpdated emits an expiry updated event.
func (r *Registry) EmitExpiryUpdated(ctx context.Context, l interface{}) {
	r.mu.RLock()
	plugins := r.onExpiryUpdated
	r.mu.RUnlock()

	for _, p := range plugins {
		if err := r.callWithTimeout(ctx, p.Name(), func() error {
			return p.OnExpiryUpdated(ctx, l)
		}); err != nil {
			r.logger.Warn("plugin OnExpiryUpdated failed",
				"plugin", p.Name(),
				"error", err,
			)
		}
	}
}

// EmitShelfLifeChanged emits a shelf life changed event.
func (r *Registry) EmitShelfLifeChanged(ctx context.Context, name string, days, recalculated int) {
	r.mu.RLock()
	plugins := r.onShelfLifeChanged
	r.mu.RUnlock()

	for _, p := range plugins {
		if err := r.callWithTimeout(ctx, p.Name(), func() error {
			return p.OnShelfLifeChanged(ctx, name, days, recalculated)
		}); err != nil {
			r.logger.Warn("plugin OnShelfLifeChanged failed",
				"plugin", p.Name(),
				"error", err,
			)
		}
	}
}

// EmitRecipeExtracted emits a recipe extracted event.
func (r *Registry) EmitRecipeExtracted(ctx context.Context, extraction interface{}) {
	r.mu.RLock()
	plugins := r.onRecipeExtracted
	r.mu.RUnlock()

	for _, p := range plugins {
		if err := r.callWithTimeout(ctx, p.Name(), func() error {
			return p.OnRecipeExtracted(ctx, extraction)
		}); err != nil {
			r.logger.Warn("plugin OnRecipeExtracted failed",
				"plugin", p.Name(),
				"error", err,
			)
		}
	}
}

// EmitReconciled emits a reconciled event.
func (r *Registry) EmitReconciled(ctx context.Context, result interface{}) {
	r.mu.RLock()
	plugins := r.onReconciled
	r.mu.RUnlock()

	for _, p := range plugins {
		if err := r.callWithTimeout(ctx, p.Name(), func() error {
			return p.OnReconciled(ctx, result)
		}); err != nil {
			r.logger.Warn("plugin OnReconciled failed",
				"plugin", p.Name(),
				"error", err,
			)
		}
	}
}

// EmitWasteRecorded emits a waste recorded event.
func (r *Registry) EmitWasteRecorded(ctx context.Context, entries []interface{}) {
	r.mu.RLock()
	plugins := r.onWasteRecorded
	r.mu.RUnlock()

	for _, p := range plugins {
		if err := r.callWithTimeout(ctx, p.Name(), func() error {
			return p.OnWasteRecorded(ctx, entries)
		}); err != nil {
			r.logger.Warn("plugin OnWasteRecorded failed",
				"plugin", p.Name(),
				"error", err,
			)
		}
	}
}

// EmitProfileSaved emits a profile saved event.
func (r *Registry) EmitProfileSaved(ctx context.Context, profile interface{}) {
	r.mu.RLock()
	plugins := r.onProfileSaved
	r.mu.RUnlock()

	for _, p := range plugins {
		if err := r.callWithTimeout(ctx, p.Name(), func() error {
			return p.OnProfileSaved(ctx, profile)
		}); err != nil {
			r.logger.Warn("plugin OnProfileSaved failed",
				"plugin", p.Name(),
				"error", err,
			)
		}
	}
}

// EstimateShelfLife consults registered estimators in order and returns the
// first answer. The second return value reports whether any estimator
// answered.
func (r *Registry) EstimateShelfLife(ctx context.Context, name string) (int, bool) {
	r.mu.RLock()
	estimators := r.shelfLifeEstimators
	r.mu.RUnlock()

	for _, e := range estimators {
		if days, ok := e.EstimateShelfLife(ctx, name); ok {
			return days, true
		}
	}
	return 0, false
}

// callWithTimeout calls a plugin function with a timeout.
// Plugins should never block inventory operations.
func (r *Registry) callWithTimeout(ctx context.Context, pluginName string, fn func() error) error {
	done := make(chan error, 1)

	go func() {
		done <- fn()
	}()

	select {
	case err := <-done:
		return err
	case <-time.After(5 * time.Second):
		return fmt.Errorf("plugin timeout: %s", pluginName)
	case <-ctx.Done():
		return ctx.Err()
	}
}
