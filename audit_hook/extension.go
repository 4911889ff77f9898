// Package audithook bridges Pantry lifecycle events to an audit trail backend.
//
// It defines a local Recorder interface so the package does not import
// Chronicle directly. Callers inject a RecorderFunc adapter that bridges
// to Chronicle at wiring time.
package audithook

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/xraph/pantry/lot"
	"github.com/xraph/pantry/plugin"
)

// Compile-time interface checks.
var (
	_ plugin.Plugin             = (*Extension)(nil)
	_ plugin.OnLotAdded         = (*Extension)(nil)
	_ plugin.OnLotConsumed      = (*Extension)(nil)
	_ plugin.OnLotDiscarded     = (*Extension)(nil)
	_ plugin.OnStockShort       = (*Extension)(nil)
	_ plugin.OnExpiryUpdated    = (*Extension)(nil)
	_ plugin.OnShelfLifeChanged = (*Extension)(nil)
	_ plugin.OnRecipeExtracted  = (*Extension)(nil)
	_ plugin.OnReconciled       = (*Extension)(nil)
	_ plugin.OnWasteRecorded    = (*Extension)(nil)
	_ plugin.OnProfileSaved     = (*Extension)(nil)
)

// Recorder is the interface that audit backends must implement.
// This matches chronicle.Emitter but is defined locally so that the
// audit_hook package does not import Chronicle directly; callers inject
// the concrete *chronicle.Chronicle at wiring time.
type Recorder interface {
	Record(ctx context.Context, event *AuditEvent) error
}

// AuditEvent is a local representation of an audit event.
// It mirrors chronicle/audit.Event but avoids a module dependency.
type AuditEvent struct {
	Action     string         `json:"action"`
	Resource   string         `json:"resource"`
	Category   string         `json:"category"`
	ResourceID string         `json:"resource_id,omitempty"`
	Metadata   map[string]any `json:"metadata,omitempty"`
	Outcome    string         `json:"outcome"`
	Severity   string         `json:"severity"`
	Reason     string         `json:"reason,omitempty"`
}

// RecorderFunc is an adapter to use a plain function as a Recorder.
type RecorderFunc func(ctx context.Context, event *AuditEvent) error

// Record implements Recorder.
func (f RecorderFunc) Record(ctx context.Context, event *AuditEvent) error {
	return f(ctx, event)
}

// Extension bridges Pantry lifecycle events to an audit trail backend.
type Extension struct {
	recorder Recorder
	enabled  map[string]bool // nil = all enabled
	logger   *slog.Logger
}

// New creates an Extension that emits audit events through the provided Recorder.
func New(r Recorder, opts ...Option) *Extension {
	e := &Extension{
		recorder: r,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Name implements plugin.Plugin.
func (e *Extension) Name() string { return "audit-hook" }

// ──────────────────────────────────────────────────
// Inventory lifecycle hooks
// ──────────────────────────────────────────────────

// OnLotAdded implements plugin.OnLotAdded.
func (e *Extension) OnLotAdded(ctx context.Context, l interface{}) error {
	resourceID, itemName := lotDetails(l)
	return e.record(ctx, ActionLotAdded, SeverityInfo, OutcomeSuccess,
		ResourceLot, resourceID, CategoryInventory, nil,
		"item", itemName,
	)
}

// OnLotConsumed implements plugin.OnLotConsumed.
func (e *Extension) OnLotConsumed(ctx context.Context, name string, draws []interface{}) error {
	return e.record(ctx, ActionLotConsumed, SeverityInfo, OutcomeSuccess,
		ResourceLot, "", CategoryInventory, nil,
		"item", name,
		"lots_drawn", len(draws),
	)
}

// OnLotDiscarded implements plugin.OnLotDiscarded.
func (e *Extension) OnLotDiscarded(ctx context.Context, name string, draws []interface{}) error {
	return e.record(ctx, ActionLotDiscarded, SeverityWarning, OutcomeSuccess,
		ResourceLot, "", CategoryInventory, nil,
		"item", name,
		"lots_drawn", len(draws),
	)
}

// OnStockShort implements plugin.OnStockShort.
func (e *Extension) OnStockShort(ctx context.Context, name string, requested, available interface{}) error {
	return e.record(ctx, ActionStockShort, SeverityWarning, OutcomeFailure,
		ResourceLot, "", CategoryInventory, nil,
		"item", name,
		"requested", fmt.Sprintf("%v", requested),
		"available", fmt.Sprintf("%v", available),
	)
}

// ──────────────────────────────────────────────────
// Expiry lifecycle hooks
// ──────────────────────────────────────────────────

// OnExpiryUpdated implements plugin.OnExpiryUpdated.
func (e *Extension) OnExpiryUpdated(ctx context.Context, l interface{}) error {
	resourceID, itemName := lotDetails(l)
	return e.record(ctx, ActionExpiryUpdated, SeverityInfo, OutcomeSuccess,
		ResourceLot, resourceID, CategoryExpiry, nil,
		"item", itemName,
	)
}

// OnShelfLifeChanged implements plugin.OnShelfLifeChanged.
func (e *Extension) OnShelfLifeChanged(ctx context.Context, name string, days, recalculated int) error {
	return e.record(ctx, ActionShelfLifeChanged, SeverityInfo, OutcomeSuccess,
		ResourceCatalog, name, CategoryExpiry, nil,
		"item", name,
		"shelf_life_days", days,
		"lots_recalculated", recalculated,
	)
}

// ──────────────────────────────────────────────────
// Recipe lifecycle hooks
// ──────────────────────────────────────────────────

// OnRecipeExtracted implements plugin.OnRecipeExtracted.
func (e *Extension) OnRecipeExtracted(ctx context.Context, _ interface{}) error {
	return e.record(ctx, ActionRecipeExtracted, SeverityInfo, OutcomeSuccess,
		ResourceRecipe, "", CategoryRecipe, nil,
		"event", "recipe_extracted",
	)
}

// OnReconciled implements plugin.OnReconciled.
func (e *Extension) OnReconciled(ctx context.Context, _ interface{}) error {
	return e.record(ctx, ActionReconciled, SeverityInfo, OutcomeSuccess,
		ResourceRecipe, "", CategoryRecipe, nil,
		"event", "reconcile_run",
	)
}

// ──────────────────────────────────────────────────
// Waste and profile hooks
// ──────────────────────────────────────────────────

// OnWasteRecorded implements plugin.OnWasteRecorded.
func (e *Extension) OnWasteRecorded(ctx context.Context, entries []interface{}) error {
	return e.record(ctx, ActionWasteRecorded, SeverityInfo, OutcomeSuccess,
		ResourceWaste, "", CategoryWaste, nil,
		"entries", len(entries),
	)
}

// OnProfileSaved implements plugin.OnProfileSaved.
func (e *Extension) OnProfileSaved(ctx context.Context, _ interface{}) error {
	return e.record(ctx, ActionProfileSaved, SeverityInfo, OutcomeSuccess,
		ResourceProfile, "", CategoryProfile, nil,
		"event", "profile_saved",
	)
}

// ──────────────────────────────────────────────────
// Internal helpers
// ──────────────────────────────────────────────────

// lotDetails pulls identifying fields off a hook payload when it carries a
// concrete lot. Hooks pass interface{} so plugins stay decoupled from the
// engine's types.
func lotDetails(v interface{}) (resourceID, itemName string) {
	if l, ok := v.(*lot.Lot); ok && l != nil {
		return l.ID.String(), l.Name
	}
	return "", ""
}

// record builds and sends an audit event if the action is enabled.
func (e *Extension) record(
	ctx context.Context,
	action, severity, outcome string,
	resource, resourceID, category string,
	err error,
	kvPairs ...any,
) error {
	if e.enabled != nil && !e.enabled[action] {
		return nil
	}

	meta := make(map[string]any, len(kvPairs)/2+1)
	for i := 0; i+1 < len(kvPairs); i += 2 {
		key, ok := kvPairs[i].(string)
		if !ok {
			key = fmt.Sprintf("%v", kvPairs[i])
		}
		meta[key] = kvPairs[i+1]
	}

	var reason string
	if err != nil {
		reason = err.Error()
		meta["error"] = err.Error()
	}

	evt := &AuditEvent{
		Action:     action,
		Resource:   resource,
		Category:   category,
		ResourceID: resourceID,
		Metadata:   meta,
		Outcome:    outcome,
		Severity:   severity,
		Reason:     reason,
	}

	if recErr := e.recorder.Record(ctx, evt); recErr != nil {
		e.logger.Warn("audit_hook: failed to record audit event",
			"action", action,
			"resource_id", resourceID,
			"error", recErr,
		)
	}
	return nil
}
