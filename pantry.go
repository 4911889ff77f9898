package pantry

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/xraph/pantry/catalog"
	"github.com/xraph/pantry/expiry"
	"github.com/xraph/pantry/id"
	"github.com/xraph/pantry/lot"
	"github.com/xraph/pantry/plugin"
	"github.com/xraph/pantry/profile"
	"github.com/xraph/pantry/recipe"
	"github.com/xraph/pantry/reconcile"
	"github.com/xraph/pantry/store"
	"github.com/xraph/pantry/types"
	"github.com/xraph/pantry/waste"
)

// Pantry is the main inventory engine.
type Pantry struct {
	store   store.Store
	plugins *plugin.Registry
	logger  *slog.Logger
	clock   func() time.Time

	// Configuration
	freshnessThresholdDays int
	defaultShelfLifeDays   int

	// Per-item locks serialize read-modify-write mutations on one item
	// while leaving unrelated items concurrent.
	locksMu   sync.Mutex
	itemLocks map[string]*sync.Mutex
}

// New creates a new Pantry instance.
func New(s store.Store, opts ...Option) *Pantry {
	p := &Pantry{
		store:                  s,
		plugins:                plugin.NewRegistry(),
		logger:                 slog.Default(),
		clock:                  func() time.Time { return time.Now().UTC() },
		freshnessThresholdDays: expiry.DefaultFreshnessThresholdDays,
		defaultShelfLifeDays:   expiry.DefaultShelfLifeDays,
		itemLocks:              make(map[string]*sync.Mutex),
	}

	for _, opt := range opts {
		opt(p)
	}

	return p
}

// Option configures a Pantry instance.
type Option func(*Pantry)

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pantry) {
		p.logger = logger
		p.plugins.WithLogger(logger)
	}
}

// WithPlugin registers a plugin.
func WithPlugin(pl plugin.Plugin) Option {
	return func(p *Pantry) {
		_ = p.plugins.Register(pl) //nolint:errcheck // best-effort plugin registration during init
	}
}

// WithClock injects the time source. Tests use this to pin "now".
func WithClock(clock func() time.Time) Option {
	return func(p *Pantry) {
		p.clock = clock
	}
}

// WithFreshnessThreshold sets how many remaining days separate fresh from
// expiring_soon.
func WithFreshnessThreshold(days int) Option {
	return func(p *Pantry) {
		p.freshnessThresholdDays = days
	}
}

// WithDefaultShelfLife sets the fallback shelf life applied when an item has
// neither an explicit expiry nor a catalog default.
func WithDefaultShelfLife(days int) Option {
	return func(p *Pantry) {
		p.defaultShelfLifeDays = days
	}
}

// Start prepares the engine for use.
func (p *Pantry) Start(ctx context.Context) error {
	// Migrate database
	if err := p.store.Migrate(ctx); err != nil {
		return err
	}

	// Initialize plugins
	p.plugins.EmitInit(ctx, p)

	p.logger.Info("pantry started",
		"freshness_threshold_days", p.freshnessThresholdDays,
		"default_shelf_life_days", p.defaultShelfLifeDays,
		"plugins", p.plugins.Count(),
	)

	return nil
}

// Stop shuts down the Pantry.
func (p *Pantry) Stop() error {
	ctx := context.Background()
	p.plugins.EmitShutdown(ctx)

	if err := p.store.Close(); err != nil {
		return err
	}

	p.logger.Info("pantry stopped")
	return nil
}

// Plugins returns the plugin registry.
func (p *Pantry) Plugins() *plugin.Registry {
	return p.plugins
}

// Store returns the underlying store.
func (p *Pantry) Store() store.Store {
	return p.store
}

// lockItem acquires the per-item mutex and returns its release func.
func (p *Pantry) lockItem(name string) func() {
	p.locksMu.Lock()
	m, ok := p.itemLocks[name]
	if !ok {
		m = &sync.Mutex{}
		p.itemLocks[name] = m
	}
	p.locksMu.Unlock()

	m.Lock()
	return m.Unlock
}

// ──────────────────────────────────────────────────
// Lot Management
// ──────────────────────────────────────────────────

// AddLot records a new inventory lot. Every add creates an independent lot;
// lots of the same item are never merged, so their expiry ordering survives.
// When explicitExpiry is nil the expiry is derived from the item's catalog
// shelf life (or a plugin estimate, or the configured fallback).
func (p *Pantry) AddLot(ctx context.Context, name string, qty types.Quantity, enteredAt time.Time, explicitExpiry *time.Time) (*lot.Lot, error) {
	name = types.NormalizeName(name)
	if name == "" {
		return nil, ValidationError{Field: "name", Message: "item name is required"}
	}
	if !qty.IsPositive() {
		return nil, ErrInvalidQuantity
	}
	if enteredAt.IsZero() {
		enteredAt = p.clock()
	}

	unlock := p.lockItem(name)
	defer unlock()

	expiresAt, source, err := p.resolveExpiry(ctx, name, enteredAt, explicitExpiry)
	if err != nil {
		return nil, err
	}

	l := &lot.Lot{
		Entity:       types.NewEntityAt(p.clock()),
		ID:           id.NewLotID(),
		Name:         name,
		Quantity:     qty,
		EnteredAt:    enteredAt.UTC(),
		ExpiresAt:    expiresAt,
		ExpirySource: source,
		Status:       lot.StatusActive,
	}

	if err := p.store.CreateLot(ctx, l); err != nil {
		return nil, err
	}

	p.plugins.EmitLotAdded(ctx, l)
	return l, nil
}

// resolveExpiry picks the expiry timestamp for a new lot: an explicit date
// wins, then the catalog shelf life, then a plugin estimate, then the
// configured fallback.
func (p *Pantry) resolveExpiry(ctx context.Context, name string, enteredAt time.Time, explicit *time.Time) (time.Time, expiry.Source, error) {
	days := 0
	if explicit == nil {
		if e, err := p.store.GetCatalogEntry(ctx, name); err == nil {
			days = e.ShelfLifeDays
		} else if est, ok := p.plugins.EstimateShelfLife(ctx, name); ok {
			days = est
		} else {
			days = p.defaultShelfLifeDays
		}
	}
	return expiry.Resolve(enteredAt, explicit, days)
}

// Consume draws qty of an item from its lots, earliest expiry first. The
// whole request is rejected when the eligible stock cannot cover it; no
// partial draws are persisted. Expired lots never count as eligible stock.
func (p *Pantry) Consume(ctx context.Context, name string, qty types.Quantity) ([]lot.Draw, error) {
	return p.draw(ctx, name, qty, lot.StatusConsumed, "")
}

// Discard throws away qty of an item, earliest expiry first, and records the
// loss in the waste log. A zero quantity discards everything remaining.
func (p *Pantry) Discard(ctx context.Context, name string, qty types.Quantity, reason waste.Reason) ([]lot.Draw, error) {
	if reason == "" {
		reason = waste.ReasonDiscarded
	}
	return p.draw(ctx, name, qty, lot.StatusDiscarded, reason)
}

func (p *Pantry) draw(ctx context.Context, name string, qty types.Quantity, terminal lot.Status, reason waste.Reason) ([]lot.Draw, error) {
	name = types.NormalizeName(name)
	if name == "" {
		return nil, ValidationError{Field: "name", Message: "item name is required"}
	}
	if qty.IsNegative() {
		return nil, ErrInvalidQuantity
	}
	discardAll := qty.IsZero()
	if discardAll && terminal != lot.StatusDiscarded {
		return nil, ErrInvalidQuantity
	}

	unlock := p.lockItem(name)
	defer unlock()

	// Expired stock can be discarded but never consumed.
	now := p.clock()
	candidates, err := p.eligibleLots(ctx, now, name, terminal == lot.StatusDiscarded)
	if err != nil {
		return nil, err
	}
	if len(candidates) == 0 {
		return nil, ErrItemNotFound
	}

	var draws []lot.Draw
	if discardAll {
		for _, l := range candidates {
			draws = append(draws, lot.Draw{
				LotID:    l.ID,
				Name:     name,
				Amount:   l.Quantity,
				Depleted: true,
			})
		}
	} else {
		plan := reconcile.PlanDraws(qty, candidates)
		if plan.UnitMismatch && len(plan.Draws) == 0 {
			return nil, UnitMismatchError{Name: name, Have: candidates[0].Quantity.Unit, Want: qty.Unit}
		}
		if plan.Shortfall.IsPositive() {
			p.plugins.EmitStockShort(ctx, name, qty, plan.Covered)
			return nil, InsufficientStockError{Name: name, Requested: qty, Available: plan.Covered}
		}
		draws = p.toDraws(name, plan, candidates)
	}

	if err := p.store.ApplyDraws(ctx, draws, terminal); err != nil {
		return nil, err
	}

	switch terminal {
	case lot.StatusConsumed:
		p.plugins.EmitLotConsumed(ctx, name, drawValues(draws))
	case lot.StatusDiscarded:
		p.recordWaste(ctx, now, draws, reason)
		p.plugins.EmitLotDiscarded(ctx, name, drawValues(draws))
	}

	return draws, nil
}

// toDraws turns a simulated plan into persistable draws, flagging lots the
// plan empties out.
func (p *Pantry) toDraws(name string, plan reconcile.Plan, candidates []*lot.Lot) []lot.Draw {
	byID := make(map[string]*lot.Lot, len(candidates))
	for _, l := range candidates {
		byID[l.ID.String()] = l
	}

	draws := make([]lot.Draw, 0, len(plan.Draws))
	for _, d := range plan.Draws {
		depleted := false
		if l, ok := byID[d.LotID.String()]; ok {
			if available, err := l.Quantity.Convert(d.Amount.Unit); err == nil {
				depleted = !d.Amount.LessThan(available)
			}
		}
		draws = append(draws, lot.Draw{
			LotID:    d.LotID,
			Name:     name,
			Amount:   d.Amount,
			Depleted: depleted,
		})
	}
	return draws
}

// recordWaste appends one waste entry per discard draw. The waste log is
// advisory; a failed write is logged but does not undo the discard.
func (p *Pantry) recordWaste(ctx context.Context, now time.Time, draws []lot.Draw, reason waste.Reason) {
	entries := make([]*waste.Entry, 0, len(draws))
	for _, d := range draws {
		entries = append(entries, &waste.Entry{
			Entity:      types.NewEntityAt(now),
			ID:          id.NewWasteID(),
			LotID:       d.LotID,
			Name:        d.Name,
			Quantity:    d.Amount,
			Reason:      reason,
			DiscardedAt: now,
		})
	}

	if err := p.store.RecordWaste(ctx, entries); err != nil {
		p.logger.Warn("waste log write failed", "error", err, "entries", len(entries))
		return
	}
	p.plugins.EmitWasteRecorded(ctx, entryValues(entries))
}

// eligibleLots returns the item's active lots in draw order, dropping
// expired lots unless includeExpired is set.
func (p *Pantry) eligibleLots(ctx context.Context, now time.Time, name string, includeExpired bool) ([]*lot.Lot, error) {
	lots, err := p.store.ListLots(ctx, lot.ListOpts{Name: name})
	if err != nil {
		return nil, err
	}

	out := lots[:0]
	for _, l := range lots {
		if l.Status.Terminal() || !l.Quantity.IsPositive() {
			continue
		}
		if !includeExpired {
			f, err := expiry.Classify(now, l.ExpiresAt, p.freshnessThresholdDays)
			if err != nil || f == expiry.Expired {
				continue
			}
		}
		out = append(out, l)
	}
	return out, nil
}

// ──────────────────────────────────────────────────
// Queries
// ──────────────────────────────────────────────────

// Query lists lots matching opts, each annotated with its read-time
// freshness and remaining days. Terminal lots are excluded unless opts asks
// for them. Querying never mutates anything.
func (p *Pantry) Query(ctx context.Context, opts lot.ListOpts) ([]lot.View, error) {
	opts.Name = types.NormalizeName(opts.Name)

	lots, err := p.store.ListLots(ctx, opts)
	if err != nil {
		return nil, err
	}

	now := p.clock()
	views := make([]lot.View, 0, len(lots))
	for _, l := range lots {
		views = append(views, p.annotate(now, l))
	}
	return views, nil
}

// GetLot fetches a single lot by ID with read-time annotation.
func (p *Pantry) GetLot(ctx context.Context, lotID id.LotID) (*lot.View, error) {
	l, err := p.store.GetLot(ctx, lotID)
	if err != nil {
		return nil, err
	}
	v := p.annotate(p.clock(), l)
	return &v, nil
}

// ListExpiring lists active lots whose expiry falls within the next
// withinDays days, including lots already past their date, earliest first.
func (p *Pantry) ListExpiring(ctx context.Context, withinDays int) ([]lot.View, error) {
	if withinDays < 0 {
		return nil, ErrInvalidInput
	}

	now := p.clock()
	lots, err := p.store.ListLots(ctx, lot.ListOpts{
		ExpiresBefore: now.AddDate(0, 0, withinDays+1),
	})
	if err != nil {
		return nil, err
	}

	views := make([]lot.View, 0, len(lots))
	for _, l := range lots {
		if expiry.DaysRemaining(now, l.ExpiresAt) > withinDays {
			continue
		}
		views = append(views, p.annotate(now, l))
	}
	return views, nil
}

func (p *Pantry) annotate(now time.Time, l *lot.Lot) lot.View {
	f, err := expiry.Classify(now, l.ExpiresAt, p.freshnessThresholdDays)
	if err != nil {
		f = expiry.Expired
	}
	return lot.View{
		Lot:           *l,
		Freshness:     f,
		DaysRemaining: expiry.DaysRemaining(now, l.ExpiresAt),
	}
}

// ──────────────────────────────────────────────────
// Shelf Life & Expiry Amendment
// ──────────────────────────────────────────────────

// SetShelfLife upserts the item's default shelf life and recomputes the
// expiry of existing active lots whose expiry came from the old default.
// Lots with a user-supplied expiry are never touched. Returns how many lots
// were recalculated.
func (p *Pantry) SetShelfLife(ctx context.Context, name string, days int) (int, error) {
	name = types.NormalizeName(name)
	if name == "" {
		return 0, ValidationError{Field: "name", Message: "item name is required"}
	}
	if days <= 0 {
		return 0, ErrInvalidShelfLife
	}

	unlock := p.lockItem(name)
	defer unlock()

	entry := &catalog.Entry{
		Entity:        types.NewEntityAt(p.clock()),
		ID:            id.NewCatalogID(),
		Name:          name,
		ShelfLifeDays: days,
	}
	if err := p.store.UpsertCatalogEntry(ctx, entry); err != nil {
		return 0, err
	}

	lots, err := p.store.ListLots(ctx, lot.ListOpts{Name: name})
	if err != nil {
		return 0, err
	}

	recalculated := 0
	for _, l := range lots {
		if l.ExpirySource != expiry.SourceDefault {
			continue
		}
		newExpiry := l.EnteredAt.AddDate(0, 0, days)
		if err := p.store.UpdateLotExpiry(ctx, l.ID, newExpiry, expiry.SourceDefault); err != nil {
			return recalculated, err
		}
		l.ExpiresAt = newExpiry
		recalculated++
		p.plugins.EmitExpiryUpdated(ctx, l)
	}

	p.plugins.EmitShelfLifeChanged(ctx, name, days, recalculated)
	return recalculated, nil
}

// GetShelfLife returns the item's catalog default shelf life in days.
func (p *Pantry) GetShelfLife(ctx context.Context, name string) (int, error) {
	e, err := p.store.GetCatalogEntry(ctx, types.NormalizeName(name))
	if err != nil {
		return 0, err
	}
	return e.ShelfLifeDays, nil
}

// ExpiryScope selects which of an item's lots an expiry amendment hits.
type ExpiryScope string

const (
	ScopeAll      ExpiryScope = "all"
	ScopeEarliest ExpiryScope = "earliest" // lot expiring soonest
	ScopeLatest   ExpiryScope = "latest"   // lot expiring last
)

// UpdateLotExpiry amends one lot's expiry date. The lot's expiry source
// becomes user, so later shelf-life changes leave it alone.
func (p *Pantry) UpdateLotExpiry(ctx context.Context, lotID id.LotID, newExpiry time.Time) (*lot.Lot, error) {
	if newExpiry.IsZero() {
		return nil, ErrInvalidExpiry
	}

	l, err := p.store.GetLot(ctx, lotID)
	if err != nil {
		return nil, err
	}
	if l.Status.Terminal() {
		return nil, ErrLotTerminal
	}

	unlock := p.lockItem(l.Name)
	defer unlock()

	if err := p.store.UpdateLotExpiry(ctx, lotID, newExpiry.UTC(), expiry.SourceUser); err != nil {
		return nil, err
	}

	l.ExpiresAt = newExpiry.UTC()
	l.ExpirySource = expiry.SourceUser
	p.plugins.EmitExpiryUpdated(ctx, l)
	return l, nil
}

// UpdateItemExpiry amends the expiry date of an item's active lots by name.
// Scope picks all of them, only the earliest-expiring, or only the
// latest-expiring. Returns how many lots were amended.
func (p *Pantry) UpdateItemExpiry(ctx context.Context, name string, scope ExpiryScope, newExpiry time.Time) (int, error) {
	if newExpiry.IsZero() {
		return 0, ErrInvalidExpiry
	}
	return p.amendItemExpiry(ctx, name, scope, func(*lot.Lot) time.Time {
		return newExpiry.UTC()
	})
}

// UpdateItemExpiryDays amends an item's active lots to expire the given
// number of days after each lot's entry date.
func (p *Pantry) UpdateItemExpiryDays(ctx context.Context, name string, scope ExpiryScope, days int) (int, error) {
	if days < 0 {
		return 0, ErrInvalidExpiry
	}
	return p.amendItemExpiry(ctx, name, scope, func(l *lot.Lot) time.Time {
		return l.EnteredAt.AddDate(0, 0, days)
	})
}

func (p *Pantry) amendItemExpiry(ctx context.Context, name string, scope ExpiryScope, newExpiry func(*lot.Lot) time.Time) (int, error) {
	name = types.NormalizeName(name)
	if name == "" {
		return 0, ValidationError{Field: "name", Message: "item name is required"}
	}

	unlock := p.lockItem(name)
	defer unlock()

	lots, err := p.store.ListLots(ctx, lot.ListOpts{Name: name})
	if err != nil {
		return 0, err
	}
	if len(lots) == 0 {
		return 0, ErrItemNotFound
	}

	// ListLots orders by expiry ascending.
	switch scope {
	case ScopeEarliest:
		lots = lots[:1]
	case ScopeLatest:
		lots = lots[len(lots)-1:]
	case ScopeAll, "":
	default:
		return 0, ValidationError{Field: "scope", Message: "scope must be all, earliest, or latest"}
	}

	amended := 0
	for _, l := range lots {
		exp := newExpiry(l)
		if err := p.store.UpdateLotExpiry(ctx, l.ID, exp, expiry.SourceUser); err != nil {
			return amended, err
		}
		l.ExpiresAt = exp
		l.ExpirySource = expiry.SourceUser
		amended++
		p.plugins.EmitExpiryUpdated(ctx, l)
	}
	return amended, nil
}

// ──────────────────────────────────────────────────
// Recipe Extraction & Reconciliation
// ──────────────────────────────────────────────────

// ExtractRecipe parses free-form recipe text into normalized ingredients.
// Unparseable lines become warnings on the result, never failures.
func (p *Pantry) ExtractRecipe(ctx context.Context, text string) (*recipe.Extraction, error) {
	if strings.TrimSpace(text) == "" {
		return nil, ErrInvalidInput
	}

	ext := recipe.Extract(text)
	p.plugins.EmitRecipeExtracted(ctx, &ext)
	return &ext, nil
}

// ExtractRecipeHTML pulls a schema.org Recipe out of a fetched HTML page
// and parses its ingredient lines. Fetching the page is the caller's job.
func (p *Pantry) ExtractRecipeHTML(ctx context.Context, htmlText string) (*recipe.Extraction, error) {
	if strings.TrimSpace(htmlText) == "" {
		return nil, ErrInvalidInput
	}

	ext := recipe.ExtractHTML(htmlText)
	p.plugins.EmitRecipeExtracted(ctx, &ext)
	return &ext, nil
}

// Reconcile simulates cooking the given ingredients against current stock:
// what each ingredient would draw, what is short, and any dietary warnings
// from saved profiles. Nothing is mutated; the shortfalls double as a
// shopping list.
func (p *Pantry) Reconcile(ctx context.Context, ingredients []recipe.Ingredient) (*reconcile.Result, error) {
	if len(ingredients) == 0 {
		return nil, ErrNoIngredients
	}

	lots, err := p.store.ListLots(ctx, lot.ListOpts{})
	if err != nil {
		return nil, err
	}
	profiles, err := p.store.ListProfiles(ctx)
	if err != nil {
		return nil, err
	}

	result := reconcile.Reconcile(p.clock(), ingredients, lots, profiles)
	p.plugins.EmitReconciled(ctx, result)
	return result, nil
}

// CheckRecipe extracts ingredients from recipe text and reconciles them
// against stock in one call.
func (p *Pantry) CheckRecipe(ctx context.Context, text string) (*recipe.Extraction, *reconcile.Result, error) {
	ext, err := p.ExtractRecipe(ctx, text)
	if err != nil {
		return nil, nil, err
	}
	if len(ext.Ingredients) == 0 {
		return ext, nil, ErrNoIngredients
	}

	result, err := p.Reconcile(ctx, ext.Ingredients)
	if err != nil {
		return ext, nil, err
	}
	return ext, result, nil
}

// ──────────────────────────────────────────────────
// Profiles & Waste
// ──────────────────────────────────────────────────

// SaveProfile upserts a household member's dietary profile.
func (p *Pantry) SaveProfile(ctx context.Context, prof *profile.Profile) error {
	if prof == nil || strings.TrimSpace(prof.Name) == "" {
		return ErrInvalidProfile
	}

	prof.Name = strings.ToLower(strings.TrimSpace(prof.Name))
	if prof.ID.IsNil() {
		prof.ID = id.NewProfileID()
	}
	if prof.CreatedAt.IsZero() {
		prof.Entity = types.NewEntityAt(p.clock())
	}
	if prof.NearExpiryDays <= 0 {
		prof.NearExpiryDays = p.freshnessThresholdDays
	}

	if err := p.store.UpsertProfile(ctx, prof); err != nil {
		return err
	}

	p.plugins.EmitProfileSaved(ctx, prof)
	return nil
}

// GetProfile fetches a profile by member name.
func (p *Pantry) GetProfile(ctx context.Context, name string) (*profile.Profile, error) {
	return p.store.GetProfile(ctx, strings.ToLower(strings.TrimSpace(name)))
}

// ListProfiles lists all saved profiles.
func (p *Pantry) ListProfiles(ctx context.Context) ([]*profile.Profile, error) {
	return p.store.ListProfiles(ctx)
}

// DeleteProfile removes a profile by member name.
func (p *Pantry) DeleteProfile(ctx context.Context, name string) error {
	return p.store.DeleteProfile(ctx, strings.ToLower(strings.TrimSpace(name)))
}

// QueryWaste lists waste log entries matching opts, newest first.
func (p *Pantry) QueryWaste(ctx context.Context, opts waste.QueryOpts) ([]*waste.Entry, error) {
	opts.Name = types.NormalizeName(opts.Name)
	return p.store.QueryWaste(ctx, opts)
}

// ──────────────────────────────────────────────────
// Helpers
// ──────────────────────────────────────────────────

func drawValues(draws []lot.Draw) []interface{} {
	out := make([]interface{}, len(draws))
	for i := range draws {
		out[i] = draws[i]
	}
	return out
}

func entryValues(entries []*waste.Entry) []interface{} {
	out := make([]interface{}, len(entries))
	for i := range entries {
		out[i] = entries[i]
	}
	return out
}
