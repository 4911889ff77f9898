package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/xraph/grove"
	"github.com/xraph/grove/drivers/pgdriver"
	"github.com/xraph/grove/migrate"

	pantry "github.com/xraph/pantry"
	"github.com/xraph/pantry/catalog"
	"github.com/xraph/pantry/expiry"
	"github.com/xraph/pantry/id"
	"github.com/xraph/pantry/lot"
	"github.com/xraph/pantry/profile"
	pantrystore "github.com/xraph/pantry/store"
	"github.com/xraph/pantry/types"
	"github.com/xraph/pantry/waste"
)

// compile-time interface check
var _ pantrystore.Store = (*Store)(nil)

// Store implements store.Store using PostgreSQL via Grove ORM.
type Store struct {
	db *grove.DB
	pg *pgdriver.PgDB
}

// New creates a new PostgreSQL store backed by Grove ORM.
func New(db *grove.DB) *Store {
	return &Store{
		db: db,
		pg: pgdriver.Unwrap(db),
	}
}

// DB returns the underlying grove database for direct access.
func (s *Store) DB() *grove.DB { return s.db }

// Migrate creates the required tables and indexes using the grove orchestrator.
func (s *Store) Migrate(ctx context.Context) error {
	executor, err := migrate.NewExecutorFor(s.pg)
	if err != nil {
		return fmt.Errorf("pantry/postgres: create migration executor: %w", err)
	}
	orch := migrate.NewOrchestrator(executor, Migrations)
	if _, err := orch.Migrate(ctx); err != nil {
		return fmt.Errorf("pantry/postgres: migration failed: %w", err)
	}
	return nil
}

// Ping checks database connectivity.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.Ping(ctx)
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// ==================== Lot Store ====================

func (s *Store) CreateLot(ctx context.Context, l *lot.Lot) error {
	m := toLotModel(l)
	_, err := s.pg.NewInsert(m).Exec(ctx)
	return err
}

func (s *Store) GetLot(ctx context.Context, lotID id.LotID) (*lot.Lot, error) {
	m := new(lotModel)
	err := s.pg.NewSelect(m).
		Where("id = ?", lotID.String()).
		Scan(ctx)
	if err != nil {
		if isNoRows(err) {
			return nil, pantry.ErrLotNotFound
		}
		return nil, err
	}
	return fromLotModel(m)
}

func (s *Store) ListLots(ctx context.Context, opts lot.ListOpts) ([]*lot.Lot, error) {
	var models []lotModel
	q := s.pg.NewSelect(&models)

	if opts.Name != "" {
		q = q.Where("name = ?", opts.Name)
	}
	if !opts.IncludeTerminal {
		q = q.Where("status = ?", string(lot.StatusActive))
	}
	if !opts.ExpiresBefore.IsZero() {
		q = q.Where("expires_at < ?", opts.ExpiresBefore)
	}
	if opts.Limit > 0 {
		q = q.Limit(opts.Limit)
	}
	if opts.Offset > 0 {
		q = q.Offset(opts.Offset)
	}
	q = q.OrderExpr("expires_at ASC, entered_at ASC, id ASC")

	if err := q.Scan(ctx); err != nil {
		return nil, err
	}

	result := make([]*lot.Lot, len(models))
	for i := range models {
		l, err := fromLotModel(&models[i])
		if err != nil {
			return nil, err
		}
		result[i] = l
	}
	return result, nil
}

func (s *Store) UpdateLotQuantity(ctx context.Context, lotID id.LotID, qty types.Quantity, status lot.Status) error {
	if qty.IsNegative() {
		return pantry.ErrInvalidQuantity
	}
	res, err := s.pg.NewUpdate((*lotModel)(nil)).
		Set("qty_amount = ?", qty.Amount).
		Set("qty_unit = ?", string(qty.Unit)).
		Set("status = ?", string(status)).
		Set("updated_at = ?", now()).
		Where("id = ?", lotID.String()).
		Exec(ctx)
	if err != nil {
		return err
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return pantry.ErrLotNotFound
	}
	return nil
}

func (s *Store) UpdateLotExpiry(ctx context.Context, lotID id.LotID, expiresAt time.Time, source expiry.Source) error {
	res, err := s.pg.NewUpdate((*lotModel)(nil)).
		Set("expires_at = ?", expiresAt).
		Set("expiry_source = ?", string(source)).
		Set("updated_at = ?", now()).
		Where("id = ?", lotID.String()).
		Where("status = ?", string(lot.StatusActive)).
		Exec(ctx)
	if err != nil {
		return err
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		// Either missing or already terminal.
		if _, err := s.GetLot(ctx, lotID); err != nil {
			return err
		}
		return pantry.ErrLotTerminal
	}
	return nil
}

func (s *Store) ApplyDraws(ctx context.Context, draws []lot.Draw, terminal lot.Status) error {
	// Validate the whole plan against current rows before writing. The
	// engine serializes draws per item, so the plan cannot race another
	// draw on the same lots.
	for _, d := range draws {
		l, err := s.GetLot(ctx, d.LotID)
		if err != nil {
			return err
		}
		if l.Status.Terminal() {
			return pantry.ErrLotTerminal
		}
		if !types.Convertible(l.Quantity.Unit, d.Amount.Unit) {
			return pantry.UnitMismatchError{Name: l.Name, Have: l.Quantity.Unit, Want: d.Amount.Unit}
		}
		taken, _ := d.Amount.Convert(l.Quantity.Unit)
		if l.Quantity.LessThan(taken) {
			return pantry.InsufficientStockError{Name: l.Name, Requested: d.Amount, Available: l.Quantity}
		}
	}

	for _, d := range draws {
		q := s.pg.NewUpdate((*lotModel)(nil)).
			Set("qty_amount = qty_amount - ?", d.Amount.Amount).
			Set("updated_at = ?", now()).
			Where("id = ?", d.LotID.String()).
			Where("qty_amount >= ?", d.Amount.Amount)
		if d.Depleted {
			q = q.Set("status = ?", string(terminal))
		}
		res, err := q.Exec(ctx)
		if err != nil {
			return err
		}
		rows, err := res.RowsAffected()
		if err != nil {
			return err
		}
		if rows == 0 {
			return pantry.ErrTransactionFailed
		}
	}
	return nil
}

// ==================== Shelf-life Catalog Store ====================

func (s *Store) GetCatalogEntry(ctx context.Context, name string) (*catalog.Entry, error) {
	m := new(catalogModel)
	err := s.pg.NewSelect(m).
		Where("name = ?", name).
		Scan(ctx)
	if err != nil {
		if isNoRows(err) {
			return nil, pantry.ErrCatalogEntryNotFound
		}
		return nil, err
	}
	return fromCatalogModel(m)
}

func (s *Store) UpsertCatalogEntry(ctx context.Context, e *catalog.Entry) error {
	m := toCatalogModel(e)
	_, err := s.pg.NewInsert(m).
		OnConflict("(name) DO UPDATE").
		Set("shelf_life_days = EXCLUDED.shelf_life_days").
		Set("updated_at = EXCLUDED.updated_at").
		Exec(ctx)
	return err
}

func (s *Store) ListCatalogEntries(ctx context.Context) ([]*catalog.Entry, error) {
	var models []catalogModel
	err := s.pg.NewSelect(&models).
		OrderExpr("name ASC").
		Scan(ctx)
	if err != nil {
		return nil, err
	}

	result := make([]*catalog.Entry, len(models))
	for i := range models {
		e, err := fromCatalogModel(&models[i])
		if err != nil {
			return nil, err
		}
		result[i] = e
	}
	return result, nil
}

// ==================== Profile Store ====================

func (s *Store) GetProfile(ctx context.Context, name string) (*profile.Profile, error) {
	m := new(profileModel)
	err := s.pg.NewSelect(m).
		Where("name = ?", name).
		Scan(ctx)
	if err != nil {
		if isNoRows(err) {
			return nil, pantry.ErrProfileNotFound
		}
		return nil, err
	}
	return fromProfileModel(m)
}

func (s *Store) UpsertProfile(ctx context.Context, p *profile.Profile) error {
	m := toProfileModel(p)
	_, err := s.pg.NewInsert(m).
		OnConflict("(name) DO UPDATE").
		Set("allergens = EXCLUDED.allergens").
		Set("avoid = EXCLUDED.avoid").
		Set("diet_pattern = EXCLUDED.diet_pattern").
		Set("near_expiry_days = EXCLUDED.near_expiry_days").
		Set("updated_at = EXCLUDED.updated_at").
		Exec(ctx)
	return err
}

func (s *Store) ListProfiles(ctx context.Context) ([]*profile.Profile, error) {
	var models []profileModel
	err := s.pg.NewSelect(&models).
		OrderExpr("name ASC").
		Scan(ctx)
	if err != nil {
		return nil, err
	}

	result := make([]*profile.Profile, len(models))
	for i := range models {
		p, err := fromProfileModel(&models[i])
		if err != nil {
			return nil, err
		}
		result[i] = p
	}
	return result, nil
}

func (s *Store) DeleteProfile(ctx context.Context, name string) error {
	res, err := s.pg.NewDelete((*profileModel)(nil)).
		Where("name = ?", name).
		Exec(ctx)
	if err != nil {
		return err
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return pantry.ErrProfileNotFound
	}
	return nil
}

// ==================== Waste Store ====================

func (s *Store) RecordWaste(ctx context.Context, entries []*waste.Entry) error {
	if len(entries) == 0 {
		return nil
	}
	models := make([]wasteModel, len(entries))
	for i, e := range entries {
		models[i] = *toWasteModel(e)
	}
	_, err := s.pg.NewInsert(&models).Exec(ctx)
	return err
}

func (s *Store) QueryWaste(ctx context.Context, opts waste.QueryOpts) ([]*waste.Entry, error) {
	var models []wasteModel
	q := s.pg.NewSelect(&models)

	if opts.Name != "" {
		q = q.Where("name = ?", opts.Name)
	}
	if !opts.Start.IsZero() {
		q = q.Where("discarded_at >= ?", opts.Start)
	}
	if !opts.End.IsZero() {
		q = q.Where("discarded_at < ?", opts.End)
	}
	if opts.Limit > 0 {
		q = q.Limit(opts.Limit)
	}
	if opts.Offset > 0 {
		q = q.Offset(opts.Offset)
	}
	q = q.OrderExpr("discarded_at DESC")

	if err := q.Scan(ctx); err != nil {
		return nil, err
	}

	result := make([]*waste.Entry, len(models))
	for i := range models {
		e, err := fromWasteModel(&models[i])
		if err != nil {
			return nil, err
		}
		result[i] = e
	}
	return result, nil
}

// ==================== Helpers ====================

// now returns the current UTC time.
func now() time.Time {
	return time.Now().UTC()
}

// isNoRows checks for the standard sql.ErrNoRows sentinel.
func isNoRows(err error) bool {
	return errors.Is(err, sql.ErrNoRows)
}
