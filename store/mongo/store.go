package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/xraph/grove"
	"github.com/xraph/grove/drivers/mongodriver"

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

// Collection name constants.
const (
	colLots      = "pantry_lots"
	colShelfLife = "pantry_shelf_life_defaults"
	colProfiles  = "pantry_profiles"
	colWasteLog  = "pantry_waste_log"
)

// compile-time interface check
var _ pantrystore.Store = (*Store)(nil)

// Store implements store.Store using MongoDB via Grove ORM.
type Store struct {
	db  *grove.DB
	mdb *mongodriver.MongoDB
}

// New creates a new MongoDB store backed by Grove ORM.
func New(db *grove.DB) *Store {
	return &Store{
		db:  db,
		mdb: mongodriver.Unwrap(db),
	}
}

// DB returns the underlying grove database for direct access.
func (s *Store) DB() *grove.DB { return s.db }

// Migrate creates indexes for all pantry collections.
func (s *Store) Migrate(ctx context.Context) error {
	indexes := migrationIndexes()

	for col, models := range indexes {
		if len(models) == 0 {
			continue
		}
		_, err := s.mdb.Collection(col).Indexes().CreateMany(ctx, models)
		if err != nil {
			return fmt.Errorf("pantry/mongo: migrate %s indexes: %w", col, err)
		}
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
	_, err := s.mdb.NewInsert(m).Exec(ctx)
	if err != nil {
		return fmt.Errorf("pantry/mongo: create lot: %w", err)
	}
	return nil
}

func (s *Store) GetLot(ctx context.Context, lotID id.LotID) (*lot.Lot, error) {
	var m lotModel
	err := s.mdb.NewFind(&m).
		Filter(bson.M{"_id": lotID.String()}).
		Scan(ctx)
	if err != nil {
		if isNoDocuments(err) {
			return nil, pantry.ErrLotNotFound
		}
		return nil, fmt.Errorf("pantry/mongo: get lot: %w", err)
	}
	return fromLotModel(&m)
}

func (s *Store) ListLots(ctx context.Context, opts lot.ListOpts) ([]*lot.Lot, error) {
	var models []lotModel

	filter := bson.M{}
	if opts.Name != "" {
		filter["name"] = opts.Name
	}
	if !opts.IncludeTerminal {
		filter["status"] = string(lot.StatusActive)
	}
	if !opts.ExpiresBefore.IsZero() {
		filter["expires_at"] = bson.M{"$lt": opts.ExpiresBefore}
	}

	q := s.mdb.NewFind(&models).
		Filter(filter).
		Sort(bson.D{{Key: "expires_at", Value: 1}, {Key: "entered_at", Value: 1}, {Key: "_id", Value: 1}})

	if opts.Limit > 0 {
		q = q.Limit(int64(opts.Limit))
	}
	if opts.Offset > 0 {
		q = q.Skip(int64(opts.Offset))
	}

	if err := q.Scan(ctx); err != nil {
		return nil, fmt.Errorf("pantry/mongo: list lots: %w", err)
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
	res, err := s.mdb.NewUpdate((*lotModel)(nil)).
		Filter(bson.M{"_id": lotID.String()}).
		Set("qty_amount", qty.Amount).
		Set("qty_unit", string(qty.Unit)).
		Set("status", string(status)).
		Set("updated_at", now()).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("pantry/mongo: update lot quantity: %w", err)
	}
	if res.MatchedCount() == 0 {
		return pantry.ErrLotNotFound
	}
	return nil
}

func (s *Store) UpdateLotExpiry(ctx context.Context, lotID id.LotID, expiresAt time.Time, source expiry.Source) error {
	res, err := s.mdb.NewUpdate((*lotModel)(nil)).
		Filter(bson.M{"_id": lotID.String(), "status": string(lot.StatusActive)}).
		Set("expires_at", expiresAt).
		Set("expiry_source", string(source)).
		Set("updated_at", now()).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("pantry/mongo: update lot expiry: %w", err)
	}
	if res.MatchedCount() == 0 {
		if _, err := s.GetLot(ctx, lotID); err != nil {
			return err
		}
		return pantry.ErrLotTerminal
	}
	return nil
}

func (s *Store) ApplyDraws(ctx context.Context, draws []lot.Draw, terminal lot.Status) error {
	// Validate the whole plan before writing. The engine serializes draws
	// per item, so the plan cannot race another draw on the same lots.
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
		set := bson.M{"updated_at": now()}
		if d.Depleted {
			set["status"] = string(terminal)
		}
		res, err := s.mdb.NewUpdate((*lotModel)(nil)).
			Filter(bson.M{"_id": d.LotID.String(), "qty_amount": bson.M{"$gte": d.Amount.Amount}}).
			SetUpdate(bson.M{
				"$inc": bson.M{"qty_amount": -d.Amount.Amount},
				"$set": set,
			}).
			Exec(ctx)
		if err != nil {
			return fmt.Errorf("pantry/mongo: apply draw: %w", err)
		}
		if res.MatchedCount() == 0 {
			return pantry.ErrTransactionFailed
		}
	}
	return nil
}

// ==================== Shelf-life Catalog Store ====================

func (s *Store) GetCatalogEntry(ctx context.Context, name string) (*catalog.Entry, error) {
	var m catalogModel
	err := s.mdb.NewFind(&m).
		Filter(bson.M{"name": name}).
		Scan(ctx)
	if err != nil {
		if isNoDocuments(err) {
			return nil, pantry.ErrCatalogEntryNotFound
		}
		return nil, fmt.Errorf("pantry/mongo: get catalog entry: %w", err)
	}
	return fromCatalogModel(&m)
}

func (s *Store) UpsertCatalogEntry(ctx context.Context, e *catalog.Entry) error {
	m := toCatalogModel(e)
	_, err := s.mdb.NewUpdate((*catalogModel)(nil)).
		Filter(bson.M{"name": m.Name}).
		SetUpdate(bson.M{
			"$set": bson.M{
				"shelf_life_days": m.ShelfLifeDays,
				"updated_at":      m.UpdatedAt,
			},
			"$setOnInsert": bson.M{
				"_id":        m.ID,
				"name":       m.Name,
				"created_at": m.CreatedAt,
			},
		}).
		Upsert().
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("pantry/mongo: upsert catalog entry: %w", err)
	}
	return nil
}

func (s *Store) ListCatalogEntries(ctx context.Context) ([]*catalog.Entry, error) {
	var models []catalogModel
	err := s.mdb.NewFind(&models).
		Filter(bson.M{}).
		Sort(bson.D{{Key: "name", Value: 1}}).
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("pantry/mongo: list catalog entries: %w", err)
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
	var m profileModel
	err := s.mdb.NewFind(&m).
		Filter(bson.M{"name": name}).
		Scan(ctx)
	if err != nil {
		if isNoDocuments(err) {
			return nil, pantry.ErrProfileNotFound
		}
		return nil, fmt.Errorf("pantry/mongo: get profile: %w", err)
	}
	return fromProfileModel(&m)
}

func (s *Store) UpsertProfile(ctx context.Context, p *profile.Profile) error {
	m := toProfileModel(p)
	_, err := s.mdb.NewUpdate((*profileModel)(nil)).
		Filter(bson.M{"name": m.Name}).
		SetUpdate(bson.M{
			"$set": bson.M{
				"allergens":        m.Allergens,
				"avoid":            m.Avoid,
				"diet_pattern":     m.DietPattern,
				"near_expiry_days": m.NearExpiryDays,
				"updated_at":       m.UpdatedAt,
			},
			"$setOnInsert": bson.M{
				"_id":        m.ID,
				"name":       m.Name,
				"created_at": m.CreatedAt,
			},
		}).
		Upsert().
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("pantry/mongo: upsert profile: %w", err)
	}
	return nil
}

func (s *Store) ListProfiles(ctx context.Context) ([]*profile.Profile, error) {
	var models []profileModel
	err := s.mdb.NewFind(&models).
		Filter(bson.M{}).
		Sort(bson.D{{Key: "name", Value: 1}}).
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("pantry/mongo: list profiles: %w", err)
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
	res, err := s.mdb.NewDelete((*profileModel)(nil)).
		Filter(bson.M{"name": name}).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("pantry/mongo: delete profile: %w", err)
	}
	if res.DeletedCount() == 0 {
		return pantry.ErrProfileNotFound
	}
	return nil
}

// ==================== Waste Store ====================

func (s *Store) RecordWaste(ctx context.Context, entries []*waste.Entry) error {
	for _, e := range entries {
		m := toWasteModel(e)
		if _, err := s.mdb.NewInsert(m).Exec(ctx); err != nil {
			return fmt.Errorf("pantry/mongo: record waste: %w", err)
		}
	}
	return nil
}

func (s *Store) QueryWaste(ctx context.Context, opts waste.QueryOpts) ([]*waste.Entry, error) {
	var models []wasteModel

	filter := bson.M{}
	if opts.Name != "" {
		filter["name"] = opts.Name
	}
	timeFilter := bson.M{}
	if !opts.Start.IsZero() {
		timeFilter["$gte"] = opts.Start
	}
	if !opts.End.IsZero() {
		timeFilter["$lt"] = opts.End
	}
	if len(timeFilter) > 0 {
		filter["discarded_at"] = timeFilter
	}

	q := s.mdb.NewFind(&models).
		Filter(filter).
		Sort(bson.D{{Key: "discarded_at", Value: -1}})

	if opts.Limit > 0 {
		q = q.Limit(int64(opts.Limit))
	}
	if opts.Offset > 0 {
		q = q.Skip(int64(opts.Offset))
	}

	if err := q.Scan(ctx); err != nil {
		return nil, fmt.Errorf("pantry/mongo: query waste: %w", err)
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

// isNoDocuments checks if an error wraps mongo.ErrNoDocuments.
func isNoDocuments(err error) bool {
	return errors.Is(err, mongo.ErrNoDocuments)
}

// migrationIndexes returns the index definitions for all pantry collections.
func migrationIndexes() map[string][]mongo.IndexModel {
	return map[string][]mongo.IndexModel{
		colLots: {
			{Keys: bson.D{{Key: "name", Value: 1}, {Key: "expires_at", Value: 1}}},
			{Keys: bson.D{{Key: "status", Value: 1}}},
			{Keys: bson.D{{Key: "expires_at", Value: 1}}},
		},
		colShelfLife: {
			{
				Keys:    bson.D{{Key: "name", Value: 1}},
				Options: options.Index().SetUnique(true),
			},
		},
		colProfiles: {
			{
				Keys:    bson.D{{Key: "name", Value: 1}},
				Options: options.Index().SetUnique(true),
			},
		},
		colWasteLog: {
			{Keys: bson.D{{Key: "name", Value: 1}, {Key: "discarded_at", Value: -1}}},
			{Keys: bson.D{{Key: "lot_id", Value: 1}}},
		},
	}
}
