package store

import (
	"context"
	"time"

	"github.com/xraph/pantry/catalog"
	"github.com/xraph/pantry/expiry"
	"github.com/xraph/pantry/id"
	"github.com/xraph/pantry/lot"
	"github.com/xraph/pantry/profile"
	"github.com/xraph/pantry/types"
	"github.com/xraph/pantry/waste"
)

// Store is the unified storage interface for all Pantry entities.
// Instead of embedding the sub-interfaces, we explicitly declare all methods
// to avoid naming conflicts.
type Store interface {
	// Lot methods
	CreateLot(ctx context.Context, l *lot.Lot) error
	GetLot(ctx context.Context, lotID id.LotID) (*lot.Lot, error)
	ListLots(ctx context.Context, opts lot.ListOpts) ([]*lot.Lot, error)
	UpdateLotQuantity(ctx context.Context, lotID id.LotID, qty types.Quantity, status lot.Status) error
	UpdateLotExpiry(ctx context.Context, lotID id.LotID, expiresAt time.Time, source expiry.Source) error
	ApplyDraws(ctx context.Context, draws []lot.Draw, terminal lot.Status) error

	// Shelf-life catalog methods
	GetCatalogEntry(ctx context.Context, name string) (*catalog.Entry, error)
	UpsertCatalogEntry(ctx context.Context, e *catalog.Entry) error
	ListCatalogEntries(ctx context.Context) ([]*catalog.Entry, error)

	// Profile methods
	GetProfile(ctx context.Context, name string) (*profile.Profile, error)
	UpsertProfile(ctx context.Context, p *profile.Profile) error
	ListProfiles(ctx context.Context) ([]*profile.Profile, error)
	DeleteProfile(ctx context.Context, name string) error

	// Waste log methods
	RecordWaste(ctx context.Context, entries []*waste.Entry) error
	QueryWaste(ctx context.Context, opts waste.QueryOpts) ([]*waste.Entry, error)

	// Core methods
	Migrate(ctx context.Context) error
	Ping(ctx context.Context) error
	Close() error
}
