package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/xraph/pantry"
	"github.com/xraph/pantry/catalog"
	"github.com/xraph/pantry/expiry"
	"github.com/xraph/pantry/id"
	"github.com/xraph/pantry/lot"
	"github.com/xraph/pantry/profile"
	"github.com/xraph/pantry/types"
	"github.com/xraph/pantry/waste"
)

type Store struct {
	mu sync.RWMutex

	// Lot storage
	lots map[string]*lot.Lot

	// Shelf-life catalog, keyed by normalized item name
	catalogEntries map[string]*catalog.Entry

	// Profiles, keyed by lowercased name
	profiles map[string]*profile.Profile

	// Append-only waste log
	wasteLog []waste.Entry
}

func New() *Store {
	return &Store{
		lots:           make(map[string]*lot.Lot),
		catalogEntries: make(map[string]*catalog.Entry),
		profiles:       make(map[string]*profile.Profile),
		wasteLog:       make([]waste.Entry, 0),
	}
}

// Lot Store implementation
func (s *Store) CreateLot(_ context.Context, l *lot.Lot) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.lots[l.ID.String()]; exists {
		return pantry.ErrAlreadyExists
	}
	cp := *l
	s.lots[l.ID.String()] = &cp
	return nil
}

func (s *Store) GetLot(_ context.Context, lotID id.LotID) (*lot.Lot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if l, ok := s.lots[lotID.String()]; ok {
		cp := *l
		return &cp, nil
	}
	return nil, pantry.ErrLotNotFound
}

func (s *Store) ListLots(_ context.Context, opts lot.ListOpts) ([]*lot.Lot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]*lot.Lot, 0)
	for _, l := range s.lots {
		if opts.Name != "" && l.Name != opts.Name {
			continue
		}
		if !opts.IncludeTerminal && l.Status.Terminal() {
			continue
		}
		if !opts.ExpiresBefore.IsZero() && !l.ExpiresAt.Before(opts.ExpiresBefore) {
			continue
		}
		cp := *l
		result = append(result, &cp)
	}

	sortLots(result)

	// Apply limit/offset
	start := opts.Offset
	if start > len(result) {
		start = len(result)
	}
	end := start + opts.Limit
	if opts.Limit == 0 || end > len(result) {
		end = len(result)
	}

	return result[start:end], nil
}

func (s *Store) UpdateLotQuantity(_ context.Context, lotID id.LotID, qty types.Quantity, status lot.Status) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	l, exists := s.lots[lotID.String()]
	if !exists {
		return pantry.ErrLotNotFound
	}
	if qty.IsNegative() {
		return pantry.ErrInvalidQuantity
	}

	l.Quantity = qty
	l.Status = status
	l.Touch()
	return nil
}

func (s *Store) UpdateLotExpiry(_ context.Context, lotID id.LotID, expiresAt time.Time, source expiry.Source) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	l, exists := s.lots[lotID.String()]
	if !exists {
		return pantry.ErrLotNotFound
	}
	if l.Status.Terminal() {
		return pantry.ErrLotTerminal
	}

	l.ExpiresAt = expiresAt
	l.ExpirySource = source
	l.Touch()
	return nil
}

func (s *Store) ApplyDraws(_ context.Context, draws []lot.Draw, terminal lot.Status) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	// Validate the whole batch before touching anything.
	for _, d := range draws {
		l, exists := s.lots[d.LotID.String()]
		if !exists {
			return pantry.ErrLotNotFound
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
		l := s.lots[d.LotID.String()]
		taken, _ := d.Amount.Convert(l.Quantity.Unit)
		l.Quantity = l.Quantity.Subtract(taken)
		if l.Quantity.IsZero() || d.Depleted {
			l.Status = terminal
		}
		l.Touch()
	}
	return nil
}

// Catalog Store implementation
func (s *Store) GetCatalogEntry(_ context.Context, name string) (*catalog.Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if e, ok := s.catalogEntries[name]; ok {
		cp := *e
		return &cp, nil
	}
	return nil, pantry.ErrCatalogEntryNotFound
}

func (s *Store) UpsertCatalogEntry(_ context.Context, e *catalog.Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cp := *e
	if existing, ok := s.catalogEntries[e.Name]; ok {
		cp.ID = existing.ID
		cp.CreatedAt = existing.CreatedAt
		cp.Touch()
	}
	s.catalogEntries[e.Name] = &cp
	return nil
}

func (s *Store) ListCatalogEntries(_ context.Context) ([]*catalog.Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]*catalog.Entry, 0, len(s.catalogEntries))
	for _, e := range s.catalogEntries {
		cp := *e
		result = append(result, &cp)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Name < result[j].Name })
	return result, nil
}

// Profile Store implementation
func (s *Store) GetProfile(_ context.Context, name string) (*profile.Profile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if p, ok := s.profiles[name]; ok {
		cp := *p
		return &cp, nil
	}
	return nil, pantry.ErrProfileNotFound
}

func (s *Store) UpsertProfile(_ context.Context, p *profile.Profile) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cp := *p
	if existing, ok := s.profiles[p.Name]; ok {
		cp.ID = existing.ID
		cp.CreatedAt = existing.CreatedAt
		cp.Touch()
	}
	s.profiles[p.Name] = &cp
	return nil
}

func (s *Store) ListProfiles(_ context.Context) ([]*profile.Profile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]*profile.Profile, 0, len(s.profiles))
	for _, p := range s.profiles {
		cp := *p
		result = append(result, &cp)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Name < result[j].Name })
	return result, nil
}

func (s *Store) DeleteProfile(_ context.Context, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.profiles[name]; !ok {
		return pantry.ErrProfileNotFound
	}
	delete(s.profiles, name)
	return nil
}

// Waste Store implementation
func (s *Store) RecordWaste(_ context.Context, entries []*waste.Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, e := range entries {
		s.wasteLog = append(s.wasteLog, *e)
	}
	return nil
}

func (s *Store) QueryWaste(_ context.Context, opts waste.QueryOpts) ([]*waste.Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]*waste.Entry, 0)
	for i := range s.wasteLog {
		e := s.wasteLog[i]
		if opts.Name != "" && e.Name != opts.Name {
			continue
		}
		if !opts.Start.IsZero() && e.DiscardedAt.Before(opts.Start) {
			continue
		}
		if !opts.End.IsZero() && !e.DiscardedAt.Before(opts.End) {
			continue
		}
		result = append(result, &e)
	}

	// Newest first, matching the SQL stores.
	sort.SliceStable(result, func(i, j int) bool {
		return result[i].DiscardedAt.After(result[j].DiscardedAt)
	})

	start := opts.Offset
	if start > len(result) {
		start = len(result)
	}
	end := start + opts.Limit
	if opts.Limit == 0 || end > len(result) {
		end = len(result)
	}

	return result[start:end], nil
}

// Store management
func (s *Store) Migrate(_ context.Context) error {
	return nil // No migration needed for memory store
}

func (s *Store) Ping(_ context.Context) error {
	return nil // Always available
}

func (s *Store) Close() error {
	return nil // Nothing to close
}

// sortLots orders lots by expiry ascending, ties broken by entry time then
// ID, the order every listing and draw plan relies on.
func sortLots(lots []*lot.Lot) {
	sort.SliceStable(lots, func(i, j int) bool {
		if !lots[i].ExpiresAt.Equal(lots[j].ExpiresAt) {
			return lots[i].ExpiresAt.Before(lots[j].ExpiresAt)
		}
		if !lots[i].EnteredAt.Equal(lots[j].EnteredAt) {
			return lots[i].EnteredAt.Before(lots[j].EnteredAt)
		}
		return lots[i].ID.String() < lots[j].ID.String()
	})
}
