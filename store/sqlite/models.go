package sqlite

import (
	"encoding/json"
	"time"

	"github.com/xraph/grove"

	"github.com/xraph/pantry/catalog"
	"github.com/xraph/pantry/expiry"
	"github.com/xraph/pantry/id"
	"github.com/xraph/pantry/lot"
	"github.com/xraph/pantry/profile"
	"github.com/xraph/pantry/types"
	"github.com/xraph/pantry/waste"
)

// ==================== Lot models ====================

type lotModel struct {
	grove.BaseModel `grove:"table:pantry_lots"`

	ID           string    `grove:"id,pk"`
	Name         string    `grove:"name"`
	QtyAmount    int64     `grove:"qty_amount"`
	QtyUnit      string    `grove:"qty_unit"`
	EnteredAt    time.Time `grove:"entered_at"`
	ExpiresAt    time.Time `grove:"expires_at"`
	ExpirySource string    `grove:"expiry_source"`
	Status       string    `grove:"status"`
	CreatedAt    time.Time `grove:"created_at"`
	UpdatedAt    time.Time `grove:"updated_at"`
}

func toLotModel(l *lot.Lot) *lotModel {
	return &lotModel{
		ID:           l.ID.String(),
		Name:         l.Name,
		QtyAmount:    l.Quantity.Amount,
		QtyUnit:      string(l.Quantity.Unit),
		EnteredAt:    l.EnteredAt,
		ExpiresAt:    l.ExpiresAt,
		ExpirySource: string(l.ExpirySource),
		Status:       string(l.Status),
		CreatedAt:    l.CreatedAt,
		UpdatedAt:    l.UpdatedAt,
	}
}

func fromLotModel(m *lotModel) (*lot.Lot, error) {
	lotID, err := id.ParseLotID(m.ID)
	if err != nil {
		return nil, err
	}

	return &lot.Lot{
		Entity: types.Entity{
			CreatedAt: m.CreatedAt,
			UpdatedAt: m.UpdatedAt,
		},
		ID:           lotID,
		Name:         m.Name,
		Quantity:     types.Quantity{Amount: m.QtyAmount, Unit: types.Unit(m.QtyUnit)},
		EnteredAt:    m.EnteredAt,
		ExpiresAt:    m.ExpiresAt,
		ExpirySource: expiry.Source(m.ExpirySource),
		Status:       lot.Status(m.Status),
	}, nil
}

// ==================== Shelf-life catalog models ====================

type catalogModel struct {
	grove.BaseModel `grove:"table:pantry_shelf_life_defaults"`

	ID            string    `grove:"id,pk"`
	Name          string    `grove:"name"`
	ShelfLifeDays int       `grove:"shelf_life_days"`
	CreatedAt     time.Time `grove:"created_at"`
	UpdatedAt     time.Time `grove:"updated_at"`
}

func toCatalogModel(e *catalog.Entry) *catalogModel {
	return &catalogModel{
		ID:            e.ID.String(),
		Name:          e.Name,
		ShelfLifeDays: e.ShelfLifeDays,
		CreatedAt:     e.CreatedAt,
		UpdatedAt:     e.UpdatedAt,
	}
}

func fromCatalogModel(m *catalogModel) (*catalog.Entry, error) {
	entryID, err := id.ParseCatalogID(m.ID)
	if err != nil {
		return nil, err
	}

	return &catalog.Entry{
		Entity: types.Entity{
			CreatedAt: m.CreatedAt,
			UpdatedAt: m.UpdatedAt,
		},
		ID:            entryID,
		Name:          m.Name,
		ShelfLifeDays: m.ShelfLifeDays,
	}, nil
}

// ==================== Profile models ====================

type profileModel struct {
	grove.BaseModel `grove:"table:pantry_profiles"`

	ID             string          `grove:"id,pk"`
	Name           string          `grove:"name"`
	Allergens      json.RawMessage `grove:"allergens"`
	Avoid          json.RawMessage `grove:"avoid"`
	DietPattern    string          `grove:"diet_pattern"`
	NearExpiryDays int             `grove:"near_expiry_days"`
	CreatedAt      time.Time       `grove:"created_at"`
	UpdatedAt      time.Time       `grove:"updated_at"`
}

func toProfileModel(p *profile.Profile) *profileModel {
	allergens, _ := json.Marshal(p.Allergens) //nolint:errcheck // best-effort
	avoid, _ := json.Marshal(p.Avoid)         //nolint:errcheck // best-effort

	return &profileModel{
		ID:             p.ID.String(),
		Name:           p.Name,
		Allergens:      allergens,
		Avoid:          avoid,
		DietPattern:    string(p.DietPattern),
		NearExpiryDays: p.NearExpiryDays,
		CreatedAt:      p.CreatedAt,
		UpdatedAt:      p.UpdatedAt,
	}
}

func fromProfileModel(m *profileModel) (*profile.Profile, error) {
	profileID, err := id.ParseProfileID(m.ID)
	if err != nil {
		return nil, err
	}

	var allergens, avoid []string
	if len(m.Allergens) > 0 {
		_ = json.Unmarshal(m.Allergens, &allergens) //nolint:errcheck // best-effort
	}
	if len(m.Avoid) > 0 {
		_ = json.Unmarshal(m.Avoid, &avoid) //nolint:errcheck // best-effort
	}

	return &profile.Profile{
		Entity: types.Entity{
			CreatedAt: m.CreatedAt,
			UpdatedAt: m.UpdatedAt,
		},
		ID:             profileID,
		Name:           m.Name,
		Allergens:      allergens,
		Avoid:          avoid,
		DietPattern:    profile.DietPattern(m.DietPattern),
		NearExpiryDays: m.NearExpiryDays,
	}, nil
}

// ==================== Waste log models ====================

type wasteModel struct {
	grove.BaseModel `grove:"table:pantry_waste_log"`

	ID          string    `grove:"id,pk"`
	LotID       string    `grove:"lot_id"`
	Name        string    `grove:"name"`
	QtyAmount   int64     `grove:"qty_amount"`
	QtyUnit     string    `grove:"qty_unit"`
	Reason      string    `grove:"reason"`
	DiscardedAt time.Time `grove:"discarded_at"`
	CreatedAt   time.Time `grove:"created_at"`
	UpdatedAt   time.Time `grove:"updated_at"`
}

func toWasteModel(e *waste.Entry) *wasteModel {
	return &wasteModel{
		ID:          e.ID.String(),
		LotID:       e.LotID.String(),
		Name:        e.Name,
		QtyAmount:   e.Quantity.Amount,
		QtyUnit:     string(e.Quantity.Unit),
		Reason:      string(e.Reason),
		DiscardedAt: e.DiscardedAt,
		CreatedAt:   e.CreatedAt,
		UpdatedAt:   e.UpdatedAt,
	}
}

func fromWasteModel(m *wasteModel) (*waste.Entry, error) {
	wasteID, err := id.ParseWasteID(m.ID)
	if err != nil {
		return nil, err
	}
	lotID, err := id.ParseLotID(m.LotID)
	if err != nil {
		return nil, err
	}

	return &waste.Entry{
		Entity: types.Entity{
			CreatedAt: m.CreatedAt,
			UpdatedAt: m.UpdatedAt,
		},
		ID:          wasteID,
		LotID:       lotID,
		Name:        m.Name,
		Quantity:    types.Quantity{Amount: m.QtyAmount, Unit: types.Unit(m.QtyUnit)},
		Reason:      waste.Reason(m.Reason),
		DiscardedAt: m.DiscardedAt,
	}, nil
}
