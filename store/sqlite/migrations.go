package sqlite

import (
	"context"

	"github.com/xraph/grove/migrate"
)

// Migrations is the grove migration group for the Pantry store (SQLite).
var Migrations = migrate.NewGroup("pantry")

func init() {
	Migrations.MustRegister(
		&migrate.Migration{
			Name:    "create_pantry_lots",
			Version: "20250101000001",
			Up: func(ctx context.Context, exec migrate.Executor) error {
				_, err := exec.Exec(ctx, `
CREATE TABLE IF NOT EXISTS pantry_lots (
    id            TEXT PRIMARY KEY,
    name          TEXT NOT NULL DEFAULT '',
    qty_amount    INTEGER NOT NULL DEFAULT 0,
    qty_unit      TEXT NOT NULL DEFAULT '',
    entered_at    TEXT NOT NULL DEFAULT (datetime('now')),
    expires_at    TEXT NOT NULL DEFAULT (datetime('now')),
    expiry_source TEXT NOT NULL DEFAULT 'default',
    status        TEXT NOT NULL DEFAULT 'active',
    created_at    TEXT NOT NULL DEFAULT (datetime('now')),
    updated_at    TEXT NOT NULL DEFAULT (datetime('now'))
);

CREATE INDEX IF NOT EXISTS idx_pantry_lots_name_expiry ON pantry_lots (name, expires_at);
CREATE INDEX IF NOT EXISTS idx_pantry_lots_status ON pantry_lots (status);
CREATE INDEX IF NOT EXISTS idx_pantry_lots_expiry ON pantry_lots (expires_at);
`)
				return err
			},
			Down: func(ctx context.Context, exec migrate.Executor) error {
				_, err := exec.Exec(ctx, `DROP TABLE IF EXISTS pantry_lots`)
				return err
			},
		},
		&migrate.Migration{
			Name:    "create_pantry_shelf_life_defaults",
			Version: "20250101000002",
			Up: func(ctx context.Context, exec migrate.Executor) error {
				_, err := exec.Exec(ctx, `
CREATE TABLE IF NOT EXISTS pantry_shelf_life_defaults (
    id              TEXT PRIMARY KEY,
    name            TEXT NOT NULL DEFAULT '',
    shelf_life_days INTEGER NOT NULL DEFAULT 7,
    created_at      TEXT NOT NULL DEFAULT (datetime('now')),
    updated_at      TEXT NOT NULL DEFAULT (datetime('now'))
);

CREATE UNIQUE INDEX IF NOT EXISTS idx_pantry_shelf_life_name ON pantry_shelf_life_defaults (name);
`)
				return err
			},
			Down: func(ctx context.Context, exec migrate.Executor) error {
				_, err := exec.Exec(ctx, `DROP TABLE IF EXISTS pantry_shelf_life_defaults`)
				return err
			},
		},
		&migrate.Migration{
			Name:    "create_pantry_profiles",
			Version: "20250101000003",
			Up: func(ctx context.Context, exec migrate.Executor) error {
				_, err := exec.Exec(ctx, `
CREATE TABLE IF NOT EXISTS pantry_profiles (
    id               TEXT PRIMARY KEY,
    name             TEXT NOT NULL DEFAULT '',
    allergens        TEXT NOT NULL DEFAULT '[]',
    avoid            TEXT NOT NULL DEFAULT '[]',
    diet_pattern     TEXT NOT NULL DEFAULT '',
    near_expiry_days INTEGER NOT NULL DEFAULT 3,
    created_at       TEXT NOT NULL DEFAULT (datetime('now')),
    updated_at       TEXT NOT NULL DEFAULT (datetime('now'))
);

CREATE UNIQUE INDEX IF NOT EXISTS idx_pantry_profiles_name ON pantry_profiles (name);
`)
				return err
			},
			Down: func(ctx context.Context, exec migrate.Executor) error {
				_, err := exec.Exec(ctx, `DROP TABLE IF EXISTS pantry_profiles`)
				return err
			},
		},
		&migrate.Migration{
			Name:    "create_pantry_waste_log",
			Version: "20250101000004",
			Up: func(ctx context.Context, exec migrate.Executor) error {
				_, err := exec.Exec(ctx, `
CREATE TABLE IF NOT EXISTS pantry_waste_log (
    id           TEXT PRIMARY KEY,
    lot_id       TEXT NOT NULL DEFAULT '',
    name         TEXT NOT NULL DEFAULT '',
    qty_amount   INTEGER NOT NULL DEFAULT 0,
    qty_unit     TEXT NOT NULL DEFAULT '',
    reason       TEXT NOT NULL DEFAULT 'discarded',
    discarded_at TEXT NOT NULL DEFAULT (datetime('now')),
    created_at   TEXT NOT NULL DEFAULT (datetime('now')),
    updated_at   TEXT NOT NULL DEFAULT (datetime('now'))
);

CREATE INDEX IF NOT EXISTS idx_pantry_waste_name_time ON pantry_waste_log (name, discarded_at);
CREATE INDEX IF NOT EXISTS idx_pantry_waste_lot ON pantry_waste_log (lot_id);
`)
				return err
			},
			Down: func(ctx context.Context, exec migrate.Executor) error {
				_, err := exec.Exec(ctx, `DROP TABLE IF EXISTS pantry_waste_log`)
				return err
			},
		},
	)
}
