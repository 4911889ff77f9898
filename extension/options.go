package extension

import (
	pantry "github.com/xraph/pantry"
	"github.com/xraph/pantry/plugin"
	"github.com/xraph/pantry/store"
)

// Option configures the Pantry Forge extension.
type Option func(*Extension)

// WithStore sets the store for the pantry engine.
func WithStore(s store.Store) Option {
	return func(e *Extension) {
		e.store = s
	}
}

// WithPantryOption passes a pantry.Option through to the underlying engine.
func WithPantryOption(opt pantry.Option) Option {
	return func(e *Extension) {
		e.pantryOpts = append(e.pantryOpts, opt)
	}
}

// WithPlugin registers a pantry plugin.
func WithPlugin(p plugin.Plugin) Option {
	return func(e *Extension) {
		e.pantryOpts = append(e.pantryOpts, pantry.WithPlugin(p))
	}
}

// WithConfig sets the Forge extension configuration.
func WithConfig(cfg Config) Option {
	return func(e *Extension) { e.config = cfg }
}

// WithDisableMigrate prevents auto-migration on start.
func WithDisableMigrate() Option {
	return func(e *Extension) { e.config.DisableMigrate = true }
}

// WithRequireConfig requires config to be present in YAML files.
// If true and no config is found, Register returns an error.
func WithRequireConfig(require bool) Option {
	return func(e *Extension) { e.config.RequireConfig = require }
}

// WithFreshnessThreshold sets how many remaining days separate fresh from
// expiring_soon.
func WithFreshnessThreshold(days int) Option {
	return func(e *Extension) { e.config.FreshnessThresholdDays = days }
}

// WithDefaultShelfLife sets the fallback shelf life in days.
func WithDefaultShelfLife(days int) Option {
	return func(e *Extension) { e.config.DefaultShelfLifeDays = days }
}

// WithGroveDatabase sets the name of the grove.DB to resolve from the DI container.
// The extension will auto-construct the appropriate store backend (postgres/sqlite/mongo)
// based on the grove driver type. Pass an empty string to use the default (unnamed) grove.DB.
func WithGroveDatabase(name string) Option {
	return func(e *Extension) {
		e.config.GroveDatabase = name
		e.useGrove = true
	}
}
