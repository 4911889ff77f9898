package extension

// Config holds the Pantry extension configuration.
// Fields can be set programmatically via Option functions or loaded from
// YAML configuration files (under "extensions.pantry" or "pantry" keys).
type Config struct {
	// DisableMigrate prevents auto-migration on start.
	DisableMigrate bool `json:"disable_migrate" mapstructure:"disable_migrate" yaml:"disable_migrate"`

	// FreshnessThresholdDays separates fresh from expiring_soon when lots
	// are classified at read time (default: 3).
	FreshnessThresholdDays int `json:"freshness_threshold_days" mapstructure:"freshness_threshold_days" yaml:"freshness_threshold_days"`

	// DefaultShelfLifeDays is the fallback shelf life applied when an item
	// has neither an explicit expiry nor a catalog default (default: 7).
	DefaultShelfLifeDays int `json:"default_shelf_life_days" mapstructure:"default_shelf_life_days" yaml:"default_shelf_life_days"`

	// GroveDatabase is the name of a grove.DB registered in the DI container.
	// When set, the extension resolves this named database and auto-constructs
	// the appropriate store based on the driver type (pg/sqlite/mongo).
	// When empty and WithGroveDatabase was called, the default (unnamed) DB is used.
	GroveDatabase string `json:"grove_database" mapstructure:"grove_database" yaml:"grove_database"`

	// RequireConfig requires config to be present in YAML files.
	// If true and no config is found, Register returns an error.
	RequireConfig bool `json:"-" yaml:"-"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		FreshnessThresholdDays: 3,
		DefaultShelfLifeDays:   7,
	}
}
