// Package extension provides the Forge extension adapter for Pantry.
//
// It implements the forge.Extension interface to integrate Pantry
// into a Forge application with automatic dependency discovery,
// DI registration, and lifecycle management.
//
// Configuration can be provided programmatically via Option functions
// or via YAML configuration files under "extensions.pantry" or "pantry" keys.
package extension

import (
	"context"
	"errors"

	"github.com/xraph/forge"
	"github.com/xraph/vessel"

	pantry "github.com/xraph/pantry"
	"github.com/xraph/pantry/store"
	"github.com/xraph/pantry/store/memory"
)

// ExtensionName is the name registered with Forge.
const ExtensionName = "pantry"

// ExtensionDescription is the human-readable description.
const ExtensionDescription = "Expiry-aware household food inventory engine"

// ExtensionVersion is the semantic version.
const ExtensionVersion = "0.1.0"

// Ensure Extension implements forge.Extension at compile time.
var _ forge.Extension = (*Extension)(nil)

// Extension adapts Pantry as a Forge extension.
type Extension struct {
	*forge.BaseExtension

	config     Config
	engine     *pantry.Pantry
	store      store.Store
	pantryOpts []pantry.Option
	useGrove   bool
}

// New creates a new Pantry Forge extension with the given options.
func New(opts ...Option) *Extension {
	e := &Extension{
		BaseExtension: forge.NewBaseExtension(ExtensionName, ExtensionVersion, ExtensionDescription),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Engine returns the underlying Pantry instance.
// This is nil until Register is called.
func (e *Extension) Engine() *pantry.Pantry { return e.engine }

// Register implements [forge.Extension]. It loads configuration,
// initializes the pantry engine, and registers it in the DI container.
func (e *Extension) Register(fapp forge.App) error {
	if err := e.BaseExtension.Register(fapp); err != nil {
		return err
	}

	if err := e.loadConfiguration(); err != nil {
		return err
	}

	// Use memory store if no store was provided programmatically.
	if e.store == nil {
		if e.useGrove || e.config.GroveDatabase != "" {
			e.Logger().Warn("pantry: grove database requested but no store wired; falling back to memory",
				forge.F("grove_database", e.config.GroveDatabase),
			)
		}
		e.store = memory.New()
	}

	// Build pantry options from resolved config.
	opts := e.buildPantryOpts()

	eng := pantry.New(e.store, opts...)
	e.engine = eng

	return vessel.Provide(fapp.Container(), func() (*pantry.Pantry, error) {
		return e.engine, nil
	})
}

// Start implements [forge.Extension].
func (e *Extension) Start(ctx context.Context) error {
	if e.engine == nil {
		return errors.New("pantry: extension not initialized")
	}

	if !e.config.DisableMigrate {
		if err := e.engine.Start(ctx); err != nil {
			return err
		}
	}

	e.MarkStarted()
	return nil
}

// Stop implements [forge.Extension].
func (e *Extension) Stop(_ context.Context) error {
	if e.engine != nil {
		if err := e.engine.Stop(); err != nil {
			e.MarkStopped()
			return err
		}
	}
	e.MarkStopped()
	return nil
}

// Health implements [forge.Extension].
func (e *Extension) Health(ctx context.Context) error {
	if e.store == nil {
		return errors.New("pantry: store not initialized")
	}
	return e.store.Ping(ctx)
}

// buildPantryOpts constructs pantry.Option values from the resolved config.
func (e *Extension) buildPantryOpts() []pantry.Option {
	opts := make([]pantry.Option, 0, len(e.pantryOpts)+2)

	if e.config.FreshnessThresholdDays > 0 {
		opts = append(opts, pantry.WithFreshnessThreshold(e.config.FreshnessThresholdDays))
	}
	if e.config.DefaultShelfLifeDays > 0 {
		opts = append(opts, pantry.WithDefaultShelfLife(e.config.DefaultShelfLifeDays))
	}

	// Append any pass-through pantry options.
	opts = append(opts, e.pantryOpts...)

	return opts
}

// --- Config Loading (mirrors grove/shield extension pattern) ---

// loadConfiguration loads config from YAML files or programmatic sources.
func (e *Extension) loadConfiguration() error {
	programmaticConfig := e.config

	// Try loading from config file.
	fileConfig, configLoaded := e.tryLoadFromConfigFile()

	if !configLoaded {
		if programmaticConfig.RequireConfig {
			return errors.New("pantry: configuration is required but not found in config files; " +
				"ensure 'extensions.pantry' or 'pantry' key exists in your config")
		}

		// Use programmatic config merged with defaults.
		e.config = e.mergeWithDefaults(programmaticConfig)
	} else {
		// Config loaded from YAML -- merge with programmatic options.
		e.config = e.mergeConfigurations(fileConfig, programmaticConfig)
	}

	e.Logger().Debug("pantry: configuration loaded",
		forge.F("disable_migrate", e.config.DisableMigrate),
		forge.F("freshness_threshold_days", e.config.FreshnessThresholdDays),
		forge.F("default_shelf_life_days", e.config.DefaultShelfLifeDays),
		forge.F("grove_database", e.config.GroveDatabase),
	)

	return nil
}

// tryLoadFromConfigFile attempts to load config from YAML files.
func (e *Extension) tryLoadFromConfigFile() (Config, bool) {
	cm := e.App().Config()
	var cfg Config

	// Try "extensions.pantry" first (namespaced pattern).
	if cm.IsSet("extensions.pantry") {
		if err := cm.Bind("extensions.pantry", &cfg); err == nil {
			e.Logger().Debug("pantry: loaded config from file",
				forge.F("key", "extensions.pantry"),
			)
			return cfg, true
		}
		e.Logger().Warn("pantry: failed to bind extensions.pantry config",
			forge.F("error", "bind failed"),
		)
	}

	// Try legacy "pantry" key.
	if cm.IsSet("pantry") {
		if err := cm.Bind("pantry", &cfg); err == nil {
			e.Logger().Debug("pantry: loaded config from file",
				forge.F("key", "pantry"),
			)
			return cfg, true
		}
		e.Logger().Warn("pantry: failed to bind pantry config",
			forge.F("error", "bind failed"),
		)
	}

	return Config{}, false
}

// mergeWithDefaults fills zero-valued fields with defaults.
func (e *Extension) mergeWithDefaults(cfg Config) Config {
	defaults := DefaultConfig()
	if cfg.FreshnessThresholdDays == 0 {
		cfg.FreshnessThresholdDays = defaults.FreshnessThresholdDays
	}
	if cfg.DefaultShelfLifeDays == 0 {
		cfg.DefaultShelfLifeDays = defaults.DefaultShelfLifeDays
	}
	return cfg
}

// mergeConfigurations merges YAML config with programmatic options.
// YAML config takes precedence for most fields; programmatic bool flags fill gaps.
func (e *Extension) mergeConfigurations(yamlConfig, programmaticConfig Config) Config {
	// Programmatic bool flags override when true.
	if programmaticConfig.DisableMigrate {
		yamlConfig.DisableMigrate = true
	}

	// String fields: YAML takes precedence.
	if yamlConfig.GroveDatabase == "" && programmaticConfig.GroveDatabase != "" {
		yamlConfig.GroveDatabase = programmaticConfig.GroveDatabase
	}

	// Int fields: YAML takes precedence, programmatic fills gaps.
	if yamlConfig.FreshnessThresholdDays == 0 && programmaticConfig.FreshnessThresholdDays != 0 {
		yamlConfig.FreshnessThresholdDays = programmaticConfig.FreshnessThresholdDays
	}
	if yamlConfig.DefaultShelfLifeDays == 0 && programmaticConfig.DefaultShelfLifeDays != 0 {
		yamlConfig.DefaultShelfLifeDays = programmaticConfig.DefaultShelfLifeDays
	}

	// Fill remaining zeros with defaults.
	return e.mergeWithDefaults(yamlConfig)
}
