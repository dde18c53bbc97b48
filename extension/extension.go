// Package extension provides the Forge extension adapter for Skilltree.
//
// It implements the forge.Extension interface to integrate the skilltree
// ledger into a Forge application with automatic dependency discovery,
// DI registration, and lifecycle management.
//
// Configuration can be provided programmatically via Option functions
// or via YAML configuration files under "extensions.skilltree" or
// "skilltree" keys.
package extension

import (
	"context"
	"errors"

	"github.com/xraph/forge"
	"github.com/xraph/vessel"

	skilltree "github.com/tufstraka/Skilltree-NFT"
	"github.com/tufstraka/Skilltree-NFT/funding"
	"github.com/tufstraka/Skilltree-NFT/store"
	"github.com/tufstraka/Skilltree-NFT/store/memory"
	"github.com/tufstraka/Skilltree-NFT/types"
)

// ExtensionName is the name registered with Forge.
const ExtensionName = "skilltree"

// ExtensionDescription is the human-readable description.
const ExtensionDescription = "Skill asset marketplace ledger"

// ExtensionVersion is the semantic version.
const ExtensionVersion = "0.1.0"

// Ensure Extension implements forge.Extension at compile time.
var _ forge.Extension = (*Extension)(nil)

// Extension adapts the skilltree ledger as a Forge extension.
type Extension struct {
	*forge.BaseExtension

	config     Config
	engine     *skilltree.Ledger
	store      store.Store
	ledgerOpts []skilltree.Option
}

// New creates a new Skilltree Forge extension with the given options.
func New(opts ...Option) *Extension {
	e := &Extension{
		BaseExtension: forge.NewBaseExtension(ExtensionName, ExtensionVersion, ExtensionDescription),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Engine returns the underlying Ledger instance.
// This is nil until Register is called.
func (e *Extension) Engine() *skilltree.Ledger { return e.engine }

// Register implements [forge.Extension]. It loads configuration,
// initializes the ledger engine, and registers it in the DI container.
func (e *Extension) Register(fapp forge.App) error {
	if err := e.BaseExtension.Register(fapp); err != nil {
		return err
	}

	if err := e.loadConfiguration(); err != nil {
		return err
	}

	// Use memory store if no store was provided programmatically.
	if e.store == nil {
		e.store = memory.New()
	}

	// Build ledger options from resolved config.
	opts := e.buildLedgerOpts()

	eng := skilltree.New(e.store, opts...)
	e.engine = eng

	return vessel.Provide(fapp.Container(), func() (*skilltree.Ledger, error) {
		return e.engine, nil
	})
}

// Start implements [forge.Extension].
func (e *Extension) Start(ctx context.Context) error {
	if e.engine == nil {
		return errors.New("skilltree: extension not initialized")
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
		return errors.New("skilltree: store not initialized")
	}
	return e.store.Ping(ctx)
}

// buildLedgerOpts constructs skilltree.Option values from the resolved config.
func (e *Extension) buildLedgerOpts() []skilltree.Option {
	opts := make([]skilltree.Option, 0, len(e.ledgerOpts)+2)

	// Apply config-derived options.
	if e.config.TransferFee > 0 {
		opts = append(opts, skilltree.WithTransferFee(types.Tokens(e.config.TransferFee)))
	}
	if e.config.FundingAccount != "" {
		opts = append(opts, skilltree.WithFundingAccount(funding.AccountIdentifier(e.config.FundingAccount)))
	}

	// Append any pass-through ledger options.
	opts = append(opts, e.ledgerOpts...)

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
			return errors.New("skilltree: configuration is required but not found in config files; " +
				"ensure 'extensions.skilltree' or 'skilltree' key exists in your config")
		}

		// Use programmatic config merged with defaults.
		e.config = e.mergeWithDefaults(programmaticConfig)
	} else {
		// Config loaded from YAML -- merge with programmatic options.
		e.config = e.mergeConfigurations(fileConfig, programmaticConfig)
	}

	e.Logger().Debug("skilltree: configuration loaded",
		forge.F("disable_migrate", e.config.DisableMigrate),
		forge.F("transfer_fee", e.config.TransferFee),
		forge.F("funding_account", e.config.FundingAccount),
	)

	return nil
}

// tryLoadFromConfigFile attempts to load config from YAML files.
func (e *Extension) tryLoadFromConfigFile() (Config, bool) {
	cm := e.App().Config()
	var cfg Config

	// Try "extensions.skilltree" first (namespaced pattern).
	if cm.IsSet("extensions.skilltree") {
		if err := cm.Bind("extensions.skilltree", &cfg); err == nil {
			e.Logger().Debug("skilltree: loaded config from file",
				forge.F("key", "extensions.skilltree"),
			)
			return cfg, true
		}
		e.Logger().Warn("skilltree: failed to bind extensions.skilltree config",
			forge.F("error", "bind failed"),
		)
	}

	// Try legacy "skilltree" key.
	if cm.IsSet("skilltree") {
		if err := cm.Bind("skilltree", &cfg); err == nil {
			e.Logger().Debug("skilltree: loaded config from file",
				forge.F("key", "skilltree"),
			)
			return cfg, true
		}
		e.Logger().Warn("skilltree: failed to bind skilltree config",
			forge.F("error", "bind failed"),
		)
	}

	return Config{}, false
}

// mergeWithDefaults fills zero-valued fields with defaults.
func (e *Extension) mergeWithDefaults(cfg Config) Config {
	defaults := DefaultConfig()
	if cfg.TransferFee == 0 {
		cfg.TransferFee = defaults.TransferFee
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
	if yamlConfig.FundingAccount == "" && programmaticConfig.FundingAccount != "" {
		yamlConfig.FundingAccount = programmaticConfig.FundingAccount
	}

	// Numeric fields: YAML takes precedence, programmatic fills gaps.
	if yamlConfig.TransferFee == 0 && programmaticConfig.TransferFee != 0 {
		yamlConfig.TransferFee = programmaticConfig.TransferFee
	}

	// Fill remaining zeros with defaults.
	return e.mergeWithDefaults(yamlConfig)
}
