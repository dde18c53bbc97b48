package extension

import (
	skilltree "github.com/tufstraka/Skilltree-NFT"
	"github.com/tufstraka/Skilltree-NFT/funding"
	"github.com/tufstraka/Skilltree-NFT/plugin"
	"github.com/tufstraka/Skilltree-NFT/store"
)

// Option configures the Skilltree Forge extension.
type Option func(*Extension)

// WithStore sets the store for the ledger engine.
func WithStore(s store.Store) Option {
	return func(e *Extension) {
		e.store = s
	}
}

// WithLedgerOption passes a skilltree.Option through to the underlying engine.
func WithLedgerOption(opt skilltree.Option) Option {
	return func(e *Extension) {
		e.ledgerOpts = append(e.ledgerOpts, opt)
	}
}

// WithPlugin registers a ledger plugin.
func WithPlugin(p plugin.Plugin) Option {
	return func(e *Extension) {
		e.ledgerOpts = append(e.ledgerOpts, skilltree.WithPlugin(p))
	}
}

// WithTransferClient sets the external funds-transfer client used by TopUp.
func WithTransferClient(c funding.Client) Option {
	return func(e *Extension) {
		e.ledgerOpts = append(e.ledgerOpts, skilltree.WithTransferClient(c))
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

// WithTransferFee sets the fixed fee in e8s attached to top-up transfers.
func WithTransferFee(fee uint64) Option {
	return func(e *Extension) { e.config.TransferFee = fee }
}

// WithFundingAccount sets the ledger's account on the external funds ledger.
func WithFundingAccount(acct string) Option {
	return func(e *Extension) { e.config.FundingAccount = acct }
}

// WithRequireConfig requires config to be present in YAML files.
// If true and no config is found, Register returns an error.
func WithRequireConfig(require bool) Option {
	return func(e *Extension) { e.config.RequireConfig = require }
}
