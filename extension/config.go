package extension

// Config holds the Skilltree extension configuration.
// Fields can be set programmatically via Option functions or loaded from
// YAML configuration files (under "extensions.skilltree" or "skilltree" keys).
type Config struct {
	// DisableMigrate prevents auto-migration on start.
	DisableMigrate bool `json:"disable_migrate" mapstructure:"disable_migrate" yaml:"disable_migrate"`

	// TransferFee is the fixed fee in e8s attached to top-up transfers
	// (default: 10000).
	TransferFee uint64 `json:"transfer_fee" mapstructure:"transfer_fee" yaml:"transfer_fee"`

	// FundingAccount is the ledger's own account identifier on the external
	// funds ledger, the destination of every top-up transfer.
	FundingAccount string `json:"funding_account" mapstructure:"funding_account" yaml:"funding_account"`

	// RequireConfig requires config to be present in YAML files.
	// If true and no config is found, Register returns an error.
	RequireConfig bool `json:"-" yaml:"-"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		TransferFee: 10_000,
	}
}
