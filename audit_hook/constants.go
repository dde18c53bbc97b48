package audithook

// Action constants for audit events.
const (
	// Asset actions
	ActionAssetMinted          = "asset.minted"
	ActionAssetPurchased       = "asset.purchased"
	ActionResalePriceSet       = "asset.resale_listed"
	ActionOwnershipTransferred = "asset.transferred"
	ActionAssetDeactivated     = "asset.deactivated"

	// Top-up actions
	ActionTopUpSettled = "topup.settled"
	ActionTopUpFailed  = "topup.failed"

	// Snapshot actions
	ActionSnapshotSaved    = "snapshot.saved"
	ActionSnapshotRestored = "snapshot.restored"
)

// Resource constants for audit events.
const (
	ResourceAsset    = "asset"
	ResourceAccount  = "account"
	ResourceTransfer = "transfer"
	ResourceSnapshot = "snapshot"
)

// Category constants for audit events.
const (
	CategoryMarketplace = "marketplace"
	CategoryFunding     = "funding"
	CategoryPersistence = "persistence"
)

// Severity levels for audit events.
const (
	SeverityInfo     = "info"
	SeverityWarning  = "warning"
	SeverityError    = "error"
	SeverityCritical = "critical"
)

// Outcome values for audit events.
const (
	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
	OutcomePartial = "partial"
)
