package skilltree

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/tufstraka/Skilltree-NFT/asset"
	"github.com/tufstraka/Skilltree-NFT/funding"
	"github.com/tufstraka/Skilltree-NFT/id"
	"github.com/tufstraka/Skilltree-NFT/plugin"
	"github.com/tufstraka/Skilltree-NFT/store"
	"github.com/tufstraka/Skilltree-NFT/types"
)

// Ledger is the marketplace ledger engine: it mints skill assets, tracks
// balances and creator royalties, and mediates purchase, resale, and
// transfer. Every operation is one atomic store transition except TopUp,
// which suspends on the external funds-transfer call and credits the
// balance only after settlement.
type Ledger struct {
	store   store.Store
	plugins *plugin.Registry
	logger  *slog.Logger

	// Top-Up protocol collaborators
	client         funding.Client
	transferFee    types.Tokens
	fundingAccount funding.AccountIdentifier

	// In-flight two-phase top-up attempts
	pendingMu sync.Mutex
	pending   map[id.TransferID]*funding.Transfer
}

// New creates a new Ledger instance backed by s.
func New(s store.Store, opts ...Option) *Ledger {
	l := &Ledger{
		store:       s,
		plugins:     plugin.NewRegistry(),
		logger:      slog.Default(),
		transferFee: funding.DefaultFee,
		pending:     make(map[id.TransferID]*funding.Transfer),
	}

	for _, opt := range opts {
		opt(l)
	}

	return l
}

// Option configures a Ledger instance.
type Option func(*Ledger)

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(l *Ledger) {
		l.logger = logger
		l.plugins.WithLogger(logger)
	}
}

// WithPlugin registers a plugin.
func WithPlugin(p plugin.Plugin) Option {
	return func(l *Ledger) {
		_ = l.plugins.Register(p) //nolint:errcheck // best-effort plugin registration during init
	}
}

// WithTransferClient sets the external funds-transfer client used by TopUp.
func WithTransferClient(c funding.Client) Option {
	return func(l *Ledger) {
		l.client = c
	}
}

// WithTransferFee overrides the fixed fee attached to top-up transfers.
func WithTransferFee(fee types.Tokens) Option {
	return func(l *Ledger) {
		l.transferFee = fee
	}
}

// WithFundingAccount sets this ledger's own account on the external
// transfer ledger, the destination of every top-up transfer.
func WithFundingAccount(acct funding.AccountIdentifier) Option {
	return func(l *Ledger) {
		l.fundingAccount = acct
	}
}

// Start migrates the store and initializes plugins.
func (l *Ledger) Start(ctx context.Context) error {
	if err := l.store.Migrate(ctx); err != nil {
		return err
	}

	l.plugins.EmitInit(ctx, l)

	l.logger.Info("skilltree ledger started",
		"transfer_fee", l.transferFee,
		"funding_account", string(l.fundingAccount),
	)

	return nil
}

// Stop shuts down the Ledger.
func (l *Ledger) Stop() error {
	ctx := context.Background()
	l.plugins.EmitShutdown(ctx)

	return l.store.Close()
}

// ==================== Asset lifecycle ====================

// Mint creates a new skill asset owned by its creator and returns the
// assigned id. Validation failures consume no id and mutate nothing.
func (l *Ledger) Mint(ctx context.Context, spec asset.MintSpec) (uint64, error) {
	caller, err := CallerFrom(ctx)
	if err != nil {
		return 0, err
	}
	if err := ValidateMint(spec); err != nil {
		return 0, err
	}

	a := &asset.Asset{
		Entity:         types.NewEntity(),
		Title:          spec.Title,
		Description:    spec.Description,
		Creator:        caller,
		Price:          spec.Price,
		UnlockDuration: spec.UnlockDuration,
		Metadata:       spec.Metadata,
		Owner:          caller,
		Active:         true,
	}

	assetID, err := l.store.CreateAsset(ctx, a)
	if err != nil {
		return 0, err
	}

	l.logger.Info("asset minted",
		"asset_id", assetID,
		"creator", string(caller),
		"price", spec.Price,
	)
	l.plugins.EmitAssetMinted(ctx, a)

	return assetID, nil
}

// Purchase buys the asset for the caller. The full price is credited to
// the asset's creator, not the previous owner, and a truncated 10%
// royalty is accrued to the creator's royalty ledger.
func (l *Ledger) Purchase(ctx context.Context, assetID uint64) error {
	buyer, err := CallerFrom(ctx)
	if err != nil {
		return err
	}

	receipt, err := l.store.ApplyPurchase(ctx, assetID, buyer)
	if err != nil {
		return err
	}

	l.logger.Info("asset purchased",
		"asset_id", assetID,
		"buyer", string(receipt.Buyer),
		"creator", string(receipt.Creator),
		"price", receipt.Price,
		"royalty", receipt.Royalty,
	)
	l.plugins.EmitAssetPurchased(ctx, receipt)

	return nil
}

// SetResalePrice lists the asset for resale at the given price. Only the
// current owner may list; the listing clears on any ownership change.
func (l *Ledger) SetResalePrice(ctx context.Context, assetID uint64, price types.Tokens) error {
	caller, err := CallerFrom(ctx)
	if err != nil {
		return err
	}
	if !price.IsPositive() {
		return ErrInvalidPrice
	}

	if err := l.store.SetResalePrice(ctx, assetID, caller, price); err != nil {
		return err
	}

	l.logger.Info("resale price set", "asset_id", assetID, "price", price)
	l.plugins.EmitResalePriceSet(ctx, assetID, price)

	return nil
}

// Deactivate permanently retires the asset (e.g. for policy violations).
// Only the original creator may deactivate; there is no reactivate path.
// Re-deactivating an inactive asset succeeds as a no-op.
func (l *Ledger) Deactivate(ctx context.Context, assetID uint64) error {
	caller, err := CallerFrom(ctx)
	if err != nil {
		return err
	}

	if err := l.store.DeactivateAsset(ctx, assetID, caller); err != nil {
		return err
	}

	l.logger.Info("asset deactivated", "asset_id", assetID, "creator", string(caller))
	l.plugins.EmitAssetDeactivated(ctx, assetID)

	return nil
}

// Transfer gifts the asset to newOwner. No balances move; the resale
// listing clears.
func (l *Ledger) Transfer(ctx context.Context, assetID uint64, newOwner types.Principal) error {
	caller, err := CallerFrom(ctx)
	if err != nil {
		return err
	}

	if err := l.store.TransferOwner(ctx, assetID, caller, newOwner); err != nil {
		return err
	}

	l.logger.Info("ownership transferred",
		"asset_id", assetID,
		"from", string(caller),
		"to", string(newOwner),
	)
	l.plugins.EmitOwnershipTransferred(ctx, assetID, caller, newOwner)

	return nil
}

// ==================== Queries ====================

// Get returns the asset with the given id, or nil when no such asset
// exists. Missing assets are not an error.
func (l *Ledger) Get(ctx context.Context, assetID uint64) (*asset.Asset, error) {
	a, err := l.store.GetAsset(ctx, assetID)
	if err != nil {
		if IsNotFound(err) {
			return nil, nil
		}
		return nil, err
	}
	return a, nil
}

// ListByOwner returns every asset currently owned by the principal.
func (l *Ledger) ListByOwner(ctx context.Context, owner types.Principal) ([]*asset.Asset, error) {
	return l.store.ListAssets(ctx, asset.Filter{Owner: owner})
}

// ListActive returns every active asset.
func (l *Ledger) ListActive(ctx context.Context) ([]*asset.Asset, error) {
	return l.store.ListAssets(ctx, asset.Filter{ActiveOnly: true})
}

// BalanceOf returns the principal's spendable balance.
func (l *Ledger) BalanceOf(ctx context.Context, p types.Principal) (types.Tokens, error) {
	return l.store.Balance(ctx, p)
}

// RoyaltyOf returns the principal's accrued creator royalty.
func (l *Ledger) RoyaltyOf(ctx context.Context, p types.Principal) (types.Tokens, error) {
	return l.store.Royalty(ctx, p)
}

// ==================== Top-Up protocol ====================

// TopUp funds the caller's balance by amount. It issues a transfer on the
// external ledger and suspends until that call settles; the caller's
// balance is credited only after settlement, and a failed transfer leaves
// no residue. Nothing in the ledger store is locked while the transfer is
// in flight, so other operations, including further top-ups, interleave
// freely with a pending attempt.
func (l *Ledger) TopUp(ctx context.Context, amount types.Tokens) (*funding.Transfer, error) {
	caller, err := CallerFrom(ctx)
	if err != nil {
		return nil, err
	}
	if !amount.IsPositive() {
		return nil, ErrInvalidAmount
	}
	if l.client == nil {
		return nil, ErrNoClient
	}

	// Phase one: record the pending attempt and compute the request.
	// No ledger state has changed yet.
	xfer := funding.NewTransfer(caller, amount, l.transferFee, l.fundingAccount)
	l.track(xfer)
	defer l.untrack(xfer)

	l.logger.Info("top-up transfer issued",
		"transfer_id", xfer.ID.String(),
		"caller", string(caller),
		"amount", amount,
	)

	// Suspension point: other invocations may run and mutate the ledger
	// while this call is pending.
	block, err := l.client.Transfer(ctx, xfer.Request())
	if err != nil {
		xfer.Fail(err)
		l.logger.Warn("top-up transfer failed",
			"transfer_id", xfer.ID.String(),
			"error", err,
		)
		l.plugins.EmitTopUpFailed(ctx, xfer, err)
		return xfer, fmt.Errorf("%w: %w", ErrTransferFailed, err)
	}

	// Phase two: the external ledger settled; commit the credit as one
	// atomic store transition.
	xfer.Settle(block)
	balance, err := l.store.Credit(ctx, caller, amount)
	if err != nil {
		return xfer, err
	}

	l.logger.Info("top-up settled",
		"transfer_id", xfer.ID.String(),
		"block", uint64(block),
		"balance", balance,
	)
	l.plugins.EmitTopUpSettled(ctx, xfer)

	return xfer, nil
}

// PendingTopUps returns the top-up attempts currently awaiting the
// external ledger.
func (l *Ledger) PendingTopUps() []*funding.Transfer {
	l.pendingMu.Lock()
	defer l.pendingMu.Unlock()

	out := make([]*funding.Transfer, 0, len(l.pending))
	for _, t := range l.pending {
		out = append(out, t)
	}
	return out
}

func (l *Ledger) track(t *funding.Transfer) {
	l.pendingMu.Lock()
	defer l.pendingMu.Unlock()
	l.pending[t.ID] = t
}

func (l *Ledger) untrack(t *funding.Transfer) {
	l.pendingMu.Lock()
	defer l.pendingMu.Unlock()
	delete(l.pending, t.ID)
}

// ==================== Snapshot persistence ====================

// SaveSnapshot serializes the entire store: assets, balances, royalties,
// and the next-id counter. The host persists it before shutdown.
func (l *Ledger) SaveSnapshot(ctx context.Context) (*store.Snapshot, error) {
	snap, err := l.store.Snapshot(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSnapshotFailed, err)
	}

	l.plugins.EmitSnapshotSaved(ctx, snap)
	return snap, nil
}

// RestoreSnapshot replaces the store's contents wholesale. The host calls
// it once after restart, before serving requests.
func (l *Ledger) RestoreSnapshot(ctx context.Context, snap *store.Snapshot) error {
	if err := l.store.Restore(ctx, snap); err != nil {
		return fmt.Errorf("%w: %w", ErrSnapshotFailed, err)
	}

	l.logger.Info("snapshot restored",
		"assets", len(snap.Assets),
		"balances", len(snap.Balances),
		"next_id", snap.NextID,
	)
	l.plugins.EmitSnapshotRestored(ctx, snap)
	return nil
}

// Store returns the underlying store for direct access.
func (l *Ledger) Store() store.Store { return l.store }
