// Package store defines the storage contract for the Skilltree ledger.
package store

import (
	"context"

	"github.com/tufstraka/Skilltree-NFT/account"
	"github.com/tufstraka/Skilltree-NFT/asset"
	"github.com/tufstraka/Skilltree-NFT/types"
)

// Store is the unified storage interface for the ledger. Every method is
// one atomic state transition: a driver must never let another caller
// observe a partial effect of any single call. The ledger engine performs
// no mutation of its own between store calls, so the only multi-call
// sequence in the system, issuing an external top-up transfer and then
// crediting the balance, holds nothing locked across the external call.
//
// Instead of embedding the per-domain sub-interfaces, all methods are
// declared explicitly to avoid naming conflicts.
type Store interface {
	// Asset methods
	CreateAsset(ctx context.Context, a *asset.Asset) (uint64, error)
	GetAsset(ctx context.Context, assetID uint64) (*asset.Asset, error)
	ListAssets(ctx context.Context, f asset.Filter) ([]*asset.Asset, error)
	SetResalePrice(ctx context.Context, assetID uint64, caller types.Principal, price types.Tokens) error
	DeactivateAsset(ctx context.Context, assetID uint64, caller types.Principal) error
	TransferOwner(ctx context.Context, assetID uint64, caller, newOwner types.Principal) error

	// ApplyPurchase performs the whole purchase transition for buyer:
	// precondition checks (asset exists, active, not self-owned, balance
	// covers price), buyer debit, creator credit, royalty accrual,
	// ownership flip, resale-price clear, all as one atomic step.
	ApplyPurchase(ctx context.Context, assetID uint64, buyer types.Principal) (*account.PurchaseReceipt, error)

	// Account methods
	Balance(ctx context.Context, p types.Principal) (types.Tokens, error)
	Credit(ctx context.Context, p types.Principal, amount types.Tokens) (types.Tokens, error)
	Royalty(ctx context.Context, p types.Principal) (types.Tokens, error)

	// Snapshot persistence: exact round trips of the full store.
	Snapshot(ctx context.Context) (*Snapshot, error)
	Restore(ctx context.Context, snap *Snapshot) error

	// Core methods
	Migrate(ctx context.Context) error
	Ping(ctx context.Context) error
	Close() error
}

// Snapshot is the wholesale serialized form of the ledger store: every
// asset, every balance and royalty entry, and the next-id counter.
// Restoring a snapshot replaces the store's contents entirely.
type Snapshot struct {
	Assets    []*asset.Asset                   `json:"assets"`
	Balances  map[types.Principal]types.Tokens `json:"balances"`
	Royalties map[types.Principal]types.Tokens `json:"royalties"`
	NextID    uint64                           `json:"next_id"`
}
