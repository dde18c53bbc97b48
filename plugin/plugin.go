// Package plugin provides an extensible plugin system for the Ledger.
// Plugins can hook into lifecycle and marketplace events to extend
// functionality.
package plugin

import (
	"context"

	"github.com/tufstraka/Skilltree-NFT/types"
)

// Plugin is the base interface that all plugins must implement.
type Plugin interface {
	Name() string
}

// ──────────────────────────────────────────────────
// Lifecycle hooks
// ──────────────────────────────────────────────────

// OnInit is called when the plugin is initialized.
type OnInit interface {
	Plugin
	OnInit(ctx context.Context, l interface{}) error
}

// OnShutdown is called when the plugin is shutting down.
type OnShutdown interface {
	Plugin
	OnShutdown(ctx context.Context) error
}

// ──────────────────────────────────────────────────
// Asset lifecycle hooks
// ──────────────────────────────────────────────────

// OnAssetMinted is called when a new asset is minted.
type OnAssetMinted interface {
	Plugin
	OnAssetMinted(ctx context.Context, a interface{}) error
}

// OnAssetPurchased is called after a purchase settles.
type OnAssetPurchased interface {
	Plugin
	OnAssetPurchased(ctx context.Context, receipt interface{}) error
}

// OnResalePriceSet is called when an owner lists an asset for resale.
type OnResalePriceSet interface {
	Plugin
	OnResalePriceSet(ctx context.Context, assetID uint64, price types.Tokens) error
}

// OnOwnershipTransferred is called after a gift transfer completes.
type OnOwnershipTransferred interface {
	Plugin
	OnOwnershipTransferred(ctx context.Context, assetID uint64, from, to types.Principal) error
}

// OnAssetDeactivated is called when a creator retires an asset.
type OnAssetDeactivated interface {
	Plugin
	OnAssetDeactivated(ctx context.Context, assetID uint64) error
}

// ──────────────────────────────────────────────────
// Top-Up hooks
// ──────────────────────────────────────────────────

// OnTopUpSettled is called after a top-up transfer settles and the
// balance is credited.
type OnTopUpSettled interface {
	Plugin
	OnTopUpSettled(ctx context.Context, transfer interface{}) error
}

// OnTopUpFailed is called when the external ledger rejects a top-up.
type OnTopUpFailed interface {
	Plugin
	OnTopUpFailed(ctx context.Context, transfer interface{}, err error) error
}

// ──────────────────────────────────────────────────
// Snapshot hooks
// ──────────────────────────────────────────────────

// OnSnapshotSaved is called after the store state is serialized.
type OnSnapshotSaved interface {
	Plugin
	OnSnapshotSaved(ctx context.Context, snap interface{}) error
}

// OnSnapshotRestored is called after a snapshot replaces the store state.
type OnSnapshotRestored interface {
	Plugin
	OnSnapshotRestored(ctx context.Context, snap interface{}) error
}
