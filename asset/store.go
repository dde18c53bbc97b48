package asset

import (
	"context"

	"github.com/tufstraka/Skilltree-NFT/types"
)

// Store is the asset slice of the ledger store. Each method is one atomic
// state transition; no partial effect is observable to other callers.
type Store interface {
	// Create assigns the next asset id, stores a, and returns the id.
	// The id counter is consumed only here, never on failed validation.
	Create(ctx context.Context, a *Asset) (uint64, error)
	Get(ctx context.Context, assetID uint64) (*Asset, error)
	List(ctx context.Context, f Filter) ([]*Asset, error)
	SetResalePrice(ctx context.Context, assetID uint64, caller types.Principal, price types.Tokens) error
	Deactivate(ctx context.Context, assetID uint64, caller types.Principal) error
	TransferOwner(ctx context.Context, assetID uint64, caller, newOwner types.Principal) error
}
