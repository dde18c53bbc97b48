// Package asset defines the mintable, ownable, priced unit of the
// Skilltree marketplace.
package asset

import (
	"time"

	"github.com/tufstraka/Skilltree-NFT/types"
)

// RoyaltyDivisor yields the creator's royalty share of a sale price:
// price / RoyaltyDivisor, truncated. 10 means a 10% royalty.
const RoyaltyDivisor = 10

// Asset is a minted skill. The creator is fixed for the asset's lifetime;
// the owner changes on purchase and transfer. A deactivated asset is
// permanently inert (no purchase, no transfer) but still queryable.
type Asset struct {
	types.Entity
	ID             uint64            `json:"id"`
	Title          string            `json:"title"`
	Description    string            `json:"description"`
	Creator        types.Principal   `json:"creator"`
	Price          types.Tokens      `json:"price"`
	UnlockDuration *time.Duration    `json:"unlock_duration,omitempty"`
	Metadata       map[string]string `json:"metadata,omitempty"`
	Owner          types.Principal   `json:"owner"`
	ResalePrice    *types.Tokens     `json:"resale_price,omitempty"`
	Active         bool              `json:"is_active"`
}

// RoyaltyShare returns the creator royalty accrued on a sale of this
// asset: Price / 10 with integer truncation.
func (a *Asset) RoyaltyShare() types.Tokens {
	return a.Price.Share(RoyaltyDivisor)
}

// OwnedBy reports whether p is the current owner.
func (a *Asset) OwnedBy(p types.Principal) bool { return a.Owner == p }

// CreatedBy reports whether p is the original creator.
func (a *Asset) CreatedBy(p types.Principal) bool { return a.Creator == p }

// ClearResale removes any resale listing. Called on every ownership change.
func (a *Asset) ClearResale() { a.ResalePrice = nil }

// MintSpec carries the caller-supplied fields of a mint request.
// Creator, owner, id, and the active flag are assigned by the ledger.
type MintSpec struct {
	Title          string            `json:"title"`
	Description    string            `json:"description"`
	Price          types.Tokens      `json:"price"`
	UnlockDuration *time.Duration    `json:"unlock_duration,omitempty"`
	Metadata       map[string]string `json:"metadata,omitempty"`
}

// Filter selects assets in list queries. The zero Filter matches everything.
type Filter struct {
	Owner      types.Principal // match assets owned by this principal when set
	Creator    types.Principal // match assets created by this principal when set
	ActiveOnly bool            // match only active assets
}

// Match reports whether a satisfies the filter.
func (f Filter) Match(a *Asset) bool {
	if !f.Owner.IsZero() && a.Owner != f.Owner {
		return false
	}
	if !f.Creator.IsZero() && a.Creator != f.Creator {
		return false
	}
	if f.ActiveOnly && !a.Active {
		return false
	}
	return true
}
