// Package account defines balance and royalty bookkeeping for the
// Skilltree marketplace ledger.
package account

import (
	"github.com/tufstraka/Skilltree-NFT/types"
)

// Account is the per-principal view of the ledger's books. Balance entries
// are created lazily: a principal the ledger has never seen holds zero.
// Royalty is strictly additive and never debited by this ledger; paying
// accrued royalty out is the host's concern.
type Account struct {
	Principal types.Principal `json:"principal"`
	Balance   types.Tokens    `json:"balance"`
	Royalty   types.Tokens    `json:"royalty"`
}

// PurchaseReceipt records the effects of one settled purchase. The full
// price is credited to the asset's creator, not to the previous owner:
// creators earn on every resale.
type PurchaseReceipt struct {
	AssetID       uint64          `json:"asset_id"`
	Buyer         types.Principal `json:"buyer"`
	PreviousOwner types.Principal `json:"previous_owner"`
	Creator       types.Principal `json:"creator"`
	Price         types.Tokens    `json:"price"`
	Royalty       types.Tokens    `json:"royalty"`
}
