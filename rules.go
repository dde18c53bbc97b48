package skilltree

import (
	"strings"

	"github.com/tufstraka/Skilltree-NFT/asset"
	"github.com/tufstraka/Skilltree-NFT/types"
)

// Precondition checks shared by the engine and every store driver, so the
// purchase/transfer rules are stated exactly once. Each returns the first
// violated precondition as a sentinel error, or nil.

// ValidateMint checks the caller-supplied mint fields: title and
// description non-empty after trimming whitespace, price positive.
func ValidateMint(spec asset.MintSpec) error {
	if strings.TrimSpace(spec.Title) == "" {
		return ErrEmptyTitle
	}
	if strings.TrimSpace(spec.Description) == "" {
		return ErrEmptyDescription
	}
	if !spec.Price.IsPositive() {
		return ErrInvalidPrice
	}
	return nil
}

// CheckPurchase checks the purchase preconditions in order: asset active,
// buyer is not the owner, balance covers the price. Existence is checked
// by the caller looking the asset up.
func CheckPurchase(a *asset.Asset, buyer types.Principal, balance types.Tokens) error {
	if !a.Active {
		return ErrAssetInactive
	}
	if a.OwnedBy(buyer) {
		return ErrSelfPurchase
	}
	if !balance.Covers(a.Price) {
		return ErrInsufficientBalance
	}
	return nil
}

// CheckResale checks that caller may list the asset for resale.
func CheckResale(a *asset.Asset, caller types.Principal) error {
	if !a.OwnedBy(caller) {
		return ErrNotOwner
	}
	return nil
}

// CheckDeactivate checks that caller may deactivate the asset: only the
// original creator qualifies, regardless of current ownership.
// Deactivating an already-inactive asset is allowed and is a no-op.
func CheckDeactivate(a *asset.Asset, caller types.Principal) error {
	if !a.CreatedBy(caller) {
		return ErrNotCreator
	}
	return nil
}

// CheckTransfer checks the gift-transfer preconditions: caller owns the
// asset, the asset is active, and the new owner differs from the caller.
func CheckTransfer(a *asset.Asset, caller, newOwner types.Principal) error {
	if !a.OwnedBy(caller) {
		return ErrNotOwner
	}
	if !a.Active {
		return ErrAssetInactive
	}
	if newOwner == caller {
		return ErrSelfTransfer
	}
	return nil
}
