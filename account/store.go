package account

import (
	"context"

	"github.com/tufstraka/Skilltree-NFT/types"
)

// Store is the balance/royalty slice of the ledger store.
type Store interface {
	// Balance returns the principal's spendable balance; zero for
	// principals the ledger has never seen.
	Balance(ctx context.Context, p types.Principal) (types.Tokens, error)

	// Credit adds amount to the principal's balance, creating the entry
	// if absent, and returns the new balance. Called only after an
	// external top-up transfer has settled.
	Credit(ctx context.Context, p types.Principal, amount types.Tokens) (types.Tokens, error)

	// Royalty returns the principal's accrued creator royalty.
	Royalty(ctx context.Context, p types.Principal) (types.Tokens, error)
}
