// Package funding models the ledger's one external dependency: the
// funds-transfer service that settles balance top-ups.
//
// The ledger is a thin client of a single operation. It composes a
// Request, suspends until the service reports a settlement block index
// or an error, and only then credits the caller's balance. Nothing in
// the ledger store is held locked while a transfer is in flight.
package funding

import (
	"context"
	"time"

	"github.com/tufstraka/Skilltree-NFT/types"
)

// DefaultFee is the fixed fee attached to every top-up transfer, in e8s.
const DefaultFee = types.Tokens(10_000)

// AccountIdentifier names an account on the external transfer ledger.
// Opaque to this package.
type AccountIdentifier string

// Subaccount selects a sub-ledger of the source account. Nil means the
// default subaccount.
type Subaccount [32]byte

// BlockIndex is the settlement reference returned by the external ledger:
// the index of the block (or sequence entry) that recorded the transfer.
type BlockIndex uint64

// Request describes one transfer on the external ledger.
type Request struct {
	Memo           uint64            `json:"memo"`
	Amount         types.Tokens      `json:"amount"`
	Fee            types.Tokens      `json:"fee"`
	FromSubaccount *Subaccount       `json:"from_subaccount,omitempty"`
	To             AccountIdentifier `json:"to"`
	CreatedAt      *time.Time        `json:"created_at,omitempty"`
}

// Client is the external funds-transfer service. Transfer blocks until the
// service settles or rejects the request; this is the ledger's single
// suspension point, and other ledger operations interleave freely while a
// call is pending.
type Client interface {
	Transfer(ctx context.Context, req Request) (BlockIndex, error)
}

// ClientFunc is an adapter to use a plain function as a Client.
type ClientFunc func(ctx context.Context, req Request) (BlockIndex, error)

// Transfer implements Client.
func (f ClientFunc) Transfer(ctx context.Context, req Request) (BlockIndex, error) {
	return f(ctx, req)
}
