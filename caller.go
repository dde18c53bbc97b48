package skilltree

import (
	"context"

	"github.com/tufstraka/Skilltree-NFT/types"
)

// Caller identity is resolved by the host and carried on the context.
// The ledger trusts it implicitly.

type callerKey struct{}

// WithCaller returns a context carrying the invoking principal.
func WithCaller(ctx context.Context, p types.Principal) context.Context {
	return context.WithValue(ctx, callerKey{}, p)
}

// CallerFrom extracts the invoking principal from the context. Operations
// that require an identity fail with ErrNoCaller when it is absent.
func CallerFrom(ctx context.Context) (types.Principal, error) {
	p, ok := ctx.Value(callerKey{}).(types.Principal)
	if !ok || p.IsZero() {
		return "", ErrNoCaller
	}
	return p, nil
}
