// Package skilltree provides an embeddable marketplace ledger for skill
// assets: creator-minted digital goods with fixed-price sales, creator
// royalties, and owner-to-owner gifting.
//
// Skilltree is designed as a library, not a service. Import it directly
// into your Go application and pick a store driver. It provides:
//
//   - Monotonic asset ids with creator and owner tracking
//   - Purchases that credit the creator in full plus a truncated 10% royalty
//   - Owner resale listings that clear automatically on ownership change
//   - Permanent creator-side deactivation for policy enforcement
//   - Two-phase balance top-ups against an external funds ledger
//   - Whole-state snapshots for save/restore across restarts
//
// # Quick Start
//
// Create a ledger instance with your preferred store:
//
//	import (
//	    skilltree "github.com/tufstraka/Skilltree-NFT"
//	    "github.com/tufstraka/Skilltree-NFT/store/memory"
//	)
//
//	l := skilltree.New(memory.New())
//
//	if err := l.Start(ctx); err != nil {
//	    log.Fatal(err)
//	}
//	defer l.Stop()
//
// # Core Concepts
//
// Every operation runs on behalf of a caller carried on the context:
//
//	ctx = skilltree.WithCaller(ctx, "creator-principal")
//
// Creators mint assets and own them initially:
//
//	id, err := l.Mint(ctx, asset.MintSpec{
//	    Title:       "Sourdough Basics",
//	    Description: "A six-part fermentation course",
//	    Price:       skilltree.Whole(1),
//	})
//
// Buyers fund their balance via TopUp, then purchase. The full price goes
// to the creator regardless of who currently owns the asset, and a
// truncated 10% royalty accrues to the creator's royalty ledger:
//
//	buyerCtx := skilltree.WithCaller(ctx, "buyer-principal")
//	if _, err := l.TopUp(buyerCtx, skilltree.Whole(2)); err != nil {
//	    log.Fatal(err)
//	}
//	if err := l.Purchase(buyerCtx, id); err != nil {
//	    log.Fatal(err)
//	}
//
// # Tokens
//
// All monetary calculations use integer arithmetic to avoid floating-point
// precision issues. The Tokens type counts e8s, one hundred-millionth of a
// whole token, and royalty shares truncate toward zero.
//
// # Top-Up Protocol
//
// TopUp is the only operation that leaves the process: it issues a
// transfer on an external funds ledger and credits the caller's balance
// only after that transfer settles. No ledger state is locked while the
// transfer is pending, so the rest of the marketplace keeps serving.
//
// # Integration
//
// Skilltree integrates with the Forgery ecosystem:
//
//   - Forge: application lifecycle and dependency injection via the
//     extension subpackage
//   - Grove: SQLite, Postgres, and MongoDB store drivers
package skilltree
