package skilltree_test

import (
	"context"
	"log"
	"testing"

	skilltree "github.com/tufstraka/Skilltree-NFT"
	"github.com/tufstraka/Skilltree-NFT/asset"
	"github.com/tufstraka/Skilltree-NFT/funding/mock"
	"github.com/tufstraka/Skilltree-NFT/store/memory"
	"github.com/tufstraka/Skilltree-NFT/types"
)

// TestDocumentationExamples verifies that all examples in the documentation compile
func TestDocumentationExamples(t *testing.T) {
	// Test Quick Start example from the package documentation
	t.Run("QuickStartExample", func(t *testing.T) {
		// Create store (memory for demo, use PostgreSQL in production)
		store := memory.New()

		// Initialize the ledger with an external transfer client
		client := mock.New()
		l := skilltree.New(store,
			skilltree.WithTransferClient(client),
			skilltree.WithFundingAccount("marketplace-funding-account"),
		)

		// Start the engine
		ctx := context.Background()
		if err := l.Start(ctx); err != nil {
			t.Fatal(err)
		}
		defer l.Stop()

		// Every operation acts as a caller identity
		creator := skilltree.WithCaller(ctx, "creator-principal")
		buyer := skilltree.WithCaller(ctx, "buyer-principal")

		// Mint a skill asset
		assetID, err := l.Mint(creator, asset.MintSpec{
			Title:       "Sourdough Basics",
			Description: "A six-part fermentation course",
			Price:       types.Whole(1), // 1.00000000 tokens
		})
		if err != nil {
			t.Fatal(err)
		}

		// Fund the buyer's balance; TopUp suspends on the external
		// transfer and credits only after settlement
		xfer, err := l.TopUp(buyer, types.Whole(2))
		if err != nil {
			t.Fatal(err)
		}
		if block, ok := xfer.Block(); ok {
			log.Printf("top-up settled at block %d\n", block)
		}

		// Purchase: full price to the creator, 10% royalty accrued
		if err := l.Purchase(buyer, assetID); err != nil {
			t.Fatal(err)
		}

		// List the asset for resale
		if err := l.SetResalePrice(buyer, assetID, types.Whole(3)); err != nil {
			t.Fatal(err)
		}

		// Query state
		a, err := l.Get(ctx, assetID)
		if err != nil {
			t.Fatal(err)
		}
		log.Printf("asset %d owned by %s\n", a.ID, a.Owner)

		royalty, err := l.RoyaltyOf(ctx, "creator-principal")
		if err != nil {
			t.Fatal(err)
		}
		log.Printf("creator royalty: %s\n", royalty.String())
	})

	// Test Tokens type examples
	t.Run("TokensExamples", func(t *testing.T) {
		// Constructors
		_ = types.E8s(4900) // 0.00004900 tokens
		_ = types.Whole(3)  // 3.00000000 tokens

		// Arithmetic is integer e8s throughout
		a := types.E8s(100)
		b := types.E8s(200)
		_ = a.Add(b)     // 300 e8s
		_ = a.Mul(3)     // 300 e8s
		_ = b.Share(10)  // 20 e8s, truncating
		_ = types.Sum(a, b)

		// Comparison
		if a.LessThan(b) {
			// a is less than b
		}
		if b.Covers(a) {
			// b can pay a price of a
		}

		// Formatting
		_ = a.String() // "0.00000100"
	})
}
