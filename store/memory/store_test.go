package memory_test

import (
	"context"
	"errors"
	"testing"

	skilltree "github.com/tufstraka/Skilltree-NFT"
	"github.com/tufstraka/Skilltree-NFT/asset"
	"github.com/tufstraka/Skilltree-NFT/store/memory"
	"github.com/tufstraka/Skilltree-NFT/types"
)

func newAsset(creator types.Principal, price types.Tokens) *asset.Asset {
	return &asset.Asset{
		Entity:      types.NewEntity(),
		Title:       "Sourdough Basics",
		Description: "A six-part fermentation course",
		Creator:     creator,
		Price:       price,
		Owner:       creator,
		Active:      true,
	}
}

func TestCreateAssetMonotonicIDs(t *testing.T) {
	ctx := context.Background()
	s := memory.New()

	for want := uint64(0); want < 5; want++ {
		got, err := s.CreateAsset(ctx, newAsset("alice", types.E8s(100)))
		if err != nil {
			t.Fatalf("create: %v", err)
		}
		if got != want {
			t.Errorf("id: got %d, want %d", got, want)
		}
	}
}

func TestGetAsset(t *testing.T) {
	ctx := context.Background()
	s := memory.New()

	id, err := s.CreateAsset(ctx, newAsset("alice", types.E8s(100)))
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	a, err := s.GetAsset(ctx, id)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if a.Title != "Sourdough Basics" || a.Creator != "alice" || !a.Active {
		t.Errorf("unexpected asset: %+v", a)
	}

	if _, err := s.GetAsset(ctx, 999); !errors.Is(err, skilltree.ErrAssetNotFound) {
		t.Errorf("missing asset: got %v, want ErrAssetNotFound", err)
	}
}

func TestGetAssetReturnsCopy(t *testing.T) {
	ctx := context.Background()
	s := memory.New()

	id, _ := s.CreateAsset(ctx, newAsset("alice", types.E8s(100)))

	a, _ := s.GetAsset(ctx, id)
	a.Title = "mutated"

	fresh, _ := s.GetAsset(ctx, id)
	if fresh.Title != "Sourdough Basics" {
		t.Error("stored asset was mutated through a returned copy")
	}
}

func TestListAssets(t *testing.T) {
	ctx := context.Background()
	s := memory.New()

	idA, _ := s.CreateAsset(ctx, newAsset("alice", types.E8s(100)))
	s.CreateAsset(ctx, newAsset("bob", types.E8s(200)))
	idC, _ := s.CreateAsset(ctx, newAsset("alice", types.E8s(300)))

	if err := s.DeactivateAsset(ctx, idC, "alice"); err != nil {
		t.Fatalf("deactivate: %v", err)
	}

	t.Run("ByOwner", func(t *testing.T) {
		got, err := s.ListAssets(ctx, asset.Filter{Owner: "alice"})
		if err != nil {
			t.Fatalf("list: %v", err)
		}
		if len(got) != 2 {
			t.Errorf("got %d assets, want 2", len(got))
		}
	})

	t.Run("ActiveOnly", func(t *testing.T) {
		got, err := s.ListAssets(ctx, asset.Filter{ActiveOnly: true})
		if err != nil {
			t.Fatalf("list: %v", err)
		}
		if len(got) != 2 {
			t.Errorf("got %d assets, want 2", len(got))
		}
		for _, a := range got {
			if a.ID == idC {
				t.Error("inactive asset included in active listing")
			}
		}
	})

	t.Run("OwnerAndActive", func(t *testing.T) {
		got, err := s.ListAssets(ctx, asset.Filter{Owner: "alice", ActiveOnly: true})
		if err != nil {
			t.Fatalf("list: %v", err)
		}
		if len(got) != 1 || got[0].ID != idA {
			t.Errorf("got %+v, want only asset %d", got, idA)
		}
	})
}

func TestApplyPurchase(t *testing.T) {
	ctx := context.Background()
	s := memory.New()

	id, _ := s.CreateAsset(ctx, newAsset("creator", types.E8s(100)))
	if _, err := s.Credit(ctx, "buyer", types.E8s(150)); err != nil {
		t.Fatalf("credit: %v", err)
	}

	receipt, err := s.ApplyPurchase(ctx, id, "buyer")
	if err != nil {
		t.Fatalf("purchase: %v", err)
	}

	if receipt.Price != types.E8s(100) || receipt.Royalty != types.E8s(10) {
		t.Errorf("receipt: price %v royalty %v", receipt.Price, receipt.Royalty)
	}
	if receipt.PreviousOwner != "creator" || receipt.Buyer != "buyer" {
		t.Errorf("receipt parties: %+v", receipt)
	}

	buyerBal, _ := s.Balance(ctx, "buyer")
	if buyerBal != types.E8s(50) {
		t.Errorf("buyer balance: got %v, want %v", buyerBal, types.E8s(50))
	}
	creatorBal, _ := s.Balance(ctx, "creator")
	if creatorBal != types.E8s(100) {
		t.Errorf("creator balance: got %v, want %v", creatorBal, types.E8s(100))
	}
	royalty, _ := s.Royalty(ctx, "creator")
	if royalty != types.E8s(10) {
		t.Errorf("creator royalty: got %v, want %v", royalty, types.E8s(10))
	}

	a, _ := s.GetAsset(ctx, id)
	if a.Owner != "buyer" {
		t.Errorf("owner: got %s, want buyer", a.Owner)
	}
	if a.ResalePrice != nil {
		t.Error("resale price should clear on purchase")
	}
}

func TestApplyPurchaseRoyaltyTruncates(t *testing.T) {
	ctx := context.Background()
	s := memory.New()

	// price 99: royalty is 9, not 9.9
	id, _ := s.CreateAsset(ctx, newAsset("creator", types.E8s(99)))
	s.Credit(ctx, "buyer", types.E8s(99))

	receipt, err := s.ApplyPurchase(ctx, id, "buyer")
	if err != nil {
		t.Fatalf("purchase: %v", err)
	}
	if receipt.Royalty != types.E8s(9) {
		t.Errorf("royalty: got %v, want %v", receipt.Royalty, types.E8s(9))
	}
}

func TestApplyPurchaseCreatorPaidOnResale(t *testing.T) {
	ctx := context.Background()
	s := memory.New()

	id, _ := s.CreateAsset(ctx, newAsset("creator", types.E8s(100)))
	s.Credit(ctx, "first", types.E8s(100))
	s.Credit(ctx, "second", types.E8s(100))

	if _, err := s.ApplyPurchase(ctx, id, "first"); err != nil {
		t.Fatalf("first purchase: %v", err)
	}
	if _, err := s.ApplyPurchase(ctx, id, "second"); err != nil {
		t.Fatalf("second purchase: %v", err)
	}

	// Both sale proceeds go to the creator; the intermediate owner keeps
	// nothing from the resale.
	firstBal, _ := s.Balance(ctx, "first")
	if firstBal != types.E8s(0) {
		t.Errorf("first owner balance: got %v, want 0", firstBal)
	}
	creatorBal, _ := s.Balance(ctx, "creator")
	if creatorBal != types.E8s(200) {
		t.Errorf("creator balance: got %v, want %v", creatorBal, types.E8s(200))
	}
	royalty, _ := s.Royalty(ctx, "creator")
	if royalty != types.E8s(20) {
		t.Errorf("creator royalty: got %v, want %v", royalty, types.E8s(20))
	}
}

func TestApplyPurchaseRejections(t *testing.T) {
	ctx := context.Background()
	s := memory.New()

	id, _ := s.CreateAsset(ctx, newAsset("creator", types.E8s(100)))
	s.Credit(ctx, "creator", types.E8s(1000))
	s.Credit(ctx, "poor", types.E8s(99))

	inactiveID, _ := s.CreateAsset(ctx, newAsset("creator", types.E8s(100)))
	s.DeactivateAsset(ctx, inactiveID, "creator")

	tests := []struct {
		name    string
		assetID uint64
		buyer   types.Principal
		want    error
	}{
		{"MissingAsset", 999, "buyer", skilltree.ErrAssetNotFound},
		{"SelfPurchase", id, "creator", skilltree.ErrSelfPurchase},
		{"InsufficientBalance", id, "poor", skilltree.ErrInsufficientBalance},
		{"InactiveAsset", inactiveID, "buyer", skilltree.ErrAssetInactive},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := s.ApplyPurchase(ctx, tt.assetID, tt.buyer)
			if !errors.Is(err, tt.want) {
				t.Errorf("got %v, want %v", err, tt.want)
			}
		})
	}

	// A rejected purchase moves nothing.
	poorBal, _ := s.Balance(ctx, "poor")
	if poorBal != types.E8s(99) {
		t.Errorf("balance after rejection: got %v, want %v", poorBal, types.E8s(99))
	}
}

func TestSetResalePrice(t *testing.T) {
	ctx := context.Background()
	s := memory.New()

	id, _ := s.CreateAsset(ctx, newAsset("alice", types.E8s(100)))

	if err := s.SetResalePrice(ctx, id, "mallory", types.E8s(500)); !errors.Is(err, skilltree.ErrNotOwner) {
		t.Errorf("non-owner listing: got %v, want ErrNotOwner", err)
	}

	if err := s.SetResalePrice(ctx, id, "alice", types.E8s(500)); err != nil {
		t.Fatalf("owner listing: %v", err)
	}

	a, _ := s.GetAsset(ctx, id)
	if a.ResalePrice == nil || *a.ResalePrice != types.E8s(500) {
		t.Errorf("resale price: got %v", a.ResalePrice)
	}
}

func TestDeactivateAsset(t *testing.T) {
	ctx := context.Background()
	s := memory.New()

	id, _ := s.CreateAsset(ctx, newAsset("alice", types.E8s(100)))
	s.Credit(ctx, "bob", types.E8s(100))
	if _, err := s.ApplyPurchase(ctx, id, "bob"); err != nil {
		t.Fatalf("purchase: %v", err)
	}

	// The new owner is not the creator and cannot deactivate.
	if err := s.DeactivateAsset(ctx, id, "bob"); !errors.Is(err, skilltree.ErrNotCreator) {
		t.Errorf("owner deactivate: got %v, want ErrNotCreator", err)
	}

	// The creator can, even after selling.
	if err := s.DeactivateAsset(ctx, id, "alice"); err != nil {
		t.Fatalf("creator deactivate: %v", err)
	}

	a, _ := s.GetAsset(ctx, id)
	if a.Active {
		t.Error("asset still active after deactivation")
	}

	// Re-deactivation is a no-op, not an error.
	if err := s.DeactivateAsset(ctx, id, "alice"); err != nil {
		t.Errorf("repeat deactivate: %v", err)
	}
}

func TestTransferOwner(t *testing.T) {
	ctx := context.Background()
	s := memory.New()

	id, _ := s.CreateAsset(ctx, newAsset("alice", types.E8s(100)))
	if err := s.SetResalePrice(ctx, id, "alice", types.E8s(500)); err != nil {
		t.Fatalf("list: %v", err)
	}

	tests := []struct {
		name     string
		caller   types.Principal
		newOwner types.Principal
		want     error
	}{
		{"NotOwner", "mallory", "bob", skilltree.ErrNotOwner},
		{"SelfTransfer", "alice", "alice", skilltree.ErrSelfTransfer},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := s.TransferOwner(ctx, id, tt.caller, tt.newOwner); !errors.Is(err, tt.want) {
				t.Errorf("got %v, want %v", err, tt.want)
			}
		})
	}

	if err := s.TransferOwner(ctx, id, "alice", "bob"); err != nil {
		t.Fatalf("transfer: %v", err)
	}

	a, _ := s.GetAsset(ctx, id)
	if a.Owner != "bob" {
		t.Errorf("owner: got %s, want bob", a.Owner)
	}
	if a.ResalePrice != nil {
		t.Error("resale price should clear on transfer")
	}

	// Balances do not move on a gift.
	aliceBal, _ := s.Balance(ctx, "alice")
	bobBal, _ := s.Balance(ctx, "bob")
	if !aliceBal.IsZero() || !bobBal.IsZero() {
		t.Errorf("balances moved on gift: alice %v bob %v", aliceBal, bobBal)
	}
}

func TestSnapshotRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := memory.New()

	id0, _ := s.CreateAsset(ctx, newAsset("alice", types.E8s(100)))
	id1, _ := s.CreateAsset(ctx, newAsset("bob", types.E8s(200)))
	s.Credit(ctx, "carol", types.E8s(500))
	s.ApplyPurchase(ctx, id0, "carol")
	s.SetResalePrice(ctx, id1, "bob", types.E8s(900))

	snap, err := s.Snapshot(ctx)
	if err != nil {
		t.Fatalf("snapshot: %v", err)
	}

	restored := memory.New()
	if err := restored.Restore(ctx, snap); err != nil {
		t.Fatalf("restore: %v", err)
	}

	a0, err := restored.GetAsset(ctx, id0)
	if err != nil {
		t.Fatalf("get restored: %v", err)
	}
	if a0.Owner != "carol" {
		t.Errorf("owner: got %s, want carol", a0.Owner)
	}

	a1, _ := restored.GetAsset(ctx, id1)
	if a1.ResalePrice == nil || *a1.ResalePrice != types.E8s(900) {
		t.Errorf("resale price not restored: %v", a1.ResalePrice)
	}

	carolBal, _ := restored.Balance(ctx, "carol")
	if carolBal != types.E8s(400) {
		t.Errorf("balance: got %v, want %v", carolBal, types.E8s(400))
	}
	royalty, _ := restored.Royalty(ctx, "alice")
	if royalty != types.E8s(10) {
		t.Errorf("royalty: got %v, want %v", royalty, types.E8s(10))
	}

	// The id counter restores too: the next mint continues the sequence.
	next, err := restored.CreateAsset(ctx, newAsset("dave", types.E8s(1)))
	if err != nil {
		t.Fatalf("create after restore: %v", err)
	}
	if next != 2 {
		t.Errorf("next id: got %d, want 2", next)
	}
}
