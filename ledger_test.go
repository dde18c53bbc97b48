package skilltree_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	skilltree "github.com/tufstraka/Skilltree-NFT"
	"github.com/tufstraka/Skilltree-NFT/asset"
	"github.com/tufstraka/Skilltree-NFT/funding"
	"github.com/tufstraka/Skilltree-NFT/funding/mock"
	"github.com/tufstraka/Skilltree-NFT/store/memory"
	"github.com/tufstraka/Skilltree-NFT/types"
)

func newLedger(t *testing.T, opts ...skilltree.Option) *skilltree.Ledger {
	t.Helper()

	l := skilltree.New(memory.New(), opts...)
	if err := l.Start(context.Background()); err != nil {
		t.Fatalf("start: %v", err)
	}
	t.Cleanup(func() { l.Stop() })
	return l
}

func as(p types.Principal) context.Context {
	return skilltree.WithCaller(context.Background(), p)
}

func mustMint(t *testing.T, l *skilltree.Ledger, creator types.Principal, price types.Tokens) uint64 {
	t.Helper()

	id, err := l.Mint(as(creator), asset.MintSpec{
		Title:       "Sourdough Basics",
		Description: "A six-part fermentation course",
		Price:       price,
	})
	if err != nil {
		t.Fatalf("mint: %v", err)
	}
	return id
}

func TestMarketplaceScenario(t *testing.T) {
	client := mock.New()
	l := newLedger(t, skilltree.WithTransferClient(client))

	// Creator mints the first asset; ids start at zero.
	id := mustMint(t, l, "creator", types.E8s(100))
	if id != 0 {
		t.Fatalf("first id: got %d, want 0", id)
	}

	// Buyer funds their balance.
	if _, err := l.TopUp(as("buyer"), types.E8s(150)); err != nil {
		t.Fatalf("top up: %v", err)
	}

	// Buyer purchases.
	if err := l.Purchase(as("buyer"), id); err != nil {
		t.Fatalf("purchase: %v", err)
	}

	ctx := context.Background()
	buyerBal, _ := l.BalanceOf(ctx, "buyer")
	if buyerBal != types.E8s(50) {
		t.Errorf("buyer balance: got %v, want %v", buyerBal, types.E8s(50))
	}
	creatorBal, _ := l.BalanceOf(ctx, "creator")
	if creatorBal != types.E8s(100) {
		t.Errorf("creator balance: got %v, want %v", creatorBal, types.E8s(100))
	}
	royalty, _ := l.RoyaltyOf(ctx, "creator")
	if royalty != types.E8s(10) {
		t.Errorf("creator royalty: got %v, want %v", royalty, types.E8s(10))
	}

	a, err := l.Get(ctx, id)
	if err != nil || a == nil {
		t.Fatalf("get: %v, %v", a, err)
	}
	if a.Owner != "buyer" {
		t.Errorf("owner: got %s, want buyer", a.Owner)
	}
}

func TestMintValidation(t *testing.T) {
	l := newLedger(t)

	tests := []struct {
		name string
		ctx  context.Context
		spec asset.MintSpec
		want error
	}{
		{"NoCaller", context.Background(), asset.MintSpec{Title: "t", Description: "d", Price: types.E8s(1)}, skilltree.ErrNoCaller},
		{"EmptyTitle", as("alice"), asset.MintSpec{Title: "  ", Description: "d", Price: types.E8s(1)}, skilltree.ErrEmptyTitle},
		{"EmptyDescription", as("alice"), asset.MintSpec{Title: "t", Description: "", Price: types.E8s(1)}, skilltree.ErrEmptyDescription},
		{"ZeroPrice", as("alice"), asset.MintSpec{Title: "t", Description: "d", Price: types.E8s(0)}, skilltree.ErrInvalidPrice},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := l.Mint(tt.ctx, tt.spec); !errors.Is(err, tt.want) {
				t.Errorf("got %v, want %v", err, tt.want)
			}
		})
	}

	// Failed mints never consume an id.
	if id := mustMint(t, l, "alice", types.E8s(1)); id != 0 {
		t.Errorf("id after failed mints: got %d, want 0", id)
	}
}

func TestGetMissingAsset(t *testing.T) {
	l := newLedger(t)

	a, err := l.Get(context.Background(), 42)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if a != nil {
		t.Errorf("expected nil for a missing asset, got %+v", a)
	}
}

func TestListByOwnerAndActive(t *testing.T) {
	l := newLedger(t)
	ctx := context.Background()

	mustMint(t, l, "alice", types.E8s(100))
	mustMint(t, l, "bob", types.E8s(200))
	idC := mustMint(t, l, "alice", types.E8s(300))

	if err := l.Deactivate(as("alice"), idC); err != nil {
		t.Fatalf("deactivate: %v", err)
	}

	owned, err := l.ListByOwner(ctx, "alice")
	if err != nil {
		t.Fatalf("list by owner: %v", err)
	}
	if len(owned) != 2 {
		t.Errorf("owned: got %d, want 2 (deactivated assets stay owned)", len(owned))
	}

	active, err := l.ListActive(ctx)
	if err != nil {
		t.Fatalf("list active: %v", err)
	}
	if len(active) != 2 {
		t.Errorf("active: got %d, want 2", len(active))
	}
	for _, a := range active {
		if a.ID == idC {
			t.Error("deactivated asset in active listing")
		}
	}
}

func TestResaleListingLifecycle(t *testing.T) {
	client := mock.New()
	l := newLedger(t, skilltree.WithTransferClient(client))
	ctx := context.Background()

	id := mustMint(t, l, "alice", types.E8s(100))

	if err := l.SetResalePrice(as("alice"), id, types.E8s(0)); !errors.Is(err, skilltree.ErrInvalidPrice) {
		t.Errorf("zero price: got %v, want ErrInvalidPrice", err)
	}
	if err := l.SetResalePrice(as("mallory"), id, types.E8s(500)); !errors.Is(err, skilltree.ErrNotOwner) {
		t.Errorf("non-owner: got %v, want ErrNotOwner", err)
	}

	if err := l.SetResalePrice(as("alice"), id, types.E8s(500)); err != nil {
		t.Fatalf("list: %v", err)
	}

	// Purchase clears the listing.
	if _, err := l.TopUp(as("bob"), types.E8s(100)); err != nil {
		t.Fatalf("top up: %v", err)
	}
	if err := l.Purchase(as("bob"), id); err != nil {
		t.Fatalf("purchase: %v", err)
	}

	a, _ := l.Get(ctx, id)
	if a.ResalePrice != nil {
		t.Error("resale price survived the sale")
	}
}

func TestTransferAuthorization(t *testing.T) {
	l := newLedger(t)

	id := mustMint(t, l, "alice", types.E8s(100))

	if err := l.Transfer(as("mallory"), id, "bob"); !errors.Is(err, skilltree.ErrNotOwner) {
		t.Errorf("non-owner transfer: got %v, want ErrNotOwner", err)
	}
	if err := l.Transfer(as("alice"), id, "alice"); !errors.Is(err, skilltree.ErrSelfTransfer) {
		t.Errorf("self transfer: got %v, want ErrSelfTransfer", err)
	}

	if err := l.Transfer(as("alice"), id, "bob"); err != nil {
		t.Fatalf("transfer: %v", err)
	}

	a, _ := l.Get(context.Background(), id)
	if a.Owner != "bob" {
		t.Errorf("owner: got %s, want bob", a.Owner)
	}
}

func TestTopUpValidation(t *testing.T) {
	t.Run("NoClient", func(t *testing.T) {
		l := newLedger(t)
		if _, err := l.TopUp(as("alice"), types.E8s(100)); !errors.Is(err, skilltree.ErrNoClient) {
			t.Errorf("got %v, want ErrNoClient", err)
		}
	})

	t.Run("ZeroAmount", func(t *testing.T) {
		l := newLedger(t, skilltree.WithTransferClient(mock.New()))
		if _, err := l.TopUp(as("alice"), types.E8s(0)); !errors.Is(err, skilltree.ErrInvalidAmount) {
			t.Errorf("got %v, want ErrInvalidAmount", err)
		}
	})

	t.Run("NoCaller", func(t *testing.T) {
		l := newLedger(t, skilltree.WithTransferClient(mock.New()))
		if _, err := l.TopUp(context.Background(), types.E8s(100)); !errors.Is(err, skilltree.ErrNoCaller) {
			t.Errorf("got %v, want ErrNoCaller", err)
		}
	})
}

func TestTopUpRequestShape(t *testing.T) {
	client := mock.New()
	l := newLedger(t,
		skilltree.WithTransferClient(client),
		skilltree.WithTransferFee(types.E8s(10_000)),
		skilltree.WithFundingAccount("marketplace-account"),
	)

	if _, err := l.TopUp(as("alice"), types.E8s(500)); err != nil {
		t.Fatalf("top up: %v", err)
	}

	reqs := client.Requests()
	if len(reqs) != 1 {
		t.Fatalf("requests: got %d, want 1", len(reqs))
	}
	req := reqs[0]
	if req.Amount != types.E8s(500) {
		t.Errorf("amount: got %v, want %v", req.Amount, types.E8s(500))
	}
	if req.Fee != types.E8s(10_000) {
		t.Errorf("fee: got %v, want %v", req.Fee, types.E8s(10_000))
	}
	if req.To != "marketplace-account" {
		t.Errorf("to: got %s, want marketplace-account", req.To)
	}
	if req.Memo != 0 {
		t.Errorf("memo: got %d, want 0", req.Memo)
	}
}

func TestTopUpFailureLeavesNoResidue(t *testing.T) {
	client := mock.New()
	l := newLedger(t, skilltree.WithTransferClient(client))

	client.FailNext(errors.New("insufficient funds at source"))

	xfer, err := l.TopUp(as("alice"), types.E8s(100))
	if !errors.Is(err, skilltree.ErrTransferFailed) {
		t.Fatalf("got %v, want ErrTransferFailed", err)
	}
	if xfer.State() != funding.StateFailed {
		t.Errorf("state: got %s, want failed", xfer.State())
	}

	bal, _ := l.BalanceOf(context.Background(), "alice")
	if !bal.IsZero() {
		t.Errorf("balance after failed top-up: got %v, want 0", bal)
	}

	// A later attempt is unaffected.
	if _, err := l.TopUp(as("alice"), types.E8s(100)); err != nil {
		t.Fatalf("retry: %v", err)
	}
	bal, _ = l.BalanceOf(context.Background(), "alice")
	if bal != types.E8s(100) {
		t.Errorf("balance after retry: got %v, want %v", bal, types.E8s(100))
	}
}

func TestTopUpSettlement(t *testing.T) {
	client := mock.New()
	l := newLedger(t, skilltree.WithTransferClient(client))

	xfer, err := l.TopUp(as("alice"), types.E8s(100))
	if err != nil {
		t.Fatalf("top up: %v", err)
	}
	if xfer.State() != funding.StateSettled {
		t.Errorf("state: got %s, want settled", xfer.State())
	}
	if block, ok := xfer.Block(); !ok || block == 0 {
		t.Errorf("block: got (%d, %v)", block, ok)
	}
}

func TestOperationsInterleaveWithPendingTopUp(t *testing.T) {
	client := mock.New()
	l := newLedger(t, skilltree.WithTransferClient(client))
	ctx := context.Background()

	id := mustMint(t, l, "creator", types.E8s(100))

	release := client.Hold()
	defer release()

	done := make(chan error, 1)
	go func() {
		_, err := l.TopUp(as("buyer"), types.E8s(150))
		done <- err
	}()

	// Wait for the transfer request to reach the external client.
	waitFor(t, func() bool { return len(client.Requests()) == 1 })

	// The top-up is pending; no balance has been credited yet, so the
	// purchase is rejected while the rest of the marketplace keeps serving.
	if err := l.Purchase(as("buyer"), id); !errors.Is(err, skilltree.ErrInsufficientBalance) {
		t.Errorf("purchase during pending top-up: got %v, want ErrInsufficientBalance", err)
	}
	if got := len(l.PendingTopUps()); got != 1 {
		t.Errorf("pending top-ups: got %d, want 1", got)
	}

	mustMint(t, l, "creator", types.E8s(50))

	release()
	if err := <-done; err != nil {
		t.Fatalf("top up: %v", err)
	}

	bal, _ := l.BalanceOf(ctx, "buyer")
	if bal != types.E8s(150) {
		t.Errorf("balance after settlement: got %v, want %v", bal, types.E8s(150))
	}
	if got := len(l.PendingTopUps()); got != 0 {
		t.Errorf("pending top-ups after settlement: got %d, want 0", got)
	}
}

func TestConcurrentTopUpsBothSettle(t *testing.T) {
	client := mock.New()
	l := newLedger(t, skilltree.WithTransferClient(client))

	release := client.Hold()

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i := range errs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = l.TopUp(as("alice"), types.E8s(100))
		}(i)
	}

	waitFor(t, func() bool { return len(client.Requests()) == 2 })
	if got := len(l.PendingTopUps()); got != 2 {
		t.Errorf("pending top-ups: got %d, want 2", got)
	}

	release()
	wg.Wait()

	for i, err := range errs {
		if err != nil {
			t.Fatalf("top up %d: %v", i, err)
		}
	}

	bal, _ := l.BalanceOf(context.Background(), "alice")
	if bal != types.E8s(200) {
		t.Errorf("balance: got %v, want %v", bal, types.E8s(200))
	}
}

func TestSnapshotSaveRestore(t *testing.T) {
	client := mock.New()
	l := newLedger(t, skilltree.WithTransferClient(client))
	ctx := context.Background()

	id := mustMint(t, l, "alice", types.E8s(100))
	if _, err := l.TopUp(as("bob"), types.E8s(500)); err != nil {
		t.Fatalf("top up: %v", err)
	}
	if err := l.Purchase(as("bob"), id); err != nil {
		t.Fatalf("purchase: %v", err)
	}

	snap, err := l.SaveSnapshot(ctx)
	if err != nil {
		t.Fatalf("save: %v", err)
	}

	fresh := newLedger(t)
	if err := fresh.RestoreSnapshot(ctx, snap); err != nil {
		t.Fatalf("restore: %v", err)
	}

	a, _ := fresh.Get(ctx, id)
	if a == nil || a.Owner != "bob" {
		t.Fatalf("restored asset: %+v", a)
	}
	bal, _ := fresh.BalanceOf(ctx, "bob")
	if bal != types.E8s(400) {
		t.Errorf("balance: got %v, want %v", bal, types.E8s(400))
	}
	royalty, _ := fresh.RoyaltyOf(ctx, "alice")
	if royalty != types.E8s(10) {
		t.Errorf("royalty: got %v, want %v", royalty, types.E8s(10))
	}

	// Minting resumes from the restored counter.
	next := mustMint(t, fresh, "carol", types.E8s(1))
	if next != 1 {
		t.Errorf("next id: got %d, want 1", next)
	}
}

// waitFor polls cond until it holds or the deadline expires.
func waitFor(t *testing.T, cond func() bool) {
	t.Helper()

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(time.Millisecond)
	}
	t.Fatal("condition not reached in time")
}
