// Package memory provides the in-process ledger store. It is the canonical
// driver: the whole marketplace state machine lives in one mutex-guarded
// struct, initialized empty and wholly replaced on snapshot restore.
package memory

import (
	"context"
	"sync"

	skilltree "github.com/tufstraka/Skilltree-NFT"
	"github.com/tufstraka/Skilltree-NFT/account"
	"github.com/tufstraka/Skilltree-NFT/asset"
	ledgerstore "github.com/tufstraka/Skilltree-NFT/store"
	"github.com/tufstraka/Skilltree-NFT/types"
)

// compile-time interface check
var _ ledgerstore.Store = (*Store)(nil)

type Store struct {
	mu sync.RWMutex

	assets    map[uint64]*asset.Asset
	balances  map[types.Principal]types.Tokens
	royalties map[types.Principal]types.Tokens
	nextID    uint64
}

func New() *Store {
	return &Store{
		assets:    make(map[uint64]*asset.Asset),
		balances:  make(map[types.Principal]types.Tokens),
		royalties: make(map[types.Principal]types.Tokens),
	}
}

// ==================== Asset methods ====================

// CreateAsset allocates the next id and stores the asset. The counter is
// consumed here and nowhere else, so a mint that fails validation in the
// engine never burns an id.
func (s *Store) CreateAsset(_ context.Context, a *asset.Asset) (uint64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	a.ID = s.nextID
	s.nextID++

	cp := cloneAsset(a)
	s.assets[cp.ID] = cp
	return cp.ID, nil
}

func (s *Store) GetAsset(_ context.Context, assetID uint64) (*asset.Asset, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	a, ok := s.assets[assetID]
	if !ok {
		return nil, skilltree.ErrAssetNotFound
	}
	return cloneAsset(a), nil
}

func (s *Store) ListAssets(_ context.Context, f asset.Filter) ([]*asset.Asset, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]*asset.Asset, 0)
	for _, a := range s.assets {
		if f.Match(a) {
			result = append(result, cloneAsset(a))
		}
	}
	return result, nil
}

func (s *Store) SetResalePrice(_ context.Context, assetID uint64, caller types.Principal, price types.Tokens) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	a, ok := s.assets[assetID]
	if !ok {
		return skilltree.ErrAssetNotFound
	}
	if err := skilltree.CheckResale(a, caller); err != nil {
		return err
	}

	p := price
	a.ResalePrice = &p
	a.Touch()
	return nil
}

func (s *Store) DeactivateAsset(_ context.Context, assetID uint64, caller types.Principal) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	a, ok := s.assets[assetID]
	if !ok {
		return skilltree.ErrAssetNotFound
	}
	if err := skilltree.CheckDeactivate(a, caller); err != nil {
		return err
	}

	a.Active = false
	a.Touch()
	return nil
}

func (s *Store) TransferOwner(_ context.Context, assetID uint64, caller, newOwner types.Principal) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	a, ok := s.assets[assetID]
	if !ok {
		return skilltree.ErrAssetNotFound
	}
	if err := skilltree.CheckTransfer(a, caller, newOwner); err != nil {
		return err
	}

	a.Owner = newOwner
	a.ClearResale()
	a.Touch()
	return nil
}

// ApplyPurchase performs the whole purchase as one step under the lock:
// debit buyer, credit the creator with the full price, accrue the
// truncated 10% royalty, flip ownership, clear the resale listing.
func (s *Store) ApplyPurchase(_ context.Context, assetID uint64, buyer types.Principal) (*account.PurchaseReceipt, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	a, ok := s.assets[assetID]
	if !ok {
		return nil, skilltree.ErrAssetNotFound
	}
	if err := skilltree.CheckPurchase(a, buyer, s.balances[buyer]); err != nil {
		return nil, err
	}

	royalty := a.RoyaltyShare()
	receipt := &account.PurchaseReceipt{
		AssetID:       a.ID,
		Buyer:         buyer,
		PreviousOwner: a.Owner,
		Creator:       a.Creator,
		Price:         a.Price,
		Royalty:       royalty,
	}

	s.balances[buyer] = s.balances[buyer].Sub(a.Price)
	s.balances[a.Creator] = s.balances[a.Creator].Add(a.Price)
	s.royalties[a.Creator] = s.royalties[a.Creator].Add(royalty)

	a.Owner = buyer
	a.ClearResale()
	a.Touch()

	return receipt, nil
}

// ==================== Account methods ====================

func (s *Store) Balance(_ context.Context, p types.Principal) (types.Tokens, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.balances[p], nil
}

func (s *Store) Credit(_ context.Context, p types.Principal, amount types.Tokens) (types.Tokens, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.balances[p] = s.balances[p].Add(amount)
	return s.balances[p], nil
}

func (s *Store) Royalty(_ context.Context, p types.Principal) (types.Tokens, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.royalties[p], nil
}

// ==================== Snapshot persistence ====================

func (s *Store) Snapshot(_ context.Context) (*ledgerstore.Snapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := &ledgerstore.Snapshot{
		Assets:    make([]*asset.Asset, 0, len(s.assets)),
		Balances:  make(map[types.Principal]types.Tokens, len(s.balances)),
		Royalties: make(map[types.Principal]types.Tokens, len(s.royalties)),
		NextID:    s.nextID,
	}
	for _, a := range s.assets {
		snap.Assets = append(snap.Assets, cloneAsset(a))
	}
	for p, b := range s.balances {
		snap.Balances[p] = b
	}
	for p, r := range s.royalties {
		snap.Royalties[p] = r
	}
	return snap, nil
}

// Restore replaces the store's contents wholesale.
func (s *Store) Restore(_ context.Context, snap *ledgerstore.Snapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.assets = make(map[uint64]*asset.Asset, len(snap.Assets))
	for _, a := range snap.Assets {
		s.assets[a.ID] = cloneAsset(a)
	}
	s.balances = make(map[types.Principal]types.Tokens, len(snap.Balances))
	for p, b := range snap.Balances {
		s.balances[p] = b
	}
	s.royalties = make(map[types.Principal]types.Tokens, len(snap.Royalties))
	for p, r := range snap.Royalties {
		s.royalties[p] = r
	}
	s.nextID = snap.NextID
	return nil
}

// ==================== Store management ====================

func (s *Store) Migrate(_ context.Context) error {
	return nil // No migration needed for memory store
}

func (s *Store) Ping(_ context.Context) error {
	return nil // Always available
}

func (s *Store) Close() error {
	return nil // Nothing to close
}

// cloneAsset copies an asset so callers can never mutate stored state
// behind the lock.
func cloneAsset(a *asset.Asset) *asset.Asset {
	cp := *a
	if a.UnlockDuration != nil {
		d := *a.UnlockDuration
		cp.UnlockDuration = &d
	}
	if a.ResalePrice != nil {
		r := *a.ResalePrice
		cp.ResalePrice = &r
	}
	if a.Metadata != nil {
		cp.Metadata = make(map[string]string, len(a.Metadata))
		for k, v := range a.Metadata {
			cp.Metadata[k] = v
		}
	}
	return &cp
}
