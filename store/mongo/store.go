// Package mongo provides a MongoDB-backed ledger store via Grove ORM.
package mongo

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"

	"github.com/xraph/grove"
	"github.com/xraph/grove/drivers/mongodriver"

	skilltree "github.com/tufstraka/Skilltree-NFT"
	"github.com/tufstraka/Skilltree-NFT/account"
	"github.com/tufstraka/Skilltree-NFT/asset"
	ledgerstore "github.com/tufstraka/Skilltree-NFT/store"
	"github.com/tufstraka/Skilltree-NFT/types"
)

// Collection name constants.
const (
	colAssets   = "skilltree_assets"
	colAccounts = "skilltree_accounts"
	colCounter  = "skilltree_counter"
)

// compile-time interface check
var _ ledgerstore.Store = (*Store)(nil)

// Store implements store.Store using MongoDB via Grove ORM.
//
// Multi-statement transitions (id allocation, purchases, restore) are
// serialized behind a store-level mutex so each one observes and writes a
// consistent state. The ledger assumes a single writing process.
type Store struct {
	db  *grove.DB
	mdb *mongodriver.MongoDB

	mu sync.Mutex
}

// New creates a new MongoDB store backed by Grove ORM.
func New(db *grove.DB) *Store {
	return &Store{
		db:  db,
		mdb: mongodriver.Unwrap(db),
	}
}

// DB returns the underlying grove database for direct access.
func (s *Store) DB() *grove.DB { return s.db }

// Migrate creates indexes for all skilltree collections.
func (s *Store) Migrate(ctx context.Context) error {
	indexes := migrationIndexes()

	for col, models := range indexes {
		if len(models) == 0 {
			continue
		}
		_, err := s.mdb.Collection(col).Indexes().CreateMany(ctx, models)
		if err != nil {
			return fmt.Errorf("skilltree/mongo: migrate %s indexes: %w", col, err)
		}
	}
	return nil
}

// Ping checks database connectivity.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.Ping(ctx)
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// ==================== Asset store ====================

// CreateAsset allocates the next id from the counter document and inserts
// the asset. The counter is consumed here and nowhere else, so a mint that
// fails validation upstream never burns an id.
func (s *Store) CreateAsset(ctx context.Context, a *asset.Asset) (uint64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	next, err := s.nextID(ctx)
	if err != nil {
		return 0, err
	}

	a.ID = next
	m := toAssetModel(a)
	if _, err := s.mdb.NewInsert(m).Exec(ctx); err != nil {
		return 0, fmt.Errorf("skilltree/mongo: create asset: %w", err)
	}

	if err := s.setNextID(ctx, next+1); err != nil {
		return 0, err
	}
	return next, nil
}

func (s *Store) GetAsset(ctx context.Context, assetID uint64) (*asset.Asset, error) {
	var m assetModel
	err := s.mdb.NewFind(&m).
		Filter(bson.M{"_id": int64(assetID)}).
		Scan(ctx)
	if err != nil {
		if isNoDocuments(err) {
			return nil, skilltree.ErrAssetNotFound
		}
		return nil, fmt.Errorf("skilltree/mongo: get asset: %w", err)
	}
	return fromAssetModel(&m), nil
}

func (s *Store) ListAssets(ctx context.Context, f asset.Filter) ([]*asset.Asset, error) {
	var models []assetModel

	filter := bson.M{}
	if !f.Owner.IsZero() {
		filter["owner"] = string(f.Owner)
	}
	if !f.Creator.IsZero() {
		filter["creator"] = string(f.Creator)
	}
	if f.ActiveOnly {
		filter["is_active"] = true
	}

	q := s.mdb.NewFind(&models).
		Filter(filter).
		Sort(bson.D{{Key: "_id", Value: 1}})

	if err := q.Scan(ctx); err != nil {
		return nil, fmt.Errorf("skilltree/mongo: list assets: %w", err)
	}

	result := make([]*asset.Asset, len(models))
	for i := range models {
		result[i] = fromAssetModel(&models[i])
	}
	return result, nil
}

func (s *Store) SetResalePrice(ctx context.Context, assetID uint64, caller types.Principal, price types.Tokens) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	a, err := s.GetAsset(ctx, assetID)
	if err != nil {
		return err
	}
	if err := skilltree.CheckResale(a, caller); err != nil {
		return err
	}

	_, err = s.mdb.NewUpdate((*assetModel)(nil)).
		Filter(bson.M{"_id": int64(assetID)}).
		Set("resale_price", int64(price)).
		Set("updated_at", now()).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("skilltree/mongo: set resale price: %w", err)
	}
	return nil
}

func (s *Store) DeactivateAsset(ctx context.Context, assetID uint64, caller types.Principal) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	a, err := s.GetAsset(ctx, assetID)
	if err != nil {
		return err
	}
	if err := skilltree.CheckDeactivate(a, caller); err != nil {
		return err
	}

	_, err = s.mdb.NewUpdate((*assetModel)(nil)).
		Filter(bson.M{"_id": int64(assetID)}).
		Set("is_active", false).
		Set("updated_at", now()).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("skilltree/mongo: deactivate asset: %w", err)
	}
	return nil
}

func (s *Store) TransferOwner(ctx context.Context, assetID uint64, caller, newOwner types.Principal) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	a, err := s.GetAsset(ctx, assetID)
	if err != nil {
		return err
	}
	if err := skilltree.CheckTransfer(a, caller, newOwner); err != nil {
		return err
	}

	_, err = s.mdb.NewUpdate((*assetModel)(nil)).
		Filter(bson.M{"_id": int64(assetID)}).
		Set("owner", string(newOwner)).
		Set("resale_price", nil).
		Set("updated_at", now()).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("skilltree/mongo: transfer owner: %w", err)
	}
	return nil
}

// ApplyPurchase performs the whole purchase as one serialized transition:
// debit buyer, credit the creator with the full price, accrue the
// truncated 10% royalty, flip ownership, clear the resale listing.
func (s *Store) ApplyPurchase(ctx context.Context, assetID uint64, buyer types.Principal) (*account.PurchaseReceipt, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	a, err := s.GetAsset(ctx, assetID)
	if err != nil {
		return nil, err
	}

	buyerAcct, err := s.getAccount(ctx, buyer)
	if err != nil {
		return nil, err
	}
	if err := skilltree.CheckPurchase(a, buyer, buyerAcct.Balance); err != nil {
		return nil, err
	}

	creatorAcct, err := s.getAccount(ctx, a.Creator)
	if err != nil {
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

	buyerAcct.Balance = buyerAcct.Balance.Sub(a.Price)
	creatorAcct.Balance = creatorAcct.Balance.Add(a.Price)
	creatorAcct.Royalty = creatorAcct.Royalty.Add(royalty)

	if err := s.saveAccount(ctx, buyerAcct); err != nil {
		return nil, err
	}
	if err := s.saveAccount(ctx, creatorAcct); err != nil {
		return nil, err
	}

	_, err = s.mdb.NewUpdate((*assetModel)(nil)).
		Filter(bson.M{"_id": int64(assetID)}).
		Set("owner", string(buyer)).
		Set("resale_price", nil).
		Set("updated_at", now()).
		Exec(ctx)
	if err != nil {
		return nil, fmt.Errorf("skilltree/mongo: apply purchase: %w", err)
	}
	return receipt, nil
}

// ==================== Account store ====================

func (s *Store) Balance(ctx context.Context, p types.Principal) (types.Tokens, error) {
	acct, err := s.getAccount(ctx, p)
	if err != nil {
		return 0, err
	}
	return acct.Balance, nil
}

func (s *Store) Credit(ctx context.Context, p types.Principal, amount types.Tokens) (types.Tokens, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	acct, err := s.getAccount(ctx, p)
	if err != nil {
		return 0, err
	}
	acct.Balance = acct.Balance.Add(amount)
	if err := s.saveAccount(ctx, acct); err != nil {
		return 0, err
	}
	return acct.Balance, nil
}

func (s *Store) Royalty(ctx context.Context, p types.Principal) (types.Tokens, error) {
	acct, err := s.getAccount(ctx, p)
	if err != nil {
		return 0, err
	}
	return acct.Royalty, nil
}

// ==================== Snapshot persistence ====================

func (s *Store) Snapshot(ctx context.Context) (*ledgerstore.Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var assetModels []assetModel
	err := s.mdb.NewFind(&assetModels).
		Filter(bson.M{}).
		Sort(bson.D{{Key: "_id", Value: 1}}).
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("skilltree/mongo: snapshot assets: %w", err)
	}

	var accountModels []accountModel
	err = s.mdb.NewFind(&accountModels).
		Filter(bson.M{}).
		Sort(bson.D{{Key: "_id", Value: 1}}).
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("skilltree/mongo: snapshot accounts: %w", err)
	}

	next, err := s.nextID(ctx)
	if err != nil {
		return nil, err
	}

	snap := &ledgerstore.Snapshot{
		Assets:    make([]*asset.Asset, 0, len(assetModels)),
		Balances:  make(map[types.Principal]types.Tokens, len(accountModels)),
		Royalties: make(map[types.Principal]types.Tokens, len(accountModels)),
		NextID:    next,
	}
	for i := range assetModels {
		snap.Assets = append(snap.Assets, fromAssetModel(&assetModels[i]))
	}
	for i := range accountModels {
		acct := fromAccountModel(&accountModels[i])
		if !acct.Balance.IsZero() {
			snap.Balances[acct.Principal] = acct.Balance
		}
		if !acct.Royalty.IsZero() {
			snap.Royalties[acct.Principal] = acct.Royalty
		}
	}
	return snap, nil
}

// Restore replaces the store's contents wholesale.
func (s *Store) Restore(ctx context.Context, snap *ledgerstore.Snapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.mdb.NewDelete((*assetModel)(nil)).Filter(bson.M{}).Exec(ctx); err != nil {
		return fmt.Errorf("skilltree/mongo: restore clear assets: %w", err)
	}
	if _, err := s.mdb.NewDelete((*accountModel)(nil)).Filter(bson.M{}).Exec(ctx); err != nil {
		return fmt.Errorf("skilltree/mongo: restore clear accounts: %w", err)
	}

	for _, a := range snap.Assets {
		if _, err := s.mdb.NewInsert(toAssetModel(a)).Exec(ctx); err != nil {
			return fmt.Errorf("skilltree/mongo: restore asset %d: %w", a.ID, err)
		}
	}

	principals := make(map[types.Principal]*account.Account)
	acctFor := func(p types.Principal) *account.Account {
		if acct, ok := principals[p]; ok {
			return acct
		}
		acct := &account.Account{Principal: p}
		principals[p] = acct
		return acct
	}
	for p, b := range snap.Balances {
		acctFor(p).Balance = b
	}
	for p, r := range snap.Royalties {
		acctFor(p).Royalty = r
	}
	for _, acct := range principals {
		if _, err := s.mdb.NewInsert(toAccountModel(acct)).Exec(ctx); err != nil {
			return fmt.Errorf("skilltree/mongo: restore account %s: %w", acct.Principal, err)
		}
	}

	return s.setNextID(ctx, snap.NextID)
}

// ==================== Helpers ====================

// getAccount returns the stored account or a zero-balance one; principals
// without a document simply have nothing yet.
func (s *Store) getAccount(ctx context.Context, p types.Principal) (*account.Account, error) {
	var m accountModel
	err := s.mdb.NewFind(&m).
		Filter(bson.M{"_id": string(p)}).
		Scan(ctx)
	if err != nil {
		if isNoDocuments(err) {
			return &account.Account{Principal: p}, nil
		}
		return nil, fmt.Errorf("skilltree/mongo: get account: %w", err)
	}
	return fromAccountModel(&m), nil
}

// saveAccount inserts or updates the account document.
func (s *Store) saveAccount(ctx context.Context, acct *account.Account) error {
	res, err := s.mdb.NewUpdate((*accountModel)(nil)).
		Filter(bson.M{"_id": string(acct.Principal)}).
		Set("balance", int64(acct.Balance)).
		Set("royalty", int64(acct.Royalty)).
		Set("updated_at", now()).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("skilltree/mongo: save account: %w", err)
	}
	if res.MatchedCount() == 0 {
		if _, err := s.mdb.NewInsert(toAccountModel(acct)).Exec(ctx); err != nil {
			return fmt.Errorf("skilltree/mongo: insert account: %w", err)
		}
	}
	return nil
}

// nextID reads the counter document; a missing document means no asset
// has ever been minted.
func (s *Store) nextID(ctx context.Context) (uint64, error) {
	var m counterModel
	err := s.mdb.NewFind(&m).
		Filter(bson.M{"_id": int64(0)}).
		Scan(ctx)
	if err != nil {
		if isNoDocuments(err) {
			return 0, nil
		}
		return 0, fmt.Errorf("skilltree/mongo: read counter: %w", err)
	}
	return uint64(m.NextID), nil
}

func (s *Store) setNextID(ctx context.Context, next uint64) error {
	res, err := s.mdb.NewUpdate((*counterModel)(nil)).
		Filter(bson.M{"_id": int64(0)}).
		Set("next_id", int64(next)).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("skilltree/mongo: write counter: %w", err)
	}
	if res.MatchedCount() == 0 {
		m := &counterModel{ID: 0, NextID: int64(next)}
		if _, err := s.mdb.NewInsert(m).Exec(ctx); err != nil {
			return fmt.Errorf("skilltree/mongo: seed counter: %w", err)
		}
	}
	return nil
}

func migrationIndexes() map[string][]mongo.IndexModel {
	return map[string][]mongo.IndexModel{
		colAssets: {
			{Keys: bson.D{{Key: "owner", Value: 1}}},
			{Keys: bson.D{{Key: "creator", Value: 1}}},
			{Keys: bson.D{{Key: "is_active", Value: 1}}},
		},
		colAccounts: {},
		colCounter:  {},
	}
}

func isNoDocuments(err error) bool {
	return errors.Is(err, mongo.ErrNoDocuments)
}

func now() time.Time {
	return time.Now().UTC()
}
