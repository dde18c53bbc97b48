// Package postgres provides a PostgreSQL-backed ledger store via Grove ORM.
package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/xraph/grove"
	"github.com/xraph/grove/drivers/pgdriver"
	"github.com/xraph/grove/migrate"

	skilltree "github.com/tufstraka/Skilltree-NFT"
	"github.com/tufstraka/Skilltree-NFT/account"
	"github.com/tufstraka/Skilltree-NFT/asset"
	ledgerstore "github.com/tufstraka/Skilltree-NFT/store"
	"github.com/tufstraka/Skilltree-NFT/types"
)

// compile-time interface check
var _ ledgerstore.Store = (*Store)(nil)

// Store implements store.Store using PostgreSQL via Grove ORM.
//
// Multi-statement transitions (id allocation, purchases, restore) are
// serialized behind a store-level mutex so each one observes and writes a
// consistent state. The ledger assumes a single writing process.
type Store struct {
	db  *grove.DB
	pdb *pgdriver.PgDB

	mu sync.Mutex
}

// New creates a new PostgreSQL store backed by Grove ORM.
func New(db *grove.DB) *Store {
	return &Store{
		db:  db,
		pdb: pgdriver.Unwrap(db),
	}
}

// DB returns the underlying grove database for direct access.
func (s *Store) DB() *grove.DB { return s.db }

// Migrate creates the required tables and indexes using the grove orchestrator.
func (s *Store) Migrate(ctx context.Context) error {
	executor, err := migrate.NewExecutorFor(s.pdb)
	if err != nil {
		return fmt.Errorf("skilltree/postgres: create migration executor: %w", err)
	}
	orch := migrate.NewOrchestrator(executor, Migrations)
	if _, err := orch.Migrate(ctx); err != nil {
		return fmt.Errorf("skilltree/postgres: migration failed: %w", err)
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

// CreateAsset allocates the next id from the counter row and inserts the
// asset. The counter is consumed here and nowhere else, so a mint that
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
	if _, err := s.pdb.NewInsert(m).Exec(ctx); err != nil {
		return 0, err
	}

	if err := s.setNextID(ctx, next+1); err != nil {
		return 0, err
	}
	return next, nil
}

func (s *Store) GetAsset(ctx context.Context, assetID uint64) (*asset.Asset, error) {
	m := new(assetModel)
	err := s.pdb.NewSelect(m).
		Where("id = ?", int64(assetID)).
		Scan(ctx)
	if err != nil {
		if isNoRows(err) {
			return nil, skilltree.ErrAssetNotFound
		}
		return nil, err
	}
	return fromAssetModel(m), nil
}

func (s *Store) ListAssets(ctx context.Context, f asset.Filter) ([]*asset.Asset, error) {
	var models []assetModel
	q := s.pdb.NewSelect(&models)

	if !f.Owner.IsZero() {
		q = q.Where("owner = ?", string(f.Owner))
	}
	if !f.Creator.IsZero() {
		q = q.Where("creator = ?", string(f.Creator))
	}
	if f.ActiveOnly {
		q = q.Where("is_active = ?", true)
	}
	q = q.OrderExpr("id ASC")

	if err := q.Scan(ctx); err != nil {
		return nil, err
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

	_, err = s.pdb.NewUpdate((*assetModel)(nil)).
		Set("resale_price = ?", int64(price)).
		Set("updated_at = ?", now()).
		Where("id = ?", int64(assetID)).
		Exec(ctx)
	return err
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

	_, err = s.pdb.NewUpdate((*assetModel)(nil)).
		Set("is_active = ?", false).
		Set("updated_at = ?", now()).
		Where("id = ?", int64(assetID)).
		Exec(ctx)
	return err
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

	_, err = s.pdb.NewUpdate((*assetModel)(nil)).
		Set("owner = ?", string(newOwner)).
		Set("resale_price = ?", (*int64)(nil)).
		Set("updated_at = ?", now()).
		Where("id = ?", int64(assetID)).
		Exec(ctx)
	return err
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

	_, err = s.pdb.NewUpdate((*assetModel)(nil)).
		Set("owner = ?", string(buyer)).
		Set("resale_price = ?", (*int64)(nil)).
		Set("updated_at = ?", now()).
		Where("id = ?", int64(assetID)).
		Exec(ctx)
	if err != nil {
		return nil, err
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
	if err := s.pdb.NewSelect(&assetModels).OrderExpr("id ASC").Scan(ctx); err != nil {
		return nil, err
	}

	var accountModels []accountModel
	if err := s.pdb.NewSelect(&accountModels).OrderExpr("principal ASC").Scan(ctx); err != nil {
		return nil, err
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

	if _, err := s.pdb.NewDelete((*assetModel)(nil)).Where("1 = 1").Exec(ctx); err != nil {
		return err
	}
	if _, err := s.pdb.NewDelete((*accountModel)(nil)).Where("1 = 1").Exec(ctx); err != nil {
		return err
	}

	for _, a := range snap.Assets {
		if _, err := s.pdb.NewInsert(toAssetModel(a)).Exec(ctx); err != nil {
			return err
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
		if _, err := s.pdb.NewInsert(toAccountModel(acct)).Exec(ctx); err != nil {
			return err
		}
	}

	return s.setNextID(ctx, snap.NextID)
}

// ==================== Helpers ====================

// getAccount returns the stored account or a zero-balance one; principals
// without a row simply have nothing yet.
func (s *Store) getAccount(ctx context.Context, p types.Principal) (*account.Account, error) {
	m := new(accountModel)
	err := s.pdb.NewSelect(m).
		Where("principal = ?", string(p)).
		Scan(ctx)
	if err != nil {
		if isNoRows(err) {
			return &account.Account{Principal: p}, nil
		}
		return nil, err
	}
	return fromAccountModel(m), nil
}

// saveAccount inserts or updates the account row.
func (s *Store) saveAccount(ctx context.Context, acct *account.Account) error {
	m := new(accountModel)
	err := s.pdb.NewSelect(m).
		Where("principal = ?", string(acct.Principal)).
		Scan(ctx)
	if err != nil {
		if isNoRows(err) {
			_, err = s.pdb.NewInsert(toAccountModel(acct)).Exec(ctx)
			return err
		}
		return err
	}

	_, err = s.pdb.NewUpdate((*accountModel)(nil)).
		Set("balance = ?", int64(acct.Balance)).
		Set("royalty = ?", int64(acct.Royalty)).
		Set("updated_at = ?", now()).
		Where("principal = ?", string(acct.Principal)).
		Exec(ctx)
	return err
}

func (s *Store) nextID(ctx context.Context) (uint64, error) {
	m := new(counterModel)
	err := s.pdb.NewSelect(m).
		Where("id = ?", 0).
		Scan(ctx)
	if err != nil {
		return 0, err
	}
	return uint64(m.NextID), nil
}

func (s *Store) setNextID(ctx context.Context, next uint64) error {
	_, err := s.pdb.NewUpdate((*counterModel)(nil)).
		Set("next_id = ?", int64(next)).
		Where("id = ?", 0).
		Exec(ctx)
	return err
}

// now returns the current UTC time.
func now() time.Time {
	return time.Now().UTC()
}

// isNoRows checks for the standard sql.ErrNoRows sentinel.
func isNoRows(err error) bool {
	return errors.Is(err, sql.ErrNoRows)
}
