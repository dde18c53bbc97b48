package postgres

import (
	"time"

	"github.com/xraph/grove"

	"github.com/tufstraka/Skilltree-NFT/account"
	"github.com/tufstraka/Skilltree-NFT/asset"
	"github.com/tufstraka/Skilltree-NFT/types"
)

// ==================== Asset models ====================

type assetModel struct {
	grove.BaseModel `grove:"table:skilltree_assets"`

	ID               int64             `grove:"id,pk"`
	Title            string            `grove:"title"`
	Description      string            `grove:"description"`
	Creator          string            `grove:"creator"`
	Price            int64             `grove:"price"`
	UnlockDurationNs *int64            `grove:"unlock_duration_ns"`
	Metadata         map[string]string `grove:"metadata,type:jsonb"`
	Owner            string            `grove:"owner"`
	ResalePrice      *int64            `grove:"resale_price"`
	IsActive         bool              `grove:"is_active"`
	CreatedAt        time.Time         `grove:"created_at"`
	UpdatedAt        time.Time         `grove:"updated_at"`
}

func toAssetModel(a *asset.Asset) *assetModel {
	m := &assetModel{
		ID:          int64(a.ID),
		Title:       a.Title,
		Description: a.Description,
		Creator:     string(a.Creator),
		Price:       int64(a.Price),
		Metadata:    a.Metadata,
		Owner:       string(a.Owner),
		IsActive:    a.Active,
		CreatedAt:   a.CreatedAt,
		UpdatedAt:   a.UpdatedAt,
	}
	if a.UnlockDuration != nil {
		ns := int64(*a.UnlockDuration)
		m.UnlockDurationNs = &ns
	}
	if a.ResalePrice != nil {
		rp := int64(*a.ResalePrice)
		m.ResalePrice = &rp
	}
	return m
}

func fromAssetModel(m *assetModel) *asset.Asset {
	a := &asset.Asset{
		Entity: types.Entity{
			CreatedAt: m.CreatedAt,
			UpdatedAt: m.UpdatedAt,
		},
		ID:          uint64(m.ID),
		Title:       m.Title,
		Description: m.Description,
		Creator:     types.Principal(m.Creator),
		Price:       types.Tokens(m.Price),
		Metadata:    m.Metadata,
		Owner:       types.Principal(m.Owner),
		Active:      m.IsActive,
	}
	if m.UnlockDurationNs != nil {
		d := time.Duration(*m.UnlockDurationNs)
		a.UnlockDuration = &d
	}
	if m.ResalePrice != nil {
		rp := types.Tokens(*m.ResalePrice)
		a.ResalePrice = &rp
	}
	return a
}

// ==================== Account models ====================

type accountModel struct {
	grove.BaseModel `grove:"table:skilltree_accounts"`

	Principal string    `grove:"principal,pk"`
	Balance   int64     `grove:"balance"`
	Royalty   int64     `grove:"royalty"`
	CreatedAt time.Time `grove:"created_at"`
	UpdatedAt time.Time `grove:"updated_at"`
}

func toAccountModel(a *account.Account) *accountModel {
	return &accountModel{
		Principal: string(a.Principal),
		Balance:   int64(a.Balance),
		Royalty:   int64(a.Royalty),
		CreatedAt: now(),
		UpdatedAt: now(),
	}
}

func fromAccountModel(m *accountModel) *account.Account {
	return &account.Account{
		Principal: types.Principal(m.Principal),
		Balance:   types.Tokens(m.Balance),
		Royalty:   types.Tokens(m.Royalty),
	}
}

// ==================== Counter model ====================

// counterModel holds the single next-id row. The id column is fixed at
// zero so the table can never grow past one row.
type counterModel struct {
	grove.BaseModel `grove:"table:skilltree_counter"`

	ID     int64 `grove:"id,pk"`
	NextID int64 `grove:"next_id"`
}
