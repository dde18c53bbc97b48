package mongo

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

	ID               int64             `grove:"id,pk"              bson:"_id"`
	Title            string            `grove:"title"              bson:"title"`
	Description      string            `grove:"description"        bson:"description"`
	Creator          string            `grove:"creator"            bson:"creator"`
	Price            int64             `grove:"price"              bson:"price"`
	UnlockDurationNs *int64            `grove:"unlock_duration_ns" bson:"unlock_duration_ns,omitempty"`
	Metadata         map[string]string `grove:"metadata"           bson:"metadata,omitempty"`
	Owner            string            `grove:"owner"              bson:"owner"`
	ResalePrice      *int64            `grove:"resale_price"       bson:"resale_price,omitempty"`
	IsActive         bool              `grove:"is_active"          bson:"is_active"`
	CreatedAt        time.Time         `grove:"created_at"         bson:"created_at"`
	UpdatedAt        time.Time         `grove:"updated_at"         bson:"updated_at"`
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

	Principal string    `grove:"principal,pk" bson:"_id"`
	Balance   int64     `grove:"balance"      bson:"balance"`
	Royalty   int64     `grove:"royalty"      bson:"royalty"`
	CreatedAt time.Time `grove:"created_at"   bson:"created_at"`
	UpdatedAt time.Time `grove:"updated_at"   bson:"updated_at"`
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

// counterModel holds the single next-id document, keyed at zero.
type counterModel struct {
	grove.BaseModel `grove:"table:skilltree_counter"`

	ID     int64 `grove:"id,pk"   bson:"_id"`
	NextID int64 `grove:"next_id" bson:"next_id"`
}
