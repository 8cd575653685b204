package domain

import (
	"time"

	"github.com/banzai-team/spoon-rebalancing/pkg/database"
)

// Wallet is a tracked on-chain wallet.
type Wallet struct {
	ID        string    `json:"id"`
	Address   string    `json:"address"`
	Chain     string    `json:"chain"`
	Label     string    `json:"label,omitempty"`
	Tokens    []string  `json:"tokens"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// CreateWalletRequest is the body for creating a wallet.
type CreateWalletRequest struct {
	Address string   `json:"address" binding:"required"`
	Chain   string   `json:"chain" binding:"required"`
	Label   string   `json:"label"`
	Tokens  []string `json:"tokens"`
}

// UpdateWalletRequest is the body for updating a wallet. Nil fields are
// left unchanged.
type UpdateWalletRequest struct {
	Chain  *string   `json:"chain"`
	Label  *string   `json:"label"`
	Tokens *[]string `json:"tokens"`
}

// WalletModel is the GORM persistence model for wallets.
type WalletModel struct {
	ID        string               `gorm:"primaryKey;type:varchar(36)"`
	Address   string               `gorm:"type:varchar(255);not null"`
	Chain     string               `gorm:"type:varchar(50);not null"`
	Label     string               `gorm:"type:varchar(255)"`
	Tokens    database.StringArray `gorm:"type:text"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// TableName overrides the GORM table name.
func (WalletModel) TableName() string {
	return "wallets"
}

// ToDomain converts the persistence model to the domain object.
func (m *WalletModel) ToDomain() *Wallet {
	return &Wallet{
		ID:        m.ID,
		Address:   m.Address,
		Chain:     m.Chain,
		Label:     m.Label,
		Tokens:    m.Tokens,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}

// WalletToModel converts a domain wallet to its persistence model.
func WalletToModel(w *Wallet) *WalletModel {
	return &WalletModel{
		ID:        w.ID,
		Address:   w.Address,
		Chain:     w.Chain,
		Label:     w.Label,
		Tokens:    database.StringArray(w.Tokens),
		CreatedAt: w.CreatedAt,
		UpdatedAt: w.UpdatedAt,
	}
}
