package domain

import "time"

// TokenBalance is the held amount of one token in one wallet. Balance is
// kept as a string so chain-native precision survives the round trip.
type TokenBalance struct {
	ID          string    `json:"id"`
	WalletID    string    `json:"wallet_id"`
	TokenSymbol string    `json:"token_symbol"`
	Balance     string    `json:"balance"`
	BalanceUSD  *float64  `json:"balance_usd"`
	Chain       string    `json:"chain"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// CreateTokenBalanceRequest is the body for recording a token balance.
// Submitting an existing wallet/token pair updates that record instead of
// creating a duplicate.
type CreateTokenBalanceRequest struct {
	WalletID    string   `json:"wallet_id" binding:"required"`
	TokenSymbol string   `json:"token_symbol" binding:"required"`
	Balance     string   `json:"balance" binding:"required"`
	BalanceUSD  *float64 `json:"balance_usd"`
	Chain       string   `json:"chain" binding:"required"`
}

// UpdateTokenBalanceRequest is the body for updating a token balance.
// Nil fields are left unchanged.
type UpdateTokenBalanceRequest struct {
	Balance    *string  `json:"balance"`
	BalanceUSD *float64 `json:"balance_usd"`
}

// TokenBalanceModel is the GORM persistence model for token balances.
type TokenBalanceModel struct {
	ID          string   `gorm:"primaryKey;type:varchar(36)"`
	WalletID    string   `gorm:"type:varchar(36);not null;index;uniqueIndex:idx_wallet_token"`
	TokenSymbol string   `gorm:"type:varchar(50);not null;index;uniqueIndex:idx_wallet_token"`
	Balance     string   `gorm:"type:varchar(255);not null"`
	BalanceUSD  *float64 `gorm:"column:balance_usd"`
	Chain       string   `gorm:"type:varchar(50);not null"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// TableName overrides the GORM table name.
func (TokenBalanceModel) TableName() string {
	return "wallet_token_balances"
}

// ToDomain converts the persistence model to the domain object.
func (m *TokenBalanceModel) ToDomain() *TokenBalance {
	return &TokenBalance{
		ID:          m.ID,
		WalletID:    m.WalletID,
		TokenSymbol: m.TokenSymbol,
		Balance:     m.Balance,
		BalanceUSD:  m.BalanceUSD,
		Chain:       m.Chain,
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
}

// TokenBalanceToModel converts a domain token balance to its model.
func TokenBalanceToModel(b *TokenBalance) *TokenBalanceModel {
	return &TokenBalanceModel{
		ID:          b.ID,
		WalletID:    b.WalletID,
		TokenSymbol: b.TokenSymbol,
		Balance:     b.Balance,
		BalanceUSD:  b.BalanceUSD,
		Chain:       b.Chain,
		CreatedAt:   b.CreatedAt,
		UpdatedAt:   b.UpdatedAt,
	}
}
