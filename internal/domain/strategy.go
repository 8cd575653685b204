package domain

import (
	"time"

	"github.com/banzai-team/spoon-rebalancing/pkg/database"
)

// Strategy describes a desired portfolio in free text, e.g.
// "40% BTC, 35% ETH, 25% USDC", plus the wallets it applies to.
type Strategy struct {
	ID                 string    `json:"id"`
	Name               string    `json:"name"`
	Description        string    `json:"description"`
	WalletIDs          []string  `json:"wallet_ids"`
	TargetAllocation   string    `json:"target_allocation,omitempty"` // JSON text, agent-produced
	ThresholdPercent   float64   `json:"threshold_percent"`
	MinProfitThreshold float64   `json:"min_profit_threshold_usd"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`
}

// CreateStrategyRequest is the body for creating a strategy.
type CreateStrategyRequest struct {
	Name        string   `json:"name" binding:"required"`
	Description string   `json:"description" binding:"required"`
	WalletIDs   []string `json:"wallet_ids" binding:"required"`
}

// UpdateStrategyRequest is the body for updating a strategy. Nil fields
// are left unchanged.
type UpdateStrategyRequest struct {
	Name        *string   `json:"name"`
	Description *string   `json:"description"`
	WalletIDs   *[]string `json:"wallet_ids"`
}

// StrategyModel is the GORM persistence model for strategies.
type StrategyModel struct {
	ID                 string               `gorm:"primaryKey;type:varchar(36)"`
	Name               string               `gorm:"type:varchar(255);not null"`
	Description        string               `gorm:"type:text;not null"`
	WalletIDs          database.StringArray `gorm:"column:wallet_ids;type:text"`
	TargetAllocation   string               `gorm:"type:text"`
	ThresholdPercent   float64              `gorm:"not null;default:5"`
	MinProfitThreshold float64              `gorm:"column:min_profit_threshold_usd;not null;default:50"`
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// TableName overrides the GORM table name.
func (StrategyModel) TableName() string {
	return "strategies"
}

// ToDomain converts the persistence model to the domain object.
func (m *StrategyModel) ToDomain() *Strategy {
	return &Strategy{
		ID:                 m.ID,
		Name:               m.Name,
		Description:        m.Description,
		WalletIDs:          m.WalletIDs,
		TargetAllocation:   m.TargetAllocation,
		ThresholdPercent:   m.ThresholdPercent,
		MinProfitThreshold: m.MinProfitThreshold,
		CreatedAt:          m.CreatedAt,
		UpdatedAt:          m.UpdatedAt,
	}
}

// StrategyToModel converts a domain strategy to its persistence model.
func StrategyToModel(s *Strategy) *StrategyModel {
	return &StrategyModel{
		ID:                 s.ID,
		Name:               s.Name,
		Description:        s.Description,
		WalletIDs:          database.StringArray(s.WalletIDs),
		TargetAllocation:   s.TargetAllocation,
		ThresholdPercent:   s.ThresholdPercent,
		MinProfitThreshold: s.MinProfitThreshold,
		CreatedAt:          s.CreatedAt,
		UpdatedAt:          s.UpdatedAt,
	}
}
