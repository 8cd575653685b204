package repository

import (
	"context"
	"errors"

	"github.com/banzai-team/spoon-rebalancing/internal/domain"
)

var (
	ErrWalletNotFound         = errors.New("wallet not found")
	ErrStrategyNotFound       = errors.New("strategy not found")
	ErrRecommendationNotFound = errors.New("recommendation not found")
	ErrTokenBalanceNotFound   = errors.New("token balance not found")
)

// WalletRepository persists wallets.
type WalletRepository interface {
	Create(ctx context.Context, wallet *domain.Wallet) error
	GetByID(ctx context.Context, id string) (*domain.Wallet, error)
	List(ctx context.Context) ([]domain.Wallet, error)
	Update(ctx context.Context, wallet *domain.Wallet) error
	Delete(ctx context.Context, id string) error
}

// StrategyRepository persists strategies.
type StrategyRepository interface {
	Create(ctx context.Context, strategy *domain.Strategy) error
	GetByID(ctx context.Context, id string) (*domain.Strategy, error)
	List(ctx context.Context) ([]domain.Strategy, error)
	Update(ctx context.Context, strategy *domain.Strategy) error
	Delete(ctx context.Context, id string) error
}

// RecommendationRepository persists agent-produced recommendations.
type RecommendationRepository interface {
	Create(ctx context.Context, rec *domain.Recommendation) error
	GetByID(ctx context.Context, id string) (*domain.Recommendation, error)
	ListByStrategy(ctx context.Context, strategyID string) ([]domain.Recommendation, error)
	List(ctx context.Context) ([]domain.Recommendation, error)
}

// TokenBalanceRepository persists per-wallet token balances. A wallet
// holds at most one record per token symbol.
type TokenBalanceRepository interface {
	Create(ctx context.Context, balance *domain.TokenBalance) error
	GetByID(ctx context.Context, id string) (*domain.TokenBalance, error)
	GetByWalletToken(ctx context.Context, walletID, tokenSymbol string) (*domain.TokenBalance, error)
	ListByWallet(ctx context.Context, walletID string) ([]domain.TokenBalance, error)
	List(ctx context.Context) ([]domain.TokenBalance, error)
	Update(ctx context.Context, balance *domain.TokenBalance) error
	Delete(ctx context.Context, id string) error
}
