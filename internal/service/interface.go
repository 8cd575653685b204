package service

import (
	"context"

	"github.com/banzai-team/spoon-rebalancing/internal/domain"
)

// WalletService manages tracked wallets.
type WalletService interface {
	CreateWallet(ctx context.Context, req *domain.CreateWalletRequest) (*domain.Wallet, error)
	GetWallet(ctx context.Context, id string) (*domain.Wallet, error)
	ListWallets(ctx context.Context) ([]domain.Wallet, error)
	UpdateWallet(ctx context.Context, id string, req *domain.UpdateWalletRequest) (*domain.Wallet, error)
	DeleteWallet(ctx context.Context, id string) error
}

// StrategyService manages rebalancing strategies.
type StrategyService interface {
	CreateStrategy(ctx context.Context, req *domain.CreateStrategyRequest) (*domain.Strategy, error)
	GetStrategy(ctx context.Context, id string) (*domain.Strategy, error)
	ListStrategies(ctx context.Context) ([]domain.Strategy, error)
	UpdateStrategy(ctx context.Context, id string, req *domain.UpdateStrategyRequest) (*domain.Strategy, error)
	DeleteStrategy(ctx context.Context, id string) error
}

// RecommendationService produces and serves rebalancing recommendations.
// Generation is delegated to the agent backend; this service persists and
// lists the results.
type RecommendationService interface {
	CreateRecommendation(ctx context.Context, req *domain.CreateRecommendationRequest) (*domain.Recommendation, error)
	GetRecommendation(ctx context.Context, id string) (*domain.Recommendation, error)
	ListRecommendations(ctx context.Context, strategyID string) ([]domain.Recommendation, error)
}

// TokenBalanceService manages per-wallet token balance records.
type TokenBalanceService interface {
	UpsertBalance(ctx context.Context, req *domain.CreateTokenBalanceRequest) (*domain.TokenBalance, error)
	GetBalance(ctx context.Context, id string) (*domain.TokenBalance, error)
	ListBalances(ctx context.Context, walletID string) ([]domain.TokenBalance, error)
	UpdateBalance(ctx context.Context, id string, req *domain.UpdateTokenBalanceRequest) (*domain.TokenBalance, error)
	DeleteBalance(ctx context.Context, id string) error
}
