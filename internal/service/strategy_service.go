package service

import (
	"context"
	"errors"

	"github.com/banzai-team/spoon-rebalancing/internal/domain"
	"github.com/banzai-team/spoon-rebalancing/internal/repository"
)

var (
	ErrStrategyNotFound = errors.New("strategy not found")
	ErrUnknownWallet    = errors.New("strategy references an unknown wallet")
)

// Strategy threshold defaults, matching the persisted column defaults.
const (
	defaultThresholdPercent   = 5.0
	defaultMinProfitThreshold = 50.0
)

// strategyServiceImpl implements StrategyService.
type strategyServiceImpl struct {
	repo       repository.StrategyRepository
	walletRepo repository.WalletRepository
}

// NewStrategyService creates a new strategy service.
func NewStrategyService(repo repository.StrategyRepository, walletRepo repository.WalletRepository) StrategyService {
	return &strategyServiceImpl{repo: repo, walletRepo: walletRepo}
}

// CreateStrategy registers a new strategy after verifying every
// referenced wallet exists.
func (s *strategyServiceImpl) CreateStrategy(ctx context.Context, req *domain.CreateStrategyRequest) (*domain.Strategy, error) {
	if err := s.verifyWallets(ctx, req.WalletIDs); err != nil {
		return nil, err
	}

	strategy := &domain.Strategy{
		Name:               req.Name,
		Description:        req.Description,
		WalletIDs:          req.WalletIDs,
		ThresholdPercent:   defaultThresholdPercent,
		MinProfitThreshold: defaultMinProfitThreshold,
	}

	if err := s.repo.Create(ctx, strategy); err != nil {
		return nil, err
	}
	return strategy, nil
}

// GetStrategy retrieves a strategy by id.
func (s *strategyServiceImpl) GetStrategy(ctx context.Context, id string) (*domain.Strategy, error) {
	strategy, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrStrategyNotFound) {
			return nil, ErrStrategyNotFound
		}
		return nil, err
	}
	return strategy, nil
}

// ListStrategies retrieves all strategies.
func (s *strategyServiceImpl) ListStrategies(ctx context.Context) ([]domain.Strategy, error) {
	return s.repo.List(ctx)
}

// UpdateStrategy applies the non-nil fields of req to a strategy.
func (s *strategyServiceImpl) UpdateStrategy(ctx context.Context, id string, req *domain.UpdateStrategyRequest) (*domain.Strategy, error) {
	strategy, err := s.GetStrategy(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		strategy.Name = *req.Name
	}
	if req.Description != nil {
		strategy.Description = *req.Description
	}
	if req.WalletIDs != nil {
		if err := s.verifyWallets(ctx, *req.WalletIDs); err != nil {
			return nil, err
		}
		strategy.WalletIDs = *req.WalletIDs
	}

	if err := s.repo.Update(ctx, strategy); err != nil {
		if errors.Is(err, repository.ErrStrategyNotFound) {
			return nil, ErrStrategyNotFound
		}
		return nil, err
	}
	return strategy, nil
}

// DeleteStrategy removes a strategy.
func (s *strategyServiceImpl) DeleteStrategy(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrStrategyNotFound) {
			return ErrStrategyNotFound
		}
		return err
	}
	return nil
}

func (s *strategyServiceImpl) verifyWallets(ctx context.Context, walletIDs []string) error {
	for _, id := range walletIDs {
		if _, err := s.walletRepo.GetByID(ctx, id); err != nil {
			if errors.Is(err, repository.ErrWalletNotFound) {
				return ErrUnknownWallet
			}
			return err
		}
	}
	return nil
}
