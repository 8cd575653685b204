package service

import (
	"context"
	"errors"

	"github.com/banzai-team/spoon-rebalancing/internal/domain"
	"github.com/banzai-team/spoon-rebalancing/internal/repository"
)

var ErrTokenBalanceNotFound = errors.New("token balance not found")

// tokenBalanceServiceImpl implements TokenBalanceService.
type tokenBalanceServiceImpl struct {
	repo       repository.TokenBalanceRepository
	walletRepo repository.WalletRepository
}

// NewTokenBalanceService creates a new token balance service.
func NewTokenBalanceService(repo repository.TokenBalanceRepository, walletRepo repository.WalletRepository) TokenBalanceService {
	return &tokenBalanceServiceImpl{repo: repo, walletRepo: walletRepo}
}

// UpsertBalance records the balance of one token in one wallet. A wallet
// holds one record per token symbol, so an existing record for the pair
// is updated in place.
func (s *tokenBalanceServiceImpl) UpsertBalance(ctx context.Context, req *domain.CreateTokenBalanceRequest) (*domain.TokenBalance, error) {
	if _, err := s.walletRepo.GetByID(ctx, req.WalletID); err != nil {
		if errors.Is(err, repository.ErrWalletNotFound) {
			return nil, ErrWalletNotFound
		}
		return nil, err
	}

	existing, err := s.repo.GetByWalletToken(ctx, req.WalletID, req.TokenSymbol)
	if err != nil && !errors.Is(err, repository.ErrTokenBalanceNotFound) {
		return nil, err
	}

	if existing != nil {
		existing.Balance = req.Balance
		existing.BalanceUSD = req.BalanceUSD
		existing.Chain = req.Chain
		if err := s.repo.Update(ctx, existing); err != nil {
			return nil, err
		}
		return existing, nil
	}

	balance := &domain.TokenBalance{
		WalletID:    req.WalletID,
		TokenSymbol: req.TokenSymbol,
		Balance:     req.Balance,
		BalanceUSD:  req.BalanceUSD,
		Chain:       req.Chain,
	}
	if err := s.repo.Create(ctx, balance); err != nil {
		return nil, err
	}
	return balance, nil
}

// GetBalance retrieves a token balance by id.
func (s *tokenBalanceServiceImpl) GetBalance(ctx context.Context, id string) (*domain.TokenBalance, error) {
	balance, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrTokenBalanceNotFound) {
			return nil, ErrTokenBalanceNotFound
		}
		return nil, err
	}
	return balance, nil
}

// ListBalances retrieves token balances, optionally scoped to one wallet.
func (s *tokenBalanceServiceImpl) ListBalances(ctx context.Context, walletID string) ([]domain.TokenBalance, error) {
	if walletID != "" {
		return s.repo.ListByWallet(ctx, walletID)
	}
	return s.repo.List(ctx)
}

// UpdateBalance applies the non-nil fields of req to a token balance.
func (s *tokenBalanceServiceImpl) UpdateBalance(ctx context.Context, id string, req *domain.UpdateTokenBalanceRequest) (*domain.TokenBalance, error) {
	balance, err := s.GetBalance(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Balance != nil {
		balance.Balance = *req.Balance
	}
	if req.BalanceUSD != nil {
		balance.BalanceUSD = req.BalanceUSD
	}

	if err := s.repo.Update(ctx, balance); err != nil {
		if errors.Is(err, repository.ErrTokenBalanceNotFound) {
			return nil, ErrTokenBalanceNotFound
		}
		return nil, err
	}
	return balance, nil
}

// DeleteBalance removes a token balance record.
func (s *tokenBalanceServiceImpl) DeleteBalance(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrTokenBalanceNotFound) {
			return ErrTokenBalanceNotFound
		}
		return err
	}
	return nil
}
