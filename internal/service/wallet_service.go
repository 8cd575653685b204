package service

import (
	"context"
	"errors"

	"github.com/banzai-team/spoon-rebalancing/internal/domain"
	"github.com/banzai-team/spoon-rebalancing/internal/repository"
)

var (
	ErrWalletNotFound = errors.New("wallet not found")
)

// walletServiceImpl implements WalletService.
type walletServiceImpl struct {
	repo repository.WalletRepository
}

// NewWalletService creates a new wallet service.
func NewWalletService(repo repository.WalletRepository) WalletService {
	return &walletServiceImpl{repo: repo}
}

// CreateWallet registers a new wallet.
func (s *walletServiceImpl) CreateWallet(ctx context.Context, req *domain.CreateWalletRequest) (*domain.Wallet, error) {
	wallet := &domain.Wallet{
		Address: req.Address,
		Chain:   req.Chain,
		Label:   req.Label,
		Tokens:  req.Tokens,
	}
	if wallet.Tokens == nil {
		wallet.Tokens = []string{}
	}

	if err := s.repo.Create(ctx, wallet); err != nil {
		return nil, err
	}
	return wallet, nil
}

// GetWallet retrieves a wallet by id.
func (s *walletServiceImpl) GetWallet(ctx context.Context, id string) (*domain.Wallet, error) {
	wallet, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrWalletNotFound) {
			return nil, ErrWalletNotFound
		}
		return nil, err
	}
	return wallet, nil
}

// ListWallets retrieves all wallets.
func (s *walletServiceImpl) ListWallets(ctx context.Context) ([]domain.Wallet, error) {
	return s.repo.List(ctx)
}

// UpdateWallet applies the non-nil fields of req to a wallet.
func (s *walletServiceImpl) UpdateWallet(ctx context.Context, id string, req *domain.UpdateWalletRequest) (*domain.Wallet, error) {
	wallet, err := s.GetWallet(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Chain != nil {
		wallet.Chain = *req.Chain
	}
	if req.Label != nil {
		wallet.Label = *req.Label
	}
	if req.Tokens != nil {
		wallet.Tokens = *req.Tokens
	}

	if err := s.repo.Update(ctx, wallet); err != nil {
		if errors.Is(err, repository.ErrWalletNotFound) {
			return nil, ErrWalletNotFound
		}
		return nil, err
	}
	return wallet, nil
}

// DeleteWallet removes a wallet.
func (s *walletServiceImpl) DeleteWallet(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrWalletNotFound) {
			return ErrWalletNotFound
		}
		return err
	}
	return nil
}
