package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/banzai-team/spoon-rebalancing/internal/domain"
	"github.com/banzai-team/spoon-rebalancing/pkg/log"
)

// GormTokenBalanceRepository implements TokenBalanceRepository using GORM.
type GormTokenBalanceRepository struct {
	db *gorm.DB
}

// NewGormTokenBalanceRepository creates a GORM-based token balance repository.
func NewGormTokenBalanceRepository(db *gorm.DB) *GormTokenBalanceRepository {
	return &GormTokenBalanceRepository{db: db}
}

// Create stores a new token balance and assigns its id.
func (r *GormTokenBalanceRepository) Create(ctx context.Context, balance *domain.TokenBalance) error {
	l := log.Ctx(ctx)

	balance.ID = uuid.New().String()

	model := domain.TokenBalanceToModel(balance)
	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		l.Error().Err(err).Msg("failed to create token balance in db")
		return err
	}

	balance.CreatedAt = model.CreatedAt
	balance.UpdatedAt = model.UpdatedAt
	l.Debug().Str(log.FieldWalletID, balance.WalletID).Str("token_symbol", balance.TokenSymbol).
		Msg("token balance created in db")
	return nil
}

// GetByID retrieves a token balance by id.
func (r *GormTokenBalanceRepository) GetByID(ctx context.Context, id string) (*domain.TokenBalance, error) {
	l := log.Ctx(ctx)

	var model domain.TokenBalanceModel
	result := r.db.WithContext(ctx).First(&model, "id = ?", id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrTokenBalanceNotFound
		}
		l.Error().Err(result.Error).Msg("failed to get token balance by id")
		return nil, result.Error
	}
	return model.ToDomain(), nil
}

// GetByWalletToken retrieves the balance record of one token in one wallet.
func (r *GormTokenBalanceRepository) GetByWalletToken(ctx context.Context, walletID, tokenSymbol string) (*domain.TokenBalance, error) {
	l := log.Ctx(ctx)

	var model domain.TokenBalanceModel
	result := r.db.WithContext(ctx).
		First(&model, "wallet_id = ? AND token_symbol = ?", walletID, tokenSymbol)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrTokenBalanceNotFound
		}
		l.Error().Err(result.Error).Str(log.FieldWalletID, walletID).Msg("failed to get token balance")
		return nil, result.Error
	}
	return model.ToDomain(), nil
}

// ListByWallet retrieves all token balances of one wallet.
func (r *GormTokenBalanceRepository) ListByWallet(ctx context.Context, walletID string) ([]domain.TokenBalance, error) {
	l := log.Ctx(ctx)

	var models []domain.TokenBalanceModel
	if err := r.db.WithContext(ctx).
		Where("wallet_id = ?", walletID).
		Order("token_symbol ASC").
		Find(&models).Error; err != nil {
		l.Error().Err(err).Str(log.FieldWalletID, walletID).Msg("failed to list token balances from db")
		return nil, err
	}
	return balanceModelsToDomain(models), nil
}

// List retrieves all token balances.
func (r *GormTokenBalanceRepository) List(ctx context.Context) ([]domain.TokenBalance, error) {
	l := log.Ctx(ctx)

	var models []domain.TokenBalanceModel
	if err := r.db.WithContext(ctx).Order("wallet_id ASC, token_symbol ASC").Find(&models).Error; err != nil {
		l.Error().Err(err).Msg("failed to list token balances from db")
		return nil, err
	}
	return balanceModelsToDomain(models), nil
}

// Update persists the mutable fields of a token balance.
func (r *GormTokenBalanceRepository) Update(ctx context.Context, balance *domain.TokenBalance) error {
	l := log.Ctx(ctx)

	result := r.db.WithContext(ctx).Model(&domain.TokenBalanceModel{}).
		Where("id = ?", balance.ID).
		Updates(map[string]interface{}{
			"balance":     balance.Balance,
			"balance_usd": balance.BalanceUSD,
			"chain":       balance.Chain,
		})
	if result.Error != nil {
		l.Error().Err(result.Error).Msg("failed to update token balance in db")
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrTokenBalanceNotFound
	}
	return nil
}

// Delete removes a token balance.
func (r *GormTokenBalanceRepository) Delete(ctx context.Context, id string) error {
	l := log.Ctx(ctx)

	result := r.db.WithContext(ctx).Delete(&domain.TokenBalanceModel{}, "id = ?", id)
	if result.Error != nil {
		l.Error().Err(result.Error).Msg("failed to delete token balance in db")
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrTokenBalanceNotFound
	}
	return nil
}

func balanceModelsToDomain(models []domain.TokenBalanceModel) []domain.TokenBalance {
	balances := make([]domain.TokenBalance, len(models))
	for i, model := range models {
		balances[i] = *model.ToDomain()
	}
	return balances
}
