package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/banzai-team/spoon-rebalancing/internal/domain"
	"github.com/banzai-team/spoon-rebalancing/pkg/log"
)

// GormWalletRepository implements WalletRepository using GORM.
type GormWalletRepository struct {
	db *gorm.DB
}

// NewGormWalletRepository creates a GORM-based wallet repository.
func NewGormWalletRepository(db *gorm.DB) *GormWalletRepository {
	return &GormWalletRepository{db: db}
}

// Create stores a new wallet and assigns its id.
func (r *GormWalletRepository) Create(ctx context.Context, wallet *domain.Wallet) error {
	l := log.Ctx(ctx)

	wallet.ID = uuid.New().String()

	model := domain.WalletToModel(wallet)
	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		l.Error().Err(err).Msg("failed to create wallet in db")
		return err
	}

	wallet.CreatedAt = model.CreatedAt
	wallet.UpdatedAt = model.UpdatedAt
	l.Debug().Str(log.FieldWalletID, wallet.ID).Msg("wallet created in db")
	return nil
}

// GetByID retrieves a wallet by id.
func (r *GormWalletRepository) GetByID(ctx context.Context, id string) (*domain.Wallet, error) {
	l := log.Ctx(ctx)

	var model domain.WalletModel
	result := r.db.WithContext(ctx).First(&model, "id = ?", id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrWalletNotFound
		}
		l.Error().Err(result.Error).Str(log.FieldWalletID, id).Msg("failed to get wallet by id")
		return nil, result.Error
	}
	return model.ToDomain(), nil
}

// List retrieves all wallets, newest first.
func (r *GormWalletRepository) List(ctx context.Context) ([]domain.Wallet, error) {
	l := log.Ctx(ctx)

	var models []domain.WalletModel
	if err := r.db.WithContext(ctx).Order("created_at DESC").Find(&models).Error; err != nil {
		l.Error().Err(err).Msg("failed to list wallets from db")
		return nil, err
	}

	wallets := make([]domain.Wallet, len(models))
	for i, model := range models {
		wallets[i] = *model.ToDomain()
	}
	return wallets, nil
}

// Update persists all mutable fields of a wallet.
func (r *GormWalletRepository) Update(ctx context.Context, wallet *domain.Wallet) error {
	l := log.Ctx(ctx)

	model := domain.WalletToModel(wallet)
	result := r.db.WithContext(ctx).Model(&domain.WalletModel{}).
		Where("id = ?", wallet.ID).
		Updates(map[string]interface{}{
			"chain":  model.Chain,
			"label":  model.Label,
			"tokens": model.Tokens,
		})
	if result.Error != nil {
		l.Error().Err(result.Error).Str(log.FieldWalletID, wallet.ID).Msg("failed to update wallet in db")
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrWalletNotFound
	}
	return nil
}

// Delete removes a wallet.
func (r *GormWalletRepository) Delete(ctx context.Context, id string) error {
	l := log.Ctx(ctx)

	result := r.db.WithContext(ctx).Delete(&domain.WalletModel{}, "id = ?", id)
	if result.Error != nil {
		l.Error().Err(result.Error).Str(log.FieldWalletID, id).Msg("failed to delete wallet in db")
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrWalletNotFound
	}
	l.Debug().Str(log.FieldWalletID, id).Msg("wallet deleted from db")
	return nil
}
