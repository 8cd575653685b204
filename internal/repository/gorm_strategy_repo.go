package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/banzai-team/spoon-rebalancing/internal/domain"
	"github.com/banzai-team/spoon-rebalancing/pkg/log"
)

// GormStrategyRepository implements StrategyRepository using GORM.
type GormStrategyRepository struct {
	db *gorm.DB
}

// NewGormStrategyRepository creates a GORM-based strategy repository.
func NewGormStrategyRepository(db *gorm.DB) *GormStrategyRepository {
	return &GormStrategyRepository{db: db}
}

// Create stores a new strategy and assigns its id.
func (r *GormStrategyRepository) Create(ctx context.Context, strategy *domain.Strategy) error {
	l := log.Ctx(ctx)

	strategy.ID = uuid.New().String()

	model := domain.StrategyToModel(strategy)
	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		l.Error().Err(err).Msg("failed to create strategy in db")
		return err
	}

	strategy.CreatedAt = model.CreatedAt
	strategy.UpdatedAt = model.UpdatedAt
	l.Debug().Str(log.FieldStrategyID, strategy.ID).Msg("strategy created in db")
	return nil
}

// GetByID retrieves a strategy by id.
func (r *GormStrategyRepository) GetByID(ctx context.Context, id string) (*domain.Strategy, error) {
	l := log.Ctx(ctx)

	var model domain.StrategyModel
	result := r.db.WithContext(ctx).First(&model, "id = ?", id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrStrategyNotFound
		}
		l.Error().Err(result.Error).Str(log.FieldStrategyID, id).Msg("failed to get strategy by id")
		return nil, result.Error
	}
	return model.ToDomain(), nil
}

// List retrieves all strategies, newest first.
func (r *GormStrategyRepository) List(ctx context.Context) ([]domain.Strategy, error) {
	l := log.Ctx(ctx)

	var models []domain.StrategyModel
	if err := r.db.WithContext(ctx).Order("created_at DESC").Find(&models).Error; err != nil {
		l.Error().Err(err).Msg("failed to list strategies from db")
		return nil, err
	}

	strategies := make([]domain.Strategy, len(models))
	for i, model := range models {
		strategies[i] = *model.ToDomain()
	}
	return strategies, nil
}

// Update persists all mutable fields of a strategy.
func (r *GormStrategyRepository) Update(ctx context.Context, strategy *domain.Strategy) error {
	l := log.Ctx(ctx)

	model := domain.StrategyToModel(strategy)
	result := r.db.WithContext(ctx).Model(&domain.StrategyModel{}).
		Where("id = ?", strategy.ID).
		Updates(map[string]interface{}{
			"name":        model.Name,
			"description": model.Description,
			"wallet_ids":  model.WalletIDs,
		})
	if result.Error != nil {
		l.Error().Err(result.Error).Str(log.FieldStrategyID, strategy.ID).Msg("failed to update strategy in db")
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrStrategyNotFound
	}
	return nil
}

// Delete removes a strategy.
func (r *GormStrategyRepository) Delete(ctx context.Context, id string) error {
	l := log.Ctx(ctx)

	result := r.db.WithContext(ctx).Delete(&domain.StrategyModel{}, "id = ?", id)
	if result.Error != nil {
		l.Error().Err(result.Error).Str(log.FieldStrategyID, id).Msg("failed to delete strategy in db")
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrStrategyNotFound
	}
	l.Debug().Str(log.FieldStrategyID, id).Msg("strategy deleted from db")
	return nil
}
