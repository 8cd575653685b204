package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/banzai-team/spoon-rebalancing/internal/domain"
	"github.com/banzai-team/spoon-rebalancing/pkg/log"
)

// GormRecommendationRepository implements RecommendationRepository using GORM.
type GormRecommendationRepository struct {
	db *gorm.DB
}

// NewGormRecommendationRepository creates a GORM-based recommendation repository.
func NewGormRecommendationRepository(db *gorm.DB) *GormRecommendationRepository {
	return &GormRecommendationRepository{db: db}
}

// Create stores a new recommendation and assigns its id.
func (r *GormRecommendationRepository) Create(ctx context.Context, rec *domain.Recommendation) error {
	l := log.Ctx(ctx)

	rec.ID = uuid.New().String()

	model := domain.RecommendationToModel(rec)
	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		l.Error().Err(err).Msg("failed to create recommendation in db")
		return err
	}

	rec.CreatedAt = model.CreatedAt
	return nil
}

// GetByID retrieves a recommendation by id.
func (r *GormRecommendationRepository) GetByID(ctx context.Context, id string) (*domain.Recommendation, error) {
	l := log.Ctx(ctx)

	var model domain.RecommendationModel
	result := r.db.WithContext(ctx).First(&model, "id = ?", id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrRecommendationNotFound
		}
		l.Error().Err(result.Error).Msg("failed to get recommendation by id")
		return nil, result.Error
	}
	return model.ToDomain(), nil
}

// ListByStrategy retrieves recommendations for one strategy, newest first.
func (r *GormRecommendationRepository) ListByStrategy(ctx context.Context, strategyID string) ([]domain.Recommendation, error) {
	l := log.Ctx(ctx)

	var models []domain.RecommendationModel
	err := r.db.WithContext(ctx).
		Where("strategy_id = ?", strategyID).
		Order("created_at DESC").
		Find(&models).Error
	if err != nil {
		l.Error().Err(err).Str(log.FieldStrategyID, strategyID).Msg("failed to list recommendations from db")
		return nil, err
	}

	return modelsToDomain(models), nil
}

// List retrieves all recommendations, newest first.
func (r *GormRecommendationRepository) List(ctx context.Context) ([]domain.Recommendation, error) {
	l := log.Ctx(ctx)

	var models []domain.RecommendationModel
	if err := r.db.WithContext(ctx).Order("created_at DESC").Find(&models).Error; err != nil {
		l.Error().Err(err).Msg("failed to list recommendations from db")
		return nil, err
	}

	return modelsToDomain(models), nil
}

func modelsToDomain(models []domain.RecommendationModel) []domain.Recommendation {
	recs := make([]domain.Recommendation, len(models))
	for i, model := range models {
		recs[i] = *model.ToDomain()
	}
	return recs
}
