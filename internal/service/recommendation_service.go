package service

import (
	"context"
	"errors"

	"github.com/banzai-team/spoon-rebalancing/internal/agent"
	"github.com/banzai-team/spoon-rebalancing/internal/domain"
	"github.com/banzai-team/spoon-rebalancing/internal/repository"
	"github.com/banzai-team/spoon-rebalancing/pkg/log"
)

var ErrRecommendationNotFound = errors.New("recommendation not found")

// recommender asks the agent backend for rebalancing advice.
type recommender interface {
	Recommend(ctx context.Context, strategyID string) (*agent.RecommendationResult, error)
}

// recommendationServiceImpl implements RecommendationService.
type recommendationServiceImpl struct {
	repo         repository.RecommendationRepository
	strategyRepo repository.StrategyRepository
	agent        recommender
}

// NewRecommendationService creates a new recommendation service.
func NewRecommendationService(
	repo repository.RecommendationRepository,
	strategyRepo repository.StrategyRepository,
	agentClient recommender,
) RecommendationService {
	return &recommendationServiceImpl{
		repo:         repo,
		strategyRepo: strategyRepo,
		agent:        agentClient,
	}
}

// CreateRecommendation asks the agent backend for advice on a strategy
// and persists the verbatim result. The agent call is attempted once; a
// failure is returned to the caller untouched so the boundary can
// surface the backend's own message.
func (s *recommendationServiceImpl) CreateRecommendation(ctx context.Context, req *domain.CreateRecommendationRequest) (*domain.Recommendation, error) {
	if _, err := s.strategyRepo.GetByID(ctx, req.StrategyID); err != nil {
		if errors.Is(err, repository.ErrStrategyNotFound) {
			return nil, ErrStrategyNotFound
		}
		return nil, err
	}

	result, err := s.agent.Recommend(ctx, req.StrategyID)
	if err != nil {
		return nil, err
	}

	rec := &domain.Recommendation{
		StrategyID:     req.StrategyID,
		Recommendation: result.Recommendation,
		Analysis:       string(result.Analysis),
	}
	if err := s.repo.Create(ctx, rec); err != nil {
		return nil, err
	}

	l := log.Ctx(ctx)
	l.Info().Str(log.FieldStrategyID, req.StrategyID).Msg("recommendation stored")
	return rec, nil
}

// GetRecommendation retrieves a recommendation by id.
func (s *recommendationServiceImpl) GetRecommendation(ctx context.Context, id string) (*domain.Recommendation, error) {
	rec, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrRecommendationNotFound) {
			return nil, ErrRecommendationNotFound
		}
		return nil, err
	}
	return rec, nil
}

// ListRecommendations retrieves recommendations, optionally scoped to one
// strategy.
func (s *recommendationServiceImpl) ListRecommendations(ctx context.Context, strategyID string) ([]domain.Recommendation, error) {
	if strategyID != "" {
		return s.repo.ListByStrategy(ctx, strategyID)
	}
	return s.repo.List(ctx)
}
