package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/banzai-team/spoon-rebalancing/internal/agent"
	"github.com/banzai-team/spoon-rebalancing/internal/domain"
	"github.com/banzai-team/spoon-rebalancing/internal/service"
	"github.com/banzai-team/spoon-rebalancing/pkg/log"
	"github.com/banzai-team/spoon-rebalancing/pkg/response"
)

// RecommendationHandler handles recommendation requests.
type RecommendationHandler struct {
	recommendations service.RecommendationService
}

// NewRecommendationHandler creates a recommendation handler.
func NewRecommendationHandler(recommendations service.RecommendationService) *RecommendationHandler {
	return &RecommendationHandler{recommendations: recommendations}
}

// RegisterRoutes registers recommendation routes.
func (h *RecommendationHandler) RegisterRoutes(r *gin.Engine) {
	recs := r.Group("/api/recommendations")
	{
		recs.GET("", h.ListRecommendations)
		recs.POST("", h.CreateRecommendation)
		recs.GET("/:id", h.GetRecommendation)
	}
}

// CreateRecommendation asks the agent backend for advice on a strategy
// and returns the stored result.
func (h *RecommendationHandler) CreateRecommendation(c *gin.Context) {
	ctx := c.Request.Context()
	l := log.Ctx(ctx)

	var req domain.CreateRecommendationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		l.Warn().Err(err).Msg("failed to bind create recommendation request")
		response.BadRequest(c, err.Error())
		return
	}

	rec, err := h.recommendations.CreateRecommendation(ctx, &req)
	if err != nil {
		var relayErr *agent.RelayError
		var transportErr *agent.TransportError
		switch {
		case errors.Is(err, service.ErrStrategyNotFound):
			response.NotFound(c, "strategy not found")
		case errors.As(err, &relayErr):
			l.Warn().Int("agent_status", relayErr.Status).Msg("agent backend rejected recommendation request")
			response.BadGateway(c, "AGENT_ERROR", relayErr.Body)
		case errors.As(err, &transportErr):
			l.Error().Err(err).Msg("agent backend unreachable")
			response.BadGateway(c, "AGENT_UNREACHABLE", "agent backend unreachable")
		default:
			l.Error().Err(err).Msg("failed to create recommendation")
			response.InternalError(c, "failed to create recommendation")
		}
		return
	}

	response.Created(c, rec)
}

// GetRecommendation retrieves a recommendation by id.
func (h *RecommendationHandler) GetRecommendation(c *gin.Context) {
	ctx := c.Request.Context()
	l := log.Ctx(ctx)

	rec, err := h.recommendations.GetRecommendation(ctx, c.Param("id"))
	if err != nil {
		if errors.Is(err, service.ErrRecommendationNotFound) {
			response.NotFound(c, "recommendation not found")
			return
		}
		l.Error().Err(err).Msg("failed to get recommendation")
		response.InternalError(c, "failed to get recommendation")
		return
	}

	response.Success(c, rec)
}

// ListRecommendations lists recommendations, optionally filtered by the
// strategy_id query parameter.
func (h *RecommendationHandler) ListRecommendations(c *gin.Context) {
	ctx := c.Request.Context()
	l := log.Ctx(ctx)

	recs, err := h.recommendations.ListRecommendations(ctx, c.Query("strategy_id"))
	if err != nil {
		l.Error().Err(err).Msg("failed to list recommendations")
		response.InternalError(c, "failed to list recommendations")
		return
	}

	response.Success(c, recs)
}
