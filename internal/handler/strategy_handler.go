package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/banzai-team/spoon-rebalancing/internal/domain"
	"github.com/banzai-team/spoon-rebalancing/internal/service"
	"github.com/banzai-team/spoon-rebalancing/pkg/log"
	"github.com/banzai-team/spoon-rebalancing/pkg/response"
)

// StrategyHandler handles strategy CRUD requests.
type StrategyHandler struct {
	strategies service.StrategyService
}

// NewStrategyHandler creates a strategy handler.
func NewStrategyHandler(strategies service.StrategyService) *StrategyHandler {
	return &StrategyHandler{strategies: strategies}
}

// RegisterRoutes registers strategy routes.
func (h *StrategyHandler) RegisterRoutes(r *gin.Engine) {
	strategies := r.Group("/api/strategies")
	{
		strategies.GET("", h.ListStrategies)
		strategies.POST("", h.CreateStrategy)
		strategies.GET("/:id", h.GetStrategy)
		strategies.PUT("/:id", h.UpdateStrategy)
		strategies.DELETE("/:id", h.DeleteStrategy)
	}
}

// CreateStrategy creates a new strategy.
func (h *StrategyHandler) CreateStrategy(c *gin.Context) {
	ctx := c.Request.Context()
	l := log.Ctx(ctx)

	var req domain.CreateStrategyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		l.Warn().Err(err).Msg("failed to bind create strategy request")
		response.BadRequest(c, err.Error())
		return
	}

	strategy, err := h.strategies.CreateStrategy(ctx, &req)
	if err != nil {
		if errors.Is(err, service.ErrUnknownWallet) {
			response.BadRequest(c, "strategy references an unknown wallet")
			return
		}
		l.Error().Err(err).Msg("failed to create strategy")
		response.InternalError(c, "failed to create strategy")
		return
	}

	response.Created(c, strategy)
}

// GetStrategy retrieves a strategy by id.
func (h *StrategyHandler) GetStrategy(c *gin.Context) {
	ctx := c.Request.Context()
	l := log.Ctx(ctx)

	strategy, err := h.strategies.GetStrategy(ctx, c.Param("id"))
	if err != nil {
		if errors.Is(err, service.ErrStrategyNotFound) {
			response.NotFound(c, "strategy not found")
			return
		}
		l.Error().Err(err).Msg("failed to get strategy")
		response.InternalError(c, "failed to get strategy")
		return
	}

	response.Success(c, strategy)
}

// ListStrategies lists all strategies.
func (h *StrategyHandler) ListStrategies(c *gin.Context) {
	ctx := c.Request.Context()
	l := log.Ctx(ctx)

	strategies, err := h.strategies.ListStrategies(ctx)
	if err != nil {
		l.Error().Err(err).Msg("failed to list strategies")
		response.InternalError(c, "failed to list strategies")
		return
	}

	response.Success(c, strategies)
}

// UpdateStrategy updates a strategy.
func (h *StrategyHandler) UpdateStrategy(c *gin.Context) {
	ctx := c.Request.Context()
	l := log.Ctx(ctx)

	var req domain.UpdateStrategyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		l.Warn().Err(err).Msg("failed to bind update strategy request")
		response.BadRequest(c, err.Error())
		return
	}

	strategy, err := h.strategies.UpdateStrategy(ctx, c.Param("id"), &req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrStrategyNotFound):
			response.NotFound(c, "strategy not found")
		case errors.Is(err, service.ErrUnknownWallet):
			response.BadRequest(c, "strategy references an unknown wallet")
		default:
			l.Error().Err(err).Msg("failed to update strategy")
			response.InternalError(c, "failed to update strategy")
		}
		return
	}

	response.Success(c, strategy)
}

// DeleteStrategy deletes a strategy.
func (h *StrategyHandler) DeleteStrategy(c *gin.Context) {
	ctx := c.Request.Context()
	l := log.Ctx(ctx)

	if err := h.strategies.DeleteStrategy(ctx, c.Param("id")); err != nil {
		if errors.Is(err, service.ErrStrategyNotFound) {
			response.NotFound(c, "strategy not found")
			return
		}
		l.Error().Err(err).Msg("failed to delete strategy")
		response.InternalError(c, "failed to delete strategy")
		return
	}

	response.NoContent(c)
}
