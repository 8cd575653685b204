package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/banzai-team/spoon-rebalancing/internal/domain"
	"github.com/banzai-team/spoon-rebalancing/internal/service"
	"github.com/banzai-team/spoon-rebalancing/pkg/log"
	"github.com/banzai-team/spoon-rebalancing/pkg/response"
)

// TokenBalanceHandler handles wallet token balance requests.
type TokenBalanceHandler struct {
	balances service.TokenBalanceService
}

// NewTokenBalanceHandler creates a token balance handler.
func NewTokenBalanceHandler(balances service.TokenBalanceService) *TokenBalanceHandler {
	return &TokenBalanceHandler{balances: balances}
}

// RegisterRoutes registers token balance routes.
func (h *TokenBalanceHandler) RegisterRoutes(r *gin.Engine) {
	balances := r.Group("/api/wallet-token-balances")
	{
		balances.GET("", h.ListBalances)
		balances.POST("", h.UpsertBalance)
		balances.GET("/:id", h.GetBalance)
		balances.PUT("/:id", h.UpdateBalance)
		balances.DELETE("/:id", h.DeleteBalance)
	}
}

// UpsertBalance records a token balance. An existing wallet/token pair is
// updated instead of duplicated.
func (h *TokenBalanceHandler) UpsertBalance(c *gin.Context) {
	ctx := c.Request.Context()
	l := log.Ctx(ctx)

	var req domain.CreateTokenBalanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		l.Warn().Err(err).Msg("failed to bind create token balance request")
		response.BadRequest(c, err.Error())
		return
	}

	balance, err := h.balances.UpsertBalance(ctx, &req)
	if err != nil {
		if errors.Is(err, service.ErrWalletNotFound) {
			response.NotFound(c, "wallet not found")
			return
		}
		l.Error().Err(err).Msg("failed to upsert token balance")
		response.InternalError(c, "failed to record token balance")
		return
	}

	response.Created(c, balance)
}

// GetBalance retrieves a token balance by id.
func (h *TokenBalanceHandler) GetBalance(c *gin.Context) {
	ctx := c.Request.Context()
	l := log.Ctx(ctx)

	balance, err := h.balances.GetBalance(ctx, c.Param("id"))
	if err != nil {
		if errors.Is(err, service.ErrTokenBalanceNotFound) {
			response.NotFound(c, "token balance not found")
			return
		}
		l.Error().Err(err).Msg("failed to get token balance")
		response.InternalError(c, "failed to get token balance")
		return
	}

	response.Success(c, balance)
}

// ListBalances lists token balances, optionally filtered by the wallet_id
// query parameter.
func (h *TokenBalanceHandler) ListBalances(c *gin.Context) {
	ctx := c.Request.Context()
	l := log.Ctx(ctx)

	balances, err := h.balances.ListBalances(ctx, c.Query("wallet_id"))
	if err != nil {
		l.Error().Err(err).Msg("failed to list token balances")
		response.InternalError(c, "failed to list token balances")
		return
	}

	response.Success(c, balances)
}

// UpdateBalance updates a token balance record.
func (h *TokenBalanceHandler) UpdateBalance(c *gin.Context) {
	ctx := c.Request.Context()
	l := log.Ctx(ctx)

	var req domain.UpdateTokenBalanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		l.Warn().Err(err).Msg("failed to bind update token balance request")
		response.BadRequest(c, err.Error())
		return
	}

	balance, err := h.balances.UpdateBalance(ctx, c.Param("id"), &req)
	if err != nil {
		if errors.Is(err, service.ErrTokenBalanceNotFound) {
			response.NotFound(c, "token balance not found")
			return
		}
		l.Error().Err(err).Msg("failed to update token balance")
		response.InternalError(c, "failed to update token balance")
		return
	}

	response.Success(c, balance)
}

// DeleteBalance removes a token balance record.
func (h *TokenBalanceHandler) DeleteBalance(c *gin.Context) {
	ctx := c.Request.Context()
	l := log.Ctx(ctx)

	if err := h.balances.DeleteBalance(ctx, c.Param("id")); err != nil {
		if errors.Is(err, service.ErrTokenBalanceNotFound) {
			response.NotFound(c, "token balance not found")
			return
		}
		l.Error().Err(err).Msg("failed to delete token balance")
		response.InternalError(c, "failed to delete token balance")
		return
	}

	response.NoContent(c)
}
