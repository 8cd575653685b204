package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/banzai-team/spoon-rebalancing/internal/domain"
	"github.com/banzai-team/spoon-rebalancing/internal/service"
	"github.com/banzai-team/spoon-rebalancing/pkg/log"
	"github.com/banzai-team/spoon-rebalancing/pkg/response"
)

// WalletHandler handles wallet CRUD requests.
type WalletHandler struct {
	wallets service.WalletService
}

// NewWalletHandler creates a wallet handler.
func NewWalletHandler(wallets service.WalletService) *WalletHandler {
	return &WalletHandler{wallets: wallets}
}

// RegisterRoutes registers wallet routes.
func (h *WalletHandler) RegisterRoutes(r *gin.Engine) {
	wallets := r.Group("/api/wallets")
	{
		wallets.GET("", h.ListWallets)
		wallets.POST("", h.CreateWallet)
		wallets.GET("/:id", h.GetWallet)
		wallets.PUT("/:id", h.UpdateWallet)
		wallets.DELETE("/:id", h.DeleteWallet)
	}
}

// CreateWallet creates a new wallet.
func (h *WalletHandler) CreateWallet(c *gin.Context) {
	ctx := c.Request.Context()
	l := log.Ctx(ctx)

	var req domain.CreateWalletRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		l.Warn().Err(err).Msg("failed to bind create wallet request")
		response.BadRequest(c, err.Error())
		return
	}

	wallet, err := h.wallets.CreateWallet(ctx, &req)
	if err != nil {
		l.Error().Err(err).Msg("failed to create wallet")
		response.InternalError(c, "failed to create wallet")
		return
	}

	response.Created(c, wallet)
}

// GetWallet retrieves a wallet by id.
func (h *WalletHandler) GetWallet(c *gin.Context) {
	ctx := c.Request.Context()
	l := log.Ctx(ctx)

	wallet, err := h.wallets.GetWallet(ctx, c.Param("id"))
	if err != nil {
		if errors.Is(err, service.ErrWalletNotFound) {
			response.NotFound(c, "wallet not found")
			return
		}
		l.Error().Err(err).Msg("failed to get wallet")
		response.InternalError(c, "failed to get wallet")
		return
	}

	response.Success(c, wallet)
}

// ListWallets lists all wallets.
func (h *WalletHandler) ListWallets(c *gin.Context) {
	ctx := c.Request.Context()
	l := log.Ctx(ctx)

	wallets, err := h.wallets.ListWallets(ctx)
	if err != nil {
		l.Error().Err(err).Msg("failed to list wallets")
		response.InternalError(c, "failed to list wallets")
		return
	}

	response.Success(c, wallets)
}

// UpdateWallet updates a wallet.
func (h *WalletHandler) UpdateWallet(c *gin.Context) {
	ctx := c.Request.Context()
	l := log.Ctx(ctx)

	var req domain.UpdateWalletRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		l.Warn().Err(err).Msg("failed to bind update wallet request")
		response.BadRequest(c, err.Error())
		return
	}

	wallet, err := h.wallets.UpdateWallet(ctx, c.Param("id"), &req)
	if err != nil {
		if errors.Is(err, service.ErrWalletNotFound) {
			response.NotFound(c, "wallet not found")
			return
		}
		l.Error().Err(err).Msg("failed to update wallet")
		response.InternalError(c, "failed to update wallet")
		return
	}

	response.Success(c, wallet)
}

// DeleteWallet deletes a wallet.
func (h *WalletHandler) DeleteWallet(c *gin.Context) {
	ctx := c.Request.Context()
	l := log.Ctx(ctx)

	if err := h.wallets.DeleteWallet(ctx, c.Param("id")); err != nil {
		if errors.Is(err, service.ErrWalletNotFound) {
			response.NotFound(c, "wallet not found")
			return
		}
		l.Error().Err(err).Msg("failed to delete wallet")
		response.InternalError(c, "failed to delete wallet")
		return
	}

	response.NoContent(c)
}
