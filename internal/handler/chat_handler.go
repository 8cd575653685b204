package handler

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/banzai-team/spoon-rebalancing/internal/agent"
	"github.com/banzai-team/spoon-rebalancing/internal/chat"
	"github.com/banzai-team/spoon-rebalancing/internal/domain"
	"github.com/banzai-team/spoon-rebalancing/pkg/log"
	"github.com/banzai-team/spoon-rebalancing/pkg/response"
)

const (
	defaultHistoryLimit = 50
	maxHistoryLimit     = 100
)

// ChatHandler is the server-side boundary of the chat pipeline: it
// receives UI-shaped turns, relays them, and serves paginated history.
type ChatHandler struct {
	relay   chat.Relayer
	history chat.HistoryLoader
}

// NewChatHandler creates a chat handler.
func NewChatHandler(relay chat.Relayer, history chat.HistoryLoader) *ChatHandler {
	return &ChatHandler{relay: relay, history: history}
}

// RegisterRoutes registers chat routes.
func (h *ChatHandler) RegisterRoutes(r *gin.Engine) {
	api := r.Group("/api")
	{
		api.POST("/chat", h.SendTurn)
		api.GET("/chat/history", h.GetHistory)
	}
}

// SendTurn relays one conversational turn to the agent backend.
func (h *ChatHandler) SendTurn(c *gin.Context) {
	ctx := c.Request.Context()
	l := log.Ctx(ctx)

	var turn domain.ChatTurnRequest
	if err := c.ShouldBindJSON(&turn); err != nil {
		l.Warn().Err(err).Msg("failed to bind chat turn")
		response.BadRequest(c, err.Error())
		return
	}

	result, err := h.relay.Relay(ctx, &turn)
	if err != nil {
		var relayErr *agent.RelayError
		var transportErr *agent.TransportError
		switch {
		case errors.Is(err, agent.ErrEmptyUtterance):
			response.BadRequest(c, "message must not be empty")
		case errors.As(err, &relayErr):
			// The backend's body is passed through verbatim.
			l.Warn().Int("agent_status", relayErr.Status).Msg("agent backend rejected turn")
			response.BadGateway(c, "AGENT_ERROR", relayErr.Body)
		case errors.As(err, &transportErr):
			l.Error().Err(err).Msg("agent backend unreachable")
			response.BadGateway(c, "AGENT_UNREACHABLE", "agent backend unreachable")
		default:
			l.Error().Err(err).Msg("failed to relay chat turn")
			response.InternalError(c, "failed to relay chat turn")
		}
		return
	}

	response.Success(c, result)
}

// GetHistory serves prior turns, optionally scoped to a strategy.
func (h *ChatHandler) GetHistory(c *gin.Context) {
	ctx := c.Request.Context()
	l := log.Ctx(ctx)

	limit := defaultHistoryLimit
	if limitStr := c.Query("limit"); limitStr != "" {
		parsed, err := strconv.Atoi(limitStr)
		if err != nil || parsed < 1 {
			response.BadRequest(c, "limit must be a positive integer")
			return
		}
		limit = parsed
		if limit > maxHistoryLimit {
			limit = maxHistoryLimit
		}
	}

	history, err := h.history.Load(ctx, c.Query("strategy_id"), limit)
	if err != nil {
		l.Error().Err(err).Msg("failed to load chat history")
		response.BadGateway(c, "AGENT_BACKEND_UNAVAILABLE", "failed to load chat history")
		return
	}

	response.Success(c, history)
}
