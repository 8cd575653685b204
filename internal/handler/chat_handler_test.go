package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/banzai-team/spoon-rebalancing/internal/agent"
	"github.com/banzai-team/spoon-rebalancing/internal/domain"
)

type stubRelayer struct {
	result *domain.AgentTurnResult
	err    error
	got    *domain.ChatTurnRequest
}

func (s *stubRelayer) Relay(ctx context.Context, turn *domain.ChatTurnRequest) (*domain.AgentTurnResult, error) {
	s.got = turn
	if s.err != nil {
		return nil, s.err
	}
	return s.result, nil
}

type stubLoader struct {
	history *domain.ChatHistory
	err     error
	gotID   string
	gotLim  int
}

func (s *stubLoader) Load(ctx context.Context, strategyID string, limit int) (*domain.ChatHistory, error) {
	s.gotID = strategyID
	s.gotLim = limit
	if s.err != nil {
		return nil, s.err
	}
	return s.history, nil
}

func newChatRouter(relay *stubRelayer, loader *stubLoader) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	NewChatHandler(relay, loader).RegisterRoutes(r)
	return r
}

func TestSendTurn(t *testing.T) {
	relay := &stubRelayer{result: &domain.AgentTurnResult{MessageID: "m-1", AgentResponse: "hold steady"}}
	r := newChatRouter(relay, &stubLoader{})

	body := `{"message":"should I sell?","strategy_id":"strat-1","wallet_ids":["w-1"]}`
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/chat", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Success bool                   `json:"success"`
		Data    domain.AgentTurnResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.Equal(t, "m-1", resp.Data.MessageID)
	assert.Equal(t, "hold steady", resp.Data.AgentResponse)

	require.NotNil(t, relay.got)
	assert.Equal(t, "strat-1", relay.got.StrategyID)
}

func TestSendTurnEmptyUtterance(t *testing.T) {
	relay := &stubRelayer{err: agent.ErrEmptyUtterance}
	r := newChatRouter(relay, &stubLoader{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/chat", strings.NewReader(`{"message":""}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSendTurnBackendRejection(t *testing.T) {
	relay := &stubRelayer{err: &agent.RelayError{Status: 500, Body: "LLM timeout"}}
	r := newChatRouter(relay, &stubLoader{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/chat", strings.NewReader(`{"message":"hi"}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusBadGateway, w.Code)

	// The backend's message crosses the boundary verbatim.
	var resp struct {
		Success bool `json:"success"`
		Error   struct {
			Code    string `json:"code"`
			Message string `json:"message"`
		} `json:"error"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.False(t, resp.Success)
	assert.Equal(t, "AGENT_ERROR", resp.Error.Code)
	assert.Equal(t, "LLM timeout", resp.Error.Message)
}

func TestSendTurnTransportFailure(t *testing.T) {
	relay := &stubRelayer{err: &agent.TransportError{Err: assert.AnError}}
	r := newChatRouter(relay, &stubLoader{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/chat", strings.NewReader(`{"message":"hi"}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusBadGateway, w.Code)
	assert.Contains(t, w.Body.String(), "AGENT_UNREACHABLE")
}

func TestGetHistory(t *testing.T) {
	loader := &stubLoader{history: &domain.ChatHistory{
		Messages: []domain.HistoryTurn{{MessageID: "m-1", UserMessage: "q", AgentResponse: "a"}},
		Total:    1,
	}}
	r := newChatRouter(&stubRelayer{}, loader)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/chat/history?strategy_id=strat-1&limit=5", nil)
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "strat-1", loader.gotID)
	assert.Equal(t, 5, loader.gotLim)

	var resp struct {
		Data domain.ChatHistory `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 1, resp.Data.Total)
}

func TestGetHistoryLimitHandling(t *testing.T) {
	loader := &stubLoader{history: &domain.ChatHistory{}}
	r := newChatRouter(&stubRelayer{}, loader)

	// Default when absent.
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/chat/history", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, defaultHistoryLimit, loader.gotLim)

	// Capped when excessive.
	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/chat/history?limit=1000", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, maxHistoryLimit, loader.gotLim)

	// Rejected when not a positive integer.
	for _, bad := range []string{"0", "-3", "abc"} {
		w = httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/chat/history?limit="+bad, nil))
		assert.Equal(t, http.StatusBadRequest, w.Code)
	}
}

func TestGetHistoryBackendDown(t *testing.T) {
	loader := &stubLoader{err: agent.ErrBackendUnavailable}
	r := newChatRouter(&stubRelayer{}, loader)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/chat/history", nil))

	assert.Equal(t, http.StatusBadGateway, w.Code)
	assert.Contains(t, w.Body.String(), "AGENT_BACKEND_UNAVAILABLE")
}
