package agent

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/banzai-team/spoon-rebalancing/internal/domain"
)

func TestUtterance(t *testing.T) {
	tests := []struct {
		name    string
		turn    domain.ChatTurnRequest
		want    string
		wantErr error
	}{
		{
			name: "explicit message wins over transcript",
			turn: domain.ChatTurnRequest{
				Message: "rebalance now",
				Messages: []domain.ChatMessage{
					{Role: domain.RoleUser, Content: "older question"},
				},
			},
			want: "rebalance now",
		},
		{
			name: "falls back to last user message",
			turn: domain.ChatTurnRequest{
				Messages: []domain.ChatMessage{
					{Role: domain.RoleUser, Content: "first"},
					{Role: domain.RoleAssistant, Content: "answer"},
					{Role: domain.RoleUser, Content: "second"},
					{Role: domain.RoleAssistant, Content: "another answer"},
				},
			},
			want: "second",
		},
		{
			name: "whitespace message falls back to transcript",
			turn: domain.ChatTurnRequest{
				Message: "   ",
				Messages: []domain.ChatMessage{
					{Role: domain.RoleUser, Content: "use the transcript"},
				},
			},
			want: "use the transcript",
		},
		{
			name: "assistant-only transcript is empty",
			turn: domain.ChatTurnRequest{
				Messages: []domain.ChatMessage{
					{Role: domain.RoleAssistant, Content: "hello"},
				},
			},
			wantErr: ErrEmptyUtterance,
		},
		{
			name:    "empty turn is empty",
			turn:    domain.ChatTurnRequest{},
			wantErr: ErrEmptyUtterance,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Utterance(&tt.turn)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestClientRelay(t *testing.T) {
	var captured chatRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/api/chat", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&captured))

		json.NewEncoder(w).Encode(domain.AgentTurnResult{
			MessageID:     "m-1",
			AgentResponse: "shift 5% into ETH",
		})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, 0)
	result, err := c.Relay(context.Background(), &domain.ChatTurnRequest{
		Message:    "should I rebalance?",
		StrategyID: "strat-1",
		WalletIDs:  []string{"w-1", "w-2"},
		Messages: []domain.ChatMessage{
			{Role: domain.RoleUser, Content: "earlier"},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, "m-1", result.MessageID)
	assert.Equal(t, "shift 5% into ETH", result.AgentResponse)

	// Only the resolved utterance crosses the wire, never the transcript.
	assert.Equal(t, "should I rebalance?", captured.Message)
	assert.Equal(t, "strat-1", captured.StrategyID)
	assert.Equal(t, []string{"w-1", "w-2"}, captured.WalletIDs)
}

func TestClientRelayBackendRejection(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte("LLM timeout"))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, 0)
	_, err := c.Relay(context.Background(), &domain.ChatTurnRequest{Message: "hi"})

	var relayErr *RelayError
	require.ErrorAs(t, err, &relayErr)
	assert.Equal(t, http.StatusInternalServerError, relayErr.Status)
	assert.Equal(t, "LLM timeout", relayErr.Body)
}

func TestClientRelayTransportFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // connection refused from here on

	c := NewClient(srv.URL, 0)
	_, err := c.Relay(context.Background(), &domain.ChatTurnRequest{Message: "hi"})

	var transportErr *TransportError
	assert.ErrorAs(t, err, &transportErr)
}

func TestClientRelayEmptyUtteranceSkipsNetwork(t *testing.T) {
	called := false
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))
	defer srv.Close()

	c := NewClient(srv.URL, 0)
	_, err := c.Relay(context.Background(), &domain.ChatTurnRequest{Message: "   "})

	assert.ErrorIs(t, err, ErrEmptyUtterance)
	assert.False(t, called)
}

func TestClientHistory(t *testing.T) {
	var query map[string][]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/chat/history", r.URL.Path)
		query = r.URL.Query()

		json.NewEncoder(w).Encode(domain.ChatHistory{
			Messages: []domain.HistoryTurn{
				{MessageID: "m-2", UserMessage: "latest", AgentResponse: "reply 2"},
				{MessageID: "m-1", UserMessage: "oldest", AgentResponse: "reply 1"},
			},
			Total: 2,
		})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, 0)

	history, err := c.History(context.Background(), "strat-1", 10)
	require.NoError(t, err)
	assert.Equal(t, 2, history.Total)
	require.Len(t, history.Messages, 2)
	assert.Equal(t, "m-2", history.Messages[0].MessageID)
	assert.Equal(t, []string{"10"}, query["limit"])
	assert.Equal(t, []string{"strat-1"}, query["strategy_id"])

	// A blank strategy omits the parameter entirely.
	_, err = c.History(context.Background(), "", 0)
	require.NoError(t, err)
	assert.Equal(t, []string{"50"}, query["limit"])
	_, ok := query["strategy_id"]
	assert.False(t, ok)
}

func TestClientHistoryBackendDown(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, 0)
	_, err := c.History(context.Background(), "", 10)
	assert.ErrorIs(t, err, ErrBackendUnavailable)
}

func TestClientRecommend(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/recommendations", r.URL.Path)

		var req recommendationRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "strat-1", req.StrategyID)

		w.Write([]byte(`{"recommendation":"hold","analysis":{"volatility":"low"}}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, 0)
	result, err := c.Recommend(context.Background(), "strat-1")
	require.NoError(t, err)
	assert.Equal(t, "hold", result.Recommendation)
	assert.JSONEq(t, `{"volatility":"low"}`, string(result.Analysis))
}

func TestRelayErrorMessage(t *testing.T) {
	err := &RelayError{Status: 502, Body: "upstream busy"}
	assert.Equal(t, "agent backend returned status 502: upstream busy", err.Error())

	wrapped := &TransportError{Err: errors.New("dial tcp: refused")}
	assert.ErrorContains(t, wrapped, "dial tcp: refused")
}
