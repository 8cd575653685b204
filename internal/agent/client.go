package agent

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/banzai-team/spoon-rebalancing/internal/domain"
	"github.com/banzai-team/spoon-rebalancing/pkg/log"
)

// DefaultHistoryLimit is used when a caller asks for history without a limit.
const DefaultHistoryLimit = 50

// Client talks to the external agent backend over HTTP. It is an
// explicitly constructed value, injected wherever it is needed; there is
// no package-level shared client.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates an agent backend client. A zero timeout falls back to
// 30 seconds.
func NewClient(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
	}
}

// chatRequest is the agent backend chat wire schema.
type chatRequest struct {
	Message    string   `json:"message"`
	StrategyID string   `json:"strategy_id,omitempty"`
	WalletIDs  []string `json:"wallet_ids,omitempty"`
}

// Utterance resolves the single user line a turn sends to the backend.
// An explicitly supplied message wins; otherwise the most recent
// role=user entry of the transcript is used. The full transcript is never
// forwarded: the backend maintains its own context, this client only
// translates schemas.
func Utterance(turn *domain.ChatTurnRequest) (string, error) {
	if msg := strings.TrimSpace(turn.Message); msg != "" {
		return msg, nil
	}
	for i := len(turn.Messages) - 1; i >= 0; i-- {
		if turn.Messages[i].Role == domain.RoleUser {
			if msg := strings.TrimSpace(turn.Messages[i].Content); msg != "" {
				return msg, nil
			}
		}
	}
	return "", ErrEmptyUtterance
}

// Relay forwards one turn to the agent backend chat endpoint and maps the
// answer back. Single attempt: a failure is terminal for the turn.
func (c *Client) Relay(ctx context.Context, turn *domain.ChatTurnRequest) (*domain.AgentTurnResult, error) {
	utterance, err := Utterance(turn)
	if err != nil {
		return nil, err
	}

	body, err := json.Marshal(chatRequest{
		Message:    utterance,
		StrategyID: turn.StrategyID,
		WalletIDs:  turn.WalletIDs,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to encode chat request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/chat", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &TransportError{Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		// The backend's body is surfaced verbatim as the error payload.
		raw, _ := io.ReadAll(resp.Body)
		return nil, &RelayError{Status: resp.StatusCode, Body: string(raw)}
	}

	var result domain.AgentTurnResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to decode chat response: %w", err)
	}

	l := log.Ctx(ctx)
	l.Debug().Str(log.FieldMessageID, result.MessageID).Msg("agent turn relayed")

	return &result, nil
}

// History fetches prior turns from the agent backend. strategyID scopes
// the query when non-empty and is omitted from the query entirely when
// blank. A non-positive limit falls back to DefaultHistoryLimit.
func (c *Client) History(ctx context.Context, strategyID string, limit int) (*domain.ChatHistory, error) {
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}

	q := url.Values{}
	q.Set("limit", strconv.Itoa(limit))
	if strategyID != "" {
		q.Set("strategy_id", strategyID)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/chat/history?"+q.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBackendUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: status %d", ErrBackendUnavailable, resp.StatusCode)
	}

	var history domain.ChatHistory
	if err := json.NewDecoder(resp.Body).Decode(&history); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBackendUnavailable, err)
	}

	return &history, nil
}

// recommendationRequest is the agent backend recommendation wire schema.
type recommendationRequest struct {
	StrategyID string `json:"strategy_id"`
}

// RecommendationResult is the agent backend's rebalancing advice for one
// strategy. Analysis is opaque JSON passed through untouched.
type RecommendationResult struct {
	Recommendation string          `json:"recommendation"`
	Analysis       json.RawMessage `json:"analysis,omitempty"`
}

// Recommend asks the agent backend for a rebalancing recommendation.
// Same failure contract as Relay.
func (c *Client) Recommend(ctx context.Context, strategyID string) (*RecommendationResult, error) {
	body, err := json.Marshal(recommendationRequest{StrategyID: strategyID})
	if err != nil {
		return nil, fmt.Errorf("failed to encode recommendation request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/recommendations", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &TransportError{Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		raw, _ := io.ReadAll(resp.Body)
		return nil, &RelayError{Status: resp.StatusCode, Body: string(raw)}
	}

	var result RecommendationResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to decode recommendation response: %w", err)
	}

	return &result, nil
}
