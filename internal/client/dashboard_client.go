// Package client is an HTTP client for the rebalancing dashboard API.
// It satisfies the chat session controller's dependencies, so a session
// can be driven against a running dashboard instance.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"path"
	"strconv"
	"time"

	"github.com/banzai-team/spoon-rebalancing/internal/attachment"
	"github.com/banzai-team/spoon-rebalancing/internal/domain"
)

const defaultTimeout = 60 * time.Second

// DashboardClient wraps the dashboard HTTP API.
type DashboardClient struct {
	baseURL    string
	httpClient *http.Client
}

// envelope is the dashboard's response wrapper.
type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *apiError       `json:"error,omitempty"`
}

type apiError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// NewDashboardClient creates a dashboard API client.
func NewDashboardClient(baseURL string, timeout time.Duration) *DashboardClient {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &DashboardClient{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// Relay submits one conversational turn.
func (c *DashboardClient) Relay(ctx context.Context, turn *domain.ChatTurnRequest) (*domain.AgentTurnResult, error) {
	var result domain.AgentTurnResult
	if err := c.postJSON(ctx, "/api/chat", turn, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// Load retrieves prior turns, optionally scoped to a strategy.
func (c *DashboardClient) Load(ctx context.Context, strategyID string, limit int) (*domain.ChatHistory, error) {
	q := url.Values{}
	q.Set("limit", strconv.Itoa(limit))
	if strategyID != "" {
		q.Set("strategy_id", strategyID)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/chat/history?"+q.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	var history domain.ChatHistory
	if err := c.do(req, &history); err != nil {
		return nil, err
	}
	return &history, nil
}

// Upload sends a batch of files as a multipart form and returns one
// attachment per file. The dashboard answers with URLs only, so the
// stored name is recovered from the URL's last path segment.
func (c *DashboardClient) Upload(ctx context.Context, files []attachment.File) ([]domain.UploadedAttachment, error) {
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	for _, f := range files {
		part, err := mw.CreateFormFile("files", f.Name)
		if err != nil {
			return nil, fmt.Errorf("failed to build multipart form: %w", err)
		}
		if _, err := io.Copy(part, f.Content); err != nil {
			return nil, fmt.Errorf("failed to read file %s: %w", f.Name, err)
		}
	}
	if err := mw.Close(); err != nil {
		return nil, fmt.Errorf("failed to finalise multipart form: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/upload", &body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to reach dashboard: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, c.statusError(resp)
	}

	var uploadResp struct {
		URLs []string `json:"urls"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&uploadResp); err != nil {
		return nil, fmt.Errorf("failed to decode upload response: %w", err)
	}

	attachments := make([]domain.UploadedAttachment, 0, len(uploadResp.URLs))
	for i, u := range uploadResp.URLs {
		stored := path.Base(u)
		original := ""
		if i < len(files) {
			original = files[i].Name
		}
		attachments = append(attachments, domain.UploadedAttachment{
			OriginalName: original,
			StoredName:   stored,
			URL:          u,
		})
	}
	return attachments, nil
}

func (c *DashboardClient) postJSON(ctx context.Context, path string, payload, out interface{}) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	return c.do(req, out)
}

func (c *DashboardClient) do(req *http.Request, out interface{}) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to reach dashboard: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return c.statusError(resp)
	}

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	if !env.Success {
		if env.Error != nil {
			return fmt.Errorf("dashboard error %s: %s", env.Error.Code, env.Error.Message)
		}
		return fmt.Errorf("dashboard request failed")
	}
	if out != nil {
		if err := json.Unmarshal(env.Data, out); err != nil {
			return fmt.Errorf("failed to decode response data: %w", err)
		}
	}
	return nil
}

// statusError turns a non-2xx response into an error carrying the
// dashboard's error message when one is present.
func (c *DashboardClient) statusError(resp *http.Response) error {
	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err == nil && env.Error != nil {
		return fmt.Errorf("dashboard returned status %d (%s): %s", resp.StatusCode, env.Error.Code, env.Error.Message)
	}
	return fmt.Errorf("dashboard returned status %d", resp.StatusCode)
}
