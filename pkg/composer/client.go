package composer

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sync/atomic"
	"time"

	"betcopilot/gateway/pkg/models"
)

// ErrAnalysisInFlight is returned when a submission is attempted while a
// previous one is still awaiting its result. One submission = one request;
// the guard suppresses duplicate clicks.
var ErrAnalysisInFlight = errors.New("an analysis request is already in flight")

// GatewayError is a classified failure returned by the analysis gateway
type GatewayError struct {
	StatusCode int
	Message    string
}

func (e *GatewayError) Error() string {
	return fmt.Sprintf("gateway returned %d: %s", e.StatusCode, e.Message)
}

// RateLimited reports whether the gateway asked the caller to retry later
func (e *GatewayError) RateLimited() bool {
	return e.StatusCode == http.StatusTooManyRequests
}

// Client submits picks to the analysis gateway
type Client struct {
	baseURL    string
	httpClient *http.Client
	inFlight   atomic.Bool
}

// NewClient creates a gateway client. timeout bounds the full round trip;
// it should exceed the gateway's own upstream ceiling.
func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// Analyze submits one pick and blocks until the gateway answers. No retries:
// failures are surfaced for the caller to show and the pick stays editable.
func (c *Client) Analyze(ctx context.Context, pick models.Pick) (*models.Analysis, error) {
	if !c.inFlight.CompareAndSwap(false, true) {
		return nil, ErrAnalysisInFlight
	}
	defer c.inFlight.Store(false)

	payload, err := json.Marshal(pick)
	if err != nil {
		return nil, fmt.Errorf("failed to encode pick: %w", err)
	}

	url := c.baseURL + "/api/v1/analyze-pick"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("analysis request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		var failure struct {
			Error string `json:"error"`
		}
		if err := json.Unmarshal(body, &failure); err != nil || failure.Error == "" {
			failure.Error = "analysis failed"
		}
		return nil, &GatewayError{StatusCode: resp.StatusCode, Message: failure.Error}
	}

	var analysis models.Analysis
	if err := json.Unmarshal(body, &analysis); err != nil {
		return nil, fmt.Errorf("failed to decode analysis: %w", err)
	}
	return &analysis, nil
}
