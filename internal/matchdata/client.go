// Package matchdata proxies the local match-stats collaborator. Payloads are
// opaque JSON; the statistical model behind them is not this service's
// business.
package matchdata

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/rs/zerolog/log"
)

// Client talks to the local match-data service
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a match-data client
func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// Matches returns the raw match listing
func (c *Client) Matches(ctx context.Context) (json.RawMessage, error) {
	return c.get(ctx, "matches")
}

// MatchPrediction returns the raw prediction payload for one match
func (c *Client) MatchPrediction(ctx context.Context, matchID string) (json.RawMessage, error) {
	return c.get(ctx, fmt.Sprintf("matches/%s/prediction", url.PathEscape(matchID)))
}

func (c *Client) get(ctx context.Context, path string) (json.RawMessage, error) {
	endpoint := fmt.Sprintf("%s/%s", c.baseURL, path)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("match-data request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		log.Error().
			Int("status", resp.StatusCode).
			Str("path", path).
			Msg("Match-data service error")
		return nil, fmt.Errorf("match-data service returned status %d", resp.StatusCode)
	}

	if !json.Valid(body) {
		return nil, fmt.Errorf("match-data service returned invalid JSON")
	}

	return json.RawMessage(body), nil
}
