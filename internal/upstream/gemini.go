// Package upstream wraps the Gemini generateContent API. One call in, one
// generated text out; classification of what the text means happens in the
// analyzer.
package upstream

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/rs/zerolog/log"

	"betcopilot/gateway/internal/metrics"
)

// ErrNoContent means the upstream answered 200 but produced no usable text
var ErrNoContent = errors.New("upstream returned no generated content")

// StatusError is a non-success upstream HTTP status. The body is kept for
// logging only and must never reach the end user.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("upstream returned status %d", e.StatusCode)
}

// Client is the Gemini generateContent API client
type Client struct {
	baseURL    string
	apiKey     string
	model      string
	httpClient *http.Client
}

// NewClient creates a Gemini client. timeout is the hard ceiling on each
// call; there are no retries, a pick analysis is a single attempt.
func NewClient(baseURL, apiKey, model string, timeout time.Duration) *Client {
	return &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		model:   model,
		httpClient: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
	}
}

// generateContent request/response wire types

type generateRequest struct {
	SystemInstruction *content          `json:"system_instruction,omitempty"`
	Contents          []content         `json:"contents"`
	GenerationConfig  *generationConfig `json:"generationConfig,omitempty"`
}

type content struct {
	Role  string `json:"role,omitempty"`
	Parts []part `json:"parts"`
}

type part struct {
	Text string `json:"text"`
}

type generationConfig struct {
	ResponseMIMEType string `json:"responseMimeType,omitempty"`
}

type generateResponse struct {
	Candidates []struct {
		Content content `json:"content"`
	} `json:"candidates"`
}

// GenerateText sends the system/user pair with a JSON-output directive and
// returns the first candidate's generated text.
func (c *Client) GenerateText(ctx context.Context, system, user string) (string, error) {
	endpoint := fmt.Sprintf("%s/models/%s:generateContent?key=%s",
		c.baseURL, c.model, url.QueryEscape(c.apiKey))

	payload := generateRequest{
		SystemInstruction: &content{
			Role:  "system",
			Parts: []part{{Text: system}},
		},
		Contents: []content{
			{Role: "user", Parts: []part{{Text: user}}},
		},
		GenerationConfig: &generationConfig{
			ResponseMIMEType: "application/json",
		},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("failed to encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		metrics.UpstreamCallsTotal.WithLabelValues("transport_error").Inc()
		return "", fmt.Errorf("upstream request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		metrics.UpstreamCallsTotal.WithLabelValues("transport_error").Inc()
		return "", fmt.Errorf("failed to read response body: %w", err)
	}

	status := strconv.Itoa(resp.StatusCode)
	metrics.UpstreamCallsTotal.WithLabelValues(status).Inc()
	metrics.UpstreamCallDuration.WithLabelValues(status).Observe(time.Since(start).Seconds())

	if resp.StatusCode != http.StatusOK {
		// Upstream detail stays in the logs, never in the client response
		log.Error().
			Int("status", resp.StatusCode).
			Str("model", c.model).
			Str("body", string(respBody)).
			Msg("Gemini API error")
		return "", &StatusError{StatusCode: resp.StatusCode, Body: string(respBody)}
	}

	var generated generateResponse
	if err := json.Unmarshal(respBody, &generated); err != nil {
		return "", fmt.Errorf("failed to decode upstream response: %w", err)
	}

	if len(generated.Candidates) == 0 || len(generated.Candidates[0].Content.Parts) == 0 {
		return "", ErrNoContent
	}

	text := generated.Candidates[0].Content.Parts[0].Text
	if text == "" {
		return "", ErrNoContent
	}

	log.Debug().
		Str("model", c.model).
		Int("size", len(text)).
		Dur("duration", time.Since(start)).
		Msg("Upstream call successful")

	return text, nil
}
