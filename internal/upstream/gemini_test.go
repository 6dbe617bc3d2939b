package upstream

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func candidateResponse(text string) map[string]interface{} {
	return map[string]interface{}{
		"candidates": []map[string]interface{}{
			{
				"content": map[string]interface{}{
					"role":  "model",
					"parts": []map[string]string{{"text": text}},
				},
			},
		},
	}
}

func TestGenerateTextSuccess(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/models/gemini-1.5-flash:generateContent", r.URL.Path)
		assert.Equal(t, "test-key", r.URL.Query().Get("key"))

		var req generateRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.NotNil(t, req.SystemInstruction)
		assert.Equal(t, "system text", req.SystemInstruction.Parts[0].Text)
		require.Len(t, req.Contents, 1)
		assert.Equal(t, "user", req.Contents[0].Role)
		assert.Equal(t, "user text", req.Contents[0].Parts[0].Text)
		require.NotNil(t, req.GenerationConfig)
		assert.Equal(t, "application/json", req.GenerationConfig.ResponseMIMEType)

		json.NewEncoder(w).Encode(candidateResponse(`{"verdict":"ok"}`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "test-key", "gemini-1.5-flash", 5*time.Second)
	text, err := client.GenerateText(context.Background(), "system text", "user text")
	require.NoError(t, err)
	assert.Equal(t, `{"verdict":"ok"}`, text)
}

func TestGenerateTextRateLimited(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		w.Write([]byte(`{"error": {"code": 429, "status": "RESOURCE_EXHAUSTED"}}`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "test-key", "gemini-1.5-flash", 5*time.Second)
	_, err := client.GenerateText(context.Background(), "s", "u")
	require.Error(t, err)

	var statusErr *StatusError
	require.ErrorAs(t, err, &statusErr)
	assert.Equal(t, http.StatusTooManyRequests, statusErr.StatusCode)
}

func TestGenerateTextUpstreamFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "test-key", "gemini-1.5-flash", 5*time.Second)
	_, err := client.GenerateText(context.Background(), "s", "u")

	var statusErr *StatusError
	require.ErrorAs(t, err, &statusErr)
	assert.Equal(t, http.StatusServiceUnavailable, statusErr.StatusCode)
}

func TestGenerateTextNoCandidates(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]interface{}{"candidates": []interface{}{}})
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "test-key", "gemini-1.5-flash", 5*time.Second)
	_, err := client.GenerateText(context.Background(), "s", "u")
	assert.ErrorIs(t, err, ErrNoContent)
}

func TestGenerateTextEmptyText(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(candidateResponse(""))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "test-key", "gemini-1.5-flash", 5*time.Second)
	_, err := client.GenerateText(context.Background(), "s", "u")
	assert.ErrorIs(t, err, ErrNoContent)
}

func TestGenerateTextTransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // connection refused from here on

	client := NewClient(srv.URL, "test-key", "gemini-1.5-flash", time.Second)
	_, err := client.GenerateText(context.Background(), "s", "u")
	require.Error(t, err)

	var statusErr *StatusError
	assert.False(t, errors.As(err, &statusErr))
}
