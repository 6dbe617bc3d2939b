package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog/log"

	"betcopilot/gateway/internal/analyzer"
	"betcopilot/gateway/pkg/models"
)

// CORS contract: any origin, and exactly the request headers the desktop
// client sends.
var (
	corsAllowedMethods = []string{http.MethodGet, http.MethodPost, http.MethodOptions}
	corsAllowedHeaders = []string{"Authorization", "X-Client-Info", "Apikey", "Content-Type"}
)

// Analyzer runs the pick-analysis pipeline
type Analyzer interface {
	Analyze(ctx context.Context, pick models.Pick) (*models.Analysis, *analyzer.Error)
}

// MatchSource serves the local match-data collaborator's payloads
type MatchSource interface {
	Matches(ctx context.Context) (json.RawMessage, error)
	MatchPrediction(ctx context.Context, matchID string) (json.RawMessage, error)
}

// Handler contains dependencies for HTTP handlers
type Handler struct {
	analyzer Analyzer
	matches  MatchSource
}

// NewHandler creates a new handler
func NewHandler(a Analyzer, m MatchSource) *Handler {
	return &Handler{analyzer: a, matches: m}
}

// NewRouter builds the gateway router with logging, panic recovery and the
// CORS contract applied to every response.
func NewRouter(h *Handler) chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.Recoverer)
	r.Use(requestLogger)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: corsAllowedMethods,
		AllowedHeaders: corsAllowedHeaders,
		MaxAge:         300,
	}))
	r.Use(corsBaseHeaders)

	r.Get("/health", h.HealthCheck)
	r.Post("/api/v1/analyze-pick", h.AnalyzePick)
	r.Get("/api/v1/matches", h.ListMatches)
	r.Get("/api/v1/matches/{matchID}/prediction", h.MatchPrediction)

	// The cors middleware only intercepts real preflights; clients that probe
	// with a bare OPTIONS still get the permissive headers and no body.
	r.Options("/api/v1/analyze-pick", h.Preflight)
	r.Options("/api/v1/matches", h.Preflight)
	r.Options("/api/v1/matches/{matchID}/prediction", h.Preflight)
	r.Options("/*", h.Preflight)

	return r
}

// corsBaseHeaders mirrors the contract that every response, success or
// failure, carries the permissive CORS headers.
func corsBaseHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Headers", "authorization, x-client-info, apikey, content-type")
		next.ServeHTTP(w, r)
	})
}

// HealthCheck returns service health
func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{
		"status":  "healthy",
		"service": "analysis-gateway",
	})
}

// Preflight answers cross-origin probes with permissive headers and no body
func (h *Handler) Preflight(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
	w.Header().Set("Access-Control-Allow-Headers", "authorization, x-client-info, apikey, content-type")
	w.WriteHeader(http.StatusNoContent)
}

// AnalyzePick accepts a pick payload and returns the AI analysis or a
// classified failure. The only failure statuses the contract allows are
// 429 and 500, each with an {"error": message} body.
func (h *Handler) AnalyzePick(w http.ResponseWriter, r *http.Request) {
	var pick models.Pick
	if err := json.NewDecoder(r.Body).Decode(&pick); err != nil {
		log.Error().Err(err).Msg("Failed to decode pick payload")
		respondError(w, http.StatusInternalServerError, "invalid pick payload")
		return
	}

	analysis, aerr := h.analyzer.Analyze(r.Context(), pick)
	if aerr != nil {
		log.Error().
			Err(aerr).
			Str("kind", string(aerr.Kind)).
			Msg("Pick analysis failed")
		respondError(w, aerr.HTTPStatus(), aerr.Message)
		return
	}

	respondJSON(w, http.StatusOK, analysis)
}

// ListMatches proxies the local match listing
func (h *Handler) ListMatches(w http.ResponseWriter, r *http.Request) {
	payload, err := h.matches.Matches(r.Context())
	if err != nil {
		log.Error().Err(err).Msg("Failed to fetch matches")
		respondError(w, http.StatusBadGateway, "match data unavailable")
		return
	}
	respondRaw(w, payload)
}

// MatchPrediction proxies one match's statistical prediction
func (h *Handler) MatchPrediction(w http.ResponseWriter, r *http.Request) {
	matchID := chi.URLParam(r, "matchID")
	payload, err := h.matches.MatchPrediction(r.Context(), matchID)
	if err != nil {
		log.Error().Err(err).Str("match_id", matchID).Msg("Failed to fetch prediction")
		respondError(w, http.StatusBadGateway, "match data unavailable")
		return
	}
	respondRaw(w, payload)
}

// requestLogger logs one line per request with zerolog
func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		log.Debug().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", ww.Status()).
			Dur("duration", time.Since(start)).
			Msg("Request handled")
	})
}

// respondJSON writes a JSON response
func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// respondRaw writes pre-encoded JSON
func respondRaw(w http.ResponseWriter, payload json.RawMessage) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write(payload)
}

// respondError writes an error response
func respondError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{
		"error": message,
	})
}
