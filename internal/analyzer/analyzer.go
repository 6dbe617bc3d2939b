// Package analyzer turns one pick into one normalized analysis or one
// classified failure. Stateless: the only side effect is the upstream call.
package analyzer

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"

	"betcopilot/gateway/internal/metrics"
	"betcopilot/gateway/internal/prompt"
	"betcopilot/gateway/internal/upstream"
	"betcopilot/gateway/pkg/models"
)

// TextGenerator is the upstream text-generation call
type TextGenerator interface {
	GenerateText(ctx context.Context, system, user string) (string, error)
}

// Cache is an optional read-through store for repeated identical picks
type Cache interface {
	Get(ctx context.Context, pick models.Pick) (*models.Analysis, bool)
	Set(ctx context.Context, pick models.Pick, analysis *models.Analysis)
}

// Service runs the analysis pipeline
type Service struct {
	gen   TextGenerator
	cache Cache
}

// New creates an analyzer. cache may be nil.
func New(gen TextGenerator, cache Cache) *Service {
	return &Service{gen: gen, cache: cache}
}

// Analyze builds the prompt pair, makes the single upstream call, and parses
// the generated text into a validated Analysis. A well-formed analysis is
// returned exactly as the model produced it.
func (s *Service) Analyze(ctx context.Context, pick models.Pick) (*models.Analysis, *Error) {
	start := time.Now()

	if s.cache != nil {
		if cached, ok := s.cache.Get(ctx, pick); ok {
			metrics.CacheHitsTotal.Inc()
			metrics.AnalysesTotal.WithLabelValues("cache_hit").Inc()
			return cached, nil
		}
		metrics.CacheMissesTotal.Inc()
	}

	text, err := s.gen.GenerateText(ctx, prompt.System(), prompt.User(pick))
	if err != nil {
		aerr := classifyUpstream(err)
		s.observe(start, string(aerr.Kind))
		return nil, aerr
	}

	var analysis models.Analysis
	if err := json.Unmarshal([]byte(text), &analysis); err != nil {
		// The schema directive in the prompt is the only defense; a parse
		// failure is terminal, not renegotiated.
		log.Error().Err(err).Int("size", len(text)).Msg("Generated text is not valid analysis JSON")
		s.observe(start, string(KindMalformedResponse))
		return nil, malformedResponseError(err)
	}

	if err := analysis.Validate(); err != nil {
		log.Error().Err(err).Msg("Generated analysis violates the output schema")
		s.observe(start, string(KindMalformedResponse))
		return nil, malformedResponseError(err)
	}

	if s.cache != nil {
		s.cache.Set(ctx, pick, &analysis)
	}

	s.observe(start, "success")
	log.Info().
		Str("home", pick.HomeTeam).
		Str("away", pick.AwayTeam).
		Str("bet_type", string(pick.BetType)).
		Bool("ev_positive", analysis.IsEvPositive).
		Dur("duration", time.Since(start)).
		Msg("Pick analyzed")

	return &analysis, nil
}

func (s *Service) observe(start time.Time, outcome string) {
	metrics.AnalysesTotal.WithLabelValues(outcome).Inc()
	metrics.AnalysisDuration.Observe(time.Since(start).Seconds())
}

// classifyUpstream maps an upstream error onto the failure taxonomy
func classifyUpstream(err error) *Error {
	var statusErr *upstream.StatusError
	if errors.As(err, &statusErr) {
		if statusErr.StatusCode == http.StatusTooManyRequests {
			return rateLimitedError(err)
		}
		return upstreamFailureError(err)
	}

	if errors.Is(err, upstream.ErrNoContent) {
		return emptyResponseError(err)
	}

	return transportError(err)
}
