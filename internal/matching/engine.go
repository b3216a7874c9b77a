// internal/matching/engine.go
package matching

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"runtime"
	"time"

	"match-workers/internal/common/logger"
	"match-workers/internal/common/metrics"
	"match-workers/internal/common/observability"
	"match-workers/internal/models"

	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/sync/errgroup"
)

// Config holds the engine's tunables. It is the only state an Engine carries besides its collaborators.
// Lambda and Epsilon are taken as given, zero included, so callers should start from DefaultConfig.
// Zero OutputCap, EnrichmentTimeout and Concurrency fall back to the defaults.
type Config struct {
	Weights           models.Weights
	Lambda            float64
	Epsilon           float64
	OutputCap         int
	EnrichmentTimeout time.Duration
	Concurrency       int
	Now               func() time.Time
	RandSource        func() rand.Source
}

func DefaultConfig() Config {
	return Config{
		Weights:           models.DefaultWeights(),
		Lambda:            DefaultLambda,
		Epsilon:           DefaultEpsilon,
		OutputCap:         DefaultOutputCap,
		EnrichmentTimeout: 2 * time.Second,
		Concurrency:       runtime.NumCPU(),
	}
}

// PoolMatcher produces pool-derived suggestions for requester, restricted to the given candidates.
type PoolMatcher interface {
	Suggest(ctx context.Context, requester *models.Profile, candidates []*models.Profile) ([]models.MatchSuggestion, error)
}

// Request is one ranking invocation. Nil overrides fall back to the requester's custom weights
// and then to the engine configuration.
type Request struct {
	Requester  *models.Profile
	Candidates []*models.Profile
	Weights    *models.Weights
	Lambda     *float64
	Epsilon    *float64
	SeenIDs    []string
}

type Engine struct {
	config   Config
	pools    PoolMatcher
	enricher Enricher
	obs      *observability.Observability
	logger   logger.Logger
}

type EngineOption func(*Engine)

func WithObservability(obs *observability.Observability) EngineOption {
	return func(e *Engine) { e.obs = obs }
}

// NewEngine validates cfg and fills zero sizes and timeouts from DefaultConfig. pools and enricher may be nil.
func NewEngine(cfg Config, pools PoolMatcher, enricher Enricher, log logger.Logger, opts ...EngineOption) (*Engine, error) {
	def := DefaultConfig()
	if cfg.OutputCap <= 0 {
		cfg.OutputCap = def.OutputCap
	}
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = def.Concurrency
	}
	if cfg.EnrichmentTimeout <= 0 {
		cfg.EnrichmentTimeout = def.EnrichmentTimeout
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if cfg.RandSource == nil {
		cfg.RandSource = func() rand.Source { return rand.NewPCG(rand.Uint64(), rand.Uint64()) }
	}
	if err := ValidateWeights(cfg.Weights); err != nil {
		return nil, err
	}
	if err := validateUnit("lambda", cfg.Lambda); err != nil {
		return nil, err
	}
	if err := validateUnit("epsilon", cfg.Epsilon); err != nil {
		return nil, err
	}

	e := &Engine{
		config:   cfg,
		pools:    pools,
		enricher: enricher,
		logger:   log.WithFields(map[string]interface{}{"component": "matching-engine"}),
	}
	for _, opt := range opts {
		opt(e)
	}
	if cfg.Lambda == 0 {
		e.logger.Warn("mmr lambda is 0, reranking ignores relevance", map[string]interface{}{
			"defaultLambda": def.Lambda,
		})
	}
	return e, nil
}

// Rank runs filter, scoring and pool matching in parallel, fusion, optional enrichment, MMR and exploration.
func (e *Engine) Rank(ctx context.Context, req Request) (*models.MatchingResponse, error) {
	if req.Requester == nil {
		return nil, ErrMissingRequester
	}
	weights, lambda, epsilon, err := e.resolve(req)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	ctx, span := e.obs.StartSpan(ctx, "matching.rank",
		attribute.String("user.id", req.Requester.UserID),
		attribute.Int("candidates.input", len(req.Candidates)),
	)
	defer span.End()

	now := e.config.Now()
	eligible := FilterCandidates(req.Requester, req.Candidates)
	metrics.MatchingCandidates.WithLabelValues("input").Add(float64(len(req.Candidates)))
	metrics.MatchingCandidates.WithLabelValues("eligible").Add(float64(len(eligible)))

	resp := &models.MatchingResponse{
		UserID:      req.Requester.UserID,
		Suggestions: []models.MatchSuggestion{},
		GeneratedAt: now,
	}
	if len(eligible) == 0 {
		e.logger.Info("no eligible candidates", map[string]interface{}{
			"userId":     req.Requester.UserID,
			"candidates": len(req.Candidates),
		})
		e.record(ctx, start, 0)
		return resp, nil
	}

	var scored, pooled []models.MatchSuggestion
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		scored, err = e.scoreAll(gctx, req.Requester, eligible, weights, now)
		return err
	})
	if e.pools != nil {
		g.Go(func() error {
			out, err := e.pools.Suggest(gctx, req.Requester, eligible)
			if err != nil {
				e.logger.Warn("pool matching failed, continuing with aggregate scores", map[string]interface{}{
					"userId": req.Requester.UserID,
					"error":  err.Error(),
				})
				return nil
			}
			pooled = out
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		span.RecordError(err)
		return nil, err
	}

	fused := Fuse(scored, pooled)
	fused = e.enrich(ctx, req.Requester, fused)

	ranked := NewMMRReranker(lambda, e.config.OutputCap).Rerank(fused)
	ranked = NewExplorer(epsilon, e.config.RandSource()).Explore(ranked)

	resp.Suggestions = ranked
	resp.DiversityStats = ComputeDiversityStats(ranked, req.SeenIDs)

	e.logger.Info("ranking completed", map[string]interface{}{
		"userId":     req.Requester.UserID,
		"candidates": len(req.Candidates),
		"eligible":   len(eligible),
		"pooled":     len(pooled),
		"fused":      len(fused),
		"returned":   len(ranked),
		"durationMs": time.Since(start).Milliseconds(),
	})
	e.record(ctx, start, len(ranked))
	return resp, nil
}

// Refresh re-runs the full pipeline. Results differ from the previous run only in the shuffled tail
// unless the inputs changed.
func (e *Engine) Refresh(ctx context.Context, req Request) (*models.MatchingResponse, error) {
	return e.Rank(ctx, req)
}

// Explain scores one pair with the resolved weights for requester.
func (e *Engine) Explain(requester, candidate *models.Profile, weights *models.Weights) (*Explanation, error) {
	if requester == nil {
		return nil, ErrMissingRequester
	}
	w, _, _, err := e.resolve(Request{Requester: requester, Weights: weights})
	if err != nil {
		return nil, err
	}
	return Explain(requester, candidate, w, e.config.Now())
}

func (e *Engine) resolve(req Request) (models.Weights, float64, float64, error) {
	weights := e.config.Weights
	switch {
	case req.Weights != nil:
		weights = *req.Weights
	case req.Requester.Preferences.CustomWeights != nil:
		weights = *req.Requester.Preferences.CustomWeights
	}
	if err := ValidateWeights(weights); err != nil {
		return models.Weights{}, 0, 0, err
	}

	lambda := e.config.Lambda
	if req.Lambda != nil {
		lambda = *req.Lambda
	}
	if err := validateUnit("lambda", lambda); err != nil {
		return models.Weights{}, 0, 0, err
	}

	epsilon := e.config.Epsilon
	if req.Epsilon != nil {
		epsilon = *req.Epsilon
	}
	if err := validateUnit("epsilon", epsilon); err != nil {
		return models.Weights{}, 0, 0, err
	}
	return weights, lambda, epsilon, nil
}

// scoreAll builds one suggestion per candidate on a worker pool bounded by Config.Concurrency.
func (e *Engine) scoreAll(ctx context.Context, requester *models.Profile, candidates []*models.Profile, w models.Weights, now time.Time) ([]models.MatchSuggestion, error) {
	out := make([]models.MatchSuggestion, len(candidates))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(e.config.Concurrency)
	for i, c := range candidates {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			out[i] = BuildSuggestion(requester, c, w, now)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	SortByScore(out)
	return out, nil
}

func (e *Engine) enrich(ctx context.Context, requester *models.Profile, in []models.MatchSuggestion) []models.MatchSuggestion {
	if e.enricher == nil {
		metrics.EnrichmentOutcomes.WithLabelValues("skipped").Inc()
		return in
	}
	out, err := runEnricher(ctx, e.enricher, e.config.EnrichmentTimeout, requester, in)
	switch {
	case errors.Is(err, ErrEnrichmentTimeout):
		metrics.EnrichmentOutcomes.WithLabelValues("timeout").Inc()
		e.logger.Warn("enrichment timed out, keeping base ranking", map[string]interface{}{
			"userId":    requester.UserID,
			"timeoutMs": e.config.EnrichmentTimeout.Milliseconds(),
		})
	case err != nil:
		metrics.EnrichmentOutcomes.WithLabelValues("failed").Inc()
		e.logger.Warn("enrichment failed, keeping base ranking", map[string]interface{}{
			"userId": requester.UserID,
			"error":  err.Error(),
		})
	default:
		metrics.EnrichmentOutcomes.WithLabelValues("applied").Inc()
	}
	return out
}

func (e *Engine) record(ctx context.Context, start time.Time, returned int) {
	d := time.Since(start)
	metrics.MatchingRankDuration.Observe(d.Seconds())
	metrics.MatchingSuggestionsReturned.Observe(float64(returned))
	e.obs.RecordRanking(ctx, d, returned)
}

// ComputeDiversityStats counts distinct sectors across previews and suggestions not present in seenIDs.
func ComputeDiversityStats(suggestions []models.MatchSuggestion, seenIDs []string) models.DiversityStats {
	sectors := make(map[models.Sector]struct{})
	seen := toSet(seenIDs)
	stats := models.DiversityStats{}
	for _, s := range suggestions {
		for _, sec := range s.Preview.Sectors {
			sectors[sec] = struct{}{}
		}
		if _, ok := seen[s.CandidateID]; !ok {
			stats.NewProfiles++
		}
	}
	stats.UniqueSectors = len(sectors)
	return stats
}

func validateUnit(name string, v float64) error {
	if v < 0 || v > 1 || v != v {
		return fmt.Errorf("%w: %s must be within [0,1], got %v", ErrInvalidParameter, name, v)
	}
	return nil
}
