// internal/matching/enrichment/genai.go
package enrichment

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	httpclient "match-workers/internal/common/http"
	"match-workers/internal/common/logger"
	"match-workers/internal/matching"
	"match-workers/internal/models"
)

var ErrEnrichmentFailed = errors.New("ENRICHMENT_FAILED")

type Config struct {
	BaseURL    string
	APIKey     string
	Timeout    time.Duration
	MaxRetries int
}

// GenAIEnricher asks the GenAI service for a semantic compatibility score per candidate
// and blends it into the base ranking.
type GenAIEnricher struct {
	config *Config
	client *httpclient.Client
	logger logger.Logger
}

type scoreRequest struct {
	Requester  profileSummary     `json:"requester"`
	Candidates []candidateSummary `json:"candidates"`
}

type profileSummary struct {
	UserID   string          `json:"userId"`
	Headline string          `json:"headline"`
	Mission  string          `json:"mission,omitempty"`
	Sectors  []models.Sector `json:"sectors"`
	Values   []models.Value  `json:"values"`
	Offers   []string        `json:"offers"`
	Seeks    []string        `json:"seeks"`
}

type candidateSummary struct {
	ID       string          `json:"id"`
	Headline string          `json:"headline"`
	Sectors  []models.Sector `json:"sectors"`
	Score    int             `json:"compatibilityScore"`
	Reasons  []string        `json:"reasons"`
}

type scoreResponse struct {
	Scores []struct {
		ID    string  `json:"id"`
		Score float64 `json:"score"`
	} `json:"scores"`
}

func NewGenAIEnricher(config *Config, log logger.Logger) *GenAIEnricher {
	opts := []httpclient.Option{httpclient.WithRetries(config.MaxRetries, 100*time.Millisecond)}
	if config.APIKey != "" {
		opts = append(opts, httpclient.WithHeader("Authorization", "Bearer "+config.APIKey))
	}
	return &GenAIEnricher{
		config: config,
		client: httpclient.NewClient(config.Timeout, opts...),
		logger: log.WithFields(map[string]interface{}{"component": "genai-enricher"}),
	}
}

func (g *GenAIEnricher) Enrich(ctx context.Context, requester *models.Profile, suggestions []models.MatchSuggestion) ([]models.MatchSuggestion, error) {
	req := scoreRequest{
		Requester: profileSummary{
			UserID:   requester.UserID,
			Headline: requester.Identity.Headline,
			Mission:  requester.Mission,
			Sectors:  requester.Sectors,
			Values:   requester.Values,
			Offers:   requester.Offers,
			Seeks:    requester.Seeks,
		},
		Candidates: make([]candidateSummary, 0, len(suggestions)),
	}
	for _, s := range suggestions {
		req.Candidates = append(req.Candidates, candidateSummary{
			ID:       s.CandidateID,
			Headline: s.Preview.Identity.Headline,
			Sectors:  s.Preview.Sectors,
			Score:    s.Score,
			Reasons:  s.Reasons,
		})
	}

	var resp scoreResponse
	url := strings.TrimRight(g.config.BaseURL, "/") + "/api/ai/match-score"
	if err := g.client.DoJSON(ctx, "POST", url, req, &resp); err != nil {
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
			return nil, fmt.Errorf("%w: %v", matching.ErrEnrichmentTimeout, err)
		}
		return nil, fmt.Errorf("%w: %v", ErrEnrichmentFailed, err)
	}

	scores := make(map[string]float64, len(resp.Scores))
	for _, s := range resp.Scores {
		if s.Score < 0 || s.Score > 1 {
			continue
		}
		scores[s.ID] = s.Score
	}

	g.logger.Info("enrichment completed", map[string]interface{}{
		"userId":     requester.UserID,
		"candidates": len(suggestions),
		"scored":     len(scores),
	})
	return matching.ApplyAIScores(suggestions, scores), nil
}
