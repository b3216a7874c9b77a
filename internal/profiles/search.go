// internal/profiles/search.go
package profiles

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"match-workers/internal/common/logger"
	"match-workers/internal/models"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"
)

var (
	ErrSearchFailed  = errors.New("CANDIDATE_SEARCH_FAILED")
	ErrSearchTimeout = errors.New("SEARCH_TIMEOUT")
)

// Search prefetches candidate ids from the profile index so the ranking pipeline only sees
// plausible candidates instead of the whole user base.
type Search struct {
	es     *elasticsearch.Client
	index  string
	logger logger.Logger
}

func NewSearch(es *elasticsearch.Client, index string, log logger.Logger) *Search {
	return &Search{
		es:     es,
		index:  index,
		logger: log.WithFields(map[string]interface{}{"component": "candidate-search"}),
	}
}

// document is the indexed shape of a profile.
type document struct {
	UserID        string             `json:"user_id"`
	OpenToMatches bool               `json:"open_to_matches"`
	RemoteOK      bool               `json:"remote_ok"`
	Languages     []string           `json:"languages"`
	Sectors       []models.Sector    `json:"sectors"`
	BlockedIDs    []string           `json:"blocked_ids"`
	Location      map[string]float64 `json:"location"`
	LastSeen      string             `json:"last_seen"`
}

func toDocument(p *models.Profile) document {
	return document{
		UserID:        p.UserID,
		OpenToMatches: p.State.OpenToMatching,
		RemoteOK:      p.Location.Remote,
		Languages:     p.Identity.Languages,
		Sectors:       p.Sectors,
		BlockedIDs:    p.State.BlockedIDs,
		Location:      map[string]float64{"lat": p.Location.Lat, "lon": p.Location.Lng},
		LastSeen:      p.Activity.LastSeen.UTC().Format("2006-01-02T15:04:05Z"),
	}
}

// Index writes p to the profile index, keyed by user id.
func (s *Search) Index(ctx context.Context, p *models.Profile) error {
	body, err := json.Marshal(toDocument(p))
	if err != nil {
		return fmt.Errorf("%w: encode document: %v", ErrSearchFailed, err)
	}

	req := esapi.IndexRequest{
		Index:      s.index,
		DocumentID: p.UserID,
		Body:       bytes.NewReader(body),
	}
	res, err := req.Do(ctx, s.es)
	if err != nil {
		return s.classify(ctx, err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return fmt.Errorf("%w: index %s: %s", ErrSearchFailed, p.UserID, res.Status())
	}
	return nil
}

// CandidateIDs returns up to limit ids of open profiles that share a language with the
// requester, have not blocked it, are not blocked by it, and are either within radiusKm
// or remote-compatible. Most recently active first.
func (s *Search) CandidateIDs(ctx context.Context, requester *models.Profile, radiusKm float64, limit int) ([]string, error) {
	body, err := json.Marshal(candidateQuery(requester, radiusKm, limit))
	if err != nil {
		return nil, fmt.Errorf("%w: encode query: %v", ErrSearchFailed, err)
	}

	req := esapi.SearchRequest{
		Index: []string{s.index},
		Body:  bytes.NewReader(body),
	}
	res, err := req.Do(ctx, s.es)
	if err != nil {
		return nil, s.classify(ctx, err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return nil, fmt.Errorf("%w: search failed: %s", ErrSearchFailed, res.String())
	}

	var r struct {
		Hits struct {
			Hits []struct {
				ID     string `json:"_id"`
				Source struct {
					UserID string `json:"user_id"`
				} `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&r); err != nil {
		return nil, fmt.Errorf("%w: decode response: %v", ErrSearchFailed, err)
	}

	ids := make([]string, 0, len(r.Hits.Hits))
	for _, hit := range r.Hits.Hits {
		id := hit.Source.UserID
		if id == "" {
			id = hit.ID
		}
		if id != "" && id != requester.UserID {
			ids = append(ids, id)
		}
	}

	s.logger.Debug("candidates prefetched", map[string]interface{}{
		"userId": requester.UserID,
		"count":  len(ids),
	})
	return ids, nil
}

func candidateQuery(requester *models.Profile, radiusKm float64, limit int) map[string]interface{} {
	filter := []interface{}{
		map[string]interface{}{"term": map[string]interface{}{"open_to_matches": true}},
		map[string]interface{}{"terms": map[string]interface{}{"languages": nonNilStrings(requester.Identity.Languages)}},
	}

	// A remote requester can meet anyone; otherwise the candidate must be close or remote.
	if !requester.Location.Remote {
		filter = append(filter, map[string]interface{}{
			"bool": map[string]interface{}{
				"should": []interface{}{
					map[string]interface{}{"term": map[string]interface{}{"remote_ok": true}},
					map[string]interface{}{"geo_distance": map[string]interface{}{
						"distance": fmt.Sprintf("%gkm", radiusKm),
						"location": map[string]float64{"lat": requester.Location.Lat, "lon": requester.Location.Lng},
					}},
				},
				"minimum_should_match": 1,
			},
		})
	}

	excluded := append([]string{requester.UserID}, requester.State.BlockedIDs...)
	mustNot := []interface{}{
		map[string]interface{}{"terms": map[string]interface{}{"user_id": excluded}},
		map[string]interface{}{"term": map[string]interface{}{"blocked_ids": requester.UserID}},
	}

	return map[string]interface{}{
		"query": map[string]interface{}{
			"bool": map[string]interface{}{
				"filter":   filter,
				"must_not": mustNot,
			},
		},
		"sort":    []interface{}{map[string]interface{}{"last_seen": map[string]interface{}{"order": "desc"}}},
		"_source": []string{"user_id"},
		"size":    limit,
	}
}

func (s *Search) classify(ctx context.Context, err error) error {
	if errors.Is(ctx.Err(), context.DeadlineExceeded) || strings.Contains(err.Error(), "deadline exceeded") {
		return fmt.Errorf("%w: %v", ErrSearchTimeout, err)
	}
	return fmt.Errorf("%w: %v", ErrSearchFailed, err)
}

func nonNilStrings(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
