// internal/profiles/requests.go
package profiles

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"match-workers/internal/models"

	"github.com/redis/go-redis/v9"
)

var ErrRequestNotFound = errors.New("REQUEST_NOT_FOUND")

// StoredRequest is what refresh needs to re-run a ranking: the candidate universe and any
// per-request overrides. Profiles themselves are reloaded so refresh sees current data.
type StoredRequest struct {
	UserID       string          `json:"userId"`
	CandidateIDs []string        `json:"candidateIds"`
	Weights      *models.Weights `json:"weights,omitempty"`
	Lambda       *float64        `json:"lambda,omitempty"`
	Epsilon      *float64        `json:"epsilon,omitempty"`
	CreatedAt    time.Time       `json:"createdAt"`
}

// SaveRequest caches req for the user, replacing any earlier request.
func (r *Repository) SaveRequest(ctx context.Context, req *StoredRequest) error {
	data, err := json.Marshal(req)
	if err != nil {
		return fmt.Errorf("%w: encode request: %v", ErrCacheFailed, err)
	}
	if err := r.redis.Set(ctx, requestKeyPrefix+req.UserID, data, r.config.RequestCacheTTL).Err(); err != nil {
		return fmt.Errorf("%w: store request: %v", ErrCacheFailed, err)
	}
	return nil
}

// LoadRequest returns the last cached request for userID.
func (r *Repository) LoadRequest(ctx context.Context, userID string) (*StoredRequest, error) {
	val, err := r.redis.Get(ctx, requestKeyPrefix+userID).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("%w: %s", ErrRequestNotFound, userID)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: load request: %v", ErrCacheFailed, err)
	}

	var req StoredRequest
	if err := json.Unmarshal(val, &req); err != nil {
		return nil, fmt.Errorf("%w: decode request: %v", ErrCacheFailed, err)
	}
	return &req, nil
}
