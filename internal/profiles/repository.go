// internal/profiles/repository.go
package profiles

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"match-workers/internal/common/logger"
	"match-workers/internal/models"

	"github.com/lib/pq"
	"github.com/redis/go-redis/v9"
)

var (
	ErrProfileNotFound = errors.New("PROFILE_NOT_FOUND")
	ErrQueryFailed     = errors.New("QUERY_EXECUTION_FAILED")
	ErrInsertFailed    = errors.New("DATABASE_INSERT_FAILED")
	ErrCacheFailed     = errors.New("CACHE_FAILED")
)

const (
	profileKeyPrefix = "match:profile:"
	seenKeyPrefix    = "match:seen:"
	requestKeyPrefix = "match:request:"
)

type Config struct {
	ProfileCacheTTL time.Duration
	RequestCacheTTL time.Duration
	SeenTTL         time.Duration
}

func DefaultConfig() Config {
	return Config{
		ProfileCacheTTL: 10 * time.Minute,
		RequestCacheTTL: 24 * time.Hour,
		SeenTTL:         7 * 24 * time.Hour,
	}
}

// Repository reads profiles from Postgres through a Redis cache, and owns the feedback log
// and the per-user request cache used by refresh.
type Repository struct {
	config Config
	db     *sql.DB
	redis  *redis.Client
	logger logger.Logger
}

func NewRepository(cfg Config, db *sql.DB, rdb *redis.Client, log logger.Logger) *Repository {
	def := DefaultConfig()
	if cfg.ProfileCacheTTL <= 0 {
		cfg.ProfileCacheTTL = def.ProfileCacheTTL
	}
	if cfg.RequestCacheTTL <= 0 {
		cfg.RequestCacheTTL = def.RequestCacheTTL
	}
	if cfg.SeenTTL <= 0 {
		cfg.SeenTTL = def.SeenTTL
	}
	return &Repository{
		config: cfg,
		db:     db,
		redis:  rdb,
		logger: log.WithFields(map[string]interface{}{"component": "profiles"}),
	}
}

// Get returns one profile, serving it from cache when possible.
func (r *Repository) Get(ctx context.Context, userID string) (*models.Profile, error) {
	cacheKey := profileKeyPrefix + userID
	if val, err := r.redis.Get(ctx, cacheKey).Result(); err == nil {
		var p models.Profile
		if err := json.Unmarshal([]byte(val), &p); err == nil {
			return &p, nil
		}
	} else if !errors.Is(err, redis.Nil) {
		r.logger.Warn("profile cache read failed", map[string]interface{}{
			"userId": userID,
			"error":  err.Error(),
		})
	}

	var data []byte
	err := r.db.QueryRowContext(ctx, `SELECT data FROM profiles WHERE user_id = $1`, userID).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrProfileNotFound, userID)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: select profile %s: %v", ErrQueryFailed, userID, err)
	}

	var p models.Profile
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("%w: decode profile %s: %v", ErrQueryFailed, userID, err)
	}

	if err := r.redis.Set(ctx, cacheKey, data, r.config.ProfileCacheTTL).Err(); err != nil {
		r.logger.Warn("profile cache write failed", map[string]interface{}{
			"userId": userID,
			"error":  err.Error(),
		})
	}
	return &p, nil
}

// GetMany returns the profiles for ids in the order given. Unknown ids are skipped.
func (r *Repository) GetMany(ctx context.Context, ids []string) ([]*models.Profile, error) {
	if len(ids) == 0 {
		return []*models.Profile{}, nil
	}

	found := make(map[string]*models.Profile, len(ids))

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = profileKeyPrefix + id
	}
	vals, err := r.redis.MGet(ctx, keys...).Result()
	if err != nil {
		r.logger.Warn("profile cache batch read failed", map[string]interface{}{
			"count": len(ids),
			"error": err.Error(),
		})
		vals = nil
	}
	for i, v := range vals {
		s, ok := v.(string)
		if !ok {
			continue
		}
		var p models.Profile
		if json.Unmarshal([]byte(s), &p) == nil {
			found[ids[i]] = &p
		}
	}

	var missing []string
	for _, id := range ids {
		if _, ok := found[id]; !ok {
			missing = append(missing, id)
		}
	}
	if len(missing) > 0 {
		loaded, err := r.query(ctx, `SELECT user_id, data FROM profiles WHERE user_id = ANY($1)`, pq.Array(missing))
		if err != nil {
			return nil, err
		}
		r.cacheProfiles(ctx, loaded)
		for _, lp := range loaded {
			found[lp.id] = lp.profile
		}
	}

	out := make([]*models.Profile, 0, len(ids))
	seen := make(map[string]bool, len(ids))
	for _, id := range ids {
		if p, ok := found[id]; ok && !seen[id] {
			seen[id] = true
			out = append(out, p)
		}
	}
	return out, nil
}

// ListOpen returns up to limit profiles open to matching, most recently updated first.
func (r *Repository) ListOpen(ctx context.Context, excludeID string, limit int) ([]*models.Profile, error) {
	loaded, err := r.query(ctx, `
		SELECT user_id, data FROM profiles
		WHERE open_to_matches = TRUE AND user_id <> $1
		ORDER BY updated_at DESC
		LIMIT $2`, excludeID, limit)
	if err != nil {
		return nil, err
	}
	r.cacheProfiles(ctx, loaded)

	out := make([]*models.Profile, len(loaded))
	for i, lp := range loaded {
		out[i] = lp.profile
	}
	return out, nil
}

// Save upserts p unless the stored row carries a newer version, then drops the cached copy.
// It reports whether the row was written.
func (r *Repository) Save(ctx context.Context, p *models.Profile) (bool, error) {
	data, err := json.Marshal(p)
	if err != nil {
		return false, fmt.Errorf("%w: encode profile %s: %v", ErrInsertFailed, p.UserID, err)
	}

	res, err := r.db.ExecContext(ctx, `
		INSERT INTO profiles (user_id, data, open_to_matches, version, updated_at)
		VALUES ($1, $2, $3, $4, NOW())
		ON CONFLICT (user_id) DO UPDATE
		SET data = EXCLUDED.data,
		    open_to_matches = EXCLUDED.open_to_matches,
		    version = EXCLUDED.version,
		    updated_at = NOW()
		WHERE profiles.version <= EXCLUDED.version`,
		p.UserID, data, p.State.OpenToMatching, p.Version)
	if err != nil {
		return false, fmt.Errorf("%w: upsert profile %s: %v", ErrInsertFailed, p.UserID, err)
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		r.logger.Info("stale profile version ignored", map[string]interface{}{
			"userId":  p.UserID,
			"version": p.Version,
		})
		return false, nil
	}

	if err := r.Invalidate(ctx, p.UserID); err != nil {
		r.logger.Warn("profile cache invalidation failed", map[string]interface{}{
			"userId": p.UserID,
			"error":  err.Error(),
		})
	}
	return true, nil
}

// Invalidate drops a cached profile so the next read goes to Postgres.
func (r *Repository) Invalidate(ctx context.Context, userID string) error {
	if err := r.redis.Del(ctx, profileKeyPrefix+userID).Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrCacheFailed, err)
	}
	return nil
}

type loadedProfile struct {
	id      string
	raw     []byte
	profile *models.Profile
}

func (r *Repository) query(ctx context.Context, q string, args ...interface{}) ([]loadedProfile, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: select profiles: %v", ErrQueryFailed, err)
	}
	defer rows.Close()

	var out []loadedProfile
	for rows.Next() {
		var id string
		var data []byte
		if err := rows.Scan(&id, &data); err != nil {
			return nil, fmt.Errorf("%w: scan profile: %v", ErrQueryFailed, err)
		}
		var p models.Profile
		if err := json.Unmarshal(data, &p); err != nil {
			r.logger.Warn("skipping undecodable profile", map[string]interface{}{"userId": id, "error": err.Error()})
			continue
		}
		out = append(out, loadedProfile{id: id, raw: data, profile: &p})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterate profiles: %v", ErrQueryFailed, err)
	}
	return out, nil
}

func (r *Repository) cacheProfiles(ctx context.Context, loaded []loadedProfile) {
	if len(loaded) == 0 {
		return
	}
	pipe := r.redis.Pipeline()
	for _, lp := range loaded {
		pipe.Set(ctx, profileKeyPrefix+lp.id, lp.raw, r.config.ProfileCacheTTL)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		r.logger.Warn("profile cache batch write failed", map[string]interface{}{
			"count": len(loaded),
			"error": err.Error(),
		})
	}
}
