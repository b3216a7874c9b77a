// internal/profiles/feedback.go
package profiles

import (
	"context"
	"fmt"
	"time"

	"match-workers/internal/models"

	"github.com/google/uuid"
)

// RecordFeedback persists ev and marks the target as seen for the user. ID and Timestamp
// are filled in when empty.
func (r *Repository) RecordFeedback(ctx context.Context, ev *models.FeedbackEvent) (*models.FeedbackEvent, error) {
	out := *ev
	if out.ID == "" {
		out.ID = uuid.NewString()
	}
	if out.Timestamp.IsZero() {
		out.Timestamp = time.Now().UTC()
	}

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO match_feedback (id, user_id, target_id, event, created_at)
		VALUES ($1, $2, $3, $4, $5)`,
		out.ID, out.UserID, out.TargetID, string(out.Event), out.Timestamp)
	if err != nil {
		return nil, fmt.Errorf("%w: insert feedback: %v", ErrInsertFailed, err)
	}

	key := seenKeyPrefix + out.UserID
	pipe := r.redis.TxPipeline()
	pipe.SAdd(ctx, key, out.TargetID)
	pipe.Expire(ctx, key, r.config.SeenTTL)
	if _, err := pipe.Exec(ctx); err != nil {
		// Postgres holds the record; SeenIDs falls back to it.
		r.logger.Warn("seen set update failed", map[string]interface{}{
			"userId": out.UserID,
			"error":  err.Error(),
		})
	}

	r.logger.Info("feedback recorded", map[string]interface{}{
		"userId":   out.UserID,
		"targetId": out.TargetID,
		"event":    string(out.Event),
	})
	return &out, nil
}

// SeenIDs returns every user the given user has recorded feedback about.
func (r *Repository) SeenIDs(ctx context.Context, userID string) ([]string, error) {
	key := seenKeyPrefix + userID
	ids, err := r.redis.SMembers(ctx, key).Result()
	if err == nil && len(ids) > 0 {
		return ids, nil
	}
	if err != nil {
		r.logger.Warn("seen set read failed", map[string]interface{}{
			"userId": userID,
			"error":  err.Error(),
		})
	}

	rows, err := r.db.QueryContext(ctx,
		`SELECT DISTINCT target_id FROM match_feedback WHERE user_id = $1`, userID)
	if err != nil {
		return nil, fmt.Errorf("%w: select seen ids: %v", ErrQueryFailed, err)
	}
	defer rows.Close()

	ids = []string{}
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("%w: scan seen id: %v", ErrQueryFailed, err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterate seen ids: %v", ErrQueryFailed, err)
	}

	if len(ids) > 0 {
		members := make([]interface{}, len(ids))
		for i, id := range ids {
			members[i] = id
		}
		pipe := r.redis.TxPipeline()
		pipe.SAdd(ctx, key, members...)
		pipe.Expire(ctx, key, r.config.SeenTTL)
		_, _ = pipe.Exec(ctx)
	}
	return ids, nil
}
