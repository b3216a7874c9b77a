// internal/matching/pool/redis_store.go
package pool

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	ticketKeyPrefix = "match:ticket:"
	userKeyPrefix   = "match:ticket:user:"
	indexKey        = "match:tickets"

	maxUpsertRetries = 100
)

// RedisStore keeps each ticket under its own key with a native TTL and tracks ids in an index set.
// Purge drops index entries whose key already expired. Upsert swaps a user's ticket under WATCH
// on the user key, so concurrent upserts for one user leave a single live ticket.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisStore(client *redis.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{client: client, ttl: ttl}
}

func (s *RedisStore) Upsert(ctx context.Context, t *Ticket) error {
	data, err := json.Marshal(t)
	if err != nil {
		return fmt.Errorf("%w: encode ticket: %v", ErrTicketStore, err)
	}

	userKey := userKeyPrefix + t.UserID
	swap := func(tx *redis.Tx) error {
		old, err := tx.Get(ctx, userKey).Result()
		if err != nil && !errors.Is(err, redis.Nil) {
			return err
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			if old != "" && old != t.ID {
				pipe.Del(ctx, ticketKeyPrefix+old)
				pipe.SRem(ctx, indexKey, old)
			}
			pipe.Set(ctx, ticketKeyPrefix+t.ID, data, s.ttl)
			pipe.Set(ctx, userKey, t.ID, s.ttl)
			pipe.SAdd(ctx, indexKey, t.ID)
			return nil
		})
		return err
	}

	// A failed EXEC means another writer swapped this user's ticket first; read again and retry.
	for i := 0; i < maxUpsertRetries; i++ {
		err = s.client.Watch(ctx, swap, userKey)
		if !errors.Is(err, redis.TxFailedErr) {
			break
		}
	}
	if err != nil {
		return fmt.Errorf("%w: upsert ticket for %s: %v", ErrTicketStore, t.UserID, err)
	}
	return nil
}

func (s *RedisStore) Get(ctx context.Context, id string) (*Ticket, error) {
	val, err := s.client.Get(ctx, ticketKeyPrefix+id).Result()
	if errors.Is(err, redis.Nil) {
		return nil, ErrTicketNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTicketStore, err)
	}
	var t Ticket
	if err := json.Unmarshal([]byte(val), &t); err != nil {
		return nil, fmt.Errorf("%w: decode ticket %s: %v", ErrTicketStore, id, err)
	}
	return &t, nil
}

func (s *RedisStore) ByUser(ctx context.Context, userID string) (*Ticket, error) {
	id, err := s.client.Get(ctx, userKeyPrefix+userID).Result()
	if errors.Is(err, redis.Nil) {
		return nil, ErrTicketNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTicketStore, err)
	}
	return s.Get(ctx, id)
}

func (s *RedisStore) List(ctx context.Context) ([]*Ticket, error) {
	ids, err := s.client.SMembers(ctx, indexKey).Result()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTicketStore, err)
	}
	if len(ids) == 0 {
		return []*Ticket{}, nil
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = ticketKeyPrefix + id
	}
	vals, err := s.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTicketStore, err)
	}

	out := make([]*Ticket, 0, len(vals))
	for _, v := range vals {
		str, ok := v.(string)
		if !ok {
			continue
		}
		var t Ticket
		if err := json.Unmarshal([]byte(str), &t); err != nil {
			continue
		}
		out = append(out, &t)
	}
	return out, nil
}

func (s *RedisStore) Purge(ctx context.Context, now time.Time) (int, error) {
	ids, err := s.client.SMembers(ctx, indexKey).Result()
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrTicketStore, err)
	}

	removed := 0
	for _, id := range ids {
		t, err := s.Get(ctx, id)
		switch {
		case errors.Is(err, ErrTicketNotFound):
		case err != nil:
			return removed, err
		case t.Expired(now, s.ttl):
			if err := s.client.Del(ctx, ticketKeyPrefix+id).Err(); err != nil {
				return removed, fmt.Errorf("%w: %v", ErrTicketStore, err)
			}
		default:
			continue
		}
		if err := s.client.SRem(ctx, indexKey, id).Err(); err != nil {
			return removed, fmt.Errorf("%w: %v", ErrTicketStore, err)
		}
		removed++
	}
	return removed, nil
}

func (s *RedisStore) Len(ctx context.Context) (int, error) {
	n, err := s.client.SCard(ctx, indexKey).Result()
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrTicketStore, err)
	}
	return int(n), nil
}
