// internal/matching/pool/store.go
package pool

import (
	"context"
	"errors"
	"sync"
	"time"
)

var (
	ErrTicketNotFound = errors.New("TICKET_NOT_FOUND")
	ErrTicketStore    = errors.New("TICKET_STORE_FAILED")
)

// Store holds at most one live ticket per user. Implementations must be safe for concurrent use.
type Store interface {
	Upsert(ctx context.Context, t *Ticket) error
	Get(ctx context.Context, id string) (*Ticket, error)
	ByUser(ctx context.Context, userID string) (*Ticket, error)
	List(ctx context.Context) ([]*Ticket, error)
	Purge(ctx context.Context, now time.Time) (int, error)
	Len(ctx context.Context) (int, error)
}

// MemoryStore is a read-mostly map guarded by an RWMutex.
type MemoryStore struct {
	mu      sync.RWMutex
	tickets map[string]*Ticket
	byUser  map[string]string
	ttl     time.Duration
}

func NewMemoryStore(ttl time.Duration) *MemoryStore {
	return &MemoryStore{
		tickets: make(map[string]*Ticket),
		byUser:  make(map[string]string),
		ttl:     ttl,
	}
}

func (s *MemoryStore) Upsert(_ context.Context, t *Ticket) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if old, ok := s.byUser[t.UserID]; ok && old != t.ID {
		delete(s.tickets, old)
	}
	s.tickets[t.ID] = t
	s.byUser[t.UserID] = t.ID
	return nil
}

func (s *MemoryStore) Get(_ context.Context, id string) (*Ticket, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	t, ok := s.tickets[id]
	if !ok {
		return nil, ErrTicketNotFound
	}
	return t, nil
}

func (s *MemoryStore) ByUser(_ context.Context, userID string) (*Ticket, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, ok := s.byUser[userID]
	if !ok {
		return nil, ErrTicketNotFound
	}
	return s.tickets[id], nil
}

func (s *MemoryStore) List(_ context.Context) ([]*Ticket, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*Ticket, 0, len(s.tickets))
	for _, t := range s.tickets {
		out = append(out, t)
	}
	return out, nil
}

// Purge finds expired tickets under the read lock, then removes each under a brief write lock.
func (s *MemoryStore) Purge(_ context.Context, now time.Time) (int, error) {
	s.mu.RLock()
	var expired []string
	for id, t := range s.tickets {
		if t.Expired(now, s.ttl) {
			expired = append(expired, id)
		}
	}
	s.mu.RUnlock()

	removed := 0
	for _, id := range expired {
		s.mu.Lock()
		if t, ok := s.tickets[id]; ok && t.Expired(now, s.ttl) {
			delete(s.tickets, id)
			if s.byUser[t.UserID] == id {
				delete(s.byUser, t.UserID)
			}
			removed++
		}
		s.mu.Unlock()
	}
	return removed, nil
}

func (s *MemoryStore) Len(_ context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.tickets), nil
}
