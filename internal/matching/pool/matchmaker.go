// internal/matching/pool/matchmaker.go
package pool

import (
	"context"
	"fmt"
	"math"
	"sort"
	"time"

	"match-workers/internal/common/logger"
	"match-workers/internal/common/metrics"
	"match-workers/internal/matching"
	"match-workers/internal/models"

	"golang.org/x/sync/errgroup"
)

const (
	DefaultThreshold = 0.3
	DefaultCap       = 20
	DefaultTTL       = 24 * time.Hour
)

type Config struct {
	Threshold float64
	Cap       int
	TTL       time.Duration
	Now       func() time.Time
}

func DefaultConfig() Config {
	return Config{
		Threshold: DefaultThreshold,
		Cap:       DefaultCap,
		TTL:       DefaultTTL,
		Now:       time.Now,
	}
}

type Roster struct {
	Name      string   `json:"name"`
	TicketIDs []string `json:"ticketIds"`
}

// MatchResult groups a target ticket with the tickets one pool admitted for it.
type MatchResult struct {
	Target       *Ticket   `json:"target"`
	Tickets      []*Ticket `json:"tickets"`
	Scores       []float64 `json:"scores"`
	Roster       Roster    `json:"roster"`
	PoolName     string    `json:"poolName"`
	AverageScore float64   `json:"averageScore"`
	Timestamp    time.Time `json:"timestamp"`
}

type scoredTicket struct {
	ticket *Ticket
	score  float64
}

// before orders by score descending, then user and ticket id, so admission at the cap does not
// depend on store iteration order.
func (s scoredTicket) before(o scoredTicket) bool {
	if s.score != o.score {
		return s.score > o.score
	}
	if s.ticket.UserID != o.ticket.UserID {
		return s.ticket.UserID < o.ticket.UserID
	}
	return s.ticket.ID < o.ticket.ID
}

// uniqueUsers keeps the first ticket per user from a sorted slice.
func uniqueUsers(scored []scoredTicket) []scoredTicket {
	seen := make(map[string]struct{}, len(scored))
	out := scored[:0]
	for _, st := range scored {
		if _, dup := seen[st.ticket.UserID]; dup {
			continue
		}
		seen[st.ticket.UserID] = struct{}{}
		out = append(out, st)
	}
	return out
}

// Matchmaker scores tickets independently within each pool.
type Matchmaker struct {
	config Config
	pools  []Definition
	store  Store
	logger logger.Logger
}

func NewMatchmaker(cfg Config, pools []Definition, store Store, log logger.Logger) (*Matchmaker, error) {
	def := DefaultConfig()
	if cfg.Cap <= 0 {
		cfg.Cap = def.Cap
	}
	if cfg.TTL <= 0 {
		cfg.TTL = def.TTL
	}
	if cfg.Now == nil {
		cfg.Now = def.Now
	}
	if cfg.Threshold < 0 || cfg.Threshold > 1 {
		return nil, fmt.Errorf("%w: threshold must be within [0,1], got %v", matching.ErrInvalidParameter, cfg.Threshold)
	}
	if err := ValidateDefinitions(pools); err != nil {
		return nil, err
	}
	return &Matchmaker{
		config: cfg,
		pools:  pools,
		store:  store,
		logger: log.WithFields(map[string]interface{}{"component": "pool-matchmaker"}),
	}, nil
}

func (m *Matchmaker) Pools() []Definition {
	return m.pools
}

// Register creates or replaces the ticket for profile.
func (m *Matchmaker) Register(ctx context.Context, p *models.Profile) (*Ticket, error) {
	t := NewTicket(p, m.config.Now())
	if err := m.store.Upsert(ctx, t); err != nil {
		return nil, err
	}
	return t, nil
}

// EnsureTickets registers a fresh ticket for every profile.
func (m *Matchmaker) EnsureTickets(ctx context.Context, profiles []*models.Profile) (map[string]*Ticket, error) {
	out := make(map[string]*Ticket, len(profiles))
	for _, p := range profiles {
		t, err := m.Register(ctx, p)
		if err != nil {
			return nil, err
		}
		out[p.UserID] = t
	}
	if n, err := m.store.Len(ctx); err == nil {
		metrics.TicketsActive.Set(float64(n))
	}
	return out, nil
}

// Purge removes expired tickets from the store.
func (m *Matchmaker) Purge(ctx context.Context) (int, error) {
	n, err := m.store.Purge(ctx, m.config.Now())
	if err != nil {
		return n, err
	}
	metrics.TicketsPurged.Add(float64(n))
	if active, err := m.store.Len(ctx); err == nil {
		metrics.TicketsActive.Set(float64(active))
	}
	if n > 0 {
		m.logger.Info("expired tickets purged", map[string]interface{}{"count": n})
	}
	return n, nil
}

// Match purges expired tickets, then matches target against the stored tickets. A non-nil
// allowedUserIDs restricts candidates to those users.
func (m *Matchmaker) Match(ctx context.Context, target *Ticket, allowedUserIDs map[string]struct{}) ([]MatchResult, error) {
	if _, err := m.Purge(ctx); err != nil {
		return nil, err
	}
	tickets, err := m.store.List(ctx)
	if err != nil {
		return nil, err
	}
	if allowedUserIDs != nil {
		filtered := tickets[:0]
		for _, t := range tickets {
			if _, ok := allowedUserIDs[t.UserID]; ok {
				filtered = append(filtered, t)
			}
		}
		tickets = filtered
	}
	return m.GenerateMatches(ctx, target, tickets)
}

// GenerateMatches evaluates every pool concurrently and joins the results in pool order.
// Pools that admit nobody are omitted.
func (m *Matchmaker) GenerateMatches(ctx context.Context, target *Ticket, tickets []*Ticket) ([]MatchResult, error) {
	candidates := make([]*Ticket, 0, len(tickets))
	for _, t := range tickets {
		if t.UserID != target.UserID {
			candidates = append(candidates, t)
		}
	}

	results := make([]*MatchResult, len(m.pools))
	g, ctx := errgroup.WithContext(ctx)
	for i, def := range m.pools {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			results[i] = m.matchPool(def, target, candidates)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	out := make([]MatchResult, 0, len(results))
	for _, r := range results {
		if r != nil {
			out = append(out, *r)
		}
	}
	return out, nil
}

func (m *Matchmaker) matchPool(def Definition, target *Ticket, candidates []*Ticket) *MatchResult {
	var scored []scoredTicket
	for _, t := range candidates {
		if !def.Admits(t) {
			continue
		}
		s := Score(def.Scoring, target, t)
		if s > m.config.Threshold {
			scored = append(scored, scoredTicket{ticket: t, score: s})
		}
	}
	if len(scored) == 0 {
		return nil
	}

	sort.Slice(scored, func(i, j int) bool { return scored[i].before(scored[j]) })
	scored = uniqueUsers(scored)
	if len(scored) > m.config.Cap {
		scored = scored[:m.config.Cap]
	}

	res := &MatchResult{
		Target:    target,
		PoolName:  def.Name,
		Roster:    Roster{Name: def.RosterName()},
		Timestamp: m.config.Now(),
	}
	var sum float64
	for _, st := range scored {
		res.Tickets = append(res.Tickets, st.ticket)
		res.Scores = append(res.Scores, st.score)
		res.Roster.TicketIDs = append(res.Roster.TicketIDs, st.ticket.ID)
		sum += st.score
	}
	res.AverageScore = sum / float64(len(scored))
	metrics.PoolAdmissions.WithLabelValues(def.Name).Add(float64(len(scored)))
	return res
}

// ResultSuggestions converts pool results into suggestions scored by the pool average. A user admitted
// to several pools keeps the entry from the first pool. Users missing from profiles are skipped.
func ResultSuggestions(results []MatchResult, profiles map[string]*models.Profile) []models.MatchSuggestion {
	seen := make(map[string]struct{})
	var out []models.MatchSuggestion
	for _, r := range results {
		score := r.AverageScore * 100
		for _, t := range r.Tickets {
			if _, dup := seen[t.UserID]; dup {
				continue
			}
			p, ok := profiles[t.UserID]
			if !ok {
				continue
			}
			seen[t.UserID] = struct{}{}
			out = append(out, models.MatchSuggestion{
				CandidateID: t.UserID,
				Score:       int(math.Round(score)),
				Reasons: []string{
					"Pool: " + r.PoolName,
					fmt.Sprintf("Pool score: %d/100", int(math.Round(score))),
				},
				Overlaps: models.Overlaps{
					SharedValues: []models.Value{},
					Supply:       []string{},
					Demand:       []string{},
				},
				NextBestAction: matching.PoolAction(score),
				Preview:        models.NewPreview(p),
			})
		}
	}
	matching.SortByScore(out)
	return out
}

// Suggest registers tickets for requester and candidates, matches within the candidate set and
// returns pool-derived suggestions.
func (m *Matchmaker) Suggest(ctx context.Context, requester *models.Profile, candidates []*models.Profile) ([]models.MatchSuggestion, error) {
	all := make([]*models.Profile, 0, len(candidates)+1)
	all = append(all, requester)
	all = append(all, candidates...)

	tickets, err := m.EnsureTickets(ctx, all)
	if err != nil {
		return nil, err
	}

	allowed := make(map[string]struct{}, len(candidates))
	byUser := make(map[string]*models.Profile, len(candidates))
	for _, c := range candidates {
		allowed[c.UserID] = struct{}{}
		byUser[c.UserID] = c
	}

	results, err := m.Match(ctx, tickets[requester.UserID], allowed)
	if err != nil {
		return nil, err
	}

	m.logger.Debug("pool matching completed", map[string]interface{}{
		"userId": requester.UserID,
		"pools":  len(results),
	})
	return ResultSuggestions(results, byUser), nil
}

var _ matching.PoolMatcher = (*Matchmaker)(nil)
