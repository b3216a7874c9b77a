// internal/matching/explore.go
package matching

import (
	"math"
	"math/rand/v2"

	"match-workers/internal/models"
)

const DefaultEpsilon = 0.2

// Explorer shuffles the epsilon tail of a ranked list. It is the only non-deterministic stage.
type Explorer struct {
	epsilon float64
	rng     *rand.Rand
}

// NewExplorer uses src for shuffling; a nil src draws from a randomly seeded PCG.
func NewExplorer(epsilon float64, src rand.Source) *Explorer {
	if src == nil {
		src = rand.NewPCG(rand.Uint64(), rand.Uint64())
	}
	return &Explorer{epsilon: epsilon, rng: rand.New(src)}
}

// Explore keeps the first (1-epsilon) share in rank order and Fisher-Yates shuffles the rest in place.
func (e *Explorer) Explore(items []models.MatchSuggestion) []models.MatchSuggestion {
	tail := int(math.Floor(float64(len(items)) * e.epsilon))
	if tail < 2 {
		return items
	}
	t := items[len(items)-tail:]
	for i := len(t) - 1; i > 0; i-- {
		j := e.rng.IntN(i + 1)
		t[i], t[j] = t[j], t[i]
	}
	return items
}
