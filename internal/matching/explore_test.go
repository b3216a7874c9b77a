// internal/matching/explore_test.go
package matching

import (
	"fmt"
	"math/rand/v2"
	"testing"

	"match-workers/internal/models"

	"github.com/stretchr/testify/assert"
)

func rankedList(n int) []models.MatchSuggestion {
	out := make([]models.MatchSuggestion, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, suggestion(fmt.Sprintf("c%02d", i), 100-i))
	}
	return out
}

func TestExplorer_HeadUntouchedAndSetPreserved(t *testing.T) {
	items := rankedList(12)
	before := ids(items)

	out := NewExplorer(0.2, rand.NewPCG(1, 2)).Explore(items)
	after := ids(out)

	// floor(12*0.2) = 2 tail items, 10 head items
	assert.Equal(t, before[:10], after[:10])
	assert.ElementsMatch(t, before, after)
}

func TestExplorer_Deterministic(t *testing.T) {
	a := NewExplorer(0.5, rand.NewPCG(7, 7)).Explore(rankedList(10))
	b := NewExplorer(0.5, rand.NewPCG(7, 7)).Explore(rankedList(10))
	assert.Equal(t, ids(a), ids(b))
}

func TestExplorer_SmallOrZeroEpsilon(t *testing.T) {
	items := rankedList(4)
	before := ids(items)
	assert.Equal(t, before, ids(NewExplorer(0.2, nil).Explore(items)))
	assert.Equal(t, before, ids(NewExplorer(0, nil).Explore(items)))
	assert.Empty(t, NewExplorer(0.2, nil).Explore(nil))
}

func TestExplorer_FullEpsilonKeepsSet(t *testing.T) {
	items := rankedList(9)
	before := ids(items)
	out := NewExplorer(1, rand.NewPCG(3, 4)).Explore(items)
	assert.ElementsMatch(t, before, ids(out))
}
