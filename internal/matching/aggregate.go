// internal/matching/aggregate.go
package matching

import (
	"fmt"
	"math"

	"match-workers/internal/models"
)

// ValidateWeights rejects negative or non-finite weights. Zero disables a component.
func ValidateWeights(w models.Weights) error {
	for _, nv := range w.Named() {
		if nv.Value < 0 || math.IsNaN(nv.Value) || math.IsInf(nv.Value, 0) {
			return fmt.Errorf("%w: %s=%v", ErrNegativeWeight, nv.Name, nv.Value)
		}
	}
	return nil
}

// Aggregate squashes the weighted component sum into an integer score in [0,100].
func Aggregate(c models.ScoreComponents, w models.Weights) int {
	sum := c.WeightedSum(w)
	score := int(math.Round(logistic(4*sum-2) * 100))
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}

func logistic(x float64) float64 {
	return 1 / (1 + math.Exp(-x))
}
