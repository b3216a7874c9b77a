// internal/matching/aggregate_test.go
package matching

import (
	"errors"
	"math"
	"testing"

	"match-workers/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func allComponents(v float64) models.ScoreComponents {
	return models.ScoreComponents{
		Personality: v, Values: v, Sector: v, Competence: v,
		Location: v, Availability: v, Behavior: v, Freshness: v,
	}
}

func TestAggregate_KnownPoints(t *testing.T) {
	w := models.DefaultWeights()
	assert.Equal(t, 12, Aggregate(allComponents(0), w))
	assert.Equal(t, 50, Aggregate(allComponents(0.5), w))
	assert.Equal(t, 88, Aggregate(allComponents(1), w))
}

func TestAggregate_Bounded(t *testing.T) {
	weightSets := []models.Weights{
		{},
		models.DefaultWeights(),
		{Personality: 1000, Values: 1000, Sector: 1000, Competence: 1000, Location: 1000, Availability: 1000, Behavior: 1000, Freshness: 1000},
		{Values: 0.001},
	}
	for _, w := range weightSets {
		for _, v := range []float64{0, 0.3, 1} {
			score := Aggregate(allComponents(v), w)
			assert.GreaterOrEqual(t, score, 0)
			assert.LessOrEqual(t, score, 100)
		}
	}
	assert.Equal(t, 100, Aggregate(allComponents(1), weightSets[2]))
}

func TestValidateWeights(t *testing.T) {
	require.NoError(t, ValidateWeights(models.DefaultWeights()))
	require.NoError(t, ValidateWeights(models.Weights{}))

	err := ValidateWeights(models.Weights{Sector: -0.1})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNegativeWeight))
	assert.Contains(t, err.Error(), "sector")

	assert.Error(t, ValidateWeights(models.Weights{Location: math.NaN()}))
}
