// internal/models/scoring.go
package models

// Weights scales each score component. Weights need not sum to 1.
type Weights struct {
	Personality  float64 `json:"personality" mapstructure:"personality" yaml:"personality"`
	Values       float64 `json:"values" mapstructure:"values" yaml:"values"`
	Sector       float64 `json:"sector" mapstructure:"sector" yaml:"sector"`
	Competence   float64 `json:"competence" mapstructure:"competence" yaml:"competence"`
	Location     float64 `json:"location" mapstructure:"location" yaml:"location"`
	Availability float64 `json:"availability" mapstructure:"availability" yaml:"availability"`
	Behavior     float64 `json:"behavior" mapstructure:"behavior" yaml:"behavior"`
	Freshness    float64 `json:"freshness" mapstructure:"freshness" yaml:"freshness"`
}

func DefaultWeights() Weights {
	return Weights{
		Personality:  0.20,
		Values:       0.20,
		Sector:       0.15,
		Competence:   0.20,
		Location:     0.10,
		Availability: 0.05,
		Behavior:     0.05,
		Freshness:    0.05,
	}
}

// Named returns the weights keyed by component name, in component order.
func (w Weights) Named() []NamedValue {
	return []NamedValue{
		{"personality", w.Personality},
		{"values", w.Values},
		{"sector", w.Sector},
		{"competence", w.Competence},
		{"location", w.Location},
		{"availability", w.Availability},
		{"behavior", w.Behavior},
		{"freshness", w.Freshness},
	}
}

type NamedValue struct {
	Name  string
	Value float64
}

// ScoreComponents are the eight per-pair component values, each in [0,1].
type ScoreComponents struct {
	Personality  float64 `json:"personality"`
	Values       float64 `json:"values"`
	Sector       float64 `json:"sector"`
	Competence   float64 `json:"competence"`
	Location     float64 `json:"location"`
	Availability float64 `json:"availability"`
	Behavior     float64 `json:"behavior"`
	Freshness    float64 `json:"freshness"`
}

// WeightedSum is the dot product of components and weights.
func (c ScoreComponents) WeightedSum(w Weights) float64 {
	return c.Personality*w.Personality +
		c.Values*w.Values +
		c.Sector*w.Sector +
		c.Competence*w.Competence +
		c.Location*w.Location +
		c.Availability*w.Availability +
		c.Behavior*w.Behavior +
		c.Freshness*w.Freshness
}
