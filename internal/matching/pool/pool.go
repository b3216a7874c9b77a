// internal/matching/pool/pool.go
package pool

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// ScoringKind selects the per-pool scoring formula.
type ScoringKind string

const (
	ScoreSector  ScoringKind = "sector"
	ScoreGeo     ScoringKind = "geo"
	ScoreSkills  ScoringKind = "skills"
	ScorePremium ScoringKind = "premium"
)

var ErrInvalidPool = errors.New("INVALID_POOL_DEFINITION")

// Definition is a named set of AND-ed filters plus the formula used to score its members.
type Definition struct {
	Name    string      `json:"name" yaml:"name"`
	Scoring ScoringKind `json:"scoring" yaml:"scoring"`
	Filters []Filter    `json:"filters" yaml:"filters"`
}

// Admits reports whether every filter accepts t.
func (d Definition) Admits(t *Ticket) bool {
	for _, f := range d.Filters {
		if !f.Matches(t) {
			return false
		}
	}
	return true
}

func (d Definition) RosterName() string {
	return d.Name + "_roster"
}

func (d Definition) Validate() error {
	if d.Name == "" {
		return fmt.Errorf("%w: missing name", ErrInvalidPool)
	}
	switch d.Scoring {
	case ScoreSector, ScoreGeo, ScoreSkills, ScorePremium:
	default:
		return fmt.Errorf("%w: pool %s has unknown scoring %q", ErrInvalidPool, d.Name, d.Scoring)
	}
	for _, f := range d.Filters {
		if err := f.Validate(); err != nil {
			return fmt.Errorf("pool %s: %w", d.Name, err)
		}
	}
	return nil
}

// ValidateDefinitions checks every definition and rejects duplicate names.
func ValidateDefinitions(defs []Definition) error {
	if len(defs) == 0 {
		return fmt.Errorf("%w: no pools defined", ErrInvalidPool)
	}
	seen := make(map[string]struct{}, len(defs))
	for _, d := range defs {
		if err := d.Validate(); err != nil {
			return err
		}
		if _, dup := seen[d.Name]; dup {
			return fmt.Errorf("%w: duplicate pool %s", ErrInvalidPool, d.Name)
		}
		seen[d.Name] = struct{}{}
	}
	return nil
}

// DefaultPools returns the built-in sector, geo, skills and premium pools.
func DefaultPools() []Definition {
	return []Definition{
		{
			Name:    "sector_based_pool",
			Scoring: ScoreSector,
			Filters: []Filter{
				{Field: FieldOpenToMatches, Operator: OpEquals, Values: []interface{}{1}},
				{Field: FieldLastActive, Operator: OpLessThan, Values: []interface{}{30}},
			},
		},
		{
			Name:    "geo_proximity_pool",
			Scoring: ScoreGeo,
			Filters: []Filter{
				{Field: FieldRemoteOK, Operator: OpEquals, Values: []interface{}{0}},
				{Field: FieldOpenToMatches, Operator: OpEquals, Values: []interface{}{1}},
			},
		},
		{
			Name:    "skills_complementarity_pool",
			Scoring: ScoreSkills,
			Filters: []Filter{
				{Field: FieldOpenToMatches, Operator: OpEquals, Values: []interface{}{1}},
			},
		},
		{
			Name:    "premium_pool",
			Scoring: ScorePremium,
			Filters: []Filter{
				{Field: FieldSkillLevel, Operator: OpGreaterThan, Values: []interface{}{2}},
				{Field: FieldLastActive, Operator: OpLessThan, Values: []interface{}{7}},
			},
		},
	}
}

type definitionsFile struct {
	Pools []Definition `yaml:"pools"`
}

// LoadDefinitions reads pool definitions from a YAML file. An empty path yields DefaultPools.
func LoadDefinitions(path string) ([]Definition, error) {
	if path == "" {
		return DefaultPools(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read pools file: %w", err)
	}
	return ParseDefinitions(data)
}

func ParseDefinitions(data []byte) ([]Definition, error) {
	var file definitionsFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse pools file: %w", err)
	}
	if err := ValidateDefinitions(file.Pools); err != nil {
		return nil, err
	}
	return file.Pools, nil
}
