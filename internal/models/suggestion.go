// internal/models/suggestion.go
package models

import "time"

// MatchSuggestion is one ranked candidate returned to the caller. It is never persisted by the core.
type MatchSuggestion struct {
	CandidateID    string           `json:"id"`
	Score          int              `json:"compatibilityScore"`
	Reasons        []string         `json:"reasons"`
	Overlaps       Overlaps         `json:"overlaps"`
	NextBestAction string           `json:"nextBestAction"`
	Preview        ProfilePreview   `json:"profilePreview"`
	Components     *ScoreComponents `json:"components,omitempty"`
}

// Overlaps summarizes what the pair shares. Supply is what the requester offers and the
// candidate seeks; Demand is the reverse.
type Overlaps struct {
	SharedValues []Value  `json:"sharedValues"`
	Supply       []string `json:"supply"`
	Demand       []string `json:"demand"`
}

type ProfilePreview struct {
	Identity Identity      `json:"identity"`
	Sectors  []Sector      `json:"sectors"`
	Badges   PreviewBadges `json:"badges"`
}

type PreviewBadges struct {
	Community []string `json:"community"`
	Sector    []string `json:"sector"`
}

// NewPreview copies the public part of a profile so later edits to the source cannot leak into results.
func NewPreview(p *Profile) ProfilePreview {
	id := p.Identity
	id.Languages = append([]string(nil), p.Identity.Languages...)
	return ProfilePreview{
		Identity: id,
		Sectors:  append([]Sector(nil), p.Sectors...),
		Badges: PreviewBadges{
			Community: append([]string(nil), p.Badges.Community...),
			Sector:    append([]string(nil), p.Badges.Sector...),
		},
	}
}

// Clone returns a deep copy of the suggestion.
func (s MatchSuggestion) Clone() MatchSuggestion {
	out := s
	out.Reasons = append([]string(nil), s.Reasons...)
	out.Overlaps = Overlaps{
		SharedValues: append([]Value(nil), s.Overlaps.SharedValues...),
		Supply:       append([]string(nil), s.Overlaps.Supply...),
		Demand:       append([]string(nil), s.Overlaps.Demand...),
	}
	out.Preview.Identity.Languages = append([]string(nil), s.Preview.Identity.Languages...)
	out.Preview.Sectors = append([]Sector(nil), s.Preview.Sectors...)
	out.Preview.Badges = PreviewBadges{
		Community: append([]string(nil), s.Preview.Badges.Community...),
		Sector:    append([]string(nil), s.Preview.Badges.Sector...),
	}
	if s.Components != nil {
		c := *s.Components
		out.Components = &c
	}
	return out
}

type DiversityStats struct {
	UniqueSectors int `json:"uniqueSectors"`
	NewProfiles   int `json:"newProfiles"`
}

type MatchingResponse struct {
	UserID         string            `json:"userId"`
	Suggestions    []MatchSuggestion `json:"suggestions"`
	DiversityStats DiversityStats    `json:"diversityStats"`
	GeneratedAt    time.Time         `json:"generatedAt"`
}
