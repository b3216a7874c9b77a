// internal/matching/filter.go
package matching

import "match-workers/internal/models"

// Eligible applies the hard eligibility rules for showing candidate to requester.
func Eligible(requester, candidate *models.Profile) bool {
	if candidate == nil || requester == nil {
		return false
	}
	if candidate.UserID == requester.UserID {
		return false
	}
	if !candidate.State.OpenToMatching {
		return false
	}
	if candidate.Blocks(requester.UserID) || requester.Blocks(candidate.UserID) {
		return false
	}
	if !Overlaps(requester.Identity.Languages, candidate.Identity.Languages) {
		return false
	}
	if !anyRemote(requester, candidate) && Distance(requester, candidate) > maxRadius(requester, candidate) {
		return false
	}
	return Overlaps(requester.Availability.Formats, candidate.Availability.Formats) ||
		Overlaps(requester.Availability.TimeSlots, candidate.Availability.TimeSlots)
}

// FilterCandidates returns the candidates eligible for requester, preserving input order.
func FilterCandidates(requester *models.Profile, candidates []*models.Profile) []*models.Profile {
	out := make([]*models.Profile, 0, len(candidates))
	for _, c := range candidates {
		if Eligible(requester, c) {
			out = append(out, c)
		}
	}
	return out
}
