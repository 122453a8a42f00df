package video

import domain "github.com/yungbote/studyplan-backend/internal/domain/video"

// Rule names reported by Ineligibility.
const (
	ReasonNotEmbeddable = "not_embeddable"
	ReasonNotPublic     = "not_public"
	ReasonNotProcessed  = "not_processed"
	ReasonRegionBlocked = "region_blocked"
	ReasonTooShort      = "too_short"
)

// Ineligibility returns the first hard rule the candidate fails, or "" when it is eligible.
// Rules are checked in a fixed order: embeddable, public, processed, region, duration.
func Ineligibility(d domain.CandidateDetail, rules Rules) string {
	switch {
	case !d.Embeddable:
		return ReasonNotEmbeddable
	case d.Visibility != domain.VisibilityPublic:
		return ReasonNotPublic
	case d.ProcessingState != domain.ProcessingProcessed:
		return ReasonNotProcessed
	case regionBlocked(d.RegionRestriction, rules):
		return ReasonRegionBlocked
	case d.DurationSeconds < rules.MinDurationSeconds:
		return ReasonTooShort
	}
	return ""
}

// Eligible reports whether the candidate passes every hard rule.
func Eligible(d domain.CandidateDetail, rules Rules) bool {
	return Ineligibility(d, rules) == ""
}

// FilterEligible keeps eligible candidates in their original relative order.
// The input slice is not modified.
func FilterEligible(details []domain.CandidateDetail, rules Rules) []domain.CandidateDetail {
	out := make([]domain.CandidateDetail, 0, len(details))
	for _, d := range details {
		if Eligible(d, rules) {
			out = append(out, d)
		}
	}
	return out
}

// regionBlocked treats a very long block list, or a very short allow list, as
// de-facto regional unavailability.
func regionBlocked(rr domain.RegionRestriction, rules Rules) bool {
	if len(rr.Blocked) > rules.MaxBlockedCountries {
		return true
	}
	if rr.Allowed != nil && len(rr.Allowed) < rules.MinAllowedCountries {
		return true
	}
	return false
}
