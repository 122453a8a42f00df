package video

import (
	"strings"

	domain "github.com/yungbote/studyplan-backend/internal/domain/video"
)

// Score computes the educational relevance of a candidate. It is a pure function
// of the candidate and the rule table; the result is not clamped.
//
// Keywords count once per field: a keyword repeated in a title still adds the
// title bonus only once.
func Score(d domain.CandidateDetail, rules Rules) int {
	if d.DurationSeconds < rules.MinDurationSeconds {
		return rules.ShortDurationScore
	}

	score := durationBonus(d.DurationSeconds, rules.DurationBands)

	title := strings.ToLower(d.Title)
	description := strings.ToLower(d.Description)
	for _, kw := range rules.EducationalKeywords {
		kw = strings.ToLower(kw)
		if kw == "" {
			continue
		}
		if strings.Contains(title, kw) {
			score += rules.TitleKeywordBonus
		}
		if strings.Contains(description, kw) {
			score += rules.DescriptionKeywordBonus
		}
	}

	channel := strings.ToLower(d.ChannelName)
	for _, src := range rules.TrustedSources {
		src = strings.ToLower(src)
		if src != "" && strings.Contains(channel, src) {
			score += rules.TrustedSourceBonus
			break
		}
	}

	for _, kw := range rules.PenaltyKeywords {
		kw = strings.ToLower(kw)
		if kw != "" && strings.Contains(title, kw) {
			score -= rules.PenaltyKeywordCost
		}
	}

	return score
}

// durationBonus returns the largest bonus among the bands containing seconds.
func durationBonus(seconds int, bands []DurationBand) int {
	best := 0
	for _, b := range bands {
		if b.contains(seconds) && b.Bonus > best {
			best = b.Bonus
		}
	}
	return best
}

// ScoreAll scores candidates and records each one's position in the input as its rank.
func ScoreAll(details []domain.CandidateDetail, rules Rules) []domain.ScoredCandidate {
	out := make([]domain.ScoredCandidate, 0, len(details))
	for i, d := range details {
		out = append(out, domain.ScoredCandidate{
			Detail: d,
			Score:  Score(d, rules),
			Rank:   i,
		})
	}
	return out
}
