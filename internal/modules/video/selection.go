package video

import (
	"sort"

	domain "github.com/yungbote/studyplan-backend/internal/domain/video"
)

// Select picks the best candidate. Candidates are ordered by score descending with
// ties kept in catalog order; anything scoring below the selection floor is discarded.
// It returns Found=false when nothing survives, which is a normal outcome.
func Select(scored []domain.ScoredCandidate, rules Rules) (domain.Resolution, bool) {
	ranked := Rank(scored, rules)
	if len(ranked) == 0 {
		return domain.NotFound(), false
	}
	best := ranked[0].Detail
	return domain.Resolution{
		Found:    true,
		VideoID:  best.ExternalID,
		EmbedURL: domain.EmbedURL(best.ExternalID),
		Title:    best.Title,
	}, true
}

// Rank returns the candidates that clear the selection floor in selection order.
// The input slice is not reordered.
func Rank(scored []domain.ScoredCandidate, rules Rules) []domain.ScoredCandidate {
	out := make([]domain.ScoredCandidate, 0, len(scored))
	for _, c := range scored {
		if c.Score >= rules.SelectionFloor {
			out = append(out, c)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Score != out[j].Score {
			return out[i].Score > out[j].Score
		}
		return out[i].Rank < out[j].Rank
	})
	return out
}
