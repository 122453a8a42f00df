package domain

import (
	"github.com/yungbote/studyplan-backend/internal/domain/planning"
	"github.com/yungbote/studyplan-backend/internal/domain/video"
)

type (
	Subject              = planning.Subject
	LearningPlan         = planning.LearningPlan
	StudyProgress        = planning.StudyProgress
	LearningPlanDocument = planning.LearningPlanDocument
	Unit                 = planning.Unit
	Topic                = planning.Topic

	CandidateSummary = video.CandidateSummary
	CandidateDetail  = video.CandidateDetail
	ScoredCandidate  = video.ScoredCandidate
	Resolution       = video.Resolution
)

// Models lists every persisted model in migration order.
func Models() []any {
	return []any{
		&planning.Subject{},
		&planning.LearningPlan{},
		&planning.StudyProgress{},
	}
}
