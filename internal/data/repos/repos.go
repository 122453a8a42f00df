package repos

import (
	"gorm.io/gorm"

	"github.com/yungbote/studyplan-backend/internal/data/repos/study"
	"github.com/yungbote/studyplan-backend/internal/platform/logger"
)

type SubjectRepo = study.SubjectRepo
type LearningPlanRepo = study.LearningPlanRepo
type StudyProgressRepo = study.StudyProgressRepo

func NewSubjectRepo(db *gorm.DB, log *logger.Logger) SubjectRepo {
	return study.NewSubjectRepo(db, log)
}

func NewLearningPlanRepo(db *gorm.DB, log *logger.Logger) LearningPlanRepo {
	return study.NewLearningPlanRepo(db, log)
}

func NewStudyProgressRepo(db *gorm.DB, log *logger.Logger) StudyProgressRepo {
	return study.NewStudyProgressRepo(db, log)
}
