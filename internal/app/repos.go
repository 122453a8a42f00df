package app

import (
	"gorm.io/gorm"

	"github.com/yungbote/studyplan-backend/internal/data/repos"
	"github.com/yungbote/studyplan-backend/internal/platform/logger"
)

type Repos struct {
	Subject       repos.SubjectRepo
	LearningPlan  repos.LearningPlanRepo
	StudyProgress repos.StudyProgressRepo
}

func wireRepos(db *gorm.DB, log *logger.Logger) Repos {
	log.Info("Wiring repos...")
	return Repos{
		Subject:       repos.NewSubjectRepo(db, log),
		LearningPlan:  repos.NewLearningPlanRepo(db, log),
		StudyProgress: repos.NewStudyProgressRepo(db, log),
	}
}
