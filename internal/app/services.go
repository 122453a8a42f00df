package app

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/yungbote/studyplan-backend/internal/modules/video"
	"github.com/yungbote/studyplan-backend/internal/platform/logger"
	"github.com/yungbote/studyplan-backend/internal/services"
)

type Services struct {
	Auth     services.AuthService
	Videos   video.Usecases
	Subjects services.SubjectService
	Plans    services.PlanService
	Progress services.ProgressService
}

// wireVideo builds the resolution engine over the catalog client.
func wireVideo(log *logger.Logger, cfg Config, clients *Clients) (video.Usecases, error) {
	rules, err := video.LoadRules(cfg.RankingRulesFile)
	if err != nil {
		return video.Usecases{}, fmt.Errorf("load ranking rules: %w", err)
	}
	search := video.DefaultSearchOptions()
	if cfg.SearchMaxResults > 0 {
		search.MaxResults = cfg.SearchMaxResults
	}
	if cfg.SearchLanguage != "" {
		search.Language = cfg.SearchLanguage
	}
	deps := video.UsecasesDeps{
		Log:             log.With("module", "video"),
		Rules:           rules,
		Search:          search,
		PlanConcurrency: cfg.PlanResolveConcurrency,
	}
	if clients != nil && clients.YouTube != nil {
		deps.Catalog = clients.YouTube
	}
	return video.New(deps), nil
}

func wireServices(db *gorm.DB, log *logger.Logger, cfg Config, r Repos, clients *Clients) (Services, error) {
	log.Info("Wiring services...")

	videos, err := wireVideo(log, cfg, clients)
	if err != nil {
		return Services{}, err
	}

	return Services{
		Auth:     services.NewAuthService(log, cfg.JWTSecret),
		Videos:   videos,
		Subjects: services.NewSubjectService(db, log, r.Subject),
		Plans:    services.NewPlanService(db, log, r.Subject, r.LearningPlan, r.StudyProgress, clients.Planner, videos),
		Progress: services.NewProgressService(db, log, r.Subject, r.LearningPlan, r.StudyProgress),
	}, nil
}
