package app

import (
	"gorm.io/gorm"

	httpH "github.com/yungbote/studyplan-backend/internal/http/handlers"
	httpMW "github.com/yungbote/studyplan-backend/internal/http/middleware"
	"github.com/yungbote/studyplan-backend/internal/platform/logger"
)

type Middleware struct {
	Auth *httpMW.AuthMiddleware
}

type Handlers struct {
	Health   *httpH.HealthHandler
	Video    *httpH.VideoHandler
	Subject  *httpH.SubjectHandler
	Plan     *httpH.PlanHandler
	Progress *httpH.ProgressHandler
}

func wireHandlers(db *gorm.DB, log *logger.Logger, services Services) Handlers {
	log.Info("Wiring handlers...")
	var pinger httpH.Pinger
	if sqlDB, err := db.DB(); err == nil {
		pinger = sqlDB
	}
	return Handlers{
		Health:   httpH.NewHealthHandler(pinger),
		Video:    httpH.NewVideoHandler(log, services.Videos),
		Subject:  httpH.NewSubjectHandler(log, services.Subjects),
		Plan:     httpH.NewPlanHandler(log, services.Plans),
		Progress: httpH.NewProgressHandler(log, services.Progress),
	}
}

func wireMiddleware(log *logger.Logger, services Services) Middleware {
	log.Info("Wiring middleware...")
	return Middleware{
		Auth: httpMW.NewAuthMiddleware(log, services.Auth),
	}
}
