package http

import (
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	httpH "github.com/yungbote/studyplan-backend/internal/http/handlers"
	httpMW "github.com/yungbote/studyplan-backend/internal/http/middleware"
	"github.com/yungbote/studyplan-backend/internal/observability"
	"github.com/yungbote/studyplan-backend/internal/platform/logger"
)

type RouterConfig struct {
	Log         *logger.Logger
	ServiceName string
	CORSOrigins []string
	Metrics     *observability.Metrics

	AuthMiddleware *httpMW.AuthMiddleware

	HealthHandler   *httpH.HealthHandler
	VideoHandler    *httpH.VideoHandler
	SubjectHandler  *httpH.SubjectHandler
	PlanHandler     *httpH.PlanHandler
	ProgressHandler *httpH.ProgressHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	if cfg.ServiceName != "" {
		r.Use(otelgin.Middleware(cfg.ServiceName))
	}
	r.Use(httpMW.AttachTraceContext())
	if cfg.Log != nil {
		r.Use(httpMW.RequestLogger(cfg.Log))
	}
	r.Use(httpMW.Metrics(cfg.Metrics))
	r.Use(httpMW.CORS(cfg.CORSOrigins))

	// Health
	if cfg.HealthHandler != nil {
		r.GET("/healthcheck", cfg.HealthHandler.HealthCheck)
		r.GET("/readyz", cfg.HealthHandler.Ready)
	}
	if cfg.Metrics != nil {
		r.GET("/metrics", gin.WrapF(cfg.Metrics.WriteHTTP))
	}

	api := r.Group("/api")
	if cfg.AuthMiddleware != nil {
		api.Use(cfg.AuthMiddleware.RequireAuth())
	}
	{
		// Videos
		if cfg.VideoHandler != nil {
			api.POST("/videos/resolve", cfg.VideoHandler.ResolveVideo)
			api.POST("/plans/resolve", cfg.VideoHandler.ResolvePlan)
		}

		// Subjects
		if cfg.SubjectHandler != nil {
			api.POST("/subjects", cfg.SubjectHandler.Create)
			api.GET("/subjects", cfg.SubjectHandler.List)
			api.GET("/subjects/:id", cfg.SubjectHandler.Get)
		}

		// Plans
		if cfg.PlanHandler != nil {
			api.POST("/subjects/:id/plan", cfg.PlanHandler.Generate)
			api.GET("/subjects/:id/plan", cfg.PlanHandler.Get)
		}

		// Progress
		if cfg.ProgressHandler != nil {
			api.GET("/subjects/:id/progress", cfg.ProgressHandler.List)
			api.PUT("/subjects/:id/topics/:topicId/completion", cfg.ProgressHandler.SetCompletion)
			api.PUT("/subjects/:id/topics/:topicId/notes", cfg.ProgressHandler.SaveNotes)
		}
	}

	return r
}
