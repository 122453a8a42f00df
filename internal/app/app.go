package app

import (
	"context"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/yungbote/studyplan-backend/internal/data/db"
	apphttp "github.com/yungbote/studyplan-backend/internal/http"
	"github.com/yungbote/studyplan-backend/internal/modules/video"
	"github.com/yungbote/studyplan-backend/internal/observability"
	"github.com/yungbote/studyplan-backend/internal/platform/logger"
)

type App struct {
	Log      *logger.Logger
	Cfg      Config
	DB       *gorm.DB
	Clients  *Clients
	Repos    Repos
	Services Services
	Server   *apphttp.Server

	dbService    *db.Service
	otelShutdown func(context.Context) error
}

func NewLogger(cfg Config) (*logger.Logger, error) {
	log, err := logger.New(cfg.LogMode)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}
	return log, nil
}

// New wires the HTTP server with every dependency: database, catalog, plan
// generator, services and handlers.
func New(ctx context.Context, log *logger.Logger, cfg Config) (*App, error) {
	if strings.TrimSpace(cfg.JWTSecret) == "" {
		return nil, fmt.Errorf("JWT_SECRET is required")
	}
	a := &App{Log: log, Cfg: cfg}
	a.otelShutdown = observability.InitOTel(ctx, log, cfg.Otel)
	metrics := observability.Init(log, cfg.MetricsEnabled)

	dbService, err := db.Open(log, cfg.DB)
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("init database: %w", err)
	}
	a.dbService = dbService
	a.DB = dbService.DB()
	if err := db.AutoMigrateAll(a.DB); err != nil {
		a.Close()
		return nil, fmt.Errorf("automigrate: %w", err)
	}

	a.Clients, err = wireClients(ctx, log, cfg)
	if err != nil {
		a.Close()
		return nil, err
	}
	a.Repos = wireRepos(a.DB, log)
	a.Services, err = wireServices(a.DB, log, cfg, a.Repos, a.Clients)
	if err != nil {
		a.Close()
		return nil, err
	}

	handlers := wireHandlers(a.DB, log, a.Services)
	middleware := wireMiddleware(log, a.Services)
	a.Server = apphttp.NewServer(apphttp.RouterConfig{
		Log:             log,
		ServiceName:     cfg.ServiceName,
		CORSOrigins:     cfg.CORSOrigins,
		Metrics:         metrics,
		AuthMiddleware:  middleware.Auth,
		HealthHandler:   handlers.Health,
		VideoHandler:    handlers.Video,
		SubjectHandler:  handlers.Subject,
		PlanHandler:     handlers.Plan,
		ProgressHandler: handlers.Progress,
	})
	return a, nil
}

// NewResolver wires only the catalog and the resolution engine, for offline commands.
func NewResolver(ctx context.Context, log *logger.Logger, cfg Config) (video.Usecases, *Clients, error) {
	clients, err := wireClients(ctx, log, cfg)
	if err != nil {
		return video.Usecases{}, nil, err
	}
	videos, err := wireVideo(log, cfg, clients)
	if err != nil {
		clients.Close()
		return video.Usecases{}, nil, err
	}
	return videos, clients, nil
}

func (a *App) Run(ctx context.Context) error {
	if a == nil || a.Server == nil {
		return fmt.Errorf("app not initialized")
	}
	addr := ":" + strings.TrimPrefix(a.Cfg.Port, ":")
	a.Log.Info("http server listening", "addr", addr)
	return a.Server.Run(ctx, addr)
}

func (a *App) Close() {
	if a == nil {
		return
	}
	a.Clients.Close()
	if a.dbService != nil {
		if err := a.dbService.Close(); err != nil {
			a.Log.Warn("close database", "error", err)
		}
	}
	if a.otelShutdown != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = a.otelShutdown(ctx)
	}
	a.Log.Sync()
}
