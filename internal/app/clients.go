package app

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/yungbote/studyplan-backend/internal/platform/logger"
	"github.com/yungbote/studyplan-backend/internal/platform/openai"
	"github.com/yungbote/studyplan-backend/internal/platform/quota"
	"github.com/yungbote/studyplan-backend/internal/platform/youtube"
)

type Clients struct {
	Quota   quota.Guard
	YouTube *youtube.Client
	// Planner is nil when no OpenAI key is configured.
	Planner openai.PlanGenerator

	redisQuota *quota.Redis
}

func wireClients(ctx context.Context, log *logger.Logger, cfg Config) (*Clients, error) {
	log.Info("Wiring clients...")
	c := &Clients{}

	// Quota
	if strings.TrimSpace(cfg.RedisAddr) != "" {
		rq, err := quota.NewRedis(log, cfg.RedisAddr, cfg.QuotaPrefix, cfg.DailyQuota)
		if err != nil {
			return nil, fmt.Errorf("init redis quota: %w", err)
		}
		c.redisQuota = rq
		c.Quota = rq
	} else {
		c.Quota = quota.NewMemory(cfg.DailyQuota)
	}

	// YouTube
	yt, err := youtube.New(ctx, log, cfg.YouTube, c.Quota)
	if err != nil {
		c.Close()
		return nil, fmt.Errorf("init youtube client: %w", err)
	}
	if !yt.Configured() {
		log.Warn("YOUTUBE_API_KEY not set; video resolution is disabled")
	}
	c.YouTube = yt

	// OpenAI
	planner, err := openai.NewClient(log, cfg.OpenAI)
	switch {
	case errors.Is(err, openai.ErrNotConfigured):
		log.Warn("OPENAI_API_KEY not set; plan generation is disabled")
	case err != nil:
		c.Close()
		return nil, fmt.Errorf("init openai client: %w", err)
	default:
		c.Planner = planner
	}

	return c, nil
}

func (c *Clients) Close() {
	if c == nil {
		return
	}
	if c.redisQuota != nil {
		_ = c.redisQuota.Close()
	}
}
