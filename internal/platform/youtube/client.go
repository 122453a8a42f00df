// Package youtube adapts the YouTube Data API v3 to the video catalog used by the
// resolution engine. Every call passes through a rate limiter and a daily quota
// guard, runs under its own timeout and is retried on transient failures.
package youtube

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"golang.org/x/time/rate"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	yt "google.golang.org/api/youtube/v3"

	domain "github.com/yungbote/studyplan-backend/internal/domain/video"
	"github.com/yungbote/studyplan-backend/internal/observability"
	"github.com/yungbote/studyplan-backend/internal/platform/httpx"
	"github.com/yungbote/studyplan-backend/internal/platform/logger"
	"github.com/yungbote/studyplan-backend/internal/platform/quota"
)

// Quota cost of each endpoint in YouTube API units.
const (
	searchCost = 100
	videosCost = 1
)

type Config struct {
	APIKey string
	// BaseURL overrides the API root, e.g. for a proxy or a test server.
	BaseURL string

	RatePerSecond float64
	Burst         int
	CallTimeout   time.Duration
	MaxRetries    int
	RetryBase     time.Duration
}

type Client struct {
	log     *logger.Logger
	svc     *yt.Service
	limiter *rate.Limiter
	quota   quota.Guard
	cfg     Config
}

// New builds the catalog client. An empty API key yields a client whose every
// call fails with ErrNoCredentials rather than an error here, so the rest of the
// application can still start.
func New(ctx context.Context, log *logger.Logger, cfg Config, guard quota.Guard) (*Client, error) {
	if log == nil {
		return nil, fmt.Errorf("logger required")
	}
	if cfg.RatePerSecond <= 0 {
		cfg.RatePerSecond = 5
	}
	if cfg.Burst < 1 {
		cfg.Burst = 1
	}
	if cfg.CallTimeout <= 0 {
		cfg.CallTimeout = 10 * time.Second
	}
	if cfg.MaxRetries < 0 {
		cfg.MaxRetries = 0
	}
	if cfg.RetryBase <= 0 {
		cfg.RetryBase = 500 * time.Millisecond
	}
	if guard == nil {
		guard = quota.Unlimited{}
	}
	cfg.APIKey = strings.TrimSpace(cfg.APIKey)

	c := &Client{
		log:     log.With("client", "YouTube"),
		limiter: rate.NewLimiter(rate.Limit(cfg.RatePerSecond), cfg.Burst),
		quota:   guard,
		cfg:     cfg,
	}

	if cfg.APIKey == "" {
		return c, nil
	}
	opts := []option.ClientOption{option.WithAPIKey(cfg.APIKey)}
	if base := strings.TrimSpace(cfg.BaseURL); base != "" {
		opts = append(opts, option.WithEndpoint(strings.TrimRight(base, "/")+"/"))
	}
	svc, err := yt.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("youtube service: %w", err)
	}
	c.svc = svc
	return c, nil
}

// Configured reports whether the client has credentials.
func (c *Client) Configured() bool { return c != nil && c.svc != nil }

// call runs fn with rate limiting, quota accounting, a per-attempt timeout and
// retries. Every failure is wrapped with ErrUpstreamUnavailable.
func (c *Client) call(ctx context.Context, op string, units int64, fn func(ctx context.Context) error) error {
	if !c.Configured() {
		return domain.ErrNoCredentials
	}
	for attempt := 0; ; attempt++ {
		if err := c.limiter.Wait(ctx); err != nil {
			return fmt.Errorf("%s: rate limiter: %w: %w", op, domain.ErrUpstreamUnavailable, err)
		}
		if err := c.quota.Reserve(ctx, units); err != nil {
			return fmt.Errorf("%s: %w: %w", op, domain.ErrUpstreamUnavailable, err)
		}

		start := time.Now()
		callCtx, cancel := context.WithTimeout(ctx, c.cfg.CallTimeout)
		err := fn(callCtx)
		cancel()
		if err == nil {
			observability.Current().ObserveCatalogCall(op, "ok", time.Since(start))
			return nil
		}
		err = classify(err)
		observability.Current().ObserveCatalogCall(op, "error", time.Since(start))

		if attempt >= c.cfg.MaxRetries || ctx.Err() != nil || !httpx.IsRetryableError(err) {
			return fmt.Errorf("%s: %w: %w", op, domain.ErrUpstreamUnavailable, err)
		}
		wait := httpx.JitterSleep(httpx.Backoff(c.cfg.RetryBase, 5*time.Second, attempt+1))
		c.log.Debug("youtube call retrying", "op", op, "attempt", attempt+1, "wait", wait, "error", err)
		if err := httpx.Sleep(ctx, wait); err != nil {
			return fmt.Errorf("%s: %w: %w", op, domain.ErrUpstreamUnavailable, err)
		}
	}
}

// statusError exposes the HTTP status of a googleapi error to httpx.
type statusError struct {
	code int
	err  error
}

func (e *statusError) Error() string       { return e.err.Error() }
func (e *statusError) Unwrap() error       { return e.err }
func (e *statusError) HTTPStatusCode() int { return e.code }

func classify(err error) error {
	var gerr *googleapi.Error
	if errors.As(err, &gerr) {
		return &statusError{code: gerr.Code, err: err}
	}
	return err
}
