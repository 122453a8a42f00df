package quota

import (
	"context"
	"fmt"
	"strings"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/yungbote/studyplan-backend/internal/platform/logger"
)

// Redis is a daily budget shared by every replica using the same key prefix.
type Redis struct {
	log    *logger.Logger
	rdb    *goredis.Client
	prefix string
	limit  int64
	now    func() time.Time
}

func NewRedis(log *logger.Logger, addr, prefix string, limit int64) (*Redis, error) {
	if log == nil {
		return nil, fmt.Errorf("logger required")
	}
	addr = strings.TrimSpace(addr)
	if addr == "" {
		return nil, fmt.Errorf("missing redis addr")
	}
	if prefix == "" {
		prefix = "quota"
	}

	rdb := goredis.NewClient(&goredis.Options{
		Addr:        addr,
		DialTimeout: 5 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	return &Redis{
		log:    log.With("service", "RedisQuotaGuard"),
		rdb:    rdb,
		prefix: prefix,
		limit:  limit,
		now:    time.Now,
	}, nil
}

func (r *Redis) key() string {
	return r.prefix + ":" + dayKey(r.now())
}

func (r *Redis) Reserve(ctx context.Context, units int64) error {
	if r == nil || r.rdb == nil {
		return fmt.Errorf("redis quota guard not initialized")
	}
	if r.limit <= 0 {
		return nil
	}
	key := r.key()

	pipe := r.rdb.TxPipeline()
	incr := pipe.IncrBy(ctx, key, units)
	pipe.Expire(ctx, key, 48*time.Hour)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("quota reserve: %w", err)
	}
	if incr.Val() > r.limit {
		rctx, cancel := releaseContext(ctx)
		defer cancel()
		if err := r.rdb.DecrBy(rctx, key, units).Err(); err != nil {
			r.log.Warn("quota release failed", "key", key, "error", err)
		}
		return ErrExhausted
	}
	return nil
}

// releaseContext detaches a refund from the caller's cancellation so units the
// request never used are returned even when the request is already gone.
func releaseContext(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.WithoutCancel(ctx), 2*time.Second)
}

func (r *Redis) Close() error {
	if r == nil || r.rdb == nil {
		return nil
	}
	return r.rdb.Close()
}
