package app

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/yungbote/studyplan-backend/internal/data/db"
	"github.com/yungbote/studyplan-backend/internal/observability"
	"github.com/yungbote/studyplan-backend/internal/platform/openai"
	"github.com/yungbote/studyplan-backend/internal/platform/youtube"
)

type Config struct {
	Port        string
	LogMode     string
	ServiceName string
	Environment string
	Version     string
	CORSOrigins []string

	JWTSecret string

	DB      db.Config
	YouTube youtube.Config
	OpenAI  openai.Config
	Otel    observability.OtelConfig

	MetricsEnabled bool

	// RedisAddr enables the shared catalog quota counter.
	RedisAddr   string
	DailyQuota  int64
	QuotaPrefix string

	RankingRulesFile       string
	PlanResolveConcurrency int
	SearchMaxResults       int
	SearchLanguage         string
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("PORT", "8080")
	v.SetDefault("LOG_MODE", "development")
	v.SetDefault("SERVICE_NAME", "studyplan")
	v.SetDefault("ENVIRONMENT", "development")
	v.SetDefault("VERSION", "dev")

	v.SetDefault("DB_DRIVER", "postgres")
	v.SetDefault("POSTGRES_HOST", "localhost")
	v.SetDefault("POSTGRES_PORT", "5432")
	v.SetDefault("POSTGRES_USER", "postgres")
	v.SetDefault("POSTGRES_NAME", "studyplan")

	v.SetDefault("YOUTUBE_RATE_PER_SECOND", 5.0)
	v.SetDefault("YOUTUBE_RATE_BURST", 1)
	v.SetDefault("YOUTUBE_CALL_TIMEOUT", "10s")
	v.SetDefault("YOUTUBE_MAX_RETRIES", 2)
	v.SetDefault("YOUTUBE_DAILY_QUOTA", 10000)
	v.SetDefault("QUOTA_KEY_PREFIX", "studyplan:youtube:quota")
	v.SetDefault("YOUTUBE_MAX_RESULTS", 10)
	v.SetDefault("YOUTUBE_LANGUAGE", "en")

	v.SetDefault("OPENAI_MODEL", "gpt-4o-mini")
	v.SetDefault("OPENAI_TIMEOUT_SECONDS", 180)
	v.SetDefault("OPENAI_MAX_RETRIES", 2)

	v.SetDefault("PLAN_RESOLVE_CONCURRENCY", 4)
	v.SetDefault("OTEL_SAMPLER_RATIO", 0.1)
}

// LoadConfig reads the environment over defaults. When CONFIG_FILE is set (or path
// is given) the YAML file is read first and environment variables still win.
func LoadConfig(path string) (Config, error) {
	v := viper.New()
	setDefaults(v)
	v.AutomaticEnv()

	if path == "" {
		path = strings.TrimSpace(v.GetString("CONFIG_FILE"))
	}
	if path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	callTimeout, err := time.ParseDuration(v.GetString("YOUTUBE_CALL_TIMEOUT"))
	if err != nil {
		return Config{}, fmt.Errorf("YOUTUBE_CALL_TIMEOUT: %w", err)
	}

	cfg := Config{
		Port:        v.GetString("PORT"),
		LogMode:     v.GetString("LOG_MODE"),
		ServiceName: v.GetString("SERVICE_NAME"),
		Environment: v.GetString("ENVIRONMENT"),
		Version:     v.GetString("VERSION"),
		CORSOrigins: splitList(v.GetString("CORS_ORIGINS")),

		JWTSecret: v.GetString("JWT_SECRET"),

		DB: db.Config{
			Driver:   v.GetString("DB_DRIVER"),
			DSN:      v.GetString("DATABASE_DSN"),
			Host:     v.GetString("POSTGRES_HOST"),
			Port:     v.GetString("POSTGRES_PORT"),
			User:     v.GetString("POSTGRES_USER"),
			Password: v.GetString("POSTGRES_PASSWORD"),
			Name:     v.GetString("POSTGRES_NAME"),
		},
		YouTube: youtube.Config{
			APIKey:        v.GetString("YOUTUBE_API_KEY"),
			BaseURL:       v.GetString("YOUTUBE_BASE_URL"),
			RatePerSecond: v.GetFloat64("YOUTUBE_RATE_PER_SECOND"),
			Burst:         v.GetInt("YOUTUBE_RATE_BURST"),
			CallTimeout:   callTimeout,
			MaxRetries:    v.GetInt("YOUTUBE_MAX_RETRIES"),
		},
		OpenAI: openai.Config{
			APIKey:     v.GetString("OPENAI_API_KEY"),
			BaseURL:    v.GetString("OPENAI_BASE_URL"),
			Model:      v.GetString("OPENAI_MODEL"),
			Timeout:    time.Duration(v.GetInt("OPENAI_TIMEOUT_SECONDS")) * time.Second,
			MaxRetries: v.GetInt("OPENAI_MAX_RETRIES"),
		},
		Otel: observability.OtelConfig{
			Enabled:     v.GetBool("OTEL_ENABLED"),
			Endpoint:    v.GetString("OTEL_EXPORTER_OTLP_ENDPOINT"),
			Headers:     observability.ParseHeaders(v.GetString("OTEL_EXPORTER_OTLP_HEADERS")),
			Insecure:    v.GetBool("OTEL_EXPORTER_OTLP_INSECURE"),
			SampleRatio: v.GetFloat64("OTEL_SAMPLER_RATIO"),
		},
		MetricsEnabled: v.GetBool("METRICS_ENABLED"),

		RedisAddr:   v.GetString("REDIS_ADDR"),
		DailyQuota:  v.GetInt64("YOUTUBE_DAILY_QUOTA"),
		QuotaPrefix: v.GetString("QUOTA_KEY_PREFIX"),

		RankingRulesFile:       v.GetString("RANKING_RULES_FILE"),
		PlanResolveConcurrency: v.GetInt("PLAN_RESOLVE_CONCURRENCY"),
		SearchMaxResults:       v.GetInt("YOUTUBE_MAX_RESULTS"),
		SearchLanguage:         v.GetString("YOUTUBE_LANGUAGE"),
	}
	cfg.Otel.ServiceName = cfg.ServiceName
	cfg.Otel.Environment = cfg.Environment
	cfg.Otel.Version = cfg.Version
	return cfg, nil
}

func splitList(raw string) []string {
	var out []string
	for _, s := range strings.Split(raw, ",") {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
