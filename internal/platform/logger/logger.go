package logger

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger wraps a zap SugaredLogger. Key/value pairs pass through the field
// policy before they are written, so secrets and user content never reach the sink.
type Logger struct {
	SugaredLogger *zap.SugaredLogger
	policy        *fieldPolicy
}

// New builds a logger for mode: "test" discards output, "prod"/"production"
// writes JSON at info, anything else writes console output at debug.
// LOG_LEVEL overrides the level; LOG_REDACTION_ENABLED=false disables scrubbing.
func New(mode string) (*Logger, error) {
	var cfg zap.Config
	switch strings.ToLower(strings.TrimSpace(mode)) {
	case "test":
		return Nop(), nil
	case "prod", "production":
		cfg = zap.NewProductionConfig()
	default:
		cfg = zap.NewDevelopmentConfig()
	}
	if raw := strings.TrimSpace(os.Getenv("LOG_LEVEL")); raw != "" {
		lvl, err := zapcore.ParseLevel(raw)
		if err != nil {
			return nil, fmt.Errorf("parse LOG_LEVEL: %w", err)
		}
		cfg.Level = zap.NewAtomicLevelAt(lvl)
	}
	z, err := cfg.Build()
	if err != nil {
		return nil, fmt.Errorf("build zap logger: %w", err)
	}
	return &Logger{SugaredLogger: z.Sugar(), policy: policyFromEnv()}, nil
}

// Nop returns a logger that discards everything.
func Nop() *Logger {
	return &Logger{SugaredLogger: zap.NewNop().Sugar(), policy: defaultPolicy()}
}

func (l *Logger) Sync() {
	_ = l.SugaredLogger.Sync()
}

func (l *Logger) Debug(msg string, kv ...any) { l.SugaredLogger.Debugw(msg, l.policy.apply(kv)...) }
func (l *Logger) Info(msg string, kv ...any)  { l.SugaredLogger.Infow(msg, l.policy.apply(kv)...) }
func (l *Logger) Warn(msg string, kv ...any)  { l.SugaredLogger.Warnw(msg, l.policy.apply(kv)...) }
func (l *Logger) Error(msg string, kv ...any) { l.SugaredLogger.Errorw(msg, l.policy.apply(kv)...) }

func (l *Logger) With(kv ...any) *Logger {
	return &Logger{SugaredLogger: l.SugaredLogger.With(l.policy.apply(kv)...), policy: l.policy}
}

type action int

const (
	keep action = iota
	redact
	hash
)

const redacted = "[REDACTED]"

// fieldPolicy decides per key whether a value is written, redacted or hashed.
// Key fragments are matched against the lowercased key.
type fieldPolicy struct {
	enabled bool
	salt    string
	redact  []string
	hash    []string
}

func defaultPolicy() *fieldPolicy {
	return &fieldPolicy{
		enabled: true,
		redact: []string{
			"token", "authorization", "password", "secret", "cookie",
			"api_key", "apikey", "email", "syllabus", "notes",
		},
		hash: []string{"user_id", "session_id"},
	}
}

func policyFromEnv() *fieldPolicy {
	p := defaultPolicy()
	switch strings.ToLower(strings.TrimSpace(os.Getenv("LOG_REDACTION_ENABLED"))) {
	case "0", "false", "no", "off":
		p.enabled = false
	}
	p.salt = strings.TrimSpace(os.Getenv("LOG_HASH_SALT"))
	return p
}

func (p *fieldPolicy) actionFor(key string) action {
	key = strings.ToLower(strings.TrimSpace(key))
	if key == "" {
		return keep
	}
	for _, frag := range p.redact {
		if strings.Contains(key, frag) {
			return redact
		}
	}
	for _, frag := range p.hash {
		if strings.Contains(key, frag) {
			return hash
		}
	}
	return keep
}

// apply scrubs a key/value list. A trailing key without a value is kept as is.
func (p *fieldPolicy) apply(kv []any) []any {
	if p == nil || !p.enabled || len(kv) == 0 {
		return kv
	}
	out := make([]any, 0, len(kv))
	for i := 0; i+1 < len(kv); i += 2 {
		key := stringify(kv[i])
		out = append(out, key, p.scrub(key, kv[i+1]))
	}
	if len(kv)%2 == 1 {
		out = append(out, kv[len(kv)-1])
	}
	return out
}

func (p *fieldPolicy) scrub(key string, val any) any {
	switch p.actionFor(key) {
	case redact:
		return redacted
	case hash:
		return p.digest(val)
	}
	switch v := val.(type) {
	case map[string]any:
		out := make(map[string]any, len(v))
		for k, inner := range v {
			out[k] = p.scrub(k, inner)
		}
		return out
	case []any:
		out := make([]any, len(v))
		for i, inner := range v {
			out[i] = p.scrub("", inner)
		}
		return out
	case string:
		if looksLikeJWT(v) {
			return redacted
		}
	}
	return val
}

// digest returns a short salted sha256 so log lines stay correlatable without the raw id.
func (p *fieldPolicy) digest(val any) string {
	raw := stringify(val)
	if raw == "" {
		return ""
	}
	sum := sha256.Sum256([]byte(p.salt + raw))
	return "hash:" + hex.EncodeToString(sum[:])[:12]
}

func looksLikeJWT(s string) bool {
	parts := strings.Split(s, ".")
	return len(parts) == 3 && len(parts[0]) > 10 && len(parts[1]) > 10
}

func stringify(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case []byte:
		return string(t)
	case fmt.Stringer:
		return t.String()
	default:
		return strings.TrimSpace(fmt.Sprint(v))
	}
}
