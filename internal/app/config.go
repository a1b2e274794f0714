package app

import (
	"errors"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/yungbote/classroom-backend/internal/data/db"
	"github.com/yungbote/classroom-backend/internal/observability"
	"github.com/yungbote/classroom-backend/internal/platform/logger"
	"github.com/yungbote/classroom-backend/internal/store"
	"github.com/yungbote/classroom-backend/internal/tracking"
)

type Config struct {
	HTTPAddr string
	LogMode  string
	LogSalt  string

	DB db.Config

	JWTSecret string
	JWTIssuer string

	RedisAddr      string
	SessionChannel string

	DemoMode bool
	SeedFile string
	// JournalLimit bounds the store journal before it is folded into the seed.
	JournalLimit int

	Tracking    tracking.Config
	IdleTimeout time.Duration
	SweepEvery  time.Duration
	CORSOrigins []string
	Otel        observability.OtelConfig
	MetricsOn   bool
	MetricsAddr string
}

// newViper loads an optional dotenv file and layers the environment on top of
// in-code defaults.
func newViper() *viper.Viper {
	path := strings.TrimSpace(os.Getenv("ENV_FILE"))
	if path == "" {
		path = ".env"
	}
	if _, err := os.Stat(path); err == nil {
		_ = godotenv.Load(path)
	}

	v := viper.New()
	v.SetTypeByDefaultValue(true)
	v.SetDefault("HTTP_ADDR", ":8080")
	v.SetDefault("LOG_MODE", "development")
	v.SetDefault("LOG_REDACT", "")
	v.SetDefault("LOG_HASH_SALT", "")
	v.SetDefault("DB_DRIVER", db.DriverPostgres)
	v.SetDefault("DATABASE_URL", "")
	v.SetDefault("POSTGRES_HOST", "localhost")
	v.SetDefault("POSTGRES_PORT", "5432")
	v.SetDefault("POSTGRES_USER", "postgres")
	v.SetDefault("POSTGRES_PASSWORD", "")
	v.SetDefault("POSTGRES_DB", "classroom")
	v.SetDefault("POSTGRES_SSLMODE", "disable")
	v.SetDefault("SQLITE_PATH", "file::memory:?cache=shared")
	v.SetDefault("AUTH_JWT_SECRET", "")
	v.SetDefault("AUTH_JWT_ISSUER", "")
	v.SetDefault("REDIS_ADDR", "")
	v.SetDefault("REDIS_SESSION_CHANNEL", "session-events")
	v.SetDefault("DEMO_MODE", false)
	v.SetDefault("SEED_FILE", "")
	v.SetDefault("STORE_JOURNAL_LIMIT", store.DefaultJournalLimit)
	v.SetDefault("TRACKING_COMPLETION_THRESHOLD", tracking.DefaultCompletionThreshold)
	v.SetDefault("TRACKING_SAVE_INTERVAL", tracking.DefaultSaveInterval)
	v.SetDefault("TRACKING_IDLE_TIMEOUT", tracking.DefaultIdleTimeout)
	v.SetDefault("TRACKING_SWEEP_INTERVAL", 30*time.Second)
	v.SetDefault("CORS_ALLOWED_ORIGINS", "")
	v.SetDefault("OTEL_ENABLED", false)
	v.SetDefault("OTEL_SERVICE_NAME", "classroom-backend")
	v.SetDefault("OTEL_ENVIRONMENT", "development")
	v.SetDefault("SERVICE_VERSION", "dev")
	v.SetDefault("OTEL_EXPORTER_OTLP_ENDPOINT", "")
	v.SetDefault("OTEL_EXPORTER_OTLP_HEADERS", "")
	v.SetDefault("OTEL_EXPORTER_OTLP_INSECURE", false)
	v.SetDefault("OTEL_SAMPLER_RATIO", 0.1)
	v.SetDefault("METRICS_ENABLED", false)
	v.SetDefault("METRICS_ADDR", ":9090")
	v.AutomaticEnv()
	return v
}

func LoadConfig(log *logger.Logger) Config {
	return configFrom(newViper(), log)
}

func configFrom(v *viper.Viper, log *logger.Logger) Config {
	cfg := Config{
		HTTPAddr: v.GetString("HTTP_ADDR"),
		LogMode:  v.GetString("LOG_MODE"),
		LogSalt:  v.GetString("LOG_HASH_SALT"),
		DB: db.Config{
			Driver:     strings.ToLower(strings.TrimSpace(v.GetString("DB_DRIVER"))),
			DSN:        postgresDSN(v),
			SQLitePath: v.GetString("SQLITE_PATH"),
		},
		JWTSecret:      v.GetString("AUTH_JWT_SECRET"),
		JWTIssuer:      strings.TrimSpace(v.GetString("AUTH_JWT_ISSUER")),
		RedisAddr:      strings.TrimSpace(v.GetString("REDIS_ADDR")),
		SessionChannel: v.GetString("REDIS_SESSION_CHANNEL"),
		DemoMode:       v.GetBool("DEMO_MODE"),
		SeedFile:       strings.TrimSpace(v.GetString("SEED_FILE")),
		JournalLimit:   v.GetInt("STORE_JOURNAL_LIMIT"),
		Tracking: tracking.Config{
			CompletionThreshold: v.GetInt("TRACKING_COMPLETION_THRESHOLD"),
			SaveInterval:        v.GetDuration("TRACKING_SAVE_INTERVAL"),
		},
		IdleTimeout: v.GetDuration("TRACKING_IDLE_TIMEOUT"),
		SweepEvery:  v.GetDuration("TRACKING_SWEEP_INTERVAL"),
		CORSOrigins: splitList(v.GetString("CORS_ALLOWED_ORIGINS")),
		Otel: observability.OtelConfig{
			Enabled:     v.GetBool("OTEL_ENABLED"),
			ServiceName: v.GetString("OTEL_SERVICE_NAME"),
			Environment: v.GetString("OTEL_ENVIRONMENT"),
			Version:     v.GetString("SERVICE_VERSION"),
			Endpoint:    strings.TrimSpace(v.GetString("OTEL_EXPORTER_OTLP_ENDPOINT")),
			Headers:     v.GetString("OTEL_EXPORTER_OTLP_HEADERS"),
			Insecure:    v.GetBool("OTEL_EXPORTER_OTLP_INSECURE"),
			SampleRatio: observability.SampleRatio(v.GetFloat64("OTEL_SAMPLER_RATIO")),
		},
		MetricsOn:   v.GetBool("METRICS_ENABLED"),
		MetricsAddr: v.GetString("METRICS_ADDR"),
	}
	if cfg.SweepEvery <= 0 {
		cfg.SweepEvery = 30 * time.Second
	}
	if log != nil {
		log.Info("Config loaded",
			"http_addr", cfg.HTTPAddr,
			"db_driver", cfg.DB.Driver,
			"demo_mode", cfg.DemoMode,
			"session_bus", busKind(cfg.RedisAddr),
		)
	}
	return cfg
}

// Validate reports settings the server cannot run without.
func (c Config) Validate() error {
	if strings.TrimSpace(c.JWTSecret) == "" {
		return errors.New("AUTH_JWT_SECRET is required")
	}
	return nil
}

func postgresDSN(v *viper.Viper) string {
	if dsn := strings.TrimSpace(v.GetString("DATABASE_URL")); dsn != "" {
		return dsn
	}
	parts := []string{
		"host=" + v.GetString("POSTGRES_HOST"),
		"port=" + v.GetString("POSTGRES_PORT"),
		"user=" + v.GetString("POSTGRES_USER"),
		"dbname=" + v.GetString("POSTGRES_DB"),
		"sslmode=" + v.GetString("POSTGRES_SSLMODE"),
	}
	if pw := v.GetString("POSTGRES_PASSWORD"); pw != "" {
		parts = append(parts, "password="+pw)
	}
	return strings.Join(parts, " ")
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if s := strings.TrimSpace(part); s != "" {
			out = append(out, s)
		}
	}
	return out
}

func busKind(redisAddr string) string {
	if redisAddr == "" {
		return "memory"
	}
	return "redis"
}
