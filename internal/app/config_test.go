package app

import (
	"testing"
	"time"

	"github.com/spf13/viper"
)

func TestConfigDefaults(t *testing.T) {
	t.Setenv("ENV_FILE", "does-not-exist.env")
	cfg := configFrom(newViper(), nil)

	if cfg.HTTPAddr != ":8080" {
		t.Fatalf("HTTPAddr: want=:8080 got=%q", cfg.HTTPAddr)
	}
	if cfg.SessionChannel != "session-events" {
		t.Fatalf("SessionChannel: want=session-events got=%q", cfg.SessionChannel)
	}
	if cfg.Tracking.CompletionThreshold != 80 || cfg.Tracking.SaveInterval != 15*time.Second {
		t.Fatalf("Tracking: unexpected %+v", cfg.Tracking)
	}
	if cfg.IdleTimeout != 2*time.Minute {
		t.Fatalf("IdleTimeout: want=2m got=%v", cfg.IdleTimeout)
	}
	if cfg.DemoMode || cfg.RedisAddr != "" {
		t.Fatalf("demo=%v redis=%q", cfg.DemoMode, cfg.RedisAddr)
	}
}

func TestConfigFromEnv(t *testing.T) {
	t.Setenv("ENV_FILE", "does-not-exist.env")
	t.Setenv("DEMO_MODE", "true")
	t.Setenv("TRACKING_SAVE_INTERVAL", "5s")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example, ,https://b.example")
	t.Setenv("OTEL_SAMPLER_RATIO", "3")
	cfg := configFrom(newViper(), nil)

	if !cfg.DemoMode {
		t.Fatalf("DemoMode: want=true got=false")
	}
	if cfg.Tracking.SaveInterval != 5*time.Second {
		t.Fatalf("SaveInterval: want=5s got=%v", cfg.Tracking.SaveInterval)
	}
	if len(cfg.CORSOrigins) != 2 || cfg.CORSOrigins[1] != "https://b.example" {
		t.Fatalf("CORSOrigins: unexpected %v", cfg.CORSOrigins)
	}
	if cfg.Otel.SampleRatio != 1 {
		t.Fatalf("SampleRatio: want=1 got=%v", cfg.Otel.SampleRatio)
	}
}

func TestPostgresDSNPrefersURL(t *testing.T) {
	v := viper.New()
	v.Set("DATABASE_URL", "postgres://u@h/db")
	if got := postgresDSN(v); got != "postgres://u@h/db" {
		t.Fatalf("dsn: want=url got=%q", got)
	}

	v = viper.New()
	v.Set("POSTGRES_HOST", "db")
	v.Set("POSTGRES_PORT", "5432")
	v.Set("POSTGRES_USER", "app")
	v.Set("POSTGRES_DB", "classroom")
	v.Set("POSTGRES_SSLMODE", "disable")
	want := "host=db port=5432 user=app dbname=classroom sslmode=disable"
	if got := postgresDSN(v); got != want {
		t.Fatalf("dsn: want=%q got=%q", want, got)
	}
}

func TestStoreWiringFollowsDemoMode(t *testing.T) {
	log := testLogger(t)
	st, err := wireStore(log, Config{DemoMode: true})
	if err != nil {
		t.Fatalf("wireStore demo: %v", err)
	}
	if len(st.Snapshot().Classes) == 0 {
		t.Fatalf("demo store should carry the seed")
	}

	st, err = wireStore(log, Config{})
	if err != nil {
		t.Fatalf("wireStore: %v", err)
	}
	if len(st.Snapshot().Classes) != 0 {
		t.Fatalf("non-demo store should start empty")
	}
}

func TestRedactLogs(t *testing.T) {
	cases := []struct {
		flag, mode string
		want       bool
	}{
		{"", "development", false},
		{"", "production", true},
		{"false", "prod", false},
		{"true", "development", true},
		{"maybe", "development", false},
	}
	for _, tc := range cases {
		if got := redactLogs(tc.flag, tc.mode); got != tc.want {
			t.Fatalf("redactLogs(%q,%q): want=%v got=%v", tc.flag, tc.mode, tc.want, got)
		}
	}
}

func TestConfigValidateRequiresJWTSecret(t *testing.T) {
	t.Setenv("ENV_FILE", "does-not-exist.env")
	t.Setenv("AUTH_JWT_SECRET", "")
	if err := configFrom(newViper(), nil).Validate(); err == nil {
		t.Fatalf("Validate: expected error for empty AUTH_JWT_SECRET")
	}

	t.Setenv("AUTH_JWT_SECRET", "  ")
	if err := configFrom(newViper(), nil).Validate(); err == nil {
		t.Fatalf("Validate: expected error for blank AUTH_JWT_SECRET")
	}

	t.Setenv("AUTH_JWT_SECRET", "s3cret")
	if err := configFrom(newViper(), nil).Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
}
