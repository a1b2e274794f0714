package app

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/yungbote/classroom-backend/internal/data/db"
	apphttp "github.com/yungbote/classroom-backend/internal/http"
	"github.com/yungbote/classroom-backend/internal/observability"
	"github.com/yungbote/classroom-backend/internal/platform/logger"
	"github.com/yungbote/classroom-backend/internal/session"
	"github.com/yungbote/classroom-backend/internal/store"
	"github.com/yungbote/classroom-backend/internal/tracking"
)

type App struct {
	Log      *logger.Logger
	DB       *gorm.DB
	Router   *gin.Engine
	Cfg      Config
	Repos    Repos
	Services Services
	Store    *store.Store
	Bus      session.Bus
	Resolver *session.Resolver
	Registry *tracking.Registry
	Metrics  *observability.Metrics

	dbService    *db.Service
	otelShutdown func(context.Context) error
	cancel       context.CancelFunc
	wg           sync.WaitGroup
}

func New() (*App, error) {
	v := newViper()
	mode := v.GetString("LOG_MODE")
	log, err := logger.NewWithOptions(mode, logger.Options{
		Redact:   redactLogs(v.GetString("LOG_REDACT"), mode),
		HashSalt: v.GetString("LOG_HASH_SALT"),
	})
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}

	log.Info("Loading configuration...")
	cfg := configFrom(v, log)
	if err := cfg.Validate(); err != nil {
		log.Sync()
		return nil, fmt.Errorf("config: %w", err)
	}

	otelShutdown := observability.InitOTel(context.Background(), log, cfg.Otel)
	metrics := observability.Init()

	dbService, err := db.NewService(log, cfg.DB)
	if err != nil {
		log.Sync()
		return nil, fmt.Errorf("init db: %w", err)
	}
	if err := dbService.AutoMigrateAll(); err != nil {
		log.Sync()
		return nil, fmt.Errorf("automigrate: %w", err)
	}
	theDB := dbService.DB()

	st, err := wireStore(log, cfg)
	if err != nil {
		log.Sync()
		return nil, err
	}

	bus, err := wireBus(log, cfg)
	if err != nil {
		log.Sync()
		return nil, err
	}

	reposet := wireRepos(theDB, log)
	serviceset := wireServices(theDB, log, reposet, countingMirror{store: st, metrics: metrics})
	resolver := session.NewResolver(theDB, log, reposet.Profile, reposet.UserRole, st)

	registry := tracking.NewRegistry(tracking.RegistryOptions{
		Config:      cfg.Tracking,
		IdleTimeout: cfg.IdleTimeout,
		Persister:   observedPersister(serviceset.Progress, metrics),
		Logger:      log,
		OnSweep: func(swept, active int) {
			metrics.AddPlaybackSwept(swept)
			metrics.SetPlaybackActive(active)
		},
	})

	handlerset := wireHandlers(log, theDB, serviceset, bus, resolver, st, registry, metrics)
	mw := wireMiddleware(log, cfg, serviceset)
	router := wireRouter(log, cfg, handlerset, mw, metrics)

	return &App{
		Log:          log,
		DB:           theDB,
		Router:       router,
		Cfg:          cfg,
		Repos:        reposet,
		Services:     serviceset,
		Store:        st,
		Bus:          bus,
		Resolver:     resolver,
		Registry:     registry,
		Metrics:      metrics,
		dbService:    dbService,
		otelShutdown: otelShutdown,
	}, nil
}

// wireStore seeds the store with the static catalogue in demo mode; otherwise
// it starts empty and fills from mirrored writes.
func wireStore(log *logger.Logger, cfg Config) (*store.Store, error) {
	seed := store.State{}
	if cfg.DemoMode {
		s, err := store.LoadSeed(cfg.SeedFile)
		if err != nil {
			return nil, fmt.Errorf("load seed: %w", err)
		}
		seed = s
	}
	st, err := store.New(log, store.DefaultAuthority(cfg.DemoMode), seed, store.WithJournalLimit(cfg.JournalLimit))
	if err != nil {
		return nil, fmt.Errorf("init store: %w", err)
	}
	return st, nil
}

func wireBus(log *logger.Logger, cfg Config) (session.Bus, error) {
	if cfg.RedisAddr == "" {
		log.Info("Using in-memory session bus")
		return session.NewMemoryBus(), nil
	}
	bus, err := session.NewRedisBus(log, cfg.RedisAddr, cfg.SessionChannel)
	if err != nil {
		return nil, fmt.Errorf("init redis session bus: %w", err)
	}
	return bus, nil
}

// Start launches the background loops: session resolution, the playback
// sweeper and the metrics listener.
func (a *App) Start(ctx context.Context) {
	if a == nil || a.cancel != nil {
		return
	}
	ctx, cancel := context.WithCancel(ctx)
	a.cancel = cancel

	a.wg.Add(2)
	go func() {
		defer a.wg.Done()
		if err := a.Resolver.Run(ctx, a.Bus); err != nil && ctx.Err() == nil {
			a.Log.Error("Session resolver stopped", "error", err)
		}
	}()
	go func() {
		defer a.wg.Done()
		a.Registry.RunSweeper(ctx, a.Cfg.SweepEvery)
	}()

	if a.Cfg.MetricsOn {
		a.Metrics.StartServer(ctx, a.Log, a.Cfg.MetricsAddr)
	}
}

func (a *App) Run(ctx context.Context) error {
	if a == nil || a.Router == nil {
		return fmt.Errorf("app not initialized")
	}
	a.Log.Info("HTTP server listening", "addr", a.Cfg.HTTPAddr)
	srv := &apphttp.Server{Engine: a.Router}
	return srv.Run(ctx, a.Cfg.HTTPAddr)
}

func (a *App) Close() {
	if a == nil {
		return
	}
	if a.cancel != nil {
		a.cancel()
		a.cancel = nil
	}
	a.wg.Wait()
	if a.Registry != nil {
		a.Registry.Close()
	}
	if a.Bus != nil {
		_ = a.Bus.Close()
	}
	if a.otelShutdown != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := a.otelShutdown(ctx); err != nil {
			a.Log.Warn("OTel shutdown failed", "error", err)
		}
		cancel()
	}
	if a.dbService != nil {
		_ = a.dbService.Close()
	}
	if a.Log != nil {
		a.Log.Sync()
	}
}

// redactLogs honours an explicit LOG_REDACT and otherwise redacts in production.
func redactLogs(flag, mode string) bool {
	if b, err := strconv.ParseBool(strings.TrimSpace(flag)); err == nil {
		return b
	}
	switch strings.ToLower(strings.TrimSpace(mode)) {
	case "prod", "production":
		return true
	}
	return false
}
