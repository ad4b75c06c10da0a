package app

import (
	"context"
	"fmt"

	"github.com/gin-gonic/gin"
	goredis "github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	redisclient "github.com/yungbote/learning-planner/internal/clients/redis"
	"github.com/yungbote/learning-planner/internal/config"
	"github.com/yungbote/learning-planner/internal/data/db"
	"github.com/yungbote/learning-planner/internal/http"
	"github.com/yungbote/learning-planner/internal/observability"
	"github.com/yungbote/learning-planner/internal/platform/logger"
)

type App struct {
	Log      *logger.Logger
	Cfg      *config.Config
	DB       *gorm.DB
	Redis    *goredis.Client
	Metrics  *observability.Metrics
	Repos    Repos
	Services Services
	Router   *gin.Engine

	dbService    *db.Service
	otelShutdown func(context.Context) error
}

func New(ctx context.Context) (*App, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	return NewWithConfig(ctx, cfg)
}

// NewWithConfig wires every dependency from an already loaded config.
func NewWithConfig(ctx context.Context, cfg *config.Config) (*App, error) {
	log, err := logger.New(cfg.Env)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}
	a := &App{Log: log, Cfg: cfg}

	a.otelShutdown = observability.InitOTel(ctx, log, observability.OtelConfig{
		Enabled:     cfg.Telemetry.OTelEnabled,
		ServiceName: cfg.Telemetry.ServiceName,
		Environment: cfg.Env,
		Endpoint:    cfg.Telemetry.OTelEndpoint,
		SampleRatio: cfg.Telemetry.OTelSampleRatio,
	})
	if cfg.Telemetry.MetricsEnabled {
		a.Metrics = observability.Init(log)
	}

	log.Info("Connecting database...", "driver", cfg.Database.Driver)
	a.dbService, err = db.Open(cfg.Database, log)
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("init database: %w", err)
	}
	if err := db.AutoMigrateAll(a.dbService.DB()); err != nil {
		a.Close()
		return nil, fmt.Errorf("database automigrate: %w", err)
	}
	a.DB = a.dbService.DB()
	a.Metrics.StartPostgresCollector(ctx, log, a.DB)

	a.Redis, err = redisclient.NewClient(ctx, cfg.Redis, log)
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("init redis: %w", err)
	}
	a.Metrics.StartRedisCollector(ctx, log, a.Redis)

	a.Repos = wireRepos(a.DB, log)
	a.Services, err = wireServices(ctx, log, cfg, a.Repos, a.Redis, a.Metrics)
	if err != nil {
		a.Close()
		return nil, err
	}
	a.Router = wireRouter(log, cfg, a.Metrics, wireHandlers(log, a.Services), wireMiddleware(log, cfg))
	return a, nil
}

// Run serves HTTP until ctx is cancelled, then shuts down gracefully.
func (a *App) Run(ctx context.Context) error {
	srv := http.NewServer(a.Cfg.HTTP, a.Router)
	a.Log.Info("Server listening", "addr", a.Cfg.HTTP.Addr)
	if err := srv.Run(ctx, a.Cfg.HTTP.ShutdownTimeout.Duration); err != nil {
		return fmt.Errorf("http server: %w", err)
	}
	a.Log.Info("Server stopped")
	return nil
}

func (a *App) Close() {
	if a == nil {
		return
	}
	if a.otelShutdown != nil {
		ctx, cancel := context.WithTimeout(context.Background(), a.Cfg.HTTP.ShutdownTimeout.Duration)
		if err := a.otelShutdown(ctx); err != nil {
			a.Log.Warn("otel shutdown failed", "error", err)
		}
		cancel()
	}
	if a.Redis != nil {
		_ = a.Redis.Close()
	}
	if a.dbService != nil {
		if err := a.dbService.Close(); err != nil {
			a.Log.Warn("database close failed", "error", err)
		}
	}
	a.Log.Sync()
}
