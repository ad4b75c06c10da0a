package app

import (
	"context"

	"github.com/gin-gonic/gin"
	goredis "github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/yungbote/learning-planner/internal/config"
	"github.com/yungbote/learning-planner/internal/engine/router"
	"github.com/yungbote/learning-planner/internal/http"
	httpH "github.com/yungbote/learning-planner/internal/http/handlers"
	httpMW "github.com/yungbote/learning-planner/internal/http/middleware"
	"github.com/yungbote/learning-planner/internal/observability"
	"github.com/yungbote/learning-planner/internal/platform/logger"
	"github.com/yungbote/learning-planner/internal/repos"
	"github.com/yungbote/learning-planner/internal/services"
	"github.com/yungbote/learning-planner/internal/websearch"
)

type Repos struct {
	ConceptMastery repos.ConceptMasteryRepo
	TutorExchange  repos.TutorExchangeRepo
}

type Services struct {
	Tutor services.TutorService
}

type Handlers struct {
	Health *httpH.HealthHandler
	Tutor  *httpH.TutorHandler
}

type Middleware struct {
	Auth *httpMW.AuthMiddleware
}

func wireRepos(db *gorm.DB, log *logger.Logger) Repos {
	log.Info("Wiring repos...")
	return Repos{
		ConceptMastery: repos.NewConceptMasteryRepo(db, log),
		TutorExchange:  repos.NewTutorExchangeRepo(db, log),
	}
}

// wireSearcher returns nil when search is disabled so the service skips it entirely.
func wireSearcher(log *logger.Logger, cfg config.SearchConfig, rdb *goredis.Client, metrics *observability.Metrics) websearch.Searcher {
	if !cfg.Enabled {
		return nil
	}
	var s websearch.Searcher = websearch.NewDuckDuckGo(websearch.DuckDuckGoOptions{
		Endpoint:   cfg.Endpoint,
		MaxResults: cfg.MaxResults,
		Timeout:    cfg.Timeout.Duration,
		Metrics:    metrics,
	})
	if rdb != nil && cfg.CacheTTL.Duration > 0 {
		s = websearch.NewCached(s, rdb, cfg.CacheTTL.Duration, log, metrics)
	}
	return s
}

func wireServices(ctx context.Context, log *logger.Logger, cfg *config.Config, reposet Repos, rdb *goredis.Client, metrics *observability.Metrics) (Services, error) {
	log.Info("Wiring services...")
	route, err := router.New(ctx, cfg.Model)
	if err != nil {
		return Services{}, err
	}
	tutor, err := services.NewTutorService(log, services.TutorDeps{
		Engine:      route.Engine,
		Model:       route.Model,
		Temperature: route.Temperature,
		Searcher:    wireSearcher(log, cfg.Search, rdb, metrics),
		Mastery:     reposet.ConceptMastery,
		Exchanges:   reposet.TutorExchange,
		Metrics:     metrics,
	})
	if err != nil {
		return Services{}, err
	}
	return Services{Tutor: tutor}, nil
}

func wireHandlers(log *logger.Logger, serviceset Services) Handlers {
	log.Info("Wiring handlers...")
	return Handlers{
		Health: httpH.NewHealthHandler(),
		Tutor:  httpH.NewTutorHandler(log, serviceset.Tutor),
	}
}

func wireMiddleware(log *logger.Logger, cfg *config.Config) Middleware {
	log.Info("Wiring middleware...")
	return Middleware{
		Auth: httpMW.NewAuthMiddleware(log, cfg.Auth.JWTSecret, cfg.Auth.Required),
	}
}

func wireRouter(log *logger.Logger, cfg *config.Config, metrics *observability.Metrics, handlers Handlers, middleware Middleware) *gin.Engine {
	return http.NewRouter(http.RouterConfig{
		ServiceName:     cfg.Telemetry.ServiceName,
		Log:             log,
		Metrics:         metrics,
		AllowedOrigins:  cfg.HTTP.AllowedOrigins,
		MaxRequestBytes: cfg.HTTP.MaxRequestBytes,
		AuthMiddleware:  middleware.Auth,
		TutorHandler:    handlers.Tutor,
		HealthHandler:   handlers.Health,
	})
}
