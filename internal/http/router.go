package http

import (
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	httpH "github.com/yungbote/learning-planner/internal/http/handlers"
	httpMW "github.com/yungbote/learning-planner/internal/http/middleware"
	"github.com/yungbote/learning-planner/internal/observability"
	"github.com/yungbote/learning-planner/internal/platform/logger"
)

type RouterConfig struct {
	// ServiceName labels server spans. Empty skips the otelgin middleware.
	ServiceName     string
	Log             *logger.Logger
	Metrics         *observability.Metrics
	AllowedOrigins  []string
	MaxRequestBytes int64

	AuthMiddleware *httpMW.AuthMiddleware
	TutorHandler   *httpH.TutorHandler
	HealthHandler  *httpH.HealthHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	if cfg.ServiceName != "" {
		r.Use(otelgin.Middleware(cfg.ServiceName))
	}
	r.Use(httpMW.AttachTraceContext())
	r.Use(httpMW.RequestLogger(cfg.Log))
	r.Use(httpMW.Metrics(cfg.Metrics))
	r.Use(httpMW.CORS(cfg.AllowedOrigins))
	r.Use(httpMW.NoCache())
	r.Use(httpMW.LimitBody(cfg.MaxRequestBytes))

	// Health
	if cfg.HealthHandler != nil {
		r.GET("/healthcheck", cfg.HealthHandler.HealthCheck)
	}
	if cfg.Metrics != nil {
		r.GET("/metrics", gin.WrapH(cfg.Metrics.Handler()))
	}

	api := r.Group("/api")
	if cfg.AuthMiddleware != nil {
		api.Use(cfg.AuthMiddleware.Authenticate())
	}
	if cfg.TutorHandler != nil {
		api.POST("/ask-about-task", cfg.TutorHandler.AskAboutTask)

		api.POST("/ai-env/chat", cfg.TutorHandler.Chat)
		api.POST("/ai-env/flashcards", cfg.TutorHandler.Flashcards)
		api.POST("/ai-env/study-guide", cfg.TutorHandler.StudyGuide)
		api.POST("/ai-env/materials", cfg.TutorHandler.Materials)

		api.POST("/roadmaps", cfg.TutorHandler.GenerateRoadmap)
		api.POST("/roadmaps/refine", cfg.TutorHandler.RefineRoadmap)

		api.GET("/understanding", cfg.TutorHandler.Understanding)
	}

	return r
}
