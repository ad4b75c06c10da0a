package observability

import (
	"context"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/yungbote/learning-planner/internal/platform/logger"
)

const scrapeInterval = 15 * time.Second

// Metrics owns its registry so tests can build isolated instances. All methods are nil-safe.
type Metrics struct {
	registry *prometheus.Registry

	apiRequests *prometheus.CounterVec
	apiLatency  *prometheus.HistogramVec
	apiInflight prometheus.Gauge

	llmRequests *prometheus.CounterVec
	llmLatency  *prometheus.HistogramVec

	normalizeStage  *prometheus.CounterVec
	searchDecisions *prometheus.CounterVec
	searchRequests  *prometheus.CounterVec
	searchCache     *prometheus.CounterVec
	resources       prometheus.Histogram

	masteryUpdates     prometheus.Counter
	masteryImprovement prometheus.Histogram

	pgStats   *prometheus.GaugeVec
	redisUp   prometheus.Gauge
	redisPing prometheus.Gauge
}

var (
	initOnce sync.Once
	instance *Metrics
)

// Init builds the process-wide instance once. Current returns nil until then.
func Init(log *logger.Logger) *Metrics {
	initOnce.Do(func() {
		instance = New()
		if log != nil {
			log.Info("metrics initialized")
		}
	})
	return instance
}

func Current() *Metrics {
	return instance
}

func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	f := promauto.With(reg)

	return &Metrics{
		registry: reg,
		apiRequests: f.NewCounterVec(prometheus.CounterOpts{
			Name: "lp_api_requests_total",
			Help: "HTTP requests by method, route and status.",
		}, []string{"method", "route", "status"}),
		apiLatency: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "lp_api_request_duration_seconds",
			Help:    "HTTP request latency.",
			Buckets: []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60},
		}, []string{"method", "route"}),
		apiInflight: f.NewGauge(prometheus.GaugeOpts{
			Name: "lp_api_inflight_requests",
			Help: "HTTP requests currently being served.",
		}),
		llmRequests: f.NewCounterVec(prometheus.CounterOpts{
			Name: "lp_llm_requests_total",
			Help: "Model calls by prompt and status.",
		}, []string{"prompt", "status"}),
		llmLatency: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "lp_llm_request_duration_seconds",
			Help:    "Model call latency.",
			Buckets: []float64{0.25, 0.5, 1, 2, 5, 10, 20, 30, 60, 120},
		}, []string{"prompt"}),
		normalizeStage: f.NewCounterVec(prometheus.CounterOpts{
			Name: "lp_normalize_stage_total",
			Help: "Which normalizer stage resolved a model response, by call site.",
		}, []string{"call_site", "stage"}),
		searchDecisions: f.NewCounterVec(prometheus.CounterOpts{
			Name: "lp_search_decisions_total",
			Help: "Search gate outcomes by the trigger vocabulary that fired.",
		}, []string{"vocabulary"}),
		searchRequests: f.NewCounterVec(prometheus.CounterOpts{
			Name: "lp_search_requests_total",
			Help: "Web search calls by provider and status.",
		}, []string{"provider", "status"}),
		searchCache: f.NewCounterVec(prometheus.CounterOpts{
			Name: "lp_search_cache_total",
			Help: "Search cache lookups by result.",
		}, []string{"result"}),
		resources: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "lp_resources_extracted",
			Help:    "Resources extracted per search.",
			Buckets: []float64{0, 1, 2, 4, 6, 8},
		}),
		masteryUpdates: f.NewCounter(prometheus.CounterOpts{
			Name: "lp_mastery_updates_total",
			Help: "Concept score updates applied.",
		}),
		masteryImprovement: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "lp_mastery_improvement",
			Help:    "Per-concept score gain per turn.",
			Buckets: []float64{0, 1, 2, 4, 6, 8, 10, 12},
		}),
		pgStats: f.NewGaugeVec(prometheus.GaugeOpts{
			Name: "lp_db_pool",
			Help: "database/sql pool statistics.",
		}, []string{"stat"}),
		redisUp: f.NewGauge(prometheus.GaugeOpts{
			Name: "lp_redis_up",
			Help: "1 when the last redis ping succeeded.",
		}),
		redisPing: f.NewGauge(prometheus.GaugeOpts{
			Name: "lp_redis_ping_seconds",
			Help: "Latency of the last redis ping.",
		}),
	}
}

func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *Metrics) ObserveAPI(method, route string, status int, dur time.Duration) {
	if m == nil {
		return
	}
	if method == "" {
		method = "UNKNOWN"
	}
	if route == "" {
		route = "unknown"
	}
	m.apiRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.apiLatency.WithLabelValues(method, route).Observe(dur.Seconds())
}

func (m *Metrics) ApiInflightInc() {
	if m == nil {
		return
	}
	m.apiInflight.Inc()
}

func (m *Metrics) ApiInflightDec() {
	if m == nil {
		return
	}
	m.apiInflight.Dec()
}

func (m *Metrics) ObserveLLMRequest(prompt, status string, dur time.Duration) {
	if m == nil {
		return
	}
	m.llmRequests.WithLabelValues(prompt, status).Inc()
	m.llmLatency.WithLabelValues(prompt).Observe(dur.Seconds())
}

func (m *Metrics) IncNormalizeStage(callSite, stage string) {
	if m == nil {
		return
	}
	m.normalizeStage.WithLabelValues(callSite, stage).Inc()
}

// IncSearchDecision records the gate outcome; an empty vocabulary means no search.
func (m *Metrics) IncSearchDecision(vocabulary string) {
	if m == nil {
		return
	}
	if vocabulary == "" {
		vocabulary = "none"
	}
	m.searchDecisions.WithLabelValues(vocabulary).Inc()
}

func (m *Metrics) IncSearchRequest(provider, status string) {
	if m == nil {
		return
	}
	m.searchRequests.WithLabelValues(provider, status).Inc()
}

func (m *Metrics) IncSearchCache(result string) {
	if m == nil {
		return
	}
	m.searchCache.WithLabelValues(result).Inc()
}

func (m *Metrics) ObserveResources(n int) {
	if m == nil {
		return
	}
	m.resources.Observe(float64(n))
}

func (m *Metrics) ObserveMasteryImprovement(gain int) {
	if m == nil {
		return
	}
	m.masteryUpdates.Inc()
	m.masteryImprovement.Observe(float64(gain))
}

func (m *Metrics) StartPostgresCollector(ctx context.Context, log *logger.Logger, db *gorm.DB) {
	if m == nil || db == nil {
		return
	}
	sqlDB, err := db.DB()
	if err != nil {
		if log != nil {
			log.Warn("metrics: db stats unavailable", "error", err)
		}
		return
	}
	go func() {
		ticker := time.NewTicker(scrapeInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				stats := sqlDB.Stats()
				m.pgStats.WithLabelValues("open").Set(float64(stats.OpenConnections))
				m.pgStats.WithLabelValues("in_use").Set(float64(stats.InUse))
				m.pgStats.WithLabelValues("idle").Set(float64(stats.Idle))
				m.pgStats.WithLabelValues("wait_count").Set(float64(stats.WaitCount))
				m.pgStats.WithLabelValues("wait_seconds").Set(stats.WaitDuration.Seconds())
			}
		}
	}()
}

func (m *Metrics) StartRedisCollector(ctx context.Context, log *logger.Logger, rdb *redis.Client) {
	if m == nil || rdb == nil {
		return
	}
	go func() {
		ticker := time.NewTicker(scrapeInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				start := time.Now()
				if err := rdb.Ping(ctx).Err(); err != nil {
					m.redisUp.Set(0)
					if log != nil {
						log.Warn("metrics: redis ping failed", "error", err)
					}
					continue
				}
				m.redisUp.Set(1)
				m.redisPing.Set(time.Since(start).Seconds())
			}
		}
	}()
}
