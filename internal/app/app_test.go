package app

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/alicebob/miniredis/v2"

	"github.com/yungbote/learning-planner/internal/config"
	"github.com/yungbote/learning-planner/internal/platform/logger"
	"github.com/yungbote/learning-planner/internal/websearch"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg := &config.Config{Env: "test"}
	if err := config.Parse([]byte(`
model:
  engine: mock
  model: test-model
search:
  enabled: false
telemetry:
  metrics_enabled: false
`), cfg); err != nil {
		t.Fatalf("parse: %v", err)
	}
	cfg.Database = config.DatabaseConfig{Driver: "sqlite", DSN: filepath.Join(t.TempDir(), "app.db")}
	return cfg
}

func TestNewWithConfigServesRoutes(t *testing.T) {
	a, err := NewWithConfig(context.Background(), testConfig(t))
	if err != nil {
		t.Fatalf("NewWithConfig: %v", err)
	}
	t.Cleanup(a.Close)

	rec := httptest.NewRecorder()
	a.Router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthcheck", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("healthcheck status=%d", rec.Code)
	}

	req := httptest.NewRequest(http.MethodPost, "/api/roadmaps", strings.NewReader(`{"topic":"Go","days":1,"hours":1}`))
	req.Header.Set("Content-Type", "application/json")
	rec = httptest.NewRecorder()
	a.Router.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("roadmap status=%d body=%s", rec.Code, rec.Body.String())
	}

	rec = httptest.NewRecorder()
	a.Router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if rec.Code != http.StatusNotFound {
		t.Fatalf("metrics disabled but /metrics status=%d", rec.Code)
	}
}

func TestWireSearcher(t *testing.T) {
	log := logger.NewNop()
	if s := wireSearcher(log, config.SearchConfig{Enabled: false}, nil, nil); s != nil {
		t.Fatalf("disabled search should be nil, got %T", s)
	}
	if _, ok := wireSearcher(log, config.SearchConfig{Enabled: true}, nil, nil).(*websearch.DuckDuckGo); !ok {
		t.Fatal("expected bare DuckDuckGo without redis")
	}

	mr := miniredis.RunT(t)
	cfg := testConfig(t)
	cfg.Redis.Addr = mr.Addr()
	cfg.Search = config.SearchConfig{Enabled: true, Provider: "duckduckgo"}
	cfg.Search.CacheTTL.Duration = 1e9
	a, err := NewWithConfig(context.Background(), cfg)
	if err != nil {
		t.Fatalf("NewWithConfig(redis): %v", err)
	}
	t.Cleanup(a.Close)
	if _, ok := wireSearcher(log, cfg.Search, a.Redis, nil).(*websearch.Cached); !ok {
		t.Fatal("expected cached searcher with redis")
	}
}
