package observability

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestMetricsRecord(t *testing.T) {
	m := New()
	m.IncNormalizeStage("roadmap", "brace_slice")
	m.IncNormalizeStage("roadmap", "brace_slice")
	m.IncSearchDecision("")
	m.ObserveAPI("POST", "/api/roadmaps", 200, 20*time.Millisecond)

	if got := testutil.ToFloat64(m.normalizeStage.WithLabelValues("roadmap", "brace_slice")); got != 2 {
		t.Fatalf("normalize stage=%v", got)
	}
	if got := testutil.ToFloat64(m.searchDecisions.WithLabelValues("none")); got != 1 {
		t.Fatalf("search decision=%v", got)
	}

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status=%d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `lp_api_requests_total{method="POST",route="/api/roadmaps",status="200"} 1`) {
		t.Fatalf("exposition missing api counter:\n%s", rec.Body.String())
	}
}

func TestNilMetricsIsSafe(t *testing.T) {
	var m *Metrics
	m.IncNormalizeStage("x", "y")
	m.ObserveAPI("GET", "/", 200, time.Millisecond)
	m.ObserveMasteryImprovement(3)
	m.IncSearchCache("hit")
	if m.Registry() != nil {
		t.Fatalf("nil registry expected")
	}
}
