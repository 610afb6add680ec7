package observability

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/riskibarqy/sports-calendar/internal/platform/fetch"
	"github.com/riskibarqy/sports-calendar/internal/usecase"
)

var (
	_ usecase.Observer = (*Metrics)(nil)
	_ fetch.Observer   = (*Metrics)(nil)
)

func TestMetrics_RecordsObservations(t *testing.T) {
	t.Parallel()

	m := NewMetrics()
	m.ObserveSource("club-a", "ok", 7, 120*time.Millisecond)
	m.ObserveSource("ufc", "error", 0, time.Second)
	m.ObserveSource("ufc", "error", 0, time.Second)
	m.ObserveFetch("espn", "status_502", 300*time.Millisecond)
	m.ObserveCycle(2*time.Second, true)
	m.ObserveCache(true)
	m.ObserveCache(false)
	m.ObserveCache(true)

	if got := testutil.ToFloat64(m.sourceEvents.WithLabelValues("club-a")); got != 7 {
		t.Fatalf("unexpected club-a events gauge: %v", got)
	}
	if got := testutil.ToFloat64(m.sourceCollects.WithLabelValues("ufc", "error")); got != 2 {
		t.Fatalf("unexpected ufc error count: %v", got)
	}
	if got := testutil.ToFloat64(m.upstreamCalls.WithLabelValues("espn", "status_502")); got != 1 {
		t.Fatalf("unexpected upstream count: %v", got)
	}
	if got := testutil.ToFloat64(m.cycles.WithLabelValues("true")); got != 1 {
		t.Fatalf("unexpected degraded cycle count: %v", got)
	}
	if got := testutil.ToFloat64(m.cacheLookups.WithLabelValues("hit")); got != 2 {
		t.Fatalf("unexpected cache hit count: %v", got)
	}
}

func TestMetrics_HandlerExposesRegistry(t *testing.T) {
	t.Parallel()

	m := NewMetrics()
	m.ObserveCache(false)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("unexpected status: %d", rec.Code)
	}
	body, _ := io.ReadAll(rec.Body)
	if !strings.Contains(string(body), `sports_calendar_feed_cache_lookups_total{result="miss"} 1`) {
		t.Fatalf("metrics output missing cache counter:\n%s", body)
	}
}

func TestMetrics_NilDiscards(t *testing.T) {
	t.Parallel()

	var m *Metrics
	m.ObserveSource("club-a", "ok", 1, time.Second)
	m.ObserveFetch("espn", "ok", time.Second)
	m.ObserveCycle(time.Second, false)
	m.ObserveCache(true)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 from disabled metrics, got %d", rec.Code)
	}
}
