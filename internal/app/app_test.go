package app

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/riskibarqy/sports-calendar/external/espn"
	"github.com/riskibarqy/sports-calendar/external/liquipedia"
	"github.com/riskibarqy/sports-calendar/internal/config"
	"github.com/riskibarqy/sports-calendar/internal/domain/event"
	"github.com/riskibarqy/sports-calendar/internal/platform/logging"
)

func TestBuildCollectors_DefaultSources(t *testing.T) {
	t.Parallel()

	collectors := buildCollectors(config.DefaultSources(), espn.NewClient(espn.ClientConfig{}), liquipedia.NewClient(nil, ""), logging.NewNop())

	want := event.Sources()
	if len(collectors) != len(want) {
		t.Fatalf("expected %d collectors, got %d", len(want), len(collectors))
	}
	for i, collector := range collectors {
		if collector.Source() != want[i] {
			t.Fatalf("collector %d: expected %s, got %s", i, want[i], collector.Source())
		}
	}
}

func TestBuildCollectors_SkipsDisabledSources(t *testing.T) {
	t.Parallel()

	sources := config.DefaultSources()
	sources.Clubs = sources.Clubs[:1]
	sources.Combat = nil

	collectors := buildCollectors(sources, espn.NewClient(espn.ClientConfig{}), liquipedia.NewClient(nil, ""), logging.NewNop())
	if len(collectors) != 2 {
		t.Fatalf("expected 2 collectors, got %d", len(collectors))
	}
	if collectors[1].Source() != event.SourceEsports {
		t.Fatalf("unexpected second collector: %s", collectors[1].Source())
	}
}

func testConfig() config.Config {
	return config.Config{
		AppEnv:                   config.EnvDev,
		HTTPAddr:                 ":0",
		CORSAllowedOrigins:       []string{"*"},
		FeedPartialFailurePolicy: "tolerate",
		FeedCacheTTL:             60_000_000_000,
		ScoreboardLimit:          200,
		ScoreboardMaxWorkers:     2,
		MetricsEnabled:           true,
		Sources:                  config.DefaultSources(),
	}
}

func TestNew_WiresRouter(t *testing.T) {
	t.Parallel()

	a, err := New(context.Background(), testConfig(), logging.NewNop())
	if err != nil {
		t.Fatalf("new app: %v", err)
	}
	t.Cleanup(func() { _ = a.Close(context.Background()) })

	for _, path := range []string{"/healthz", "/metrics"} {
		rec := httptest.NewRecorder()
		a.Server.Handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		if rec.Code != http.StatusOK {
			t.Fatalf("%s: expected 200, got %d", path, rec.Code)
		}
	}
}

func TestNew_ConnectsSnapshotStore(t *testing.T) {
	t.Parallel()

	server := miniredis.RunT(t)
	cfg := testConfig()
	cfg.FeedRedisURL = "redis://" + server.Addr()
	cfg.FeedRedisKey = "test:feed"

	a, err := New(context.Background(), cfg, logging.NewNop())
	if err != nil {
		t.Fatalf("new app: %v", err)
	}
	if err := a.Close(context.Background()); err != nil {
		t.Fatalf("close app: %v", err)
	}
}

func TestNew_RejectsInvalidSettings(t *testing.T) {
	t.Parallel()

	cfg := testConfig()
	cfg.FeedPartialFailurePolicy = "sometimes"
	if _, err := New(context.Background(), cfg, nil); err == nil {
		t.Fatalf("expected policy error")
	}

	cfg = testConfig()
	cfg.HTTPAddr = ""
	if _, err := New(context.Background(), cfg, nil); err == nil {
		t.Fatalf("expected addr error")
	}
}
