package espn

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/jonboulle/clockwork"
	"github.com/riskibarqy/sports-calendar/internal/domain/event"
	"github.com/riskibarqy/sports-calendar/internal/platform/fetch"
	"github.com/riskibarqy/sports-calendar/internal/usecase"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.Handler) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	return NewClient(ClientConfig{
		Fetcher: fetch.NewClient(fetch.Config{Provider: "espn", HTTPClient: server.Client()}),
		BaseURL: server.URL,
	})
}

func writeJSON(w http.ResponseWriter, body string) {
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write([]byte(body))
}

func TestClient_FetchTeamSchedule_FallsBackToSecondaryLeague(t *testing.T) {
	t.Parallel()

	var primaryHits atomic.Int32
	mux := http.NewServeMux()
	mux.HandleFunc("/soccer/eng.1/teams/359/schedule", func(w http.ResponseWriter, _ *http.Request) {
		primaryHits.Add(1)
		writeJSON(w, `{"events":[]}`)
	})
	mux.HandleFunc("/soccer/uefa.champions/teams/359/schedule", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, `{"events":[`+fixtureJSON("77", "2026-03-10T20:00Z", "359", `"3"`, "500", `"0"`, true)+`]}`)
	})
	client := newTestClient(t, mux)

	got, err := client.FetchTeamSchedule(context.Background(), "359", []LeagueEndpoint{
		{Slug: "eng.1", Label: "Premier League"},
		{Slug: "uefa.champions", Label: "Champions League"},
	})
	require.NoError(t, err)
	assert.Equal(t, "uefa.champions", got.League.Slug)
	assert.Len(t, got.Payload.Events, 1)
	assert.Equal(t, int32(1), primaryHits.Load())
}

func TestClient_FetchTeamSchedule_AllEmptyReturnsLastResponse(t *testing.T) {
	t.Parallel()

	mux := http.NewServeMux()
	mux.HandleFunc("/soccer/eng.1/teams/359/schedule", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, `{"events":[]}`)
	})
	mux.HandleFunc("/soccer/eng.2/teams/359/schedule", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	})
	client := newTestClient(t, mux)

	got, err := client.FetchTeamSchedule(context.Background(), "359", []LeagueEndpoint{{Slug: "eng.1"}, {Slug: "eng.2"}})
	require.NoError(t, err)
	assert.Equal(t, "eng.1", got.League.Slug)
	assert.Empty(t, got.Payload.Events)
}

func TestClient_FetchTeamSchedule_AllFailedPropagatesLastError(t *testing.T) {
	t.Parallel()

	mux := http.NewServeMux()
	mux.HandleFunc("/soccer/eng.1/teams/359/schedule", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})
	mux.HandleFunc("/soccer/eng.2/teams/359/schedule", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})
	client := newTestClient(t, mux)

	_, err := client.FetchTeamSchedule(context.Background(), "359", []LeagueEndpoint{{Slug: "eng.1"}, {Slug: "eng.2"}})
	var upstream *fetch.UpstreamError
	require.True(t, errors.As(err, &upstream), "expected upstream error, got %v", err)
	assert.Equal(t, http.StatusNotFound, upstream.StatusCode)
}

func TestClient_FetchTeamScoreboards_ToleratesPartialFailure(t *testing.T) {
	t.Parallel()

	var gotQuery atomic.Value
	mux := http.NewServeMux()
	mux.HandleFunc("/soccer/eng.1/scoreboard", func(w http.ResponseWriter, r *http.Request) {
		gotQuery.Store(r.URL.RawQuery)
		writeJSON(w, `{"events":[`+
			fixtureJSON("1", "2026-03-20T15:00Z", "359", `""`, "2", `""`, false)+`,`+
			fixtureJSON("2", "2026-03-20T15:00Z", "3", `""`, "4", `""`, false)+`]}`)
	})
	mux.HandleFunc("/soccer/eng.fa/scoreboard", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})
	client := newTestClient(t, mux)

	boards, err := client.FetchTeamScoreboards(context.Background(), "359", []LeagueEndpoint{{Slug: "eng.1"}, {Slug: "eng.fa"}}, testNow)
	require.NoError(t, err)
	require.Len(t, boards, 1)
	require.Len(t, boards[0].Payload.Events, 1)
	assert.Equal(t, "1", boards[0].Payload.Events[0].ID)
	query, _ := gotQuery.Load().(string)
	assert.Contains(t, query, "dates=20260215-20260915")
	assert.Contains(t, query, "limit=200")
}

func TestClient_FetchTeamScoreboards_AllFailed(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))

	_, err := client.FetchTeamScoreboards(context.Background(), "359", []LeagueEndpoint{{Slug: "eng.1"}, {Slug: "eng.2"}}, testNow)
	require.Error(t, err)
}

func TestClubCollector_EndToEndSecondaryLeagueWin(t *testing.T) {
	t.Parallel()

	mux := http.NewServeMux()
	mux.HandleFunc("/soccer/", func(w http.ResponseWriter, r *http.Request) {
		switch {
		case strings.HasPrefix(r.URL.Path, "/soccer/eng.1/"):
			writeJSON(w, `{"events":[]}`)
		case strings.HasPrefix(r.URL.Path, "/soccer/uefa.europa/"):
			writeJSON(w, `{"events":[`+fixtureJSON("88", "2026-03-12T20:00Z", "359", `"3"`, "901", `"0"`, true)+`]}`)
		default:
			http.NotFound(w, r)
		}
	})
	client := newTestClient(t, mux)

	collector := NewClubCollector(client, clubA, []LeagueEndpoint{
		{Slug: "eng.1", Label: "Premier League"},
		{Slug: "uefa.europa", Label: "Europa League"},
	}, nil, nil)

	aggregator := usecase.NewAggregator(usecase.AggregatorConfig{
		Collectors: []usecase.SourceCollector{collector},
		Clock:      clockwork.NewFakeClockAt(testNow),
	})

	feed, err := aggregator.Aggregate(context.Background())
	require.NoError(t, err)
	require.Len(t, feed.Events, 1)

	got := feed.Events[0]
	assert.Equal(t, "club-a-88", got.ID)
	assert.Equal(t, event.OutcomeWin, got.Outcome)
	assert.Equal(t, "3 - 0", got.Result)
	assert.Equal(t, "Europa League", got.Competition)
	assert.False(t, feed.Degraded())
}

func TestClubCollector_ScoreboardEnrichesScheduleEntry(t *testing.T) {
	t.Parallel()

	mux := http.NewServeMux()
	mux.HandleFunc("/soccer/eng.1/teams/359/schedule", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, `{"events":[`+fixtureJSON("5", "2026-03-14T15:00Z", "359", `""`, "2", `""`, false)+`]}`)
	})
	mux.HandleFunc("/soccer/eng.1/scoreboard", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, `{"events":[`+fixtureJSON("5", "2026-03-14T15:00Z", "359", `"2"`, "2", `"2"`, true)+`]}`)
	})
	client := newTestClient(t, mux)

	leagues := []LeagueEndpoint{{Slug: "eng.1", Label: "Premier League"}}
	collector := NewClubCollector(client, clubA, leagues, leagues, nil)

	items, err := collector.Collect(context.Background(), testNow)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "2 - 2", items[0].Result)
	assert.Equal(t, event.OutcomeDraw, items[0].Outcome)
}

func TestCombatCollector_Collect(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/mma/ufc/scoreboard" {
			http.NotFound(w, r)
			return
		}
		writeJSON(w, `{"events":[{"id":"600","name":"UFC 331","date":"2026-04-11T22:00Z","competitions":[
			{"date":"2026-04-12T03:00Z","matchNumber":1,"cardSegment":{"name":"main"},
			 "competitors":[{"athlete":{"displayName":"Fighter A"}},{"athlete":{"displayName":"Fighter B"}}]}]}]}`)
	}))

	items, err := NewCombatCollector(client, event.SourceCombat, "ufc", "UFC").Collect(context.Background(), testNow)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "UFC-600", items[0].ID)
	assert.Equal(t, "Fighter A vs Fighter B", items[0].Fighters)
}
