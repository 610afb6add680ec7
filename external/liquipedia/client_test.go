package liquipedia

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	sonic "github.com/bytedance/sonic"
	"github.com/riskibarqy/sports-calendar/internal/domain/event"
	"github.com/riskibarqy/sports-calendar/internal/platform/fetch"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newWikiServer(t *testing.T, body func(r *http.Request) string) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(body(r)))
	}))
	t.Cleanup(server.Close)
	return server
}

func TestClient_FetchRosterPage_BuildsParseQuery(t *testing.T) {
	t.Parallel()

	queries := make(chan *http.Request, 1)
	server := newWikiServer(t, func(r *http.Request) string {
		queries <- r
		return `{"parse":{"title":"Legacy","pageid":1,"text":{"*":"<table></table>"}}}`
	})

	client := NewClient(fetch.NewClient(fetch.Config{HTTPClient: server.Client()}), server.URL)
	markup, err := client.FetchRosterPage(context.Background(), "counterstrike", "Legacy")
	require.NoError(t, err)
	assert.Equal(t, "<table></table>", markup)

	r := <-queries
	assert.Equal(t, "/counterstrike/api.php", r.URL.Path)
	q := r.URL.Query()
	assert.Equal(t, "parse", q.Get("action"))
	assert.Equal(t, "Legacy", q.Get("page"))
	assert.Equal(t, "text", q.Get("prop"))
	assert.Equal(t, "json", q.Get("format"))
	assert.Equal(t, "*", q.Get("origin"))
}

func TestClient_FetchRosterPage_MissingFragmentIsEmpty(t *testing.T) {
	t.Parallel()

	server := newWikiServer(t, func(*http.Request) string {
		return `{"error":{"code":"missingtitle","info":"The page you specified doesn't exist."}}`
	})

	client := NewClient(fetch.NewClient(fetch.Config{HTTPClient: server.Client()}), server.URL)
	markup, err := client.FetchRosterPage(context.Background(), "counterstrike", "Nobody")
	require.NoError(t, err)
	assert.Empty(t, markup)
}

func TestCollector_EndToEndWinningRow(t *testing.T) {
	t.Parallel()

	stamp := testNow.AddDate(0, 0, -10).Unix()
	markup := table(matchRow("recent-matches-bg-win", stamp, "2 : 0", "Heroic"))
	server := newWikiServer(t, func(*http.Request) string {
		raw, _ := sonic.Marshal(ParseResponse{Parse: &ParsedPage{Title: "Legacy", Text: map[string]string{"*": markup}}})
		return string(raw)
	})

	client := NewClient(fetch.NewClient(fetch.Config{HTTPClient: server.Client()}), server.URL)
	collector := NewCollector(client, testRoster)
	assert.Equal(t, event.SourceEsports, collector.Source())

	items, err := collector.Collect(context.Background(), testNow)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, event.OutcomeWin, items[0].Outcome)
	assert.Equal(t, server.URL+"/counterstrike/IEM_Katowice/2026", items[0].URL)
}
