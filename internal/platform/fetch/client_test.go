package fetch

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/riskibarqy/sports-calendar/internal/platform/resilience"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingObserver struct {
	mu       sync.Mutex
	outcomes []string
}

func (o *recordingObserver) ObserveFetch(_ string, outcome string, _ time.Duration) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.outcomes = append(o.outcomes, outcome)
}

func TestClient_FetchJSON_SetsHeadersAndDecodes(t *testing.T) {
	t.Parallel()

	headers := make(chan http.Header, 1)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		headers <- r.Header.Clone()
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"name":"Club A","events":[{"id":"1"}]}`))
	}))
	defer server.Close()

	observer := &recordingObserver{}
	client := NewClient(Config{Provider: "espn", HTTPClient: server.Client(), UserAgent: "calendar-test/1.0", Observer: observer})

	var payload struct {
		Name   string `json:"name"`
		Events []struct {
			ID string `json:"id"`
		} `json:"events"`
	}
	require.NoError(t, client.FetchJSON(context.Background(), server.URL, &payload))

	assert.Equal(t, "Club A", payload.Name)
	require.Len(t, payload.Events, 1)
	got := <-headers
	assert.Equal(t, "calendar-test/1.0", got.Get("User-Agent"))
	assert.Equal(t, "application/json", got.Get("Accept"))
	assert.Equal(t, []string{"ok"}, observer.outcomes)
}

func TestClient_FetchMarkup_AcceptsHTML(t *testing.T) {
	t.Parallel()

	accepts := make(chan string, 1)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		accepts <- r.Header.Get("Accept")
		_, _ = w.Write([]byte("<table><tr class=\"match-row\"></tr></table>"))
	}))
	defer server.Close()

	client := NewClient(Config{HTTPClient: server.Client()})
	body, err := client.FetchMarkup(context.Background(), server.URL)
	require.NoError(t, err)

	assert.Contains(t, body, "match-row")
	assert.Contains(t, <-accepts, "text/html")
}

func TestClient_NonSuccessStatusIsUpstreamError(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte("no such league"))
	}))
	defer server.Close()

	client := NewClient(Config{HTTPClient: server.Client()})
	var target map[string]any
	err := client.FetchJSON(context.Background(), server.URL, &target)

	var upstream *UpstreamError
	require.True(t, errors.As(err, &upstream), "expected UpstreamError, got %v", err)
	assert.Equal(t, http.StatusNotFound, upstream.StatusCode)
	assert.Equal(t, "no such league", upstream.Body)
	assert.False(t, upstream.Retryable())
}

func TestClient_UnreachableHostIsTransportError(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	url := server.URL
	server.Close()

	client := NewClient(Config{Timeout: time.Second})
	_, err := client.FetchMarkup(context.Background(), url)

	var transport *TransportError
	require.True(t, errors.As(err, &transport), "expected TransportError, got %v", err)
	assert.Equal(t, url, transport.URL)
}

func TestClient_UndecodableJSONIsParseError(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("<html>maintenance</html>"))
	}))
	defer server.Close()

	client := NewClient(Config{HTTPClient: server.Client()})
	var target map[string]any
	err := client.FetchJSON(context.Background(), server.URL, &target)

	var parseErr *ParseError
	require.True(t, errors.As(err, &parseErr), "expected ParseError, got %v", err)
}

func TestClient_CircuitOpensAfterRepeatedServerErrors(t *testing.T) {
	t.Parallel()

	var hits int
	var mu sync.Mutex
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		mu.Lock()
		hits++
		mu.Unlock()
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	client := NewClient(Config{
		HTTPClient: server.Client(),
		CircuitBreaker: resilience.CircuitBreakerConfig{
			Enabled:          true,
			FailureThreshold: 2,
			OpenTimeout:      time.Minute,
			HalfOpenMaxReq:   1,
		},
	})

	for i := 0; i < 2; i++ {
		_, err := client.FetchMarkup(context.Background(), server.URL)
		var upstream *UpstreamError
		require.True(t, errors.As(err, &upstream))
	}

	_, err := client.FetchMarkup(context.Background(), server.URL)
	var transport *TransportError
	require.True(t, errors.As(err, &transport))
	assert.ErrorIs(t, err, resilience.ErrCircuitOpen)

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, 2, hits)
}
