package fetch

import (
	"context"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"
	"github.com/jonboulle/clockwork"
	"github.com/riskibarqy/sports-calendar/internal/platform/logging"
	"github.com/riskibarqy/sports-calendar/internal/platform/resilience"
	"github.com/valyala/bytebufferpool"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"golang.org/x/time/rate"
)

const (
	DefaultUserAgent = "sports-calendar/1.0 (+https://github.com/riskibarqy/sports-calendar)"
	defaultTimeout   = 15 * time.Second
	maxBodyBytes     = 8 << 20
)

// Kind selects the Accept header and decoding path of a request.
type Kind string

const (
	KindJSON   Kind = "json"
	KindMarkup Kind = "markup"
)

func (k Kind) accept() string {
	if k == KindMarkup {
		return "text/html, application/xhtml+xml;q=0.9, */*;q=0.5"
	}
	return "application/json"
}

// Observer receives one observation per completed request.
type Observer interface {
	ObserveFetch(provider string, outcome string, elapsed time.Duration)
}

type Config struct {
	Provider       string
	HTTPClient     *http.Client
	UserAgent      string
	Timeout        time.Duration
	RatePerSecond  float64
	RateBurst      int
	CircuitBreaker resilience.CircuitBreakerConfig
	Clock          clockwork.Clock
	Logger         *logging.Logger
	Observer       Observer
}

// Client performs GET requests against one upstream provider.
type Client struct {
	provider   string
	httpClient *http.Client
	userAgent  string
	limiter    *rate.Limiter
	breaker    *resilience.CircuitBreaker
	clock      clockwork.Clock
	logger     *logging.Logger
	observer   Observer
	flight     resilience.SingleFlight[[]byte]
}

func NewClient(cfg Config) *Client {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}
	clock := cfg.Clock
	if clock == nil {
		clock = clockwork.NewRealClock()
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{
			Timeout:   timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		}
	}

	userAgent := strings.TrimSpace(cfg.UserAgent)
	if userAgent == "" {
		userAgent = DefaultUserAgent
	}

	var limiter *rate.Limiter
	if cfg.RatePerSecond > 0 {
		burst := cfg.RateBurst
		if burst < 1 {
			burst = 1
		}
		limiter = rate.NewLimiter(rate.Limit(cfg.RatePerSecond), burst)
	}

	provider := strings.TrimSpace(cfg.Provider)
	if provider == "" {
		provider = "upstream"
	}

	return &Client{
		provider:   provider,
		httpClient: httpClient,
		userAgent:  userAgent,
		limiter:    limiter,
		breaker:    resilience.NewCircuitBreakerFromConfig(cfg.CircuitBreaker, clock),
		clock:      clock,
		logger:     logger.With("provider", provider),
		observer:   cfg.Observer,
	}
}

func (c *Client) Provider() string {
	return c.provider
}

// FetchJSON decodes the body at url into target.
func (c *Client) FetchJSON(ctx context.Context, url string, target any) error {
	raw, err := c.get(ctx, KindJSON, url)
	if err != nil {
		return err
	}
	if err := sonic.Unmarshal(raw, target); err != nil {
		return &ParseError{URL: url, Err: crerr.WithStack(err)}
	}
	return nil
}

// FetchMarkup returns the body at url as text.
func (c *Client) FetchMarkup(ctx context.Context, url string) (string, error) {
	raw, err := c.get(ctx, KindMarkup, url)
	if err != nil {
		return "", err
	}
	return string(raw), nil
}

func (c *Client) get(ctx context.Context, kind Kind, url string) ([]byte, error) {
	if err := c.breaker.Allow(); err != nil {
		c.logger.WarnContext(ctx, "circuit breaker rejected request", "url", url, "state", c.breaker.State())
		c.observe("circuit_open", 0)
		return nil, &TransportError{URL: url, Err: err}
	}

	raw, err, _ := c.flight.Do(string(kind)+" "+url, func() ([]byte, error) {
		started := c.clock.Now()
		body, reqErr := c.execute(ctx, kind, url)
		c.observe(outcomeLabel(reqErr), c.clock.Since(started))
		if isCircuitFailure(reqErr) {
			c.breaker.RecordFailure()
		} else {
			c.breaker.RecordSuccess()
		}
		return body, reqErr
	})
	if err != nil {
		c.logger.WarnContext(ctx, "upstream request failed", "url", url, "kind", string(kind), "error", err)
		return nil, err
	}
	return raw, nil
}

func (c *Client) execute(ctx context.Context, kind Kind, url string) ([]byte, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, &TransportError{URL: url, Err: crerr.Wrap(err, "wait for rate limiter")}
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, &TransportError{URL: url, Err: crerr.Wrap(err, "build request")}
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", kind.accept())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &TransportError{URL: url, Err: crerr.Wrap(err, "send request")}
	}
	defer resp.Body.Close()

	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)
	if _, err := buf.ReadFrom(io.LimitReader(resp.Body, maxBodyBytes)); err != nil {
		return nil, &TransportError{URL: url, Err: crerr.Wrap(err, "read response body")}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &UpstreamError{
			URL:        url,
			StatusCode: resp.StatusCode,
			Body:       abbreviateBody(buf.B),
		}
	}

	// buf returns to the pool; waiters sharing this flight need their own copy.
	out := make([]byte, buf.Len())
	copy(out, buf.B)
	return out, nil
}

func (c *Client) observe(outcome string, elapsed time.Duration) {
	if c.observer == nil {
		return
	}
	c.observer.ObserveFetch(c.provider, outcome, elapsed)
}

func isCircuitFailure(err error) bool {
	if err == nil || crerr.Is(err, context.Canceled) {
		return false
	}
	var upstream *UpstreamError
	if crerr.As(err, &upstream) {
		return upstream.Retryable()
	}
	return true
}

func outcomeLabel(err error) string {
	if err == nil {
		return "ok"
	}
	var upstream *UpstreamError
	if crerr.As(err, &upstream) {
		return "status_" + strconv.Itoa(upstream.StatusCode)
	}
	return "transport_error"
}
