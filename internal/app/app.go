package app

import (
	"context"
	"fmt"
	"net/http"

	crerr "github.com/cockroachdb/errors"
	"github.com/riskibarqy/sports-calendar/external/espn"
	"github.com/riskibarqy/sports-calendar/external/liquipedia"
	"github.com/riskibarqy/sports-calendar/internal/config"
	feedredis "github.com/riskibarqy/sports-calendar/internal/infrastructure/repository/redis"
	"github.com/riskibarqy/sports-calendar/internal/interfaces/httpapi"
	"github.com/riskibarqy/sports-calendar/internal/observability"
	"github.com/riskibarqy/sports-calendar/internal/platform/cache"
	"github.com/riskibarqy/sports-calendar/internal/platform/fetch"
	"github.com/riskibarqy/sports-calendar/internal/platform/logging"
	"github.com/riskibarqy/sports-calendar/internal/platform/resilience"
	"github.com/riskibarqy/sports-calendar/internal/usecase"
)

// App owns the HTTP server and every resource that must be released on shutdown.
type App struct {
	Server  *http.Server
	Feed    *usecase.EventFeedService
	closers []func(context.Context) error
}

func New(ctx context.Context, cfg config.Config, logger *logging.Logger) (*App, error) {
	if logger == nil {
		logger = logging.Default()
	}
	if cfg.HTTPAddr == "" {
		return nil, fmt.Errorf("http server addr cannot be empty")
	}

	policy, err := usecase.ParsePartialFailurePolicy(cfg.FeedPartialFailurePolicy)
	if err != nil {
		return nil, err
	}

	a := &App{}

	var metrics *observability.Metrics
	if cfg.MetricsEnabled {
		metrics = observability.NewMetrics()
	}

	breaker := resilience.CircuitBreakerConfig{
		Enabled:          cfg.FetchCircuitEnabled,
		FailureThreshold: cfg.FetchCircuitFailureCount,
		OpenTimeout:      cfg.FetchCircuitOpenTimeout,
		HalfOpenMaxReq:   cfg.FetchCircuitHalfOpenMaxReq,
	}
	newFetcher := func(provider string) *fetch.Client {
		fc := fetch.Config{
			Provider:       provider,
			UserAgent:      cfg.FetchUserAgent,
			Timeout:        cfg.FetchTimeout,
			RatePerSecond:  cfg.FetchRatePerSecond,
			RateBurst:      cfg.FetchRateBurst,
			CircuitBreaker: breaker,
			Logger:         logger,
		}
		if metrics != nil {
			fc.Observer = metrics
		}
		return fetch.NewClient(fc)
	}

	espnClient := espn.NewClient(espn.ClientConfig{
		Fetcher:         newFetcher("espn"),
		BaseURL:         cfg.Sources.ESPNBaseURL,
		ScoreboardLimit: cfg.ScoreboardLimit,
		MaxWorkers:      cfg.ScoreboardMaxWorkers,
		Logger:          logger,
	})
	wikiClient := liquipedia.NewClient(newFetcher("liquipedia"), cfg.Sources.LiquipediaBaseURL)

	aggCfg := usecase.AggregatorConfig{
		Collectors: buildCollectors(cfg.Sources, espnClient, wikiClient, logger),
		Logger:     logger,
	}
	feedCfg := usecase.EventFeedServiceConfig{
		Cache:  cache.NewStore(cfg.FeedCacheTTL),
		Policy: policy,
		Logger: logger,
	}
	if metrics != nil {
		aggCfg.Observer = metrics
		feedCfg.Observer = metrics
	}

	if cfg.FeedRedisURL != "" {
		client, err := feedredis.Connect(ctx, cfg.FeedRedisURL)
		if err != nil {
			return nil, fmt.Errorf("connect feed snapshot store: %w", err)
		}
		a.closers = append(a.closers, func(context.Context) error { return client.Close() })
		feedCfg.Snapshots = feedredis.NewFeedSnapshotRepository(client, cfg.FeedRedisKey)
		logger.Info("feed snapshot store enabled", "key", cfg.FeedRedisKey)
	}

	feedCfg.Aggregator = usecase.NewAggregator(aggCfg)
	a.Feed = usecase.NewEventFeedService(feedCfg)

	handler := httpapi.NewHandler(a.Feed, httpapi.CachePolicy{
		SharedMaxAge:         cfg.FeedHTTPCacheMaxAge,
		StaleWhileRevalidate: cfg.FeedHTTPStaleWhileRevalidate,
	}, logger)

	routerCfg := httpapi.RouterConfig{
		Handler:            handler,
		Logger:             logger,
		CORSAllowedOrigins: cfg.CORSAllowedOrigins,
		InternalJobToken:   cfg.InternalJobToken,
	}
	if metrics != nil {
		routerCfg.Metrics = metrics.Handler()
	}

	a.Server = &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      httpapi.NewRouter(routerCfg),
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	logger.Info("app configured",
		"sources", len(aggCfg.Collectors),
		"cache_ttl", cfg.FeedCacheTTL.String(),
		"partial_failure_policy", string(policy),
		"metrics_enabled", metrics != nil,
	)
	return a, nil
}

// Close releases resources in reverse acquisition order.
func (a *App) Close(ctx context.Context) error {
	var errs error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](ctx); err != nil {
			errs = crerr.CombineErrors(errs, err)
		}
	}
	return errs
}
