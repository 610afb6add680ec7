package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/riskibarqy/sports-calendar/internal/domain/event"
	"github.com/riskibarqy/sports-calendar/internal/platform/cache"
	"github.com/riskibarqy/sports-calendar/internal/platform/logging"
)

const feedCacheKey = "event-feed"

// PartialFailurePolicy decides whether a degraded feed may be served.
type PartialFailurePolicy string

const (
	PolicyTolerate PartialFailurePolicy = "tolerate"
	PolicyStrict   PartialFailurePolicy = "strict"
)

func ParsePartialFailurePolicy(v string) (PartialFailurePolicy, error) {
	switch PartialFailurePolicy(strings.ToLower(strings.TrimSpace(v))) {
	case PolicyTolerate, "":
		return PolicyTolerate, nil
	case PolicyStrict:
		return PolicyStrict, nil
	default:
		return "", fmt.Errorf("%w: unknown partial failure policy %q", ErrInvalidInput, v)
	}
}

type FeedAggregator interface {
	Aggregate(ctx context.Context) (event.Feed, error)
}

// SnapshotStore shares finished feeds between service instances.
type SnapshotStore interface {
	Load(ctx context.Context) (event.Feed, bool, error)
	Save(ctx context.Context, feed event.Feed, ttl time.Duration) error
}

type EventFeedServiceConfig struct {
	Aggregator FeedAggregator
	Cache      *cache.Store
	Snapshots  SnapshotStore
	Policy     PartialFailurePolicy
	Logger     *logging.Logger
	Observer   Observer
}

// EventFeedService memoizes aggregated feeds for the cache TTL.
type EventFeedService struct {
	aggregator FeedAggregator
	cache      *cache.Store
	snapshots  SnapshotStore
	policy     PartialFailurePolicy
	logger     *logging.Logger
	observer   Observer
}

func NewEventFeedService(cfg EventFeedServiceConfig) *EventFeedService {
	store := cfg.Cache
	if store == nil {
		store = cache.NewStore(time.Hour)
	}
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}
	var observer Observer = nopObserver{}
	if cfg.Observer != nil {
		observer = cfg.Observer
	}
	policy := cfg.Policy
	if policy == "" {
		policy = PolicyTolerate
	}

	return &EventFeedService{
		aggregator: cfg.Aggregator,
		cache:      store,
		snapshots:  cfg.Snapshots,
		policy:     policy,
		logger:     logger,
		observer:   observer,
	}
}

// GetEvents returns the memoized feed, aggregating at most once per TTL
// across concurrent callers.
func (s *EventFeedService) GetEvents(ctx context.Context) (event.Feed, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.EventFeedService.GetEvents")
	defer span.End()

	return s.get(ctx, s.loadCached)
}

// GetPublicEvents returns the memoized feed without internal-only fields.
func (s *EventFeedService) GetPublicEvents(ctx context.Context) ([]event.Public, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.EventFeedService.GetPublicEvents")
	defer span.End()

	feed, err := s.get(ctx, s.loadCached)
	if err != nil {
		return nil, err
	}
	return feed.PublicEvents(), nil
}

// Refresh drops the memoized feed and aggregates a new one, bypassing any shared snapshot.
func (s *EventFeedService) Refresh(ctx context.Context) (event.Feed, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.EventFeedService.Refresh")
	defer span.End()

	value, err := s.cache.Reload(ctx, feedCacheKey, func(ctx context.Context) (any, error) {
		return s.aggregate(context.WithoutCancel(ctx))
	})
	if err != nil {
		return event.Feed{}, err
	}
	return feedValue(value)
}

func (s *EventFeedService) get(ctx context.Context, loader func(context.Context) (any, error)) (event.Feed, error) {
	value, hit, err := s.cache.GetOrLoad(ctx, feedCacheKey, func(ctx context.Context) (any, error) {
		// The cycle outlives the request that started it; waiters share its result.
		return loader(context.WithoutCancel(ctx))
	})
	s.observer.ObserveCache(hit)
	if err != nil {
		return event.Feed{}, err
	}
	return feedValue(value)
}

func feedValue(value any) (event.Feed, error) {
	feed, ok := value.(event.Feed)
	if !ok {
		return event.Feed{}, fmt.Errorf("unexpected cached feed type %T", value)
	}
	return feed, nil
}

func (s *EventFeedService) loadCached(ctx context.Context) (any, error) {
	if s.snapshots != nil {
		feed, ok, err := s.snapshots.Load(ctx)
		switch {
		case err != nil:
			s.logger.WarnContext(ctx, "load feed snapshot failed", "error", err)
		case ok:
			s.logger.InfoContext(ctx, "event feed served from snapshot", "events", len(feed.Events), "generated_at", feed.GeneratedAt)
			return feed, nil
		}
	}
	return s.aggregate(ctx)
}

func (s *EventFeedService) aggregate(ctx context.Context) (any, error) {
	if s.aggregator == nil {
		return nil, fmt.Errorf("%w: no aggregator configured", ErrDependencyUnavailable)
	}

	feed, err := s.aggregator.Aggregate(ctx)
	if err != nil {
		return nil, fmt.Errorf("aggregate event feed: %w", err)
	}

	if feed.Degraded() {
		failed := failedSources(feed.Failures)
		if s.policy == PolicyStrict {
			return nil, fmt.Errorf("%w: event sources failed: %s", ErrDependencyUnavailable, failed)
		}
		s.logger.WarnContext(ctx, "serving degraded event feed", "failed_sources", failed, "events", len(feed.Events))
		return feed, nil
	}

	if s.snapshots != nil {
		if err := s.snapshots.Save(ctx, feed, s.cache.TTL()); err != nil {
			s.logger.WarnContext(ctx, "save feed snapshot failed", "error", err)
		}
	}
	return feed, nil
}

func failedSources(failures []event.SourceFailure) string {
	names := make([]string, 0, len(failures))
	for _, failure := range failures {
		names = append(names, failure.Source.String())
	}
	return strings.Join(names, ",")
}
