package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/riskibarqy/sports-calendar/internal/domain/event"
	"github.com/riskibarqy/sports-calendar/internal/platform/logging"
	"github.com/sourcegraph/conc"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

const (
	sourceOutcomeOK    = "ok"
	sourceOutcomeError = "error"
)

// SourceCollector fetches and normalizes one source for a cycle anchored at now.
type SourceCollector interface {
	Source() event.Source
	Collect(ctx context.Context, now time.Time) ([]event.Event, error)
}

type AggregatorConfig struct {
	Collectors []SourceCollector
	Clock      clockwork.Clock
	Logger     *logging.Logger
	Observer   Observer
}

// Aggregator runs every collector concurrently and merges their output into one feed.
type Aggregator struct {
	collectors []SourceCollector
	clock      clockwork.Clock
	logger     *logging.Logger
	observer   Observer
}

func NewAggregator(cfg AggregatorConfig) *Aggregator {
	clock := cfg.Clock
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}
	var observer Observer = nopObserver{}
	if cfg.Observer != nil {
		observer = cfg.Observer
	}

	return &Aggregator{
		collectors: append([]SourceCollector(nil), cfg.Collectors...),
		clock:      clock,
		logger:     logger,
		observer:   observer,
	}
}

type sourceResult struct {
	events []event.Event
	err    error
}

// Aggregate returns a partial feed when some sources fail; the failures are
// listed in Feed.Failures. It errors only when every source failed.
func (a *Aggregator) Aggregate(ctx context.Context) (event.Feed, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.Aggregator.Aggregate",
		attribute.Int("sources", len(a.collectors)),
	)
	defer span.End()

	started := a.clock.Now()
	now := started.UTC()

	results := make([]sourceResult, len(a.collectors))
	var wg conc.WaitGroup
	for i, collector := range a.collectors {
		i, collector := i, collector
		wg.Go(func() {
			begin := a.clock.Now()
			items, err := collector.Collect(ctx, now)
			elapsed := a.clock.Since(begin)

			source := collector.Source().String()
			if err != nil {
				a.observer.ObserveSource(source, sourceOutcomeError, 0, elapsed)
				a.logger.WarnContext(ctx, "event source failed", "source", source, "duration", elapsed, "error", err)
			} else {
				a.observer.ObserveSource(source, sourceOutcomeOK, len(items), elapsed)
				a.logger.DebugContext(ctx, "event source collected", "source", source, "events", len(items), "duration", elapsed)
			}
			results[i] = sourceResult{events: items, err: err}
		})
	}
	wg.Wait()

	lists := make([][]event.Event, 0, len(results))
	failures := make([]event.SourceFailure, 0)
	for i, result := range results {
		if result.err != nil {
			failures = append(failures, event.SourceFailure{
				Source: a.collectors[i].Source(),
				Reason: result.err.Error(),
			})
			continue
		}
		lists = append(lists, result.events)
	}

	elapsed := a.clock.Since(started)
	if len(a.collectors) > 0 && len(failures) == len(a.collectors) {
		a.observer.ObserveCycle(elapsed, true)
		span.SetStatus(codes.Error, "all sources failed")
		return event.Feed{}, fmt.Errorf("%w: %d sources", ErrAllSourcesFailed, len(failures))
	}

	items := event.Merge(lists...)
	event.Sort(items)

	feed := event.Feed{
		Events:      items,
		GeneratedAt: now,
		Failures:    failures,
	}
	a.observer.ObserveCycle(elapsed, feed.Degraded())
	span.SetAttributes(
		attribute.Int("events", len(items)),
		attribute.Int("failed_sources", len(failures)),
	)
	a.logger.InfoContext(ctx, "event feed aggregated",
		"events", len(items),
		"failed_sources", len(failures),
		"duration", elapsed,
	)

	return feed, nil
}
