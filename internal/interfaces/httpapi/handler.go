package httpapi

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/riskibarqy/sports-calendar/internal/domain/event"
	"github.com/riskibarqy/sports-calendar/internal/platform/logging"
	"go.opentelemetry.io/otel/attribute"
)

// FeedService is the read side of the aggregated event feed.
type FeedService interface {
	GetEvents(ctx context.Context) (event.Feed, error)
	GetPublicEvents(ctx context.Context) ([]event.Public, error)
	Refresh(ctx context.Context) (event.Feed, error)
}

// CachePolicy drives the Cache-Control header on the public feed.
type CachePolicy struct {
	SharedMaxAge         time.Duration
	StaleWhileRevalidate time.Duration
}

func (p CachePolicy) header() string {
	return fmt.Sprintf("public, max-age=0, s-maxage=%d, stale-while-revalidate=%d",
		int(p.SharedMaxAge/time.Second),
		int(p.StaleWhileRevalidate/time.Second),
	)
}

type Handler struct {
	feed         FeedService
	cacheControl string
	logger       *logging.Logger
}

func NewHandler(feed FeedService, cache CachePolicy, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	if cache.SharedMaxAge <= 0 {
		cache.SharedMaxAge = 30 * time.Minute
	}
	if cache.StaleWhileRevalidate <= 0 {
		cache.StaleWhileRevalidate = 10 * time.Minute
	}

	return &Handler{
		feed:         feed,
		cacheControl: cache.header(),
		logger:       logger,
	}
}

func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.Healthz")
	defer span.End()

	writeSuccess(ctx, w, http.StatusOK, map[string]string{"status": "ok"})
}

// ListEvents serves the public feed as {"events":[...]}.
func (h *Handler) ListEvents(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListEvents", feedViewAttr("public"))
	defer span.End()

	items, err := h.feed.GetPublicEvents(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "list events failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	w.Header().Set("Cache-Control", h.cacheControl)
	writeJSON(ctx, w, http.StatusOK, eventsResponse{Events: toPublicEventDTOs(items)})
}

// ListFullEvents serves every field plus the cycle's failed sources.
func (h *Handler) ListFullEvents(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListFullEvents", feedViewAttr("full"))
	defer span.End()

	feed, err := h.feed.GetEvents(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "list full events failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	w.Header().Set("Cache-Control", "no-store")
	writeJSON(ctx, w, http.StatusOK, toFullFeedDTO(feed))
}

func (h *Handler) RunRefreshEventsJob(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RunRefreshEventsJob")
	defer span.End()

	feed, err := h.feed.Refresh(ctx)
	if err != nil {
		h.logger.WarnContext(ctx, "run refresh events job failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	span.SetAttributes(
		attribute.Int("feed.events", len(feed.Events)),
		attribute.Bool("feed.degraded", feed.Degraded()),
	)
	h.logger.InfoContext(ctx, "refresh events job completed",
		"events", len(feed.Events),
		"degraded", feed.Degraded(),
	)
	writeSuccess(ctx, w, http.StatusOK, refreshResultDTO{
		EventCount:      len(feed.Events),
		GeneratedAt:     feed.GeneratedAt.UTC().Format(time.RFC3339),
		DegradedSources: toSourceFailureDTOs(feed.Failures),
	})
}
