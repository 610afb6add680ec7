package espn

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	crerr "github.com/cockroachdb/errors"
	"github.com/panjf2000/ants/v2"
	"github.com/riskibarqy/sports-calendar/internal/domain/event"
	"github.com/riskibarqy/sports-calendar/internal/platform/logging"
	"github.com/riskibarqy/sports-calendar/internal/platform/resilience"
)

const (
	DefaultBaseURL        = "https://site.api.espn.com/apis/site/v2/sports"
	defaultScoreboardSize = 200
	defaultMaxWorkers     = 4
)

// Fetcher is the subset of the fetch client the adapters need.
type Fetcher interface {
	FetchJSON(ctx context.Context, url string, target any) error
}

// LeagueEndpoint is one competition a club may appear in.
type LeagueEndpoint struct {
	Slug  string
	Label string
}

// LeaguePayload pairs a response with the endpoint that produced it.
type LeaguePayload struct {
	League  LeagueEndpoint
	Payload EventsPayload
}

type ClientConfig struct {
	Fetcher         Fetcher
	BaseURL         string
	ScoreboardLimit int
	MaxWorkers      int
	Logger          *logging.Logger
}

type Client struct {
	fetcher    Fetcher
	baseURL    string
	limit      int
	maxWorkers int
	logger     *logging.Logger
}

func NewClient(cfg ClientConfig) *Client {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}
	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	limit := cfg.ScoreboardLimit
	if limit <= 0 {
		limit = defaultScoreboardSize
	}
	workers := cfg.MaxWorkers
	if workers <= 0 {
		workers = defaultMaxWorkers
	}

	return &Client{
		fetcher:    cfg.Fetcher,
		baseURL:    baseURL,
		limit:      limit,
		maxWorkers: workers,
		logger:     logger,
	}
}

// FetchTeamSchedule tries each league in order and returns the first schedule
// with at least one event. When every schedule is empty the last successful
// response is returned; the last error surfaces only if every league failed.
func (c *Client) FetchTeamSchedule(ctx context.Context, teamID string, leagues []LeagueEndpoint) (LeaguePayload, error) {
	attempts := make([]resilience.Attempt[LeaguePayload], 0, len(leagues))
	for _, league := range leagues {
		league := league
		attempts = append(attempts, func(ctx context.Context) (LeaguePayload, error) {
			endpoint := c.scheduleURL(league.Slug, teamID)
			var payload EventsPayload
			if err := c.fetcher.FetchJSON(ctx, endpoint, &payload); err != nil {
				c.logger.WarnContext(ctx, "team schedule endpoint failed", "league", league.Slug, "team_id", teamID, "error", err)
				return LeaguePayload{}, crerr.Wrapf(err, "fetch schedule league=%s team=%s", league.Slug, teamID)
			}
			return LeaguePayload{League: league, Payload: payload}, nil
		})
	}

	return resilience.FirstAccepted(ctx, attempts, func(p LeaguePayload) bool {
		return len(p.Payload.Events) > 0
	})
}

// FetchTeamScoreboards queries every league scoreboard inside the default
// window and keeps entries involving teamID. Endpoint failures are tolerated
// while at least one endpoint answers.
func (c *Client) FetchTeamScoreboards(ctx context.Context, teamID string, leagues []LeagueEndpoint, now time.Time) ([]LeaguePayload, error) {
	if len(leagues) == 0 {
		return nil, nil
	}

	pool, err := ants.NewPool(minInt(c.maxWorkers, len(leagues)))
	if err != nil {
		return nil, fmt.Errorf("create scoreboard worker pool: %w", err)
	}
	defer pool.Release()

	var (
		mu        sync.Mutex
		collected = make([]LeaguePayload, len(leagues))
		succeeded = make([]bool, len(leagues))
		lastErr   error
		workers   sync.WaitGroup
	)

	for i, league := range leagues {
		i, league := i, league
		workers.Add(1)
		if err := pool.Submit(func() {
			defer workers.Done()

			endpoint := c.scoreboardURL("soccer", league.Slug, now)
			var payload EventsPayload
			if err := c.fetcher.FetchJSON(ctx, endpoint, &payload); err != nil {
				c.logger.WarnContext(ctx, "scoreboard endpoint failed", "league", league.Slug, "team_id", teamID, "error", err)
				mu.Lock()
				lastErr = crerr.Wrapf(err, "fetch scoreboard league=%s", league.Slug)
				mu.Unlock()
				return
			}

			mu.Lock()
			collected[i] = LeaguePayload{League: league, Payload: FilterTeamEvents(payload, teamID)}
			succeeded[i] = true
			mu.Unlock()
		}); err != nil {
			workers.Done()
			return nil, fmt.Errorf("submit scoreboard task: %w", err)
		}
	}
	workers.Wait()

	out := make([]LeaguePayload, 0, len(leagues))
	for i := range collected {
		if succeeded[i] {
			out = append(out, collected[i])
		}
	}
	if len(out) == 0 && lastErr != nil {
		return nil, lastErr
	}
	return out, nil
}

// FetchCombatScoreboard fetches the promotion scoreboard once for the default window.
func (c *Client) FetchCombatScoreboard(ctx context.Context, league string, now time.Time) (EventsPayload, error) {
	endpoint := c.scoreboardURL("mma", league, now)
	var payload EventsPayload
	if err := c.fetcher.FetchJSON(ctx, endpoint, &payload); err != nil {
		return EventsPayload{}, crerr.Wrapf(err, "fetch combat scoreboard league=%s", league)
	}
	return payload, nil
}

func (c *Client) scheduleURL(league, teamID string) string {
	return fmt.Sprintf("%s/soccer/%s/teams/%s/schedule", c.baseURL, url.PathEscape(league), url.PathEscape(teamID))
}

func (c *Client) scoreboardURL(sport, league string, now time.Time) string {
	query := url.Values{}
	query.Set("dates", event.DefaultWindow.DateRange(now))
	query.Set("limit", strconv.Itoa(c.limit))
	return fmt.Sprintf("%s/%s/%s/scoreboard?%s", c.baseURL, sport, url.PathEscape(league), query.Encode())
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
