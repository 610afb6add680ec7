package espn

import (
	"context"
	"time"

	crerr "github.com/cockroachdb/errors"
	"github.com/riskibarqy/sports-calendar/internal/domain/event"
	"github.com/riskibarqy/sports-calendar/internal/platform/logging"
	"github.com/sourcegraph/conc"
)

// ClubCollector gathers one club's fixtures from its schedule and from league scoreboards.
type ClubCollector struct {
	client     *Client
	target     ClubTarget
	schedule   []LeagueEndpoint
	scoreboard []LeagueEndpoint
	logger     *logging.Logger
}

func NewClubCollector(client *Client, target ClubTarget, schedule, scoreboard []LeagueEndpoint, logger *logging.Logger) *ClubCollector {
	if logger == nil {
		logger = logging.Default()
	}
	return &ClubCollector{
		client:     client,
		target:     target,
		schedule:   schedule,
		scoreboard: scoreboard,
		logger:     logger.With("source", string(target.Source)),
	}
}

func (c *ClubCollector) Source() event.Source {
	return c.target.Source
}

// Collect runs the schedule and scoreboard fetches concurrently. Scoreboard
// events are merged last so they replace schedule entries with the same ID.
// It fails only when no configured fetch succeeded.
func (c *ClubCollector) Collect(ctx context.Context, now time.Time) ([]event.Event, error) {
	var (
		schedule      LeaguePayload
		scheduleErr   error
		scoreboards   []LeaguePayload
		scoreboardErr error
		wg            conc.WaitGroup
	)

	wg.Go(func() {
		if len(c.schedule) == 0 {
			return
		}
		schedule, scheduleErr = c.client.FetchTeamSchedule(ctx, c.target.TeamID, c.schedule)
	})
	wg.Go(func() {
		if len(c.scoreboard) == 0 {
			return
		}
		scoreboards, scoreboardErr = c.client.FetchTeamScoreboards(ctx, c.target.TeamID, c.scoreboard, now)
	})
	wg.Wait()

	scheduleDown := scheduleErr != nil || len(c.schedule) == 0
	scoreboardDown := scoreboardErr != nil || len(c.scoreboard) == 0
	if scheduleDown && scoreboardDown {
		if err := crerr.CombineErrors(scheduleErr, scoreboardErr); err != nil {
			return nil, err
		}
	}
	if scheduleErr != nil {
		c.logger.WarnContext(ctx, "club schedule unavailable, using scoreboards only", "error", scheduleErr)
	}
	if scoreboardErr != nil {
		c.logger.WarnContext(ctx, "club scoreboards unavailable, using schedule only", "error", scoreboardErr)
	}

	lists := make([][]event.Event, 0, 1+len(scoreboards))
	lists = append(lists, NormalizeClubEvents(schedule.Payload, c.target, schedule.League.Label, now))
	for _, board := range scoreboards {
		lists = append(lists, NormalizeClubEvents(board.Payload, c.target, board.League.Label, now))
	}
	return event.Merge(lists...), nil
}

// CombatCollector gathers one promotion's fight cards.
type CombatCollector struct {
	client      *Client
	source      event.Source
	league      string
	competition string
}

func NewCombatCollector(client *Client, source event.Source, league, competition string) *CombatCollector {
	return &CombatCollector{
		client:      client,
		source:      source,
		league:      league,
		competition: competition,
	}
}

func (c *CombatCollector) Source() event.Source {
	return c.source
}

func (c *CombatCollector) Collect(ctx context.Context, now time.Time) ([]event.Event, error) {
	payload, err := c.client.FetchCombatScoreboard(ctx, c.league, now)
	if err != nil {
		return nil, err
	}
	return NormalizeCombatEvents(payload, c.source, c.competition, now), nil
}
