package app

import (
	"github.com/riskibarqy/sports-calendar/external/espn"
	"github.com/riskibarqy/sports-calendar/external/liquipedia"
	"github.com/riskibarqy/sports-calendar/internal/config"
	"github.com/riskibarqy/sports-calendar/internal/domain/event"
	"github.com/riskibarqy/sports-calendar/internal/platform/logging"
	"github.com/riskibarqy/sports-calendar/internal/usecase"
)

// buildCollectors registers collectors in source priority order.
func buildCollectors(
	sources config.Sources,
	espnClient *espn.Client,
	wikiClient *liquipedia.Client,
	logger *logging.Logger,
) []usecase.SourceCollector {
	out := make([]usecase.SourceCollector, 0, len(sources.Clubs)+2)

	for _, club := range sources.Clubs {
		source, ok := event.ParseSource(club.Source)
		if !ok {
			continue
		}
		out = append(out, espn.NewClubCollector(
			espnClient,
			espn.ClubTarget{Source: source, TeamID: club.TeamID, Name: club.Name},
			toLeagueEndpoints(club.ScheduleLeagues),
			toLeagueEndpoints(club.ScoreboardLeagues),
			logger,
		))
	}

	if sources.Combat != nil {
		out = append(out, espn.NewCombatCollector(espnClient, event.SourceCombat, sources.Combat.League, sources.Combat.Competition))
	}

	if sources.Esports != nil {
		out = append(out, liquipedia.NewCollector(wikiClient, liquipedia.RosterTarget{
			Source: event.SourceEsports,
			Wiki:   sources.Esports.Wiki,
			Page:   sources.Esports.Page,
			Name:   sources.Esports.Name,
		}))
	}

	return out
}

func toLeagueEndpoints(items []config.LeagueSource) []espn.LeagueEndpoint {
	out := make([]espn.LeagueEndpoint, 0, len(items))
	for _, item := range items {
		out = append(out, espn.LeagueEndpoint{Slug: item.Slug, Label: item.Label})
	}
	return out
}
