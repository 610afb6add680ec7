package espn

import (
	"strings"
	"time"

	"github.com/riskibarqy/sports-calendar/internal/domain/event"
)

const (
	combatIDPrefix         = "UFC"
	missingMatchNumberRank = 100
)

// NormalizeCombatEvents collapses overlapping scoreboard entries by event id
// and maps each fight card onto one canonical event built from its main bout.
func NormalizeCombatEvents(payload EventsPayload, source event.Source, competition string, now time.Time) []event.Event {
	type card struct {
		raw          Event
		competitions []Competition
	}

	order := make([]string, 0, len(payload.Events))
	cards := make(map[string]*card, len(payload.Events))
	for _, raw := range payload.Events {
		id := strings.TrimSpace(raw.ID)
		if id == "" {
			continue
		}
		existing, ok := cards[id]
		if !ok {
			existing = &card{raw: raw}
			cards[id] = existing
			order = append(order, id)
		}
		existing.competitions = append(existing.competitions, raw.Competitions...)
	}

	out := make([]event.Event, 0, len(order))
	for _, id := range order {
		c := cards[id]
		main := selectMainBout(c.competitions)

		var startTime time.Time
		var ok bool
		if main != nil {
			startTime, ok = resolveTime(main.Date, main.StartDate, c.raw.Date)
		} else {
			startTime, ok = resolveTime(c.raw.Date)
		}
		if !ok || !event.DefaultWindow.Contains(startTime, now) {
			continue
		}

		item := event.Event{
			ID:          event.BuildID(combatIDPrefix, id),
			Source:      source,
			Competition: firstNonEmpty(competition, leagueName(c.raw.League), payloadLeagueName(payload)),
			StartTime:   startTime,
		}

		var status *Status
		if main != nil {
			item.Fighters = fighterNames(main.Competitors)
			item.Venue = venueName(main.Venue)
			item.Location = venueLocation(main.Venue)
			item.Subtitle = boutLabel(*main)
			status = firstStatus(main.Status, c.raw.Status)
		} else {
			status = c.raw.Status
		}
		if item.Venue == "" {
			for i := range c.competitions {
				if v := c.competitions[i].Venue; v != nil {
					item.Venue, item.Location = venueName(v), venueLocation(v)
					break
				}
			}
		}

		item.Title = firstNonEmpty(c.raw.Name, c.raw.ShortName, item.Fighters, "UFC Event")
		item.Status = statusText(status)
		if isConcluded(status) {
			item.Result = boutResult(main, status)
		}

		out = append(out, item)
	}

	return out
}

func selectMainBout(competitions []Competition) *Competition {
	if len(competitions) == 0 {
		return nil
	}

	candidates := make([]int, 0, len(competitions))
	for i := range competitions {
		if isMainCard(competitions[i]) {
			candidates = append(candidates, i)
		}
	}
	if len(candidates) == 0 {
		for i := range competitions {
			candidates = append(candidates, i)
		}
	}

	best := candidates[0]
	for _, idx := range candidates[1:] {
		if matchRank(competitions[idx]) < matchRank(competitions[best]) {
			best = idx
		}
	}
	return &competitions[best]
}

func isMainCard(c Competition) bool {
	if c.CardSegment == nil {
		return false
	}
	if strings.EqualFold(strings.TrimSpace(c.CardSegment.Name), "main") {
		return true
	}
	return strings.Contains(strings.ToLower(c.CardSegment.Description), "main card")
}

func matchRank(c Competition) int {
	if !c.MatchNumber.Set {
		return missingMatchNumberRank
	}
	return c.MatchNumber.Value
}

func fighterNames(competitors []Competitor) string {
	names := make([]string, 0, len(competitors))
	for _, c := range competitors {
		if name := competitorName(c); name != "" {
			names = append(names, name)
		}
	}
	return strings.Join(names, " vs ")
}

func boutLabel(c Competition) string {
	if c.Type != nil {
		if label := firstNonEmpty(c.Type.Text, c.Type.Abbreviation); label != "" {
			return label
		}
	}
	if c.CardSegment != nil {
		return strings.TrimSpace(c.CardSegment.Description)
	}
	return ""
}

func boutResult(main *Competition, status *Status) string {
	if main != nil {
		var winner, loser string
		for _, c := range main.Competitors {
			name := competitorName(c)
			if name == "" {
				continue
			}
			if c.Winner && winner == "" {
				winner = name
			} else if loser == "" {
				loser = name
			}
		}
		if winner != "" && loser != "" {
			return winner + " def. " + loser
		}
	}
	return statusDetail(status)
}
