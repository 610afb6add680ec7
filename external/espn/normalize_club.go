package espn

import (
	"fmt"
	"strings"
	"time"

	"github.com/riskibarqy/sports-calendar/internal/domain/event"
)

var providerTimeLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04Z07:00",
	"2006-01-02T15:04Z",
	"2006-01-02T15:04:05Z",
	"2006-01-02",
}

// ClubTarget names the tracked club inside league-wide payloads.
type ClubTarget struct {
	Source event.Source
	TeamID string
	Name   string
}

// NormalizeClubEvents maps schedule or scoreboard events for one club onto
// canonical events. Fixtures without a usable in-window timestamp are dropped.
func NormalizeClubEvents(payload EventsPayload, club ClubTarget, competition string, now time.Time) []event.Event {
	out := make([]event.Event, 0, len(payload.Events))
	fallbackCompetition := payloadLeagueName(payload)

	for _, raw := range payload.Events {
		var comp Competition
		if len(raw.Competitions) > 0 {
			comp = raw.Competitions[0]
		}

		startTime, ok := resolveTime(comp.Date, comp.StartDate, raw.Date)
		if !ok || !event.DefaultWindow.Contains(startTime, now) {
			continue
		}

		own, opponent := splitCompetitors(comp.Competitors, club.TeamID)

		qualifier := "vs"
		if own != nil && strings.EqualFold(own.HomeAway, "away") {
			qualifier = "@"
		}
		opponentName := "TBD"
		if opponent != nil {
			if name := competitorName(*opponent); name != "" {
				opponentName = name
			}
		}
		clubName := strings.TrimSpace(club.Name)
		if clubName == "" && own != nil {
			clubName = competitorName(*own)
		}
		if clubName == "" {
			clubName = string(club.Source)
		}

		key := strings.TrimSpace(raw.ID)
		if key == "" {
			key = startTime.Format(time.RFC3339)
		}

		item := event.Event{
			ID:          event.BuildID(string(club.Source), key),
			Source:      club.Source,
			Title:       fmt.Sprintf("%s %s %s", clubName, qualifier, opponentName),
			Competition: firstNonEmpty(competition, leagueName(raw.League), fallbackCompetition),
			StartTime:   startTime,
			Venue:       venueName(comp.Venue),
			Location:    venueLocation(comp.Venue),
			Subtitle:    noteHeadline(comp.Notes),
		}

		status := firstStatus(comp.Status, raw.Status)
		item.Status = statusText(status)
		if isConcluded(status) {
			item.Result, item.Outcome = clubResult(own, opponent, status)
		}

		out = append(out, item)
	}

	return out
}

// FilterTeamEvents keeps scoreboard entries whose participants include teamID.
func FilterTeamEvents(payload EventsPayload, teamID string) EventsPayload {
	filtered := EventsPayload{
		Team:    payload.Team,
		Leagues: payload.Leagues,
		Events:  make([]Event, 0, len(payload.Events)),
	}
	for _, raw := range payload.Events {
		for _, comp := range raw.Competitions {
			if own, _ := splitCompetitors(comp.Competitors, teamID); own != nil {
				filtered.Events = append(filtered.Events, raw)
				break
			}
		}
	}
	return filtered
}

func clubResult(own, opponent *Competitor, status *Status) (string, event.Outcome) {
	if own != nil && opponent != nil {
		ours, okOurs := own.Score.Int()
		theirs, okTheirs := opponent.Score.Int()
		if okOurs && okTheirs {
			return fmt.Sprintf("%d - %d", ours, theirs), event.CompareScores(ours, theirs)
		}
	}
	return statusDetail(status), event.OutcomeNone
}

func splitCompetitors(competitors []Competitor, teamID string) (own *Competitor, opponent *Competitor) {
	teamID = strings.TrimSpace(teamID)
	for i := range competitors {
		c := &competitors[i]
		if own == nil && teamID != "" && competitorID(*c) == teamID {
			own = c
			continue
		}
		if opponent == nil {
			opponent = c
		}
	}
	return own, opponent
}

func competitorID(c Competitor) string {
	if c.Team != nil && strings.TrimSpace(c.Team.ID) != "" {
		return strings.TrimSpace(c.Team.ID)
	}
	return strings.TrimSpace(c.ID)
}

func competitorName(c Competitor) string {
	if c.Athlete != nil {
		if name := firstNonEmpty(c.Athlete.DisplayName, c.Athlete.FullName, c.Athlete.ShortName); name != "" {
			return name
		}
	}
	if c.Team != nil {
		return firstNonEmpty(c.Team.DisplayName, c.Team.Name, c.Team.Location, c.Team.Abbreviation)
	}
	return ""
}

func resolveTime(candidates ...string) (time.Time, bool) {
	for _, candidate := range candidates {
		if t, ok := parseProviderTime(candidate); ok {
			return t, true
		}
	}
	return time.Time{}, false
}

func parseProviderTime(raw string) (time.Time, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, false
	}
	for _, layout := range providerTimeLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t.UTC(), true
		}
	}
	return time.Time{}, false
}

func firstStatus(candidates ...*Status) *Status {
	for _, s := range candidates {
		if s != nil {
			return s
		}
	}
	return nil
}

func isConcluded(status *Status) bool {
	if status == nil {
		return false
	}
	return status.Type.Completed || strings.EqualFold(status.Type.State, "post")
}

func statusText(status *Status) string {
	if status == nil {
		return ""
	}
	return firstNonEmpty(status.Type.Description, status.Type.ShortDetail, status.Type.Detail)
}

func statusDetail(status *Status) string {
	if status == nil {
		return ""
	}
	return firstNonEmpty(status.Type.Detail, status.Type.ShortDetail, status.Type.Description)
}

func venueName(v *Venue) string {
	if v == nil {
		return ""
	}
	return strings.TrimSpace(v.FullName)
}

func venueLocation(v *Venue) string {
	if v == nil {
		return ""
	}
	parts := make([]string, 0, 3)
	for _, part := range []string{v.Address.City, v.Address.State, v.Address.Country} {
		if part = strings.TrimSpace(part); part != "" {
			parts = append(parts, part)
		}
	}
	return strings.Join(parts, ", ")
}

func noteHeadline(notes []Note) string {
	for _, note := range notes {
		if h := strings.TrimSpace(note.Headline); h != "" {
			return h
		}
	}
	return ""
}

func leagueName(l *League) string {
	if l == nil {
		return ""
	}
	return firstNonEmpty(l.Name, l.Abbreviation)
}

func payloadLeagueName(payload EventsPayload) string {
	for i := range payload.Leagues {
		if name := leagueName(&payload.Leagues[i]); name != "" {
			return name
		}
	}
	return ""
}

func firstNonEmpty(values ...string) string {
	for _, value := range values {
		if v := strings.TrimSpace(value); v != "" {
			return v
		}
	}
	return ""
}
