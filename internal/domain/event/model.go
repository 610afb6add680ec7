package event

import (
	"strings"
	"time"
)

// Source identifies one tracked entity.
type Source string

const (
	SourceClubA   Source = "club-a"
	SourceClubB   Source = "club-b"
	SourceCombat  Source = "ufc"
	SourceEsports Source = "esports-legacy"
)

var sourcePriority = map[Source]int{
	SourceClubA:   0,
	SourceClubB:   1,
	SourceCombat:  2,
	SourceEsports: 3,
}

// Sources returns every known source in priority order.
func Sources() []Source {
	return []Source{SourceClubA, SourceClubB, SourceCombat, SourceEsports}
}

// ParseSource accepts the canonical source names, case-insensitively.
func ParseSource(v string) (Source, bool) {
	s := Source(strings.ToLower(strings.TrimSpace(v)))
	_, ok := sourcePriority[s]
	return s, ok
}

// Priority ranks sources for tie-breaking; unknown sources sort last.
func (s Source) Priority() int {
	if p, ok := sourcePriority[s]; ok {
		return p
	}
	return len(sourcePriority)
}

func (s Source) String() string {
	return string(s)
}

// Outcome is the tracked side's result of a concluded event.
type Outcome string

const (
	OutcomeNone Outcome = ""
	OutcomeWin  Outcome = "WIN"
	OutcomeLoss Outcome = "LOSS"
	OutcomeDraw Outcome = "DRAW"
)

// CompareScores derives an outcome from our score against theirs.
func CompareScores(ours, theirs int) Outcome {
	switch {
	case ours > theirs:
		return OutcomeWin
	case ours < theirs:
		return OutcomeLoss
	default:
		return OutcomeDraw
	}
}

// Event is the canonical record every normalizer produces.
type Event struct {
	ID          string
	Source      Source
	Title       string
	Competition string
	Fighters    string
	StartTime   time.Time
	Result      string
	Outcome     Outcome

	Venue    string
	Location string
	Status   string
	Subtitle string
	URL      string
}

// StartTimeUTC formats the start time as an ISO-8601 UTC string.
func (e Event) StartTimeUTC() string {
	return e.StartTime.UTC().Format(time.RFC3339)
}

// Public is the redacted view handed to external consumers.
type Public struct {
	ID          string
	Source      Source
	Title       string
	Competition string
	Fighters    string
	StartTime   time.Time
	Result      string
	Outcome     Outcome
	URL         string
}

// Public strips venue, location, status and subtitle.
func (e Event) Public() Public {
	return Public{
		ID:          e.ID,
		Source:      e.Source,
		Title:       e.Title,
		Competition: e.Competition,
		Fighters:    e.Fighters,
		StartTime:   e.StartTime,
		Result:      e.Result,
		Outcome:     e.Outcome,
		URL:         e.URL,
	}
}

// BuildID joins a source and a provider key into a canonical identifier.
func BuildID(prefix, key string) string {
	return prefix + "-" + strings.TrimSpace(key)
}
