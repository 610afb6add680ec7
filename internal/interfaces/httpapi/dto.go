package httpapi

import (
	"time"

	"github.com/riskibarqy/sports-calendar/internal/domain/event"
)

type eventsResponse struct {
	Events []publicEventDTO `json:"events"`
}

type publicEventDTO struct {
	ID           string `json:"id"`
	Source       string `json:"source"`
	Title        string `json:"title"`
	Competition  string `json:"competition,omitempty"`
	Fighters     string `json:"fighters,omitempty"`
	StartTimeUTC string `json:"startTimeUTC"`
	Result       string `json:"result,omitempty"`
	Outcome      string `json:"outcome,omitempty"`
	URL          string `json:"url,omitempty"`
}

type fullEventDTO struct {
	ID           string `json:"id"`
	Source       string `json:"source"`
	Title        string `json:"title"`
	Competition  string `json:"competition,omitempty"`
	Fighters     string `json:"fighters,omitempty"`
	StartTimeUTC string `json:"startTimeUTC"`
	Result       string `json:"result,omitempty"`
	Outcome      string `json:"outcome,omitempty"`
	Venue        string `json:"venue,omitempty"`
	Location     string `json:"location,omitempty"`
	Status       string `json:"status,omitempty"`
	Subtitle     string `json:"subtitle,omitempty"`
	URL          string `json:"url,omitempty"`
}

type sourceFailureDTO struct {
	Source string `json:"source"`
	Reason string `json:"reason"`
}

type fullFeedDTO struct {
	Events          []fullEventDTO     `json:"events"`
	GeneratedAt     string             `json:"generatedAt"`
	DegradedSources []sourceFailureDTO `json:"degradedSources"`
}

type refreshResultDTO struct {
	EventCount      int                `json:"eventCount"`
	GeneratedAt     string             `json:"generatedAt"`
	DegradedSources []sourceFailureDTO `json:"degradedSources"`
}

func toPublicEventDTOs(items []event.Public) []publicEventDTO {
	out := make([]publicEventDTO, 0, len(items))
	for _, item := range items {
		out = append(out, publicEventDTO{
			ID:           item.ID,
			Source:       item.Source.String(),
			Title:        item.Title,
			Competition:  item.Competition,
			Fighters:     item.Fighters,
			StartTimeUTC: item.StartTime.UTC().Format(time.RFC3339),
			Result:       item.Result,
			Outcome:      string(item.Outcome),
			URL:          item.URL,
		})
	}
	return out
}

func toFullFeedDTO(feed event.Feed) fullFeedDTO {
	events := make([]fullEventDTO, 0, len(feed.Events))
	for _, item := range feed.Events {
		events = append(events, fullEventDTO{
			ID:           item.ID,
			Source:       item.Source.String(),
			Title:        item.Title,
			Competition:  item.Competition,
			Fighters:     item.Fighters,
			StartTimeUTC: item.StartTimeUTC(),
			Result:       item.Result,
			Outcome:      string(item.Outcome),
			Venue:        item.Venue,
			Location:     item.Location,
			Status:       item.Status,
			Subtitle:     item.Subtitle,
			URL:          item.URL,
		})
	}

	return fullFeedDTO{
		Events:          events,
		GeneratedAt:     feed.GeneratedAt.UTC().Format(time.RFC3339),
		DegradedSources: toSourceFailureDTOs(feed.Failures),
	}
}

func toSourceFailureDTOs(items []event.SourceFailure) []sourceFailureDTO {
	out := make([]sourceFailureDTO, 0, len(items))
	for _, item := range items {
		out = append(out, sourceFailureDTO{Source: item.Source.String(), Reason: item.Reason})
	}
	return out
}
