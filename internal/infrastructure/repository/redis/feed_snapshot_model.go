package redis

import (
	"time"

	"github.com/riskibarqy/sports-calendar/internal/domain/event"
)

const snapshotVersion = 1

type feedSnapshotModel struct {
	Version     int                    `json:"version"`
	GeneratedAt time.Time              `json:"generatedAt"`
	Events      []eventSnapshotModel   `json:"events"`
	Failures    []failureSnapshotModel `json:"failures,omitempty"`
}

type eventSnapshotModel struct {
	ID          string    `json:"id"`
	Source      string    `json:"source"`
	Title       string    `json:"title"`
	Competition string    `json:"competition,omitempty"`
	Fighters    string    `json:"fighters,omitempty"`
	StartTime   time.Time `json:"startTime"`
	Result      string    `json:"result,omitempty"`
	Outcome     string    `json:"outcome,omitempty"`
	Venue       string    `json:"venue,omitempty"`
	Location    string    `json:"location,omitempty"`
	Status      string    `json:"status,omitempty"`
	Subtitle    string    `json:"subtitle,omitempty"`
	URL         string    `json:"url,omitempty"`
}

type failureSnapshotModel struct {
	Source string `json:"source"`
	Reason string `json:"reason"`
}

func toFeedSnapshotModel(feed event.Feed) feedSnapshotModel {
	out := feedSnapshotModel{
		Version:     snapshotVersion,
		GeneratedAt: feed.GeneratedAt.UTC(),
		Events:      make([]eventSnapshotModel, 0, len(feed.Events)),
	}
	for _, item := range feed.Events {
		out.Events = append(out.Events, eventSnapshotModel{
			ID:          item.ID,
			Source:      string(item.Source),
			Title:       item.Title,
			Competition: item.Competition,
			Fighters:    item.Fighters,
			StartTime:   item.StartTime.UTC(),
			Result:      item.Result,
			Outcome:     string(item.Outcome),
			Venue:       item.Venue,
			Location:    item.Location,
			Status:      item.Status,
			Subtitle:    item.Subtitle,
			URL:         item.URL,
		})
	}
	for _, failure := range feed.Failures {
		out.Failures = append(out.Failures, failureSnapshotModel{
			Source: string(failure.Source),
			Reason: failure.Reason,
		})
	}
	return out
}

func (m feedSnapshotModel) toDomain() event.Feed {
	feed := event.Feed{
		GeneratedAt: m.GeneratedAt.UTC(),
		Events:      make([]event.Event, 0, len(m.Events)),
	}
	for _, row := range m.Events {
		feed.Events = append(feed.Events, event.Event{
			ID:          row.ID,
			Source:      event.Source(row.Source),
			Title:       row.Title,
			Competition: row.Competition,
			Fighters:    row.Fighters,
			StartTime:   row.StartTime.UTC(),
			Result:      row.Result,
			Outcome:     event.Outcome(row.Outcome),
			Venue:       row.Venue,
			Location:    row.Location,
			Status:      row.Status,
			Subtitle:    row.Subtitle,
			URL:         row.URL,
		})
	}
	for _, row := range m.Failures {
		feed.Failures = append(feed.Failures, event.SourceFailure{
			Source: event.Source(row.Source),
			Reason: row.Reason,
		})
	}
	return feed
}
