package event

import (
	"sort"
	"time"
)

// SourceFailure records a source that contributed nothing in a cycle.
type SourceFailure struct {
	Source Source
	Reason string
}

// Feed is one aggregation cycle's output. It is never patched after creation.
type Feed struct {
	Events      []Event
	GeneratedAt time.Time
	Failures    []SourceFailure
}

// Degraded reports whether any source failed during the cycle.
func (f Feed) Degraded() bool {
	return len(f.Failures) > 0
}

// PublicEvents returns the redacted view of every event in feed order.
func (f Feed) PublicEvents() []Public {
	out := make([]Public, 0, len(f.Events))
	for _, item := range f.Events {
		out = append(out, item.Public())
	}
	return out
}

// Merge folds lists in order into one set keyed by ID; later entries win.
func Merge(lists ...[]Event) []Event {
	size := 0
	for _, list := range lists {
		size += len(list)
	}

	byID := make(map[string]Event, size)
	order := make([]string, 0, size)
	for _, list := range lists {
		for _, item := range list {
			if _, exists := byID[item.ID]; !exists {
				order = append(order, item.ID)
			}
			byID[item.ID] = item
		}
	}

	out := make([]Event, 0, len(order))
	for _, id := range order {
		out = append(out, byID[id])
	}
	return out
}

// Sort orders events by start time, then source priority, then ID.
func Sort(items []Event) {
	sort.SliceStable(items, func(i, j int) bool {
		if !items[i].StartTime.Equal(items[j].StartTime) {
			return items[i].StartTime.Before(items[j].StartTime)
		}
		if items[i].Source.Priority() != items[j].Source.Priority() {
			return items[i].Source.Priority() < items[j].Source.Priority()
		}
		return items[i].ID < items[j].ID
	})
}
