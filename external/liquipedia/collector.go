package liquipedia

import (
	"context"
	"time"

	"github.com/riskibarqy/sports-calendar/internal/domain/event"
)

// Collector gathers one roster's matches from its wiki page.
type Collector struct {
	client *Client
	target RosterTarget
}

func NewCollector(client *Client, target RosterTarget) *Collector {
	if target.Source == "" {
		target.Source = event.SourceEsports
	}
	return &Collector{client: client, target: target}
}

func (c *Collector) Source() event.Source {
	return c.target.Source
}

func (c *Collector) Collect(ctx context.Context, now time.Time) ([]event.Event, error) {
	markup, err := c.client.FetchRosterPage(ctx, c.target.Wiki, c.target.Page)
	if err != nil {
		return nil, err
	}
	return NormalizeRosterMatches(markup, c.target, c.client.BaseURL(), now), nil
}
