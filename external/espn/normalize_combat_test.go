package espn

import (
	"testing"

	"github.com/riskibarqy/sports-calendar/internal/domain/event"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeCombatEvents_DedupAndMainCardSelection(t *testing.T) {
	t.Parallel()

	payload := decodePayload(t, `{"events":[
		{"id":"600041","name":"UFC Fight Night","date":"2026-03-22T00:00Z","competitions":[
			{"id":"a","date":"2026-03-21T22:00Z","matchNumber":1,"cardSegment":{"name":"prelims1","description":"Early Prelims"},
				"competitors":[{"athlete":{"displayName":"Prelim One"}},{"athlete":{"displayName":"Prelim Two"}}]},
			{"id":"b","date":"2026-03-22T02:00Z","matchNumber":12,"cardSegment":{"name":"main","description":"Main Card"},
				"type":{"text":"Lightweight"},
				"venue":{"fullName":"UFC APEX","address":{"city":"Las Vegas","state":"NV"}},
				"competitors":[{"athlete":{"displayName":"Main Twelve A"}},{"athlete":{"displayName":"Main Twelve B"}}]}
		]},
		{"id":"600041","name":"UFC Fight Night","date":"2026-03-22T00:00Z","competitions":[
			{"id":"c","date":"2026-03-22T03:00Z","matchNumber":"10","cardSegment":{"name":"main","description":"Main Card"},
				"type":{"text":"Welterweight"},
				"competitors":[{"athlete":{"displayName":"Main Ten A"}},{"athlete":{"displayName":"Main Ten B"}}]},
			{"id":"d","date":"2026-03-22T04:00Z","cardSegment":{"description":"main card"},
				"competitors":[{"athlete":{"displayName":"No Number A"}},{"athlete":{"displayName":"No Number B"}}]}
		]},
		{"name":"Missing id","date":"2026-03-22T00:00Z","competitions":[]}
	]}`)

	items := NormalizeCombatEvents(payload, event.SourceCombat, "UFC", testNow)
	require.Len(t, items, 1)

	got := items[0]
	assert.Equal(t, "UFC-600041", got.ID)
	assert.Equal(t, event.SourceCombat, got.Source)
	assert.Equal(t, "UFC Fight Night", got.Title)
	assert.Equal(t, "Main Ten A vs Main Ten B", got.Fighters)
	assert.Equal(t, "2026-03-22T03:00:00Z", got.StartTimeUTC())
	assert.Equal(t, "Welterweight", got.Subtitle)
	assert.Equal(t, "UFC APEX", got.Venue)
	assert.Equal(t, "Las Vegas, NV", got.Location)
}

func TestNormalizeCombatEvents_WithoutMainCardUsesLowestMatchNumber(t *testing.T) {
	t.Parallel()

	payload := decodePayload(t, `{"events":[{"id":"7","name":"UFC 330","date":"2026-04-01T00:00Z","competitions":[
		{"date":"2026-04-01T01:00Z","competitors":[{"athlete":{"displayName":"Missing"}}]},
		{"date":"2026-04-01T02:00Z","matchNumber":3,"competitors":[{"athlete":{"displayName":"Three A"}},{"athlete":{"displayName":"Three B"}}]}
	]}]}`)

	items := NormalizeCombatEvents(payload, event.SourceCombat, "UFC", testNow)
	require.Len(t, items, 1)
	assert.Equal(t, "Three A vs Three B", items[0].Fighters)
}

func TestNormalizeCombatEvents_ConcludedBoutResult(t *testing.T) {
	t.Parallel()

	payload := decodePayload(t, `{"events":[{"id":"8","name":"UFC 329","date":"2026-03-01T00:00Z","competitions":[
		{"date":"2026-03-01T04:00Z","matchNumber":1,"cardSegment":{"name":"main"},
			"status":{"type":{"state":"post","completed":true,"detail":"Final"}},
			"competitors":[{"winner":false,"athlete":{"displayName":"Loser"}},{"winner":true,"athlete":{"displayName":"Winner"}}]}
	]}]}`)

	items := NormalizeCombatEvents(payload, event.SourceCombat, "UFC", testNow)
	require.Len(t, items, 1)
	assert.Equal(t, "Winner def. Loser", items[0].Result)
	assert.Equal(t, event.OutcomeNone, items[0].Outcome)
}

func TestNormalizeCombatEvents_DropsOutOfWindowCards(t *testing.T) {
	t.Parallel()

	payload := decodePayload(t, `{"events":[{"id":"9","name":"UFC 300","date":"2025-01-01T00:00Z","competitions":[]}]}`)
	assert.Empty(t, NormalizeCombatEvents(payload, event.SourceCombat, "UFC", testNow))
}
