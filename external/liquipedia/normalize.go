package liquipedia

import (
	"net/url"
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/riskibarqy/sports-calendar/internal/domain/event"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

const (
	minMatchCells      = 8
	statusSeparator    = " · "
	placeholderTitle   = "Esports match"
	timestampAttribute = "data-timestamp"
)

// match table columns
const (
	cellTier       = 1
	cellType       = 2
	cellGame       = 3
	cellTournament = 5
	cellScore      = 6
	cellOpponent   = 7
)

// RosterTarget identifies the tracked roster page.
type RosterTarget struct {
	Source event.Source
	Wiki   string
	Page   string
	Name   string
}

// NormalizeRosterMatches extracts match rows from a rendered roster page.
// Rows without a usable timestamp, outside the legacy window or with too few
// cells are skipped.
func NormalizeRosterMatches(markup string, target RosterTarget, baseURL string, now time.Time) []event.Event {
	if strings.TrimSpace(markup) == "" {
		return nil
	}
	root, err := html.Parse(strings.NewReader(markup))
	if err != nil {
		return nil
	}

	base, _ := url.Parse(strings.TrimRight(baseURL, "/") + "/")
	source := target.Source
	if source == "" {
		source = event.SourceEsports
	}

	seen := make(map[string]struct{})
	out := make([]event.Event, 0, 16)
	for rowIndex, row := range matchRows(root) {
		stamp, ok := rowTimestamp(row)
		if !ok {
			continue
		}
		startTime := time.Unix(stamp, 0).UTC()
		if !event.LegacyWindow.Contains(startTime, now) {
			continue
		}

		cells := childElements(row, atom.Td)
		if len(cells) < minMatchCells {
			continue
		}

		tournament := nodeText(cells[cellTournament])
		opponent := nodeText(cells[cellOpponent])
		score := nodeText(cells[cellScore])

		key := matchKey(stamp, tournament, opponent, rowIndex)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}

		item := event.Event{
			ID:          event.BuildID(string(source), key),
			Source:      source,
			Title:       rosterTitle(target.Name, opponent, tournament),
			Competition: tournament,
			StartTime:   startTime,
			Outcome:     rowOutcome(row),
			Status:      joinNonEmpty(statusSeparator, nodeText(cells[cellTier]), nodeText(cells[cellType])),
			Subtitle:    nodeText(cells[cellGame]),
			URL:         resolveLink(base, cells[cellTournament]),
		}
		if containsDigit(score) {
			item.Result = score
		}

		out = append(out, item)
	}

	return out
}

// matchKey identifies a match for deduplication: the start timestamp when
// known, else tournament and opponent, else the row position. Never empty.
func matchKey(stamp int64, tournament, opponent string, rowIndex int) string {
	if stamp > 0 {
		return strconv.FormatInt(stamp, 10)
	}
	if key := slug(tournament + " " + opponent); key != "" {
		return key
	}
	return "row-" + strconv.Itoa(rowIndex)
}

func matchRows(root *html.Node) []*html.Node {
	var rows []*html.Node
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && n.DataAtom == atom.Tr && isMatchRow(n) {
			rows = append(rows, n)
		}
		for child := n.FirstChild; child != nil; child = child.NextSibling {
			walk(child)
		}
	}
	walk(root)
	return rows
}

func isMatchRow(n *html.Node) bool {
	for _, class := range classes(n) {
		if strings.HasPrefix(class, "recent-matches") ||
			strings.HasPrefix(class, "upcoming-matches") ||
			strings.Contains(class, "match-row") {
			return true
		}
	}
	return false
}

func rowTimestamp(row *html.Node) (int64, bool) {
	var found string
	var walk func(n *html.Node) bool
	walk = func(n *html.Node) bool {
		if n.Type == html.ElementNode {
			if v, ok := attr(n, timestampAttribute); ok && strings.TrimSpace(v) != "" {
				found = v
				return true
			}
		}
		for child := n.FirstChild; child != nil; child = child.NextSibling {
			if walk(child) {
				return true
			}
		}
		return false
	}
	if !walk(row) {
		return 0, false
	}

	stamp, err := strconv.ParseInt(strings.TrimSpace(found), 10, 64)
	if err != nil || stamp <= 0 {
		return 0, false
	}
	return stamp, true
}

func rowOutcome(row *html.Node) event.Outcome {
	for _, class := range classes(row) {
		switch {
		case strings.HasSuffix(class, "-win"):
			return event.OutcomeWin
		case strings.HasSuffix(class, "-lose"), strings.HasSuffix(class, "-loss"):
			return event.OutcomeLoss
		case strings.HasSuffix(class, "-draw"), strings.HasSuffix(class, "-tie"):
			return event.OutcomeDraw
		}
	}
	return event.OutcomeNone
}

func rosterTitle(roster, opponent, tournament string) string {
	if opponent != "" {
		if roster == "" {
			return "vs " + opponent
		}
		return roster + " vs " + opponent
	}
	if tournament != "" {
		return tournament
	}
	return placeholderTitle
}

func resolveLink(base *url.URL, cell *html.Node) string {
	var href string
	var walk func(n *html.Node) bool
	walk = func(n *html.Node) bool {
		if n.Type == html.ElementNode && n.DataAtom == atom.A {
			if v, ok := attr(n, "href"); ok && strings.TrimSpace(v) != "" {
				href = strings.TrimSpace(v)
				return true
			}
		}
		for child := n.FirstChild; child != nil; child = child.NextSibling {
			if walk(child) {
				return true
			}
		}
		return false
	}
	if !walk(cell) {
		return ""
	}

	ref, err := url.Parse(href)
	if err != nil {
		return ""
	}
	if base == nil {
		return ref.String()
	}
	return base.ResolveReference(ref).String()
}

func childElements(n *html.Node, tag atom.Atom) []*html.Node {
	out := make([]*html.Node, 0, 10)
	for child := n.FirstChild; child != nil; child = child.NextSibling {
		if child.Type == html.ElementNode && child.DataAtom == tag {
			out = append(out, child)
		}
	}
	return out
}

func classes(n *html.Node) []string {
	v, ok := attr(n, "class")
	if !ok {
		return nil
	}
	return strings.Fields(v)
}

func attr(n *html.Node, key string) (string, bool) {
	for _, a := range n.Attr {
		if a.Namespace == "" && a.Key == key {
			return a.Val, true
		}
	}
	return "", false
}

func nodeText(n *html.Node) string {
	var b strings.Builder
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
			b.WriteByte(' ')
		}
		for child := n.FirstChild; child != nil; child = child.NextSibling {
			walk(child)
		}
	}
	walk(n)
	return strings.Join(strings.Fields(b.String()), " ")
}

func joinNonEmpty(sep string, values ...string) string {
	parts := make([]string, 0, len(values))
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			parts = append(parts, v)
		}
	}
	return strings.Join(parts, sep)
}

func containsDigit(s string) bool {
	return strings.IndexFunc(s, unicode.IsDigit) >= 0
}

func slug(s string) string {
	var b strings.Builder
	lastDash := true
	for _, r := range strings.ToLower(s) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
			lastDash = false
			continue
		}
		if !lastDash {
			b.WriteByte('-')
			lastDash = true
		}
	}
	return strings.Trim(b.String(), "-")
}
