package espn

import (
	"bytes"
	"strconv"
	"strings"

	sonic "github.com/bytedance/sonic"
)

// EventsPayload is the envelope shared by team schedule and league scoreboard responses.
type EventsPayload struct {
	Team    *Team    `json:"team,omitempty"`
	Leagues []League `json:"leagues,omitempty"`
	Events  []Event  `json:"events"`
}

type League struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Abbreviation string `json:"abbreviation"`
	Slug         string `json:"slug"`
}

type Event struct {
	ID           string        `json:"id"`
	Date         string        `json:"date"`
	Name         string        `json:"name"`
	ShortName    string        `json:"shortName"`
	Competitions []Competition `json:"competitions"`
	Status       *Status       `json:"status,omitempty"`
	League       *League       `json:"league,omitempty"`
}

type Competition struct {
	ID          string           `json:"id"`
	Date        string           `json:"date"`
	StartDate   string           `json:"startDate"`
	Competitors []Competitor     `json:"competitors"`
	Status      *Status          `json:"status,omitempty"`
	Venue       *Venue           `json:"venue,omitempty"`
	CardSegment *CardSegment     `json:"cardSegment,omitempty"`
	MatchNumber FlexInt          `json:"matchNumber"`
	Type        *CompetitionType `json:"type,omitempty"`
	Notes       []Note           `json:"notes,omitempty"`
}

type Competitor struct {
	ID       string   `json:"id"`
	HomeAway string   `json:"homeAway"`
	Winner   bool     `json:"winner"`
	Order    int      `json:"order"`
	Score    Score    `json:"score"`
	Team     *Team    `json:"team,omitempty"`
	Athlete  *Athlete `json:"athlete,omitempty"`
}

type Team struct {
	ID           string `json:"id"`
	Location     string `json:"location"`
	Name         string `json:"name"`
	Abbreviation string `json:"abbreviation"`
	DisplayName  string `json:"displayName"`
}

type Athlete struct {
	ID          string `json:"id"`
	FullName    string `json:"fullName"`
	DisplayName string `json:"displayName"`
	ShortName   string `json:"shortName"`
}

type Venue struct {
	FullName string  `json:"fullName"`
	Address  Address `json:"address"`
}

type Address struct {
	City    string `json:"city"`
	State   string `json:"state"`
	Country string `json:"country"`
}

type CardSegment struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

type CompetitionType struct {
	ID           string `json:"id"`
	Abbreviation string `json:"abbreviation"`
	Text         string `json:"text"`
}

type Note struct {
	Type     string `json:"type"`
	Headline string `json:"headline"`
}

type Status struct {
	DisplayClock string     `json:"displayClock"`
	Period       int        `json:"period"`
	Type         StatusType `json:"type"`
}

type StatusType struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	State       string `json:"state"`
	Completed   bool   `json:"completed"`
	Description string `json:"description"`
	Detail      string `json:"detail"`
	ShortDetail string `json:"shortDetail"`
}

// Score accepts the shapes the provider uses across endpoints: a bare string,
// a bare number or an object carrying value/displayValue.
type Score struct {
	Display string
	Value   *float64
	Set     bool
}

func (s *Score) UnmarshalJSON(raw []byte) error {
	raw = bytes.TrimSpace(raw)
	*s = Score{}
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return nil
	}

	switch raw[0] {
	case '"':
		var text string
		if err := sonic.Unmarshal(raw, &text); err != nil {
			return err
		}
		s.Display = strings.TrimSpace(text)
		s.Set = s.Display != ""
		if v, err := strconv.ParseFloat(s.Display, 64); err == nil {
			s.Value = &v
		}
	case '{':
		var obj struct {
			Value        *float64 `json:"value"`
			DisplayValue string   `json:"displayValue"`
		}
		if err := sonic.Unmarshal(raw, &obj); err != nil {
			return err
		}
		s.Display = strings.TrimSpace(obj.DisplayValue)
		s.Value = obj.Value
		if s.Value == nil && s.Display != "" {
			if v, err := strconv.ParseFloat(s.Display, 64); err == nil {
				s.Value = &v
			}
		}
		s.Set = s.Display != "" || s.Value != nil
	default:
		v, err := strconv.ParseFloat(string(raw), 64)
		if err != nil {
			return nil
		}
		s.Value = &v
		s.Display = strconv.FormatFloat(v, 'f', -1, 64)
		s.Set = true
	}
	return nil
}

// Int returns the score as a whole number when the provider reported one.
func (s Score) Int() (int, bool) {
	if s.Value == nil {
		return 0, false
	}
	return int(*s.Value), true
}

// FlexInt decodes numbers that are sometimes sent as strings. Zero means absent.
type FlexInt struct {
	Value int
	Set   bool
}

func (f *FlexInt) UnmarshalJSON(raw []byte) error {
	*f = FlexInt{}
	text := strings.Trim(strings.TrimSpace(string(raw)), `"`)
	if text == "" || text == "null" {
		return nil
	}
	v, err := strconv.Atoi(text)
	if err != nil {
		return nil
	}
	f.Value, f.Set = v, true
	return nil
}
