package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

const (
	DefaultESPNBaseURL       = "https://site.api.espn.com/apis/site/v2/sports"
	DefaultLiquipediaBaseURL = "https://liquipedia.net"
)

// Sources describes the tracked entities and where their data comes from.
type Sources struct {
	ESPNBaseURL       string         `yaml:"espnBaseURL" validate:"required,url"`
	LiquipediaBaseURL string         `yaml:"liquipediaBaseURL" validate:"required,url"`
	Clubs             []ClubSource   `yaml:"clubs" validate:"max=2,dive"`
	Combat            *CombatSource  `yaml:"combat" validate:"omitempty"`
	Esports           *EsportsSource `yaml:"esports" validate:"omitempty"`
}

type LeagueSource struct {
	Slug  string `yaml:"slug" validate:"required"`
	Label string `yaml:"label"`
}

type ClubSource struct {
	Source            string         `yaml:"source" validate:"required,oneof=club-a club-b"`
	Name              string         `yaml:"name" validate:"required"`
	TeamID            string         `yaml:"teamId" validate:"required,numeric"`
	ScheduleLeagues   []LeagueSource `yaml:"scheduleLeagues" validate:"dive"`
	ScoreboardLeagues []LeagueSource `yaml:"scoreboardLeagues" validate:"dive"`
}

type CombatSource struct {
	League      string `yaml:"league" validate:"required"`
	Competition string `yaml:"competition"`
}

type EsportsSource struct {
	Name string `yaml:"name" validate:"required"`
	Wiki string `yaml:"wiki" validate:"required"`
	Page string `yaml:"page" validate:"required"`
}

// DefaultSources tracks Arsenal, Inter Miami, the UFC and the Legacy CS roster.
func DefaultSources() Sources {
	return Sources{
		ESPNBaseURL:       DefaultESPNBaseURL,
		LiquipediaBaseURL: DefaultLiquipediaBaseURL,
		Clubs: []ClubSource{
			{
				Source: "club-a",
				Name:   "Arsenal",
				TeamID: "359",
				ScheduleLeagues: []LeagueSource{
					{Slug: "eng.1", Label: "Premier League"},
					{Slug: "uefa.champions", Label: "Champions League"},
				},
				ScoreboardLeagues: []LeagueSource{
					{Slug: "eng.1", Label: "Premier League"},
					{Slug: "uefa.champions", Label: "Champions League"},
					{Slug: "eng.fa", Label: "FA Cup"},
					{Slug: "eng.league_cup", Label: "Carabao Cup"},
				},
			},
			{
				Source: "club-b",
				Name:   "Inter Miami",
				TeamID: "20232",
				ScheduleLeagues: []LeagueSource{
					{Slug: "usa.1", Label: "MLS"},
					{Slug: "concacaf.champions", Label: "CONCACAF Champions Cup"},
				},
				ScoreboardLeagues: []LeagueSource{
					{Slug: "usa.1", Label: "MLS"},
					{Slug: "concacaf.leagues.cup", Label: "Leagues Cup"},
				},
			},
		},
		Combat:  &CombatSource{League: "ufc", Competition: "UFC"},
		Esports: &EsportsSource{Name: "Legacy", Wiki: "counterstrike", Page: "Legacy"},
	}
}

// LoadSources reads a YAML sources file; an empty path yields the defaults.
func LoadSources(path string) (Sources, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		out := DefaultSources()
		return out, validateSources(out)
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return Sources{}, fmt.Errorf("read SOURCES_CONFIG_PATH %q: %w", path, err)
	}

	out := Sources{
		ESPNBaseURL:       DefaultESPNBaseURL,
		LiquipediaBaseURL: DefaultLiquipediaBaseURL,
	}
	if err := yaml.Unmarshal(raw, &out); err != nil {
		return Sources{}, fmt.Errorf("parse SOURCES_CONFIG_PATH %q: %w", path, err)
	}
	if err := validateSources(out); err != nil {
		return Sources{}, err
	}
	return out, nil
}

func validateSources(s Sources) error {
	if err := validator.New().Struct(s); err != nil {
		return fmt.Errorf("invalid sources config: %w", err)
	}

	seen := make(map[string]struct{}, len(s.Clubs))
	for _, club := range s.Clubs {
		if _, dup := seen[club.Source]; dup {
			return fmt.Errorf("invalid sources config: club source %q declared twice", club.Source)
		}
		seen[club.Source] = struct{}{}
		if len(club.ScheduleLeagues) == 0 && len(club.ScoreboardLeagues) == 0 {
			return fmt.Errorf("invalid sources config: club %q needs at least one schedule or scoreboard league", club.Source)
		}
	}
	if len(s.Clubs) == 0 && s.Combat == nil && s.Esports == nil {
		return fmt.Errorf("invalid sources config: no sources configured")
	}
	return nil
}
