package domain

import "time"

// TeamMatch is one played match from a single team's perspective, the row
// shape both scrapers normalize into.
type TeamMatch struct {
	Source       Source    `json:"source"`
	Season       string    `json:"season"`
	Team         string    `json:"team"`
	Date         time.Time `json:"date"`
	Opponent     string    `json:"opponent"`
	Venue        Venue     `json:"venue"`
	Result       Result    `json:"result"`
	GoalsFor     int       `json:"goals_for"`
	GoalsAgainst int       `json:"goals_against"`

	// Understat expected-goals metrics; zero for sources that lack them.
	XG          float64 `json:"xg"`
	XGA         float64 `json:"xga"`
	NpXG        float64 `json:"npxg"`
	NpXGA       float64 `json:"npxga"`
	Deep        int     `json:"deep"`
	DeepAllowed int     `json:"deep_allowed"`
	XPts        float64 `json:"xpts"`

	// Extra per-category stats keyed "<category>_<column>", kept loose
	// because FBRef's column set shifts between seasons.
	Stats map[string]string `json:"stats,omitempty"`
}

type Venue string

const (
	VenueHome Venue = "h"
	VenueAway Venue = "a"
)

type Result string

const (
	ResultWin  Result = "W"
	ResultDraw Result = "D"
	ResultLoss Result = "L"
)

// ResultFromGoals classifies a scoreline.
func ResultFromGoals(goalsFor, goalsAgainst int) Result {
	switch {
	case goalsFor > goalsAgainst:
		return ResultWin
	case goalsFor < goalsAgainst:
		return ResultLoss
	default:
		return ResultDraw
	}
}

// Points returns the league points the match earned.
func (m *TeamMatch) Points() int {
	switch m.Result {
	case ResultWin:
		return 3
	case ResultDraw:
		return 1
	default:
		return 0
	}
}
