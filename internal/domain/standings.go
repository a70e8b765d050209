package domain

// StandingsRow is one line of a computed league table.
type StandingsRow struct {
	Position       int     `json:"position"`
	Team           string  `json:"team"`
	Played         int     `json:"played"`
	Wins           int     `json:"wins"`
	Draws          int     `json:"draws"`
	Losses         int     `json:"losses"`
	GoalsFor       int     `json:"goals_for"`
	GoalsAgainst   int     `json:"goals_against"`
	GoalDifference int     `json:"goal_difference"`
	Points         int     `json:"points"`
	XG             float64 `json:"xg"`
	XGA            float64 `json:"xga"`
	XPts           float64 `json:"xpts"`
}
