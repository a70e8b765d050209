// Package standings aggregates stored match rows into a league table, the
// same relational arithmetic the downstream SQL models apply: three points
// for a win, one for a draw, ordered by points, then goal difference, then
// goals scored.
package standings

import (
	"sort"

	"football/pipeline/internal/domain"
)

// Compute builds the league table from one team-perspective match row per
// team per match. Matches from cup competitions are expected to be filtered
// out by the caller if league-only standings are wanted.
func Compute(matches []domain.TeamMatch) []domain.StandingsRow {
	byTeam := make(map[string]*domain.StandingsRow)

	for i := range matches {
		m := &matches[i]
		row, ok := byTeam[m.Team]
		if !ok {
			row = &domain.StandingsRow{Team: m.Team}
			byTeam[m.Team] = row
		}

		row.Played++
		row.GoalsFor += m.GoalsFor
		row.GoalsAgainst += m.GoalsAgainst
		row.Points += m.Points()
		row.XG += m.XG
		row.XGA += m.XGA
		row.XPts += m.XPts

		switch m.Result {
		case domain.ResultWin:
			row.Wins++
		case domain.ResultDraw:
			row.Draws++
		case domain.ResultLoss:
			row.Losses++
		}
	}

	table := make([]domain.StandingsRow, 0, len(byTeam))
	for _, row := range byTeam {
		row.GoalDifference = row.GoalsFor - row.GoalsAgainst
		table = append(table, *row)
	}

	sort.Slice(table, func(i, j int) bool {
		a, b := table[i], table[j]
		if a.Points != b.Points {
			return a.Points > b.Points
		}
		if a.GoalDifference != b.GoalDifference {
			return a.GoalDifference > b.GoalDifference
		}
		if a.GoalsFor != b.GoalsFor {
			return a.GoalsFor > b.GoalsFor
		}
		return a.Team < b.Team
	})

	for i := range table {
		table[i].Position = i + 1
	}

	return table
}
