package standings

import (
	"testing"
	"time"

	"football/pipeline/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func match(team string, gf, ga int, xg float64) domain.TeamMatch {
	return domain.TeamMatch{
		Source:       domain.SourceUnderstat,
		Season:       "2025",
		Team:         team,
		Date:         time.Date(2025, 8, 17, 0, 0, 0, 0, time.UTC),
		GoalsFor:     gf,
		GoalsAgainst: ga,
		Result:       domain.ResultFromGoals(gf, ga),
		XG:           xg,
	}
}

func TestCompute(t *testing.T) {
	matches := []domain.TeamMatch{
		match("Arsenal", 2, 0, 1.8),
		match("Arsenal", 1, 1, 1.2),
		match("Chelsea", 0, 2, 0.4),
		match("Chelsea", 1, 1, 0.9),
		match("Liverpool", 3, 1, 2.5),
		match("Liverpool", 2, 0, 1.7),
	}

	table := Compute(matches)
	require.Len(t, table, 3)

	// Liverpool 6 pts, Arsenal 4, Chelsea 1
	assert.Equal(t, "Liverpool", table[0].Team)
	assert.Equal(t, 1, table[0].Position)
	assert.Equal(t, 6, table[0].Points)
	assert.Equal(t, 2, table[0].Wins)
	assert.Equal(t, 4, table[0].GoalDifference)
	assert.InDelta(t, 4.2, table[0].XG, 0.001)

	assert.Equal(t, "Arsenal", table[1].Team)
	assert.Equal(t, 4, table[1].Points)
	assert.Equal(t, 1, table[1].Wins)
	assert.Equal(t, 1, table[1].Draws)

	assert.Equal(t, "Chelsea", table[2].Team)
	assert.Equal(t, 1, table[2].Points)
	assert.Equal(t, 1, table[2].Losses)
}

func TestCompute_TieBreakers(t *testing.T) {
	matches := []domain.TeamMatch{
		// all three on 3 points
		match("Everton", 1, 0, 0),  // GD +1, GF 1
		match("Fulham", 3, 1, 0),   // GD +2, GF 3
		match("Brighton", 2, 0, 0), // GD +2, GF 2
	}

	table := Compute(matches)
	require.Len(t, table, 3)

	assert.Equal(t, "Fulham", table[0].Team, "higher goals scored breaks equal goal difference")
	assert.Equal(t, "Brighton", table[1].Team)
	assert.Equal(t, "Everton", table[2].Team)
}

func TestCompute_Empty(t *testing.T) {
	assert.Empty(t, Compute(nil))
}
