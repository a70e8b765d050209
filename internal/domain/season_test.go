package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSeason(t *testing.T) {
	s, err := ParseSeason("2025")
	require.NoError(t, err)
	assert.Equal(t, Season(2025), s)

	s, err = ParseSeason(" 2025-2026 ")
	require.NoError(t, err)
	assert.Equal(t, Season(2025), s)

	_, err = ParseSeason("current")
	assert.Error(t, err)
}

func TestSeasonRenderings(t *testing.T) {
	s := Season(2025)
	assert.Equal(t, "2025-2026", s.FBRef())
	assert.Equal(t, "2025", s.Understat())
}

func TestResultFromGoals(t *testing.T) {
	assert.Equal(t, ResultWin, ResultFromGoals(2, 1))
	assert.Equal(t, ResultLoss, ResultFromGoals(0, 3))
	assert.Equal(t, ResultDraw, ResultFromGoals(1, 1))
}

func TestPoints(t *testing.T) {
	assert.Equal(t, 3, (&TeamMatch{Result: ResultWin}).Points())
	assert.Equal(t, 1, (&TeamMatch{Result: ResultDraw}).Points())
	assert.Equal(t, 0, (&TeamMatch{Result: ResultLoss}).Points())
}

func TestFindTeam(t *testing.T) {
	team, ok := FindTeam("nottingham forest")
	require.True(t, ok)
	assert.Equal(t, "e4a775cb", team.FBRefID)
	assert.Equal(t, "Nottingham_Forest", team.UnderstatName)

	_, ok = FindTeam("Leeds United")
	assert.False(t, ok)
}

func TestFindTeamByUnderstatTitle(t *testing.T) {
	for title, want := range map[string]string{
		"Brighton":          "Brighton and Hove Albion",
		"Tottenham":         "Tottenham Hotspur",
		"West Ham":          "West Ham United",
		"Manchester City":   "Manchester City",
		"Nottingham Forest": "Nottingham Forest",
	} {
		team, ok := FindTeamByUnderstatTitle(title)
		require.True(t, ok, title)
		assert.Equal(t, want, team.Name)
	}

	_, ok := FindTeamByUnderstatTitle("Real Madrid")
	assert.False(t, ok)
}
