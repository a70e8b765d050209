package sink

import (
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"football/pipeline/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleMatches() []domain.TeamMatch {
	return []domain.TeamMatch{
		{
			Source:       domain.SourceUnderstat,
			Season:       "2025",
			Team:         "Nottingham Forest",
			Date:         time.Date(2025, 8, 17, 0, 0, 0, 0, time.UTC),
			Opponent:     "Chelsea",
			Venue:        domain.VenueHome,
			Result:       domain.ResultWin,
			GoalsFor:     2,
			GoalsAgainst: 1,
			XG:           1.54,
			XGA:          0.63,
		},
	}
}

func TestSaveMatches_CSV(t *testing.T) {
	dir := t.TempDir()
	s, err := NewLocal(dir, FormatCSV)
	require.NoError(t, err)

	path, err := s.SaveMatches(sampleMatches(), "understat_nottingham_forest_2025")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "understat_nottingham_forest_2025.csv"), path)

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	records, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 2)

	assert.Equal(t, csvHeader, records[0])
	assert.Equal(t, "understat", records[1][0])
	assert.Equal(t, "Nottingham Forest", records[1][2])
	assert.Equal(t, "2025-08-17", records[1][3])
	assert.Equal(t, "2", records[1][7])
	assert.Equal(t, "1.54", records[1][9])
}

func TestSaveMatches_JSON(t *testing.T) {
	dir := t.TempDir()
	s, err := NewLocal(dir, FormatJSON)
	require.NoError(t, err)

	path, err := s.SaveMatches(sampleMatches(), "matches")
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var decoded []domain.TeamMatch
	require.NoError(t, json.Unmarshal(data, &decoded))
	require.Len(t, decoded, 1)
	assert.Equal(t, "Chelsea", decoded[0].Opponent)
	assert.InDelta(t, 1.54, decoded[0].XG, 0.001)
}

func TestSaveMatches_CreatesOutputDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "data", "raw")
	s, err := NewLocal(dir, FormatCSV)
	require.NoError(t, err)

	_, err = s.SaveMatches(sampleMatches(), "matches")
	require.NoError(t, err)

	_, err = os.Stat(dir)
	assert.NoError(t, err)
}

func TestNewLocal_RejectsUnknownFormat(t *testing.T) {
	_, err := NewLocal(t.TempDir(), "parquet")
	assert.Error(t, err)
}
