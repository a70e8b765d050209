// Package sink writes scraped data to the local filesystem, the default
// destination when no database is configured.
package sink

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"football/pipeline/internal/domain"

	log "github.com/sirupsen/logrus"
)

const (
	FormatCSV  = "csv"
	FormatJSON = "json"
)

type Local struct {
	outputDir string
	format    string
}

func NewLocal(outputDir, format string) (*Local, error) {
	switch format {
	case FormatCSV, FormatJSON:
	default:
		return nil, fmt.Errorf("unsupported output format %q: use csv or json", format)
	}
	return &Local{
		outputDir: outputDir,
		format:    format,
	}, nil
}

// SaveMatches writes the rows to <outputDir>/<name>.<format> and returns the
// path written.
func (s *Local) SaveMatches(matches []domain.TeamMatch, name string) (string, error) {
	if err := os.MkdirAll(s.outputDir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create output directory: %w", err)
	}

	path := filepath.Join(s.outputDir, name+"."+s.format)
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer f.Close()

	switch s.format {
	case FormatJSON:
		enc := json.NewEncoder(f)
		enc.SetIndent("", "  ")
		if err := enc.Encode(matches); err != nil {
			return "", fmt.Errorf("failed to write %s: %w", path, err)
		}
	case FormatCSV:
		if err := writeCSV(f, matches); err != nil {
			return "", fmt.Errorf("failed to write %s: %w", path, err)
		}
	}

	log.Infof("💾 Saved %d rows to %s", len(matches), path)
	return path, nil
}

var csvHeader = []string{
	"source", "season", "team", "date", "opponent", "venue", "result",
	"goals_for", "goals_against", "xg", "xga", "npxg", "npxga",
	"deep", "deep_allowed", "xpts",
}

func writeCSV(f *os.File, matches []domain.TeamMatch) error {
	w := csv.NewWriter(f)

	if err := w.Write(csvHeader); err != nil {
		return err
	}

	for _, m := range matches {
		record := []string{
			m.Source.String(),
			m.Season,
			m.Team,
			m.Date.Format("2006-01-02"),
			m.Opponent,
			string(m.Venue),
			string(m.Result),
			strconv.Itoa(m.GoalsFor),
			strconv.Itoa(m.GoalsAgainst),
			formatFloat(m.XG),
			formatFloat(m.XGA),
			formatFloat(m.NpXG),
			formatFloat(m.NpXGA),
			strconv.Itoa(m.Deep),
			strconv.Itoa(m.DeepAllowed),
			formatFloat(m.XPts),
		}
		if err := w.Write(record); err != nil {
			return err
		}
	}

	w.Flush()
	return w.Error()
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
