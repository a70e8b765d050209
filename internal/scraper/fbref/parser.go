package fbref

import (
	"fmt"
	"strconv"
	"strings"

	"football/pipeline/internal/domain"
	"football/pipeline/internal/scraper"

	"github.com/PuerkitoBio/goquery"
	log "github.com/sirupsen/logrus"
)

// matchLogParser reads FBRef match-log tables. FBRef tags every cell with a
// data-stat attribute, which is far more stable across seasons than header
// text, so rows are keyed by those attributes rather than column position.
type matchLogParser struct{}

func newMatchLogParser() *matchLogParser {
	return &matchLogParser{}
}

// matchLogRow is one table row as a data-stat -> cell text map.
type matchLogRow map[string]string

// ParseMatchLog extracts the rows of the first matchlogs table in the page.
// FBRef repeats header rows mid-table and pads with spacer rows; anything
// without a date cell is dropped.
func (p *matchLogParser) ParseMatchLog(html string) ([]matchLogRow, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML: %w", err)
	}

	table := doc.Find("table[id^='matchlogs']").First()
	if table.Length() == 0 {
		return nil, fmt.Errorf("no matchlogs table found")
	}

	var rows []matchLogRow
	table.Find("tbody tr").Each(func(i int, tr *goquery.Selection) {
		row := matchLogRow{}
		tr.Find("th, td").Each(func(j int, cell *goquery.Selection) {
			stat, exists := cell.Attr("data-stat")
			if !exists || stat == "" {
				return
			}
			row[stat] = strings.TrimSpace(cell.Text())
		})

		date := row["date"]
		if date == "" || date == "Date" {
			return
		}
		rows = append(rows, row)
	})

	log.Debugf("Parsed %d match-log rows", len(rows))
	return rows, nil
}

// ToTeamMatch converts a scores & fixtures row into a match. Rows without a
// result are future fixtures and return false.
func (p *matchLogParser) ToTeamMatch(row matchLogRow, team domain.Team, season domain.Season) (domain.TeamMatch, bool) {
	result := row["result"]
	if result == "" {
		return domain.TeamMatch{}, false
	}

	date, ok := scraper.ParseDate(row["date"], "2006-01-02")
	if !ok {
		log.Warnf("⚠️ Skipping row with unparseable date %q for %s", row["date"], team.Name)
		return domain.TeamMatch{}, false
	}

	goalsFor := parseGoals(row["goals_for"])
	goalsAgainst := parseGoals(row["goals_against"])

	venue := domain.VenueHome
	if strings.EqualFold(row["venue"], "Away") {
		venue = domain.VenueAway
	}

	return domain.TeamMatch{
		Source:       domain.SourceFBRef,
		Season:       season.FBRef(),
		Team:         team.Name,
		Date:         date,
		Opponent:     scraper.CleanTeamName(row["opponent"]),
		Venue:        venue,
		Result:       domain.Result(result[:1]),
		GoalsFor:     goalsFor,
		GoalsAgainst: goalsAgainst,
		Stats:        map[string]string{},
	}, true
}

// parseGoals handles FBRef goal cells, which read "2" normally but
// "2 (4)" when a match went to a shoot-out.
func parseGoals(s string) int {
	if i := strings.IndexByte(s, '('); i > 0 {
		s = s[:i]
	}
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0
	}
	return n
}

// mergeKey identifies one fixture across category tables.
func mergeKey(date, opponent string) string {
	return date + "|" + scraper.CleanTeamName(opponent)
}
