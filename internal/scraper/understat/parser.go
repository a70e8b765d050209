package understat

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"football/pipeline/internal/domain"
	"football/pipeline/internal/scraper"

	log "github.com/sirupsen/logrus"
)

// Understat does not serve data as markup: each page embeds JavaScript
// variables of the form
//
//	var datesData = JSON.parse('\x5B\x7B...');
//
// where the payload is a single-quoted string full of \xNN escapes. The
// parser locates the variable, unescapes the payload and decodes the JSON.
type pageParser struct{}

func newPageParser() *pageParser {
	return &pageParser{}
}

// ExtractVariable returns the decoded JSON payload of a script variable.
func (p *pageParser) ExtractVariable(html, name string) ([]byte, error) {
	pattern := regexp.MustCompile(`(?s)var\s+` + regexp.QuoteMeta(name) + `\s*=\s*JSON\.parse\('(.*?)'\)`)
	matches := pattern.FindStringSubmatch(html)
	if len(matches) < 2 {
		return nil, fmt.Errorf("variable %s not found in page", name)
	}
	return unescapeJS(matches[1]), nil
}

// unescapeJS resolves the \xNN, \uNNNN and backslash escapes Understat uses
// inside the single-quoted JSON string.
func unescapeJS(s string) []byte {
	out := make([]byte, 0, len(s))
	for i := 0; i < len(s); {
		if s[i] != '\\' || i+1 >= len(s) {
			out = append(out, s[i])
			i++
			continue
		}
		switch s[i+1] {
		case 'x':
			if i+4 <= len(s) {
				if v, err := strconv.ParseUint(s[i+2:i+4], 16, 8); err == nil {
					out = append(out, byte(v))
					i += 4
					continue
				}
			}
			out = append(out, s[i], s[i+1])
			i += 2
		case 'u':
			if i+6 <= len(s) {
				if v, err := strconv.ParseUint(s[i+2:i+6], 16, 32); err == nil {
					out = append(out, []byte(string(rune(v)))...)
					i += 6
					continue
				}
			}
			out = append(out, s[i], s[i+1])
			i += 2
		case '\'', '"', '\\', '/':
			out = append(out, s[i+1])
			i += 2
		default:
			out = append(out, s[i], s[i+1])
			i += 2
		}
	}
	return out
}

// teamDate mirrors one entry of the team page's datesData variable.
type teamDate struct {
	ID       string    `json:"id"`
	IsResult bool      `json:"isResult"`
	Side     string    `json:"side"`
	H        matchSide `json:"h"`
	A        matchSide `json:"a"`
	Goals    homeAway  `json:"goals"`
	XG       homeAway  `json:"xG"`
	Datetime string    `json:"datetime"`
	Result   string    `json:"result"`
}

type matchSide struct {
	ID         string `json:"id"`
	Title      string `json:"title"`
	ShortTitle string `json:"short_title"`
}

// num coerces Understat's numeric values, which appear as JSON numbers,
// quoted strings or null depending on the page and whether the match has
// been played.
type num float64

func (n *num) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	if s == "null" || s == "" {
		*n = 0
		return nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		*n = 0
		return nil
	}
	*n = num(f)
	return nil
}

// homeAway holds a per-side value.
type homeAway struct {
	H num `json:"h"`
	A num `json:"a"`
}

func (v homeAway) side(side string) float64 {
	if side == "a" {
		return float64(v.A)
	}
	return float64(v.H)
}

// ParseTeamDates converts the datesData payload of a team page into match
// rows for that team. Fixtures that have not been played yet are skipped.
func (p *pageParser) ParseTeamDates(payload []byte, team domain.Team, season domain.Season) ([]domain.TeamMatch, error) {
	var dates []teamDate
	if err := json.Unmarshal(payload, &dates); err != nil {
		return nil, fmt.Errorf("failed to decode datesData: %w", err)
	}

	matches := make([]domain.TeamMatch, 0, len(dates))
	for _, d := range dates {
		if !d.IsResult {
			continue
		}

		side := d.Side
		if side != "h" && side != "a" {
			// older pages omit side; infer it from the home team title
			if titleMatchesTeam(d.H.Title, team) {
				side = "h"
			} else {
				side = "a"
			}
		}

		opponentTitle := d.A.Title
		if side == "a" {
			opponentTitle = d.H.Title
		}

		date, ok := scraper.ParseDate(d.Datetime, "2006-01-02 15:04:05")
		if !ok {
			log.Warnf("⚠️ Skipping match %s: unparseable datetime %q", d.ID, d.Datetime)
			continue
		}

		goalsFor := int(d.Goals.side(side))
		goalsAgainst := int(d.Goals.side(other(side)))

		matches = append(matches, domain.TeamMatch{
			Source:       domain.SourceUnderstat,
			Season:       season.Understat(),
			Team:         team.Name,
			Date:         date,
			Opponent:     canonicalTeamName(opponentTitle),
			Venue:        domain.Venue(side),
			Result:       domain.ResultFromGoals(goalsFor, goalsAgainst),
			GoalsFor:     goalsFor,
			GoalsAgainst: goalsAgainst,
			XG:           d.XG.side(side),
			XGA:          d.XG.side(other(side)),
		})
	}

	return matches, nil
}

// historyEntry mirrors one entry of the league page's teamsData history,
// which carries the expected-goals metrics the team page lacks.
type historyEntry struct {
	HA          string `json:"h_a"`
	XG          num    `json:"xG"`
	XGA         num    `json:"xGA"`
	NpXG        num    `json:"npxG"`
	NpXGA       num    `json:"npxGA"`
	Deep        num    `json:"deep"`
	DeepAllowed num    `json:"deep_allowed"`
	Scored      num    `json:"scored"`
	Missed      num    `json:"missed"`
	XPts        num    `json:"xpts"`
	Result      string `json:"result"`
	Date        string `json:"date"`
	Pts         num    `json:"pts"`
}

type leagueTeam struct {
	ID      string         `json:"id"`
	Title   string         `json:"title"`
	History []historyEntry `json:"history"`
}

// ParseLeagueTeams converts the league page's teamsData payload into match
// rows for every team in the league.
func (p *pageParser) ParseLeagueTeams(payload []byte, season domain.Season) ([]domain.TeamMatch, error) {
	var teams map[string]leagueTeam
	if err := json.Unmarshal(payload, &teams); err != nil {
		return nil, fmt.Errorf("failed to decode teamsData: %w", err)
	}

	var matches []domain.TeamMatch
	for _, t := range teams {
		// the history key must be the canonical club name or the rows
		// never line up with the team-page rows already stored
		teamName := canonicalTeamName(t.Title)

		for _, h := range t.History {
			date, ok := scraper.ParseDate(h.Date, "2006-01-02 15:04:05")
			if !ok {
				date, ok = scraper.ParseDate(h.Date, "2006-01-02")
			}
			if !ok {
				log.Warnf("⚠️ Skipping history entry for %s: unparseable date %q", t.Title, h.Date)
				continue
			}

			goalsFor := int(h.Scored)
			goalsAgainst := int(h.Missed)

			matches = append(matches, domain.TeamMatch{
				Source:       domain.SourceUnderstat,
				Season:       season.Understat(),
				Team:         teamName,
				Date:         date,
				Venue:        domain.Venue(h.HA),
				Result:       domain.ResultFromGoals(goalsFor, goalsAgainst),
				GoalsFor:     goalsFor,
				GoalsAgainst: goalsAgainst,
				XG:           float64(h.XG),
				XGA:          float64(h.XGA),
				NpXG:         float64(h.NpXG),
				NpXGA:        float64(h.NpXGA),
				Deep:         int(h.Deep),
				DeepAllowed:  int(h.DeepAllowed),
				XPts:         float64(h.XPts),
			})
		}
	}

	return matches, nil
}

func other(side string) string {
	if side == "h" {
		return "a"
	}
	return "h"
}

// canonicalTeamName maps an Understat display title to the club's canonical
// name ("Brighton" -> "Brighton and Hove Albion"); titles outside the league
// table fall back to the cleaned title.
func canonicalTeamName(title string) string {
	if team, ok := domain.FindTeamByUnderstatTitle(scraper.CleanTeamName(title)); ok {
		return team.Name
	}
	return scraper.CleanTeamName(title)
}

func titleMatchesTeam(title string, team domain.Team) bool {
	title = scraper.CleanTeamName(title)
	return strings.EqualFold(title, team.UnderstatTitle()) ||
		strings.EqualFold(title, scraper.CleanTeamName(team.Name))
}
