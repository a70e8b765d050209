package fbref

import (
	"context"
	"fmt"

	"football/pipeline/internal/config"
	"football/pipeline/internal/domain"
	"football/pipeline/internal/fetcher"

	log "github.com/sirupsen/logrus"
)

type Client interface {
	ScrapeTeamSeason(ctx context.Context, team domain.Team, season domain.Season) ([]domain.TeamMatch, error)
}

type client struct {
	baseURL    string
	fetcher    fetcher.Fetcher
	parser     *matchLogParser
	categories []domain.StatCategory
}

func NewClient(cfg config.SiteConfig, f fetcher.Fetcher) Client {
	return &client{
		baseURL:    cfg.BaseURL,
		fetcher:    f,
		parser:     newMatchLogParser(),
		categories: domain.StatCategories,
	}
}

// matchLogURL builds the match-log URL for one stat category, e.g.
// /en/squads/e4a775cb/2025-2026/matchlogs/all_comps/shooting/Nottingham-Forest-Match-Logs-All-Competitions
func (c *client) matchLogURL(team domain.Team, season domain.Season, category domain.StatCategory) string {
	if category == domain.CategoryScoresFixtures {
		return fmt.Sprintf("%s/en/squads/%s/%s/matchlogs/all_comps/%s/%s-Scores-and-Fixtures-All-Competitions",
			c.baseURL, team.FBRefID, season.FBRef(), category.URLFragment(), team.FBRefName)
	}
	return fmt.Sprintf("%s/en/squads/%s/%s/matchlogs/all_comps/%s/%s-Match-Logs-All-Competitions",
		c.baseURL, team.FBRefID, season.FBRef(), category.URLFragment(), team.FBRefName)
}

// scrapeCategory fetches and parses the match log of a single stat category.
func (c *client) scrapeCategory(ctx context.Context, team domain.Team, season domain.Season, category domain.StatCategory) ([]matchLogRow, error) {
	url := c.matchLogURL(team, season, category)

	html, err := c.fetcher.Fetch(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s match log for %s: %w", category, team.Name, err)
	}

	rows, err := c.parser.ParseMatchLog(html)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s match log for %s: %w", category, team.Name, err)
	}

	log.Debugf("Scraped %d %s rows for %s", len(rows), category, team.Name)
	return rows, nil
}

// ScrapeTeamSeason fetches every stat category for a team and merges them
// into wide match rows, keyed on date and opponent. The scores & fixtures
// category is the base; a category that fails with a terminal fetch error is
// logged and skipped rather than failing the whole team.
func (c *client) ScrapeTeamSeason(ctx context.Context, team domain.Team, season domain.Season) ([]domain.TeamMatch, error) {
	base, err := c.scrapeCategory(ctx, team, season, domain.CategoryScoresFixtures)
	if err != nil {
		return nil, err
	}

	matches := make([]domain.TeamMatch, 0, len(base))
	index := make(map[string]int, len(base))
	for _, row := range base {
		match, ok := c.parser.ToTeamMatch(row, team, season)
		if !ok {
			continue
		}
		index[mergeKey(row["date"], row["opponent"])] = len(matches)
		matches = append(matches, match)
	}

	for _, category := range c.categories {
		if category == domain.CategoryScoresFixtures {
			continue
		}

		rows, err := c.scrapeCategory(ctx, team, season, category)
		if err != nil {
			if ctx.Err() != nil {
				return nil, err
			}
			log.Warnf("⚠️ Skipping category %s for %s: %v", category, team.Name, err)
			continue
		}

		merged := 0
		for _, row := range rows {
			i, ok := index[mergeKey(row["date"], row["opponent"])]
			if !ok {
				continue
			}
			for stat, value := range row {
				switch stat {
				case "date", "opponent", "venue", "result", "comp", "round", "goals_for", "goals_against", "day", "time":
				default:
					matches[i].Stats[category.String()+"_"+stat] = value
				}
			}
			merged++
		}
		log.Debugf("Merged %d/%d %s rows for %s", merged, len(rows), category, team.Name)
	}

	log.Infof("✅ Scraped %d FBRef matches for %s (%s)", len(matches), team.Name, season.FBRef())
	return matches, nil
}
