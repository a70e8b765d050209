package understat

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
	ScrapeLeagueSeason(ctx context.Context, season domain.Season) ([]domain.TeamMatch, error)
}

type client struct {
	baseURL string
	fetcher fetcher.Fetcher
	parser  *pageParser
}

func NewClient(cfg config.SiteConfig, f fetcher.Fetcher) Client {
	return &client{
		baseURL: cfg.BaseURL,
		fetcher: f,
		parser:  newPageParser(),
	}
}

// ScrapeTeamSeason fetches a team page and converts its embedded match data.
func (c *client) ScrapeTeamSeason(ctx context.Context, team domain.Team, season domain.Season) ([]domain.TeamMatch, error) {
	url := fmt.Sprintf("%s/team/%s/%s", c.baseURL, team.UnderstatName, season.Understat())

	html, err := c.fetcher.Fetch(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch team page for %s: %w", team.Name, err)
	}

	payload, err := c.parser.ExtractVariable(html, "datesData")
	if err != nil {
		return nil, fmt.Errorf("no match data for %s: %w", team.Name, err)
	}

	matches, err := c.parser.ParseTeamDates(payload, team, season)
	if err != nil {
		return nil, fmt.Errorf("failed to parse match data for %s: %w", team.Name, err)
	}

	log.Debugf("Scraped %d Understat matches for %s (%s)", len(matches), team.Name, season.Understat())
	return matches, nil
}

// ScrapeLeagueSeason fetches the EPL league page, whose teamsData history
// carries the expected-goals metrics for every team in one request.
func (c *client) ScrapeLeagueSeason(ctx context.Context, season domain.Season) ([]domain.TeamMatch, error) {
	url := fmt.Sprintf("%s/league/EPL/%s", c.baseURL, season.Understat())

	html, err := c.fetcher.Fetch(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch league page: %w", err)
	}

	payload, err := c.parser.ExtractVariable(html, "teamsData")
	if err != nil {
		return nil, fmt.Errorf("no league data found: %w", err)
	}

	matches, err := c.parser.ParseLeagueTeams(payload, season)
	if err != nil {
		return nil, fmt.Errorf("failed to parse league data: %w", err)
	}

	log.Debugf("Scraped %d Understat league matches (%s)", len(matches), season.Understat())
	return matches, nil
}
