package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"football/pipeline/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type MatchRepository interface {
	SaveMatches(ctx context.Context, matches []domain.TeamMatch) error
	EnrichMatches(ctx context.Context, matches []domain.TeamMatch) error
	ListSeasonMatches(ctx context.Context, source domain.Source, season string) ([]domain.TeamMatch, error)
	SaveStandings(ctx context.Context, season string, rows []domain.StandingsRow) error
}

type matchRepository struct {
	db *pgxpool.Pool
}

func NewMatchRepository(db *pgxpool.Pool) MatchRepository {
	return &matchRepository{
		db: db,
	}
}

func (r *matchRepository) SaveMatches(ctx context.Context, matches []domain.TeamMatch) error {
	if len(matches) == 0 {
		return nil
	}

	batch := &pgx.Batch{}
	query := `
	INSERT INTO raw.team_matches
		(source, season, team, match_date, opponent, venue, result,
		 goals_for, goals_against, xg, xga, npxg, npxga, deep, deep_allowed, xpts, stats)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)
	ON CONFLICT (source, season, team, match_date, opponent)
	DO UPDATE SET venue = $6, result = $7, goals_for = $8, goals_against = $9,
		xg = $10, xga = $11, npxg = $12, npxga = $13, deep = $14,
		deep_allowed = $15, xpts = $16, stats = $17`

	for _, m := range matches {
		stats, err := json.Marshal(m.Stats)
		if err != nil {
			return fmt.Errorf("failed to serialize stats for %s vs %s: %w", m.Team, m.Opponent, err)
		}
		batch.Queue(query,
			m.Source.String(), m.Season, m.Team, m.Date, m.Opponent,
			string(m.Venue), string(m.Result), m.GoalsFor, m.GoalsAgainst,
			m.XG, m.XGA, m.NpXG, m.NpXGA, m.Deep, m.DeepAllowed, m.XPts, stats)
	}

	if err := r.db.SendBatch(ctx, batch).Close(); err != nil {
		return fmt.Errorf("failed to save %d matches: %w", len(matches), err)
	}

	return nil
}

// EnrichMatches updates the expected-goals metric columns of rows that were
// originally saved from a source lacking them. Rows are matched on
// source+season+team+date; the league page carries no opponent, so the
// opponent column is left alone.
func (r *matchRepository) EnrichMatches(ctx context.Context, matches []domain.TeamMatch) error {
	if len(matches) == 0 {
		return nil
	}

	batch := &pgx.Batch{}
	query := `
	UPDATE raw.team_matches
	SET xg = $5, xga = $6, npxg = $7, npxga = $8,
		deep = $9, deep_allowed = $10, xpts = $11
	WHERE source = $1 AND season = $2 AND team = $3 AND match_date = $4::date`

	for _, m := range matches {
		batch.Queue(query,
			m.Source.String(), m.Season, m.Team, m.Date,
			m.XG, m.XGA, m.NpXG, m.NpXGA, m.Deep, m.DeepAllowed, m.XPts)
	}

	if err := r.db.SendBatch(ctx, batch).Close(); err != nil {
		return fmt.Errorf("failed to enrich %d matches: %w", len(matches), err)
	}

	return nil
}

func (r *matchRepository) ListSeasonMatches(ctx context.Context, source domain.Source, season string) ([]domain.TeamMatch, error) {
	query := `
	SELECT season, team, match_date, opponent, venue, result,
		goals_for, goals_against, xg, xga, npxg, npxga, deep, deep_allowed, xpts
	FROM raw.team_matches
	WHERE source = $1 AND season = $2
	ORDER BY team, match_date`

	rows, err := r.db.Query(ctx, query, source.String(), season)
	if err != nil {
		return nil, fmt.Errorf("failed to list matches for %s/%s: %w", source, season, err)
	}
	defer rows.Close()

	var matches []domain.TeamMatch
	for rows.Next() {
		m := domain.TeamMatch{Source: source}
		var venue, result string
		if err := rows.Scan(&m.Season, &m.Team, &m.Date, &m.Opponent, &venue, &result,
			&m.GoalsFor, &m.GoalsAgainst, &m.XG, &m.XGA, &m.NpXG, &m.NpXGA,
			&m.Deep, &m.DeepAllowed, &m.XPts); err != nil {
			return nil, fmt.Errorf("failed to scan match row: %w", err)
		}
		m.Venue = domain.Venue(venue)
		m.Result = domain.Result(result)
		matches = append(matches, m)
	}

	return matches, rows.Err()
}

func (r *matchRepository) SaveStandings(ctx context.Context, season string, standings []domain.StandingsRow) error {
	batch := &pgx.Batch{}
	query := `
	INSERT INTO analytics.standings
		(season, position, team, played, wins, draws, losses,
		 goals_for, goals_against, goal_difference, points, xg, xga, xpts)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
	ON CONFLICT (season, team)
	DO UPDATE SET position = $2, played = $4, wins = $5, draws = $6, losses = $7,
		goals_for = $8, goals_against = $9, goal_difference = $10,
		points = $11, xg = $12, xga = $13, xpts = $14`

	for _, row := range standings {
		batch.Queue(query,
			season, row.Position, row.Team, row.Played, row.Wins, row.Draws, row.Losses,
			row.GoalsFor, row.GoalsAgainst, row.GoalDifference, row.Points,
			row.XG, row.XGA, row.XPts)
	}

	if err := r.db.SendBatch(ctx, batch).Close(); err != nil {
		return fmt.Errorf("failed to save standings: %w", err)
	}

	return nil
}
