package state

import (
	"context"
	"fmt"

	"football/pipeline/internal/domain"

	"github.com/redis/go-redis/v9"
)

// StateManager tracks which teams have already been scraped for a
// source+season, so an interrupted run picks up where it stopped instead of
// re-fetching every page.
type StateManager interface {
	IsTeamDone(ctx context.Context, source domain.Source, season domain.Season, teamName string) (bool, error)
	MarkTeamDone(ctx context.Context, source domain.Source, season domain.Season, teamName string) error
	Reset(ctx context.Context, source domain.Source, season domain.Season) error
}

type redisStateManager struct {
	redisClient *redis.Client
	keyPrefix   string
}

func NewRedisStateManager(redisClient *redis.Client) StateManager {
	return &redisStateManager{
		redisClient: redisClient,
		keyPrefix:   "footstats:progress:",
	}
}

func (s *redisStateManager) key(source domain.Source, season domain.Season) string {
	return fmt.Sprintf("%s%s:%s", s.keyPrefix, source, season.Understat())
}

func (s *redisStateManager) IsTeamDone(ctx context.Context, source domain.Source, season domain.Season, teamName string) (bool, error) {
	done, err := s.redisClient.SIsMember(ctx, s.key(source, season), teamName).Result()
	if err != nil {
		return false, fmt.Errorf("failed to check progress for %s/%s: %w", source, teamName, err)
	}
	return done, nil
}

func (s *redisStateManager) MarkTeamDone(ctx context.Context, source domain.Source, season domain.Season, teamName string) error {
	if err := s.redisClient.SAdd(ctx, s.key(source, season), teamName).Err(); err != nil {
		return fmt.Errorf("failed to mark %s/%s done: %w", source, teamName, err)
	}
	return nil
}

func (s *redisStateManager) Reset(ctx context.Context, source domain.Source, season domain.Season) error {
	if err := s.redisClient.Del(ctx, s.key(source, season)).Err(); err != nil {
		return fmt.Errorf("failed to reset progress for %s: %w", source, err)
	}
	return nil
}
