package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"football/pipeline/internal/config"
	"football/pipeline/internal/domain"
	"football/pipeline/internal/domain/task"
	"football/pipeline/internal/fetcher"
	"football/pipeline/internal/queue"
	"football/pipeline/internal/repository"
	"football/pipeline/internal/scraper/fbref"
	"football/pipeline/internal/scraper/understat"
	"football/pipeline/internal/sink"
	"football/pipeline/internal/standings"
	"football/pipeline/internal/state"

	"golang.org/x/sync/errgroup"

	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"
)

type Service struct {
	repository   repository.MatchRepository // nil when destination is local-only
	local        *sink.Local                // nil when destination is database-only
	fbref        fbref.Client
	understat    understat.Client
	queue        queue.Queue
	stateManager state.StateManager
	cfg          config.ScraperConfig
	groupName    string
	minIdleTime  time.Duration
}

func NewService(
	repo repository.MatchRepository,
	local *sink.Local,
	fbrefClient fbref.Client,
	understatClient understat.Client,
	q queue.Queue,
	stateManager state.StateManager,
	cfg config.ScraperConfig,
	groupName string,
	minIdleTime int,
) *Service {
	return &Service{
		repository:   repo,
		local:        local,
		fbref:        fbrefClient,
		understat:    understatClient,
		queue:        q,
		stateManager: stateManager,
		cfg:          cfg,
		groupName:    groupName,
		minIdleTime:  time.Duration(minIdleTime) * time.Second,
	}
}

func (s *Service) season() domain.Season {
	return domain.Season(s.cfg.Season)
}

// ParseAll enqueues one scrape task per team per configured source, skipping
// teams already completed in a previous run.
func (s *Service) ParseAll(ctx context.Context) error {
	season := s.season()
	errGroup := new(errgroup.Group)

	for _, sourceName := range s.cfg.Sources {
		source := domain.Source(sourceName)

		errGroup.Go(func() error {
			log.Infof("🔄 Enqueueing %s teams for season %s", source.GetSourceName(), season)

			enqueued := 0
			for _, team := range domain.PremierLeagueTeams {
				done, err := s.stateManager.IsTeamDone(ctx, source, season, team.Name)
				if err != nil {
					return err
				}
				if done {
					log.Debugf("Skipping %s/%s: already scraped", source, team.Name)
					continue
				}

				_, err = s.queue.AddTask(ctx, &task.ScrapeTeamTask{
					Source:   source,
					TeamName: team.Name,
					Season:   season,
				})
				if err != nil {
					log.Errorf("❌ Failed to enqueue %s/%s: %v", source, team.Name, err)
					return err
				}
				enqueued++
			}

			log.Infof("✅ Enqueued %d/%d teams for %s", enqueued, len(domain.PremierLeagueTeams), source.GetSourceName())
			return nil
		})
	}

	return errGroup.Wait()
}

// RunWorkers consumes scrape and retry tasks until the context is cancelled.
func (s *Service) RunWorkers(ctx context.Context, numWorkers int) error {
	g := new(errgroup.Group)

	s.runWorkersForStream(ctx, g, numWorkers, queue.StreamFor("ScrapeTeamTask"), "main")
	s.runWorkersForStream(ctx, g, max(1, numWorkers/2), queue.StreamFor("TeamRetryTask"), "retry")

	return g.Wait()
}

func (s *Service) runWorkersForStream(ctx context.Context, g *errgroup.Group, numWorkers int, streamName, workerType string) {
	// Auto-claimer re-delivers messages stuck with crashed consumers
	g.Go(func() error {
		ticker := time.NewTicker(s.minIdleTime)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return nil
			case <-ticker.C:
				consumer := fmt.Sprintf("autoclaimer-%s-%d", workerType, time.Now().UnixNano())
				claimed, err := s.queue.AutoClaim(ctx, s.groupName, consumer, streamName, s.minIdleTime)
				if err != nil {
					log.Errorf("❌ Failed to auto-claim messages for %s: %v", streamName, err)
					continue
				}
				for _, msg := range claimed {
					if err := s.processMessage(ctx, &msg); err != nil {
						log.Errorf("❌ Failed to process auto-claimed message %s: %v", msg.ID, err)
					}
				}
			}
		}
	})

	for i := 0; i < numWorkers; i++ {
		workerID := i + 1
		g.Go(func() error {
			consumer := fmt.Sprintf("%s-worker-%d", workerType, workerID)
			log.Infof("🚀 Starting %s worker %d as consumer %s", workerType, workerID, consumer)
			for {
				select {
				case <-ctx.Done():
					log.Infof("🛑 %s worker %d stopping", workerType, workerID)
					return nil
				default:
					msg, err := s.queue.GetTask(ctx, s.groupName, consumer, streamName)
					if err != nil {
						if ctx.Err() != nil {
							return nil
						}
						log.Errorf("❌ Failed to get task from %s: %v", streamName, err)
						continue
					}

					if msg != nil {
						if err := s.processMessage(ctx, msg); err != nil {
							log.Errorf("❌ Failed to process message %s: %v", msg.ID, err)
						}
					}
				}
			}
		})
	}
}

func (s *Service) processMessage(ctx context.Context, msg *redis.XMessage) error {
	taskType, ok := msg.Values["task_type"].(string)
	if !ok {
		return fmt.Errorf("invalid task type in message %s", msg.ID)
	}

	taskData, ok := msg.Values["task_data"].(string)
	if !ok {
		return fmt.Errorf("invalid task data in message %s", msg.ID)
	}

	switch taskType {
	case "ScrapeTeamTask":
		scrapeTask, err := task.UnmarshalTask[*task.ScrapeTeamTask]([]byte(taskData))
		if err != nil {
			return fmt.Errorf("failed to unmarshal scrape task data: %w", err)
		}

		if err := s.scrapeTeam(ctx, scrapeTask.Source, scrapeTask.TeamName, scrapeTask.Season); err != nil {
			if fetcher.IsClientError(err) {
				// the page is gone, not rate-limited; retrying cannot help
				log.Errorf("❌ Dropping %s/%s: %v", scrapeTask.Source, scrapeTask.TeamName, err)
			} else {
				s.enqueueRetry(ctx, scrapeTask.Source, scrapeTask.TeamName, scrapeTask.Season, 1, err)
			}
		}

	case "TeamRetryTask":
		retryTask, err := task.UnmarshalTask[*task.TeamRetryTask]([]byte(taskData))
		if err != nil {
			return fmt.Errorf("failed to unmarshal retry task data: %w", err)
		}

		if err := s.retryTeam(ctx, retryTask); err != nil {
			return err
		}

	default:
		return fmt.Errorf("unknown task type: %s", taskType)
	}

	if err := s.queue.AckTask(ctx, queue.StreamFor(taskType), s.groupName, msg.ID); err != nil {
		return fmt.Errorf("failed to ack message %s: %w", msg.ID, err)
	}

	return nil
}

// enqueueRetry pushes a failed team onto the retry stream. Retries are
// bounded by scraper.max_retries; a team that keeps failing is dropped with
// an error log rather than looping forever.
func (s *Service) enqueueRetry(ctx context.Context, source domain.Source, teamName string, season domain.Season, retryCount int, cause error) {
	if retryCount > s.cfg.MaxRetries {
		log.Errorf("❌ Giving up on %s/%s after %d retries: %v", source, teamName, s.cfg.MaxRetries, cause)
		return
	}

	retryTask := &task.TeamRetryTask{
		Source:     source,
		TeamName:   teamName,
		Season:     season,
		RetryCount: retryCount,
		Error:      cause.Error(),
	}

	if _, err := s.queue.AddTask(ctx, retryTask); err != nil {
		log.Errorf("❌ Failed to add %s/%s to retry queue: %v", source, teamName, err)
		return
	}
	log.Warnf("🔄 Added %s/%s to retry queue (attempt %d/%d): %v", source, teamName, retryCount, s.cfg.MaxRetries, cause)
}

func (s *Service) retryTeam(ctx context.Context, retryTask *task.TeamRetryTask) error {
	log.Infof("🔄 Retrying %s/%s (attempt %d)", retryTask.Source, retryTask.TeamName, retryTask.RetryCount)

	if err := s.scrapeTeam(ctx, retryTask.Source, retryTask.TeamName, retryTask.Season); err != nil {
		s.enqueueRetry(ctx, retryTask.Source, retryTask.TeamName, retryTask.Season, retryTask.RetryCount+1, err)
		return nil
	}

	log.Infof("✅ Recovered %s/%s after %d attempts", retryTask.Source, retryTask.TeamName, retryTask.RetryCount)
	return nil
}

func (s *Service) scrapeTeam(ctx context.Context, source domain.Source, teamName string, season domain.Season) error {
	team, ok := domain.FindTeam(teamName)
	if !ok {
		return fmt.Errorf("unknown team %q", teamName)
	}

	var matches []domain.TeamMatch
	var err error
	switch source {
	case domain.SourceFBRef:
		matches, err = s.fbref.ScrapeTeamSeason(ctx, team, season)
	case domain.SourceUnderstat:
		matches, err = s.understat.ScrapeTeamSeason(ctx, team, season)
	default:
		return fmt.Errorf("unknown source %q", source)
	}
	if err != nil {
		return err
	}

	if len(matches) == 0 {
		log.Warnf("⚠️ No matches for %s/%s (%s)", source, team.Name, season)
	}

	if err := s.saveMatches(ctx, source, team, season, matches); err != nil {
		return err
	}

	if err := s.stateManager.MarkTeamDone(ctx, source, season, team.Name); err != nil {
		return err
	}

	log.Infof("✅ Completed %s/%s: %d matches", source, team.Name, len(matches))
	return nil
}

func (s *Service) saveMatches(ctx context.Context, source domain.Source, team domain.Team, season domain.Season, matches []domain.TeamMatch) error {
	if s.local != nil {
		name := fmt.Sprintf("%s_%s_%s", source, fileSlug(team.Name), season.Understat())
		if _, err := s.local.SaveMatches(matches, name); err != nil {
			return err
		}
	}

	if s.repository != nil {
		if err := s.repository.SaveMatches(ctx, matches); err != nil {
			return err
		}
	}

	return nil
}

// RefreshStandings recomputes the league table from stored rows and persists
// it. A no-op for local-only runs. When Understat is enabled its rows are
// preferred and first enriched from the league page, the one place that
// exposes npxG, deep completions and xPts; otherwise FBRef rows supply a
// plain points table.
func (s *Service) RefreshStandings(ctx context.Context) error {
	if s.repository == nil {
		return nil
	}

	source, ok := s.standingsSource()
	if !ok {
		return nil
	}

	season := s.season()

	if source == domain.SourceUnderstat {
		if leagueMatches, err := s.understat.ScrapeLeagueSeason(ctx, season); err != nil {
			log.Warnf("⚠️ Skipping xG enrichment, league page fetch failed: %v", err)
		} else if err := s.repository.EnrichMatches(ctx, leagueMatches); err != nil {
			return err
		}
	}

	matches, err := s.repository.ListSeasonMatches(ctx, source, seasonKey(source, season))
	if err != nil {
		return err
	}
	if len(matches) == 0 {
		return nil
	}

	table := standings.Compute(matches)
	if err := s.repository.SaveStandings(ctx, season.Understat(), table); err != nil {
		return err
	}

	log.Infof("📊 Standings refreshed: %d teams, leader %s (%d pts)",
		len(table), table[0].Team, table[0].Points)
	return nil
}

// RunStandingsRefresher recomputes standings on an interval while the
// workers fill the raw tables.
func (s *Service) RunStandingsRefresher(ctx context.Context, interval time.Duration) error {
	if s.repository == nil {
		return nil
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if err := s.RefreshStandings(ctx); err != nil {
				log.Errorf("❌ Failed to refresh standings: %v", err)
			}
		}
	}
}

func (s *Service) sourceEnabled(source domain.Source) bool {
	for _, name := range s.cfg.Sources {
		if domain.Source(name) == source {
			return true
		}
	}
	return false
}

// standingsSource picks where the league table is computed from. Understat is
// preferred for its xG columns; an FBRef-only run still gets a points table.
func (s *Service) standingsSource() (domain.Source, bool) {
	if s.sourceEnabled(domain.SourceUnderstat) {
		return domain.SourceUnderstat, true
	}
	if s.sourceEnabled(domain.SourceFBRef) {
		return domain.SourceFBRef, true
	}
	return "", false
}

// seasonKey renders the season the way the source's rows were stored.
func seasonKey(source domain.Source, season domain.Season) string {
	if source == domain.SourceFBRef {
		return season.FBRef()
	}
	return season.Understat()
}

func fileSlug(name string) string {
	return strings.ToLower(strings.ReplaceAll(name, " ", "_"))
}
