package container

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"football/pipeline/internal/config"
	"football/pipeline/internal/domain"
	"football/pipeline/internal/fetcher"
	"football/pipeline/internal/proxy"
	"football/pipeline/internal/queue"
	"football/pipeline/internal/repository"
	"football/pipeline/internal/scraper"
	"football/pipeline/internal/scraper/fbref"
	"football/pipeline/internal/scraper/understat"
	"football/pipeline/internal/service"
	"football/pipeline/internal/sink"
	"football/pipeline/internal/state"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"
)

// Container holds all initialized components
type Container struct {
	Config       *config.Config
	FBRef        fbref.Client
	Understat    understat.Client
	Repository   repository.MatchRepository
	Queue        queue.Queue
	StateManager state.StateManager

	Service *service.Service

	db    *pgxpool.Pool
	redis *redis.Client
}

// New creates a new container with all dependencies initialized
func New(cfg *config.Config) (*Container, error) {
	for _, name := range cfg.Scraper.Sources {
		if _, err := sourceConfig(cfg, domain.Source(name)); err != nil {
			return nil, err
		}
	}

	container := &Container{
		Config: cfg,
	}

	useDatabase := cfg.Scraper.Destination == "database" || cfg.Scraper.Destination == "both"
	useLocal := cfg.Scraper.Destination == "local" || cfg.Scraper.Destination == "both"

	if useDatabase {
		db, err := pgxpool.New(context.Background(),
			fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=disable",
				cfg.Database.Host,
				cfg.Database.Port,
				cfg.Database.User,
				cfg.Database.Password,
				cfg.Database.Name,
			))
		if err != nil {
			return nil, err
		}
		container.db = db
		container.Repository = repository.NewMatchRepository(db)
	}

	var local *sink.Local
	if useLocal {
		var err error
		local, err = sink.NewLocal(cfg.Scraper.OutputDir, cfg.Scraper.Format)
		if err != nil {
			return nil, err
		}
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", cfg.Redis.Host, cfg.Redis.Port),
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.Database,
	})

	if _, err := rdb.Ping(context.Background()).Result(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	log.Info("✅ Connected to Redis successfully")
	container.redis = rdb

	redisQueue, err := queue.NewRedisQueue(rdb, cfg.Redis)
	if err != nil {
		return nil, err
	}
	container.Queue = redisQueue

	stateManager := state.NewRedisStateManager(rdb)
	container.StateManager = stateManager

	// One independently paced fetcher per site, so a backoff against one
	// source never throttles the other.
	fbrefProxies := proxy.NewSupplier(context.Background(), cfg.FBRef.Proxies, cfg.FBRef.BaseURL)
	understatProxies := proxy.NewSupplier(context.Background(), cfg.Understat.Proxies, cfg.Understat.BaseURL)

	container.FBRef = fbref.NewClient(cfg.FBRef, fetcher.New(cfg.Fetcher, fbrefProxies))
	container.Understat = understat.NewClient(cfg.Understat, fetcher.New(cfg.Fetcher, understatProxies))

	container.Service = service.NewService(
		container.Repository,
		local,
		container.FBRef,
		container.Understat,
		redisQueue,
		stateManager,
		cfg.Scraper,
		cfg.Redis.ConsumerGroup,
		cfg.Redis.MinIdleTime,
	)

	return container, nil
}

// sourceConfig resolves a configured source name to its site section,
// rejecting unknown sources and malformed base URLs before anything connects.
func sourceConfig(cfg *config.Config, source domain.Source) (config.SiteConfig, error) {
	var site config.SiteConfig
	switch source {
	case domain.SourceFBRef:
		site = cfg.FBRef
	case domain.SourceUnderstat:
		site = cfg.Understat
	default:
		return config.SiteConfig{}, fmt.Errorf("unknown source %q: valid sources are %v", source, domain.Sources)
	}
	if !scraper.ValidateURL(site.BaseURL) {
		return config.SiteConfig{}, fmt.Errorf("invalid base URL %q for %s", site.BaseURL, source)
	}
	return site, nil
}

// Run enqueues the season's scrape tasks and processes them
func (c *Container) Run(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return c.Service.ParseAll(ctx)
	})

	g.Go(func() error {
		return c.Service.RunWorkers(ctx, c.Config.Scraper.MaxWorkers)
	})

	g.Go(func() error {
		return c.Service.RunStandingsRefresher(ctx, 10*time.Minute)
	})

	return g.Wait()
}

// Close performs cleanup when shutting down
func (c *Container) Close() error {
	log.Info("Shutting down container...")

	if c.db != nil {
		c.db.Close()
	}
	if c.redis != nil {
		if err := c.redis.Close(); err != nil {
			return err
		}
	}

	log.Info("Container shut down successfully")
	return nil
}
