package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	Scraper   ScraperConfig  `mapstructure:"scraper"`
	Fetcher   FetcherConfig  `mapstructure:"fetcher"`
	FBRef     SiteConfig     `mapstructure:"fbref"`
	Understat SiteConfig     `mapstructure:"understat"`
	Database  DatabaseConfig `mapstructure:"database"`
	Redis     RedisConfig    `mapstructure:"redis"`
}

// ScraperConfig holds run-level scraping configuration
type ScraperConfig struct {
	Sources     []string `mapstructure:"sources"` // fbref, understat
	Season      int      `mapstructure:"season"`  // Starting year, e.g. 2025 for 2025-26
	MaxWorkers  int      `mapstructure:"max_workers"`
	MaxRetries  int      `mapstructure:"max_retries"` // Per-team retry budget on the queue
	Destination string   `mapstructure:"destination"` // local, database or both
	OutputDir   string   `mapstructure:"output_dir"`
	Format      string   `mapstructure:"format"` // csv or json for local output
}

// FetcherConfig holds HTTP fetch behaviour shared by both site clients
type FetcherConfig struct {
	MinIntervalSeconds     int    `mapstructure:"min_interval_seconds"`
	MaxRetries             int    `mapstructure:"max_retries"`
	BackoffScheduleSeconds []int  `mapstructure:"backoff_schedule_seconds"`
	TimeoutSeconds         int    `mapstructure:"timeout_seconds"`
	UserAgent              string `mapstructure:"user_agent"`
	InsecureSkipVerify     bool   `mapstructure:"insecure_skip_verify"`
}

// MinInterval is the enforced wall-clock gap between outgoing requests.
func (c FetcherConfig) MinInterval() time.Duration {
	return time.Duration(c.MinIntervalSeconds) * time.Second
}

// BackoffSchedule returns the waits applied before retries 2..MaxRetries.
func (c FetcherConfig) BackoffSchedule() []time.Duration {
	schedule := make([]time.Duration, 0, len(c.BackoffScheduleSeconds))
	for _, s := range c.BackoffScheduleSeconds {
		schedule = append(schedule, time.Duration(s)*time.Second)
	}
	return schedule
}

// Timeout is the per-request HTTP timeout.
func (c FetcherConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// SiteConfig holds per-source settings
type SiteConfig struct {
	BaseURL string   `mapstructure:"base_url"`
	Proxies []string `mapstructure:"proxies"`
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Name     string `mapstructure:"name"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
}

// RedisConfig holds Redis connection details
type RedisConfig struct {
	Host          string `mapstructure:"host"`
	Port          int    `mapstructure:"port"`
	Password      string `mapstructure:"password"`
	Database      int    `mapstructure:"database"`
	ConsumerGroup string `mapstructure:"consumer_group"`
	MinIdleTime   int    `mapstructure:"min_idle_time"`
}

// Load loads configuration from YAML file with environment variable overrides
func Load() (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")

	setDefaults()

	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return nil, fmt.Errorf("config.yaml file not found in current directory")
		}
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	if err := config.validate(); err != nil {
		return nil, err
	}

	return &config, nil
}

func (c *Config) validate() error {
	if c.Fetcher.MaxRetries < 1 {
		return fmt.Errorf("fetcher.max_retries must be at least 1, got %d", c.Fetcher.MaxRetries)
	}
	if len(c.Fetcher.BackoffScheduleSeconds) < c.Fetcher.MaxRetries-1 {
		return fmt.Errorf("fetcher.backoff_schedule_seconds needs at least %d entries for %d retries",
			c.Fetcher.MaxRetries-1, c.Fetcher.MaxRetries)
	}
	switch c.Scraper.Destination {
	case "local", "database", "both":
	default:
		return fmt.Errorf("unknown scraper.destination %q: use local, database or both", c.Scraper.Destination)
	}
	return nil
}

func setDefaults() {
	viper.SetDefault("scraper.sources", []string{"fbref", "understat"})
	viper.SetDefault("scraper.season", 2025)
	viper.SetDefault("scraper.max_workers", 2)
	viper.SetDefault("scraper.max_retries", 3)
	viper.SetDefault("scraper.destination", "local")
	viper.SetDefault("scraper.output_dir", "data/raw")
	viper.SetDefault("scraper.format", "csv")

	// Override fetcher_min_interval_seconds via env when running from shared
	// or cloud IP ranges; 8+ is safer there.
	viper.SetDefault("fetcher.min_interval_seconds", 5)
	viper.SetDefault("fetcher.max_retries", 3)
	viper.SetDefault("fetcher.backoff_schedule_seconds", []int{5, 10, 15})
	viper.SetDefault("fetcher.timeout_seconds", 30)
	viper.SetDefault("fetcher.user_agent",
		"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36")
	viper.SetDefault("fetcher.insecure_skip_verify", true)

	viper.SetDefault("fbref.base_url", "https://fbref.com")
	viper.SetDefault("understat.base_url", "https://understat.com")

	viper.SetDefault("database.host", "localhost")
	viper.SetDefault("database.port", 5432)
	viper.SetDefault("database.name", "football_analytics")
	viper.SetDefault("database.user", "football_user")
	viper.SetDefault("database.password", "football_pass")

	viper.SetDefault("redis.host", "localhost")
	viper.SetDefault("redis.port", 6379)
	viper.SetDefault("redis.password", "")
	viper.SetDefault("redis.database", 0)
	viper.SetDefault("redis.consumer_group", "football_consumer")
	viper.SetDefault("redis.min_idle_time", 120)
}
