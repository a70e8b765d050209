package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() *Config {
	return &Config{
		Scraper: ScraperConfig{
			Destination: "local",
		},
		Fetcher: FetcherConfig{
			MinIntervalSeconds:     5,
			MaxRetries:             3,
			BackoffScheduleSeconds: []int{5, 10, 15},
			TimeoutSeconds:         30,
		},
	}
}

func TestValidate(t *testing.T) {
	require.NoError(t, validConfig().validate())
}

func TestValidate_RejectsNonPositiveMaxRetries(t *testing.T) {
	cfg := validConfig()
	cfg.Fetcher.MaxRetries = 0
	assert.Error(t, cfg.validate())

	cfg.Fetcher.MaxRetries = -1
	assert.Error(t, cfg.validate())
}

func TestValidate_RejectsShortBackoffSchedule(t *testing.T) {
	cfg := validConfig()
	cfg.Fetcher.BackoffScheduleSeconds = []int{5}
	assert.Error(t, cfg.validate())
}

func TestValidate_RejectsUnknownDestination(t *testing.T) {
	cfg := validConfig()
	cfg.Scraper.Destination = "s3"
	assert.Error(t, cfg.validate())
}

func TestFetcherConfigHelpers(t *testing.T) {
	cfg := validConfig().Fetcher
	assert.Equal(t, 5*time.Second, cfg.MinInterval())
	assert.Equal(t, 30*time.Second, cfg.Timeout())
	assert.Equal(t,
		[]time.Duration{5 * time.Second, 10 * time.Second, 15 * time.Second},
		cfg.BackoffSchedule())
}
