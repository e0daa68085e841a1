// Package config loads the process-wide configuration. The value is
// read once at startup and treated as immutable afterwards.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

type Config struct {
	AppEnv      string `env:"APP_ENV" envDefault:"local"`
	PostgresDSN string `env:"POSTGRES_DSN,required"`
	LogLevel    string `env:"LOG_LEVEL" envDefault:"info"`
	HealthPort  int    `env:"HEALTH_PORT" envDefault:"8080"`

	// Branding lookup
	APIBaseURL      string        `env:"DEARROW_API_BASE_URL" envDefault:"https://sponsor.ajay.app"`
	// LinkPattern overrides the default watch-URL pattern; empty keeps
	// the dearrow package default.
	LinkPattern     string        `env:"DEARROW_LINK_PATTERN"`
	FallbackEnabled bool          `env:"DEARROW_FALLBACK_ENABLED" envDefault:"true"`
	WebFetchRPS     float64       `env:"WEB_FETCH_RPS" envDefault:"2"`
	WebFetchTimeout time.Duration `env:"WEB_FETCH_TIMEOUT" envDefault:"30s"`

	// Feed polling
	FeedPollInterval time.Duration `env:"FEED_POLL_INTERVAL" envDefault:"5m"`
	FeedFetchTimeout time.Duration `env:"FEED_FETCH_TIMEOUT" envDefault:"30s"`
	FeedsFile        string        `env:"FEEDS_FILE" envDefault:"/config/feeds.txt"`
}

// Load loads configuration from the environment, reading a local .env
// file first when one exists.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	return cfg, nil
}

// LoadFeeds loads subscription URLs from the configured feeds file.
// A missing file means no seeded subscriptions, not an error.
func (c *Config) LoadFeeds() ([]string, error) {
	data, err := os.ReadFile(c.FeedsFile)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}

		return nil, fmt.Errorf("read feeds file: %w", err)
	}

	return parseFeedList(string(data)), nil
}

// parseFeedList parses feed URLs from a newline-separated string,
// skipping blank lines and # comments.
func parseFeedList(content string) []string {
	var urls []string

	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimSpace(line)

		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		urls = append(urls, line)
	}

	return urls
}
