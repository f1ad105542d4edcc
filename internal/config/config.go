package config

import (
	"log/slog"

	"github.com/joho/godotenv"
)

// Config holds runtime configuration shared by the server, the crawl job and the terminal client.
type Config struct {
	Port         string
	PollInterval Duration
	LogLevel     string
	LogFormat    string
	API          APIConfig
	Database     DatabaseConfig
	Metrics      MetricsConfig
	Calendar     CalendarConfig
	// CrawlTeams makes the reference server resolve submitted URLs to team pages.
	CrawlTeams   bool
}

// Load reads configuration from environment variables with sensible defaults.
// Values from the given .env files (or ./.env when none are named) fill in variables
// that are not already set; a missing file is not an error.
func Load(envFiles ...string) Config {
	if err := godotenv.Load(envFiles...); err != nil {
		slog.Debug("env file not loaded, using process environment", "files", envFiles)
	}

	return Config{
		Port:         envOrDefault(envPort, defaultPort),
		PollInterval: durationEnvOrDefault(envPollInterval, defaultPollInterval),
		LogLevel:     envOrDefault(envLogLevel, defaultLogLevel),
		LogFormat:    envOrDefault(envLogFormat, defaultLogFormat),
		API:          loadAPI(),
		Database:     loadDatabase(),
		Metrics:      loadMetrics(),
		Calendar:     loadCalendar(),
		CrawlTeams:   boolEnvOrDefault(envCrawlTeams, defaultCrawlTeams),
	}
}
