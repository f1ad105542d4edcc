package config

import "time"

const (
	envPort         = "PORT"
	envPollInterval = "POLL_INTERVAL"
	envLogLevel     = "LOG_LEVEL"
	envLogFormat    = "LOG_FORMAT"
	envAPIBaseURL   = "TEAMS_API_URL"
	envHTTPTimeout  = "HTTP_TIMEOUT"
	envReadyTimeout = "READY_TIMEOUT"
	envDatabaseURL  = "DATABASE_URL"
	envDBMaxConns   = "DB_MAX_CONNS"
	envMetricsPort  = "METRICS_PORT"
	envMetricsOn    = "METRICS_ENABLED"
	envOtelEndpoint = "OTEL_EXPORTER_OTLP_ENDPOINT"
	envOtelService  = "OTEL_SERVICE_NAME"
	envOtelInsecure = "OTEL_EXPORTER_OTLP_INSECURE"
	envCrawlTeams   = "CRAWL_TEAMS"

	envCalendarOutput   = "CALENDAR_OUTPUT"
	envCrawlConcurrency = "CRAWL_CONCURRENCY"

	defaultPort = "8080"
	// Revalidation cadence for `teamsctl watch`.
	defaultPollInterval = 30 * Duration(time.Second)
	defaultLogLevel     = "info"
	defaultLogFormat    = "text"
	defaultAPIBaseURL   = "http://localhost:8080"
	defaultHTTPTimeout  = 10 * time.Second
	defaultReadyTimeout = 15 * time.Second
	defaultDBMaxConns   = 10
	defaultMetricsOn    = false
	defaultMetricsPort  = "9090"
	defaultServiceName  = "football-ical"
	defaultCrawlTeams   = true

	defaultCalendarOutput   = "calendar.ics"
	defaultCrawlConcurrency = 4
)
