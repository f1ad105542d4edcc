package teamsapi

import "time"

const (
	defaultBaseURL     = "http://localhost:8080"
	defaultHTTPTimeout = 10 * time.Second
	maxErrorBodyBytes  = 512

	teamsPath  = "/api/teams"
	healthPath = "/api/health"
)
