package config

import "time"

// APIConfig controls how the client reaches the teams API.
type APIConfig struct {
	BaseURL      string
	Timeout      time.Duration
	ReadyTimeout time.Duration
}

func loadAPI() APIConfig {
	return APIConfig{
		BaseURL:      envOrDefault(envAPIBaseURL, defaultAPIBaseURL),
		Timeout:      durationEnvOrDefault(envHTTPTimeout, defaultHTTPTimeout),
		ReadyTimeout: durationEnvOrDefault(envReadyTimeout, defaultReadyTimeout),
	}
}
