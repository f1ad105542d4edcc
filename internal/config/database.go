package config

// DatabaseConfig selects the reference server's storage. An empty URL means in-memory storage.
type DatabaseConfig struct {
	URL      string
	MaxConns int
}

func loadDatabase() DatabaseConfig {
	return DatabaseConfig{
		URL:      envOrDefault(envDatabaseURL, ""),
		MaxConns: intEnvOrDefault(envDBMaxConns, defaultDBMaxConns),
	}
}
