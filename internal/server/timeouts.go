package server

import "time"

const (
	readHeaderTimeout = 5 * time.Second
	readTimeout       = 15 * time.Second
	// Covers a create that waits on the crawler's upstream fetches.
	writeTimeout = 30 * time.Second
	idleTimeout  = 90 * time.Second
)

// shutdownTimeout is a var so tests can shorten it.
var shutdownTimeout = 10 * time.Second
