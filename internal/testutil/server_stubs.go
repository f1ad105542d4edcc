package testutil

import (
	"context"
	"net/http"
	"sync"
)

// StubHTTPServer stands in for a listening server. ListenAndServe returns ListenErr
// at once; Shutdown waits on Unblock (or its context) when Unblock is set.
// Counters are safe to read while the server runs in another goroutine.
type StubHTTPServer struct {
	AddrVal    string
	HandlerVal http.Handler
	ListenErr  error
	Unblock    chan struct{}

	mu        sync.Mutex
	listens   int
	shutdowns int
}

func (s *StubHTTPServer) ListenAndServe() error {
	s.mu.Lock()
	s.listens++
	s.mu.Unlock()
	return s.ListenErr
}

func (s *StubHTTPServer) Shutdown(ctx context.Context) error {
	s.mu.Lock()
	s.shutdowns++
	s.mu.Unlock()
	if s.Unblock == nil {
		return nil
	}
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-s.Unblock:
		return nil
	}
}

func (s *StubHTTPServer) Addr() string {
	if s.AddrVal == "" {
		return ":0"
	}
	return s.AddrVal
}

func (s *StubHTTPServer) Handler() http.Handler {
	if s.HandlerVal == nil {
		return http.NewServeMux()
	}
	return s.HandlerVal
}

// Listens reports how many times ListenAndServe ran.
func (s *StubHTTPServer) Listens() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.listens
}

// Shutdowns reports how many times Shutdown ran.
func (s *StubHTTPServer) Shutdowns() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.shutdowns
}
