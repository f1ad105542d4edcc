package teamsapi

import (
	"errors"
	"fmt"
)

// ErrMalformedBody is returned when a 2xx list response cannot be decoded.
var ErrMalformedBody = errors.New("teamsapi: malformed response body")

// StatusError captures a non-2xx response from the teams API.
type StatusError struct {
	Method     string
	Path       string
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	msg := fmt.Sprintf("teamsapi: %s %s: unexpected status %d", e.Method, e.Path, e.StatusCode)
	if e.Body != "" {
		msg += ": " + e.Body
	}
	return msg
}

// AsStatusError attempts to unwrap an error into a StatusError.
func AsStatusError(err error) (*StatusError, bool) {
	var statusErr *StatusError
	if errors.As(err, &statusErr) {
		return statusErr, true
	}
	return nil, false
}
