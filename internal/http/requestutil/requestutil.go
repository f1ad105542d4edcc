package requestutil

import (
	"crypto/rand"
	"encoding/hex"
	"net"
	"net/http"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// HeaderRequestID carries the request ID in both directions.
const HeaderRequestID = "X-Request-ID"

var (
	idPattern = regexp.MustCompile(`^[a-zA-Z0-9_-]{1,64}$`)
	// randRead is swapped in tests to exercise the clock fallback.
	randRead = rand.Read
)

// RequestID returns the caller's X-Request-ID when it is a safe token and a fresh ID otherwise.
func RequestID(r *http.Request) string {
	if r != nil {
		if id := r.Header.Get(HeaderRequestID); idPattern.MatchString(id) {
			return id
		}
	}
	return NewID()
}

// NewID returns 16 hex characters of randomness, or a clock-derived ID when the
// random source fails.
func NewID() string {
	var b [8]byte
	if _, err := randRead(b[:]); err == nil {
		return hex.EncodeToString(b[:])
	}
	return "t" + strconv.FormatInt(time.Now().UnixNano(), 36)
}

// ClientIP reports the caller's address: the first X-Forwarded-For hop, then
// X-Real-IP, then the host part of RemoteAddr.
func ClientIP(r *http.Request) string {
	if r == nil {
		return ""
	}
	if forwarded := r.Header.Get("X-Forwarded-For"); forwarded != "" {
		first, _, _ := strings.Cut(forwarded, ",")
		return strings.TrimSpace(first)
	}
	if realIP := strings.TrimSpace(r.Header.Get("X-Real-IP")); realIP != "" {
		return realIP
	}
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}
