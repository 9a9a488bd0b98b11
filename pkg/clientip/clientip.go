package clientip

import (
	"net"
	"net/http"
	"strings"
)

// Key modes for RateLimitKey.
const (
	ModeIP        = "ip"
	ModeIPSession = "ip_session"
)

// RealClientIP returns the client IP from r.RemoteAddr only. Proxy headers are
// ignored so a client cannot pick its own rate-limit bucket.
func RealClientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return strings.TrimSpace(r.RemoteAddr)
	}
	return strings.TrimSpace(host)
}

// RateLimitKey builds the client part of a rate-limit bucket key.
// In ModeIPSession the session id is appended so clients behind one NAT get
// separate buckets.
func RateLimitKey(mode string, r *http.Request, sessionID string) string {
	ip := RealClientIP(r)
	if mode == ModeIPSession && sessionID != "" {
		return ip + "|" + sessionID
	}
	return ip
}
