// Package security holds the per-session request guards: CSRF tokens and the
// sliding-window rate limiter.
package security

import (
	"crypto/subtle"
	"net/http"

	"github.com/patobeur/inouttracker/internal/session"
	"github.com/patobeur/inouttracker/pkg/utils"
)

const (
	csrfTokenBytes = 32

	// CSRFHeader and CSRFField are where clients may send the token.
	CSRFHeader = "X-CSRF-Token"
	CSRFField  = "csrf_token"
)

// EnsureToken gives the session a CSRF token if it has none and returns it.
func EnsureToken(s *session.Session) (string, error) {
	if s.Data.CSRFToken != "" {
		return s.Data.CSRFToken, nil
	}
	return RotateToken(s)
}

// RotateToken replaces the session's CSRF token unconditionally.
func RotateToken(s *session.Session) (string, error) {
	tok, err := utils.RandomHex(csrfTokenBytes)
	if err != nil {
		return "", err
	}
	s.Data.CSRFToken = tok
	return tok, nil
}

// VerifyToken compares supplied against the session token in constant time.
// It fails when either side is empty.
func VerifyToken(s *session.Session, supplied string) bool {
	expected := s.Data.CSRFToken
	if expected == "" || supplied == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(expected), []byte(supplied)) == 1
}

// SuppliedToken reads the token from the header, falling back to a form field.
func SuppliedToken(r *http.Request, params map[string]string) string {
	if tok := r.Header.Get(CSRFHeader); tok != "" {
		return tok
	}
	return params[CSRFField]
}
