// Package session implements server-side sessions keyed by an opaque cookie id.
package session

import (
	"context"
	"crypto/rand"
	"encoding/base64"
)

// Data is the persisted part of a session.
type Data struct {
	UserID     *int64             `json:"user_id,omitempty"`
	UserPseudo string             `json:"user_pseudo,omitempty"`
	IsAdmin    bool               `json:"is_admin"`
	CSRFToken  string             `json:"csrf_token,omitempty"`
	RateLimits map[string][]int64 `json:"rate_limits,omitempty"`
}

type Session struct {
	ID   string
	Data Data

	isNew     bool
	destroyed bool
}

// IsNew reports whether the session was created during this request.
func (s *Session) IsNew() bool { return s.isNew }

// IsLoggedIn reports whether a user id is bound to the session.
func (s *Session) IsLoggedIn() bool { return s.Data.UserID != nil }

// IsAdmin is true only for a logged-in session whose admin flag is set.
func (s *Session) IsAdmin() bool { return s.IsLoggedIn() && s.Data.IsAdmin }

// UserID returns the bound user id, or 0 when anonymous.
func (s *Session) UserID() int64 {
	if s.Data.UserID == nil {
		return 0
	}
	return *s.Data.UserID
}

// SetUser binds an authenticated user to the session.
func (s *Session) SetUser(id int64, pseudo string, isAdmin bool) {
	s.Data.UserID = &id
	s.Data.UserPseudo = pseudo
	s.Data.IsAdmin = isAdmin
}

const idBytes = 32

func newID() (string, error) {
	b := make([]byte, idBytes)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}

// validID rejects cookie values that could not have been issued by newID.
func validID(id string) bool {
	if len(id) != base64.RawURLEncoding.EncodedLen(idBytes) {
		return false
	}
	_, err := base64.RawURLEncoding.DecodeString(id)
	return err == nil
}

type ctxKey struct{}

func NewContext(ctx context.Context, s *Session) context.Context {
	return context.WithValue(ctx, ctxKey{}, s)
}

// FromContext returns the request session, or nil if none was attached.
func FromContext(ctx context.Context) *Session {
	s, _ := ctx.Value(ctxKey{}).(*Session)
	return s
}
