package session

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/patobeur/inouttracker/internal/apperr"
)

const (
	DefaultCookieName = "inouttracker_session"
	DefaultTTL        = 24 * time.Hour
)

type Options struct {
	CookieName string
	TTL        time.Duration
	// TrustProxy marks cookies Secure when X-Forwarded-Proto is https.
	TrustProxy bool
}

// Manager binds sessions from a Store to HTTP requests and responses.
type Manager struct {
	store Store
	opts  Options
}

func NewManager(store Store, opts Options) *Manager {
	if opts.CookieName == "" {
		opts.CookieName = DefaultCookieName
	}
	if opts.TTL <= 0 {
		opts.TTL = DefaultTTL
	}
	return &Manager{store: store, opts: opts}
}

func (m *Manager) CookieName() string { return m.opts.CookieName }

// Load restores the session named by the request cookie or starts a new one.
// A new session is written to the store right away, so an unreachable store
// fails the request before any handler runs. Store failures surface as
// apperr.KindUnavailable.
func (m *Manager) Load(ctx context.Context, r *http.Request) (*Session, error) {
	if c, err := r.Cookie(m.opts.CookieName); err == nil && validID(c.Value) {
		data, err := m.store.Load(ctx, c.Value)
		switch {
		case err == nil:
			return &Session{ID: c.Value, Data: *data}, nil
		case !errors.Is(err, ErrNotFound):
			return nil, apperr.Unavailable(err)
		}
	}

	id, err := newID()
	if err != nil {
		return nil, apperr.Internal(err)
	}
	s := &Session{ID: id, isNew: true}
	if err := m.store.Save(ctx, s.ID, &s.Data, m.opts.TTL); err != nil {
		return nil, apperr.Unavailable(err)
	}
	return s, nil
}

// Regenerate moves the session data to a fresh id and drops the old key.
func (m *Manager) Regenerate(ctx context.Context, s *Session) error {
	id, err := newID()
	if err != nil {
		return apperr.Internal(err)
	}
	if err := m.store.Delete(ctx, s.ID); err != nil {
		return apperr.Unavailable(err)
	}
	s.ID = id
	s.isNew = true
	return nil
}

// Destroy deletes the stored session and clears its data. Save will then
// expire the cookie instead of persisting anything.
func (m *Manager) Destroy(ctx context.Context, s *Session) error {
	if err := m.store.Delete(ctx, s.ID); err != nil {
		return apperr.Unavailable(err)
	}
	s.Data = Data{}
	s.destroyed = true
	return nil
}

// Save persists the session with a renewed TTL and writes the cookie.
func (m *Manager) Save(ctx context.Context, w http.ResponseWriter, r *http.Request, s *Session) error {
	cookie := &http.Cookie{
		Name:     m.opts.CookieName,
		Path:     "/",
		HttpOnly: true,
		Secure:   m.secure(r),
		SameSite: http.SameSiteLaxMode,
	}

	if s.destroyed {
		cookie.MaxAge = -1
		cookie.Expires = time.Unix(1, 0)
		http.SetCookie(w, cookie)
		return nil
	}

	if err := m.store.Save(ctx, s.ID, &s.Data, m.opts.TTL); err != nil {
		return apperr.Unavailable(err)
	}

	cookie.Value = s.ID
	cookie.MaxAge = int(m.opts.TTL / time.Second)
	http.SetCookie(w, cookie)
	return nil
}

func (m *Manager) secure(r *http.Request) bool {
	if r.TLS != nil {
		return true
	}
	return m.opts.TrustProxy && r.Header.Get("X-Forwarded-Proto") == "https"
}
