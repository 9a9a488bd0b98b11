package services

import (
	"context"
	"sync"
	"time"

	"github.com/patobeur/inouttracker/internal/models"
	"github.com/patobeur/inouttracker/internal/repositories"
)

// memUsers is an in-memory stand-in for repositories.UserRepository.
type memUsers struct {
	mu     sync.Mutex
	nextID int64
	byID   map[int64]*models.User
	err    error
}

func newMemUsers() *memUsers {
	return &memUsers{nextID: 1, byID: make(map[int64]*models.User)}
}

func (m *memUsers) ExistsByEmailOrPseudo(_ context.Context, email, pseudo string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return false, m.err
	}
	for _, u := range m.byID {
		if u.Email == email || u.Pseudo == pseudo {
			return true, nil
		}
	}
	return false, nil
}

func (m *memUsers) Create(_ context.Context, u *models.User) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return 0, m.err
	}
	for _, other := range m.byID {
		if other.Email == u.Email || other.Pseudo == u.Pseudo {
			return 0, repositories.ErrDuplicate
		}
	}
	cp := *u
	cp.ID = m.nextID
	cp.CreatedAt = time.Now()
	m.nextID++
	m.byID[cp.ID] = &cp
	return cp.ID, nil
}

func (m *memUsers) find(match func(*models.User) bool) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	for _, u := range m.byID {
		if match(u) {
			cp := *u
			return &cp, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (m *memUsers) FindByID(_ context.Context, id int64) (*models.User, error) {
	return m.find(func(u *models.User) bool { return u.ID == id })
}

func (m *memUsers) FindByEmail(_ context.Context, email string) (*models.User, error) {
	return m.find(func(u *models.User) bool { return u.Email == email })
}

func (m *memUsers) FindByResetToken(_ context.Context, token string) (*models.User, error) {
	return m.find(func(u *models.User) bool { return u.ResetToken != nil && *u.ResetToken == token })
}

func (m *memUsers) update(id int64, fn func(*models.User)) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	u, ok := m.byID[id]
	if !ok {
		return repositories.ErrNotFound
	}
	fn(u)
	return nil
}

func (m *memUsers) SetResetToken(_ context.Context, id int64, token string, expiresAt time.Time) error {
	return m.update(id, func(u *models.User) {
		u.ResetToken = &token
		u.ResetExpiresAt = &expiresAt
	})
}

func (m *memUsers) ResetPassword(_ context.Context, id int64, hash string) error {
	return m.update(id, func(u *models.User) {
		u.PasswordHash = hash
		u.ResetToken = nil
		u.ResetExpiresAt = nil
	})
}

func (m *memUsers) PseudoTakenByOther(_ context.Context, pseudo string, userID int64) (bool, error) {
	u, err := m.find(func(u *models.User) bool { return u.Pseudo == pseudo && u.ID != userID })
	if err == repositories.ErrNotFound {
		return false, nil
	}
	return u != nil, err
}

func (m *memUsers) UpdateProfile(_ context.Context, id int64, pseudo, first, last string) error {
	return m.update(id, func(u *models.User) {
		u.Pseudo, u.FirstName, u.LastName = pseudo, first, last
	})
}

func (m *memUsers) List(context.Context) ([]models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]models.User, 0, len(m.byID))
	for _, u := range m.byID {
		out = append(out, *u)
	}
	return out, nil
}

func (m *memUsers) SetAdmin(_ context.Context, id int64, isAdmin bool) error {
	return m.update(id, func(u *models.User) { u.IsAdmin = isAdmin })
}

func (m *memUsers) Count(context.Context) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return int64(len(m.byID)), nil
}

type sentMail struct {
	mu   sync.Mutex
	msgs []MailMessage
}

func (s *sentMail) Send(_ context.Context, msg MailMessage) error {
	s.mu.Lock()
	s.msgs = append(s.msgs, msg)
	s.mu.Unlock()
	return nil
}

type recordedEvents struct {
	mu     sync.Mutex
	events []models.AuthEvent
}

func (r *recordedEvents) Record(_ context.Context, e models.AuthEvent) {
	r.mu.Lock()
	r.events = append(r.events, e)
	r.mu.Unlock()
}

func (r *recordedEvents) Recent(context.Context, int64) ([]models.AuthEvent, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]models.AuthEvent(nil), r.events...), nil
}

func (r *recordedEvents) types() []models.AuthEventType {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]models.AuthEventType, len(r.events))
	for i, e := range r.events {
		out[i] = e.Type
	}
	return out
}
