package handlers

import (
	"context"
	"sync"
	"time"

	"github.com/patobeur/inouttracker/internal/models"
	"github.com/patobeur/inouttracker/internal/repositories"
)

// userTable implements every user store interface the services need.
type userTable struct {
	mu    sync.Mutex
	users []*models.User
}

func (t *userTable) find(match func(*models.User) bool) (*models.User, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	for _, u := range t.users {
		if match(u) {
			cp := *u
			return &cp, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (t *userTable) mutate(id int64, fn func(*models.User)) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	for _, u := range t.users {
		if u.ID == id {
			fn(u)
			return nil
		}
	}
	return repositories.ErrNotFound
}

func (t *userTable) ExistsByEmailOrPseudo(_ context.Context, email, pseudo string) (bool, error) {
	u, _ := t.find(func(u *models.User) bool { return u.Email == email || u.Pseudo == pseudo })
	return u != nil, nil
}

func (t *userTable) Create(_ context.Context, u *models.User) (int64, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	cp := *u
	cp.ID = int64(len(t.users) + 1)
	cp.CreatedAt = time.Now()
	t.users = append(t.users, &cp)
	return cp.ID, nil
}

func (t *userTable) FindByID(_ context.Context, id int64) (*models.User, error) {
	return t.find(func(u *models.User) bool { return u.ID == id })
}

func (t *userTable) FindByEmail(_ context.Context, email string) (*models.User, error) {
	return t.find(func(u *models.User) bool { return u.Email == email })
}

func (t *userTable) FindByResetToken(_ context.Context, token string) (*models.User, error) {
	return t.find(func(u *models.User) bool { return u.ResetToken != nil && *u.ResetToken == token })
}

func (t *userTable) SetResetToken(_ context.Context, id int64, token string, expiresAt time.Time) error {
	return t.mutate(id, func(u *models.User) { u.ResetToken, u.ResetExpiresAt = &token, &expiresAt })
}

func (t *userTable) ResetPassword(_ context.Context, id int64, hash string) error {
	return t.mutate(id, func(u *models.User) { u.PasswordHash, u.ResetToken, u.ResetExpiresAt = hash, nil, nil })
}

func (t *userTable) PseudoTakenByOther(_ context.Context, pseudo string, id int64) (bool, error) {
	u, _ := t.find(func(u *models.User) bool { return u.Pseudo == pseudo && u.ID != id })
	return u != nil, nil
}

func (t *userTable) UpdateProfile(_ context.Context, id int64, pseudo, first, last string) error {
	return t.mutate(id, func(u *models.User) { u.Pseudo, u.FirstName, u.LastName = pseudo, first, last })
}

func (t *userTable) SetAdmin(_ context.Context, id int64, isAdmin bool) error {
	return t.mutate(id, func(u *models.User) { u.IsAdmin = isAdmin })
}

func (t *userTable) List(context.Context) ([]models.User, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]models.User, 0, len(t.users))
	for _, u := range t.users {
		out = append(out, *u)
	}
	return out, nil
}

func (t *userTable) Count(context.Context) (int64, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return int64(len(t.users)), nil
}

type fixedStats struct{}

func (fixedStats) Dashboard(context.Context) (*models.DashboardStats, error) {
	return &models.DashboardStats{TotalUsers: 2}, nil
}

type articleTable struct {
	mu       sync.Mutex
	articles []models.Article
	moves    map[int64]int64
}

func (t *articleTable) List(context.Context) ([]models.Article, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return append([]models.Article(nil), t.articles...), nil
}

func (t *articleTable) Create(_ context.Context, a *models.Article) (int64, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	for _, other := range t.articles {
		if other.Barcode == a.Barcode {
			return 0, repositories.ErrDuplicate
		}
	}
	a.ID = int64(len(t.articles) + 1)
	t.articles = append(t.articles, *a)
	return a.ID, nil
}

func (t *articleTable) Update(_ context.Context, a *models.Article) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	for i := range t.articles {
		if t.articles[i].ID == a.ID {
			t.articles[i] = *a
			return nil
		}
	}
	return repositories.ErrNotFound
}

func (t *articleTable) CountMovements(_ context.Context, id int64) (int64, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.moves[id], nil
}

func (t *articleTable) Delete(_ context.Context, id int64) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	for i := range t.articles {
		if t.articles[i].ID == id {
			t.articles = append(t.articles[:i], t.articles[i+1:]...)
			return nil
		}
	}
	return repositories.ErrNotFound
}

type noCustomers struct{}

func (noCustomers) List(context.Context) ([]models.Customer, error)         { return nil, nil }
func (noCustomers) Create(context.Context, *models.Customer) (int64, error) { return 1, nil }
func (noCustomers) Update(context.Context, *models.Customer) error          { return nil }
func (noCustomers) CountMovements(context.Context, int64) (int64, error)    { return 0, nil }
func (noCustomers) Delete(context.Context, int64) error                     { return nil }
