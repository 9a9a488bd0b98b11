package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/patobeur/inouttracker/internal/apperr"
	"github.com/patobeur/inouttracker/internal/models"
	"github.com/patobeur/inouttracker/internal/repositories"
)

type memArticles struct {
	items     map[int64]models.Article
	movements map[int64]int64
	next      int64
}

func newMemArticles() *memArticles {
	return &memArticles{items: map[int64]models.Article{}, movements: map[int64]int64{}, next: 1}
}

func (m *memArticles) List(context.Context) ([]models.Article, error) {
	out := []models.Article{}
	for _, a := range m.items {
		out = append(out, a)
	}
	return out, nil
}

func (m *memArticles) Create(_ context.Context, a *models.Article) (int64, error) {
	for _, other := range m.items {
		if other.Barcode == a.Barcode {
			return 0, repositories.ErrDuplicate
		}
	}
	a.ID = m.next
	m.next++
	m.items[a.ID] = *a
	return a.ID, nil
}

func (m *memArticles) Update(_ context.Context, a *models.Article) error {
	if _, ok := m.items[a.ID]; !ok {
		return repositories.ErrNotFound
	}
	m.items[a.ID] = *a
	return nil
}

func (m *memArticles) CountMovements(_ context.Context, id int64) (int64, error) {
	return m.movements[id], nil
}

func (m *memArticles) Delete(_ context.Context, id int64) error {
	if _, ok := m.items[id]; !ok {
		return repositories.ErrNotFound
	}
	delete(m.items, id)
	return nil
}

type memCustomers struct {
	items map[int64]models.Customer
	next  int64
}

func (m *memCustomers) List(context.Context) ([]models.Customer, error) {
	out := []models.Customer{}
	for _, c := range m.items {
		out = append(out, c)
	}
	return out, nil
}

func (m *memCustomers) Create(_ context.Context, c *models.Customer) (int64, error) {
	m.next++
	c.ID = m.next
	m.items[c.ID] = *c
	return c.ID, nil
}

func (m *memCustomers) Update(_ context.Context, c *models.Customer) error {
	if _, ok := m.items[c.ID]; !ok {
		return repositories.ErrNotFound
	}
	m.items[c.ID] = *c
	return nil
}

func (m *memCustomers) CountMovements(context.Context, int64) (int64, error) { return 0, nil }

func (m *memCustomers) Delete(_ context.Context, id int64) error {
	if _, ok := m.items[id]; !ok {
		return repositories.ErrNotFound
	}
	delete(m.items, id)
	return nil
}

func TestArticles(t *testing.T) {
	articles := newMemArticles()
	svc := NewInventoryService(articles, &memCustomers{items: map[int64]models.Customer{}})
	ctx := context.Background()

	_, err := svc.CreateArticle(ctx, &models.Article{Barcode: " ", Name: "Drill"})
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))

	id, err := svc.CreateArticle(ctx, &models.Article{Barcode: "123", Name: " Drill "})
	require.NoError(t, err)
	assert.Equal(t, "Drill", articles.items[id].Name)

	_, err = svc.CreateArticle(ctx, &models.Article{Barcode: "123", Name: "Saw"})
	assert.Equal(t, apperr.KindConflict, apperr.KindOf(err))

	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(svc.UpdateArticle(ctx, &models.Article{ID: 99, Barcode: "9", Name: "x"})))

	articles.movements[id] = 1
	assert.Equal(t, apperr.KindConflict, apperr.KindOf(svc.DeleteArticle(ctx, id)))

	articles.movements[id] = 0
	require.NoError(t, svc.DeleteArticle(ctx, id))
	assert.Empty(t, articles.items)
}

func TestCustomers(t *testing.T) {
	customers := &memCustomers{items: map[int64]models.Customer{}}
	svc := NewInventoryService(newMemArticles(), customers)
	ctx := context.Background()

	_, err := svc.CreateCustomer(ctx, &models.Customer{Email: "x@y.z"})
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))

	id, err := svc.CreateCustomer(ctx, &models.Customer{Name: "ACME"})
	require.NoError(t, err)

	require.NoError(t, svc.UpdateCustomer(ctx, &models.Customer{ID: id, Name: "ACME Corp"}))
	assert.Equal(t, "ACME Corp", customers.items[id].Name)

	assert.Equal(t, apperr.KindValidation, apperr.KindOf(svc.DeleteCustomer(ctx, 0)))
	require.NoError(t, svc.DeleteCustomer(ctx, id))
}
