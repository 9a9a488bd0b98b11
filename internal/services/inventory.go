package services

import (
	"context"
	"errors"
	"strings"

	"github.com/patobeur/inouttracker/internal/apperr"
	"github.com/patobeur/inouttracker/internal/models"
	"github.com/patobeur/inouttracker/internal/repositories"
)

type ArticleStore interface {
	List(ctx context.Context) ([]models.Article, error)
	Create(ctx context.Context, a *models.Article) (int64, error)
	Update(ctx context.Context, a *models.Article) error
	CountMovements(ctx context.Context, id int64) (int64, error)
	Delete(ctx context.Context, id int64) error
}

type CustomerStore interface {
	List(ctx context.Context) ([]models.Customer, error)
	Create(ctx context.Context, c *models.Customer) (int64, error)
	Update(ctx context.Context, c *models.Customer) error
	CountMovements(ctx context.Context, id int64) (int64, error)
	Delete(ctx context.Context, id int64) error
}

// InventoryService manages articles and customers for admins.
type InventoryService struct {
	articles  ArticleStore
	customers CustomerStore
}

func NewInventoryService(articles ArticleStore, customers CustomerStore) *InventoryService {
	return &InventoryService{articles: articles, customers: customers}
}

func (s *InventoryService) ListArticles(ctx context.Context) ([]models.Article, error) {
	list, err := s.articles.List(ctx)
	if err != nil {
		return nil, storageErr(err)
	}
	return list, nil
}

func normalizeArticle(a *models.Article) {
	a.Barcode = strings.TrimSpace(a.Barcode)
	a.Name = strings.TrimSpace(a.Name)
	a.Category = strings.TrimSpace(a.Category)
	a.Condition = strings.TrimSpace(a.Condition)
}

func (s *InventoryService) CreateArticle(ctx context.Context, a *models.Article) (int64, error) {
	normalizeArticle(a)
	if a.Barcode == "" || a.Name == "" {
		return 0, apperr.Validation("Barcode and name are required.")
	}
	id, err := s.articles.Create(ctx, a)
	if errors.Is(err, repositories.ErrDuplicate) {
		return 0, apperr.Conflict("An article with this barcode already exists.")
	}
	if err != nil {
		return 0, storageErr(err)
	}
	return id, nil
}

func (s *InventoryService) UpdateArticle(ctx context.Context, a *models.Article) error {
	normalizeArticle(a)
	if a.ID <= 0 || a.Barcode == "" || a.Name == "" {
		return apperr.Validation("ID, barcode and name are required.")
	}
	err := s.articles.Update(ctx, a)
	switch {
	case errors.Is(err, repositories.ErrDuplicate):
		return apperr.Conflict("An article with this barcode already exists.")
	case errors.Is(err, repositories.ErrNotFound):
		return apperr.NotFound("Article not found.")
	case err != nil:
		return storageErr(err)
	}
	return nil
}

// DeleteArticle refuses to remove an article that has movements.
func (s *InventoryService) DeleteArticle(ctx context.Context, id int64) error {
	if id <= 0 {
		return apperr.Validation("Invalid article id.")
	}
	n, err := s.articles.CountMovements(ctx, id)
	if err != nil {
		return storageErr(err)
	}
	if n > 0 {
		return apperr.Conflict("Cannot delete the article: it is linked to movements.")
	}
	err = s.articles.Delete(ctx, id)
	if errors.Is(err, repositories.ErrNotFound) {
		return apperr.NotFound("Article not found.")
	}
	if err != nil {
		return storageErr(err)
	}
	return nil
}

func (s *InventoryService) ListCustomers(ctx context.Context) ([]models.Customer, error) {
	list, err := s.customers.List(ctx)
	if err != nil {
		return nil, storageErr(err)
	}
	return list, nil
}

func normalizeCustomer(c *models.Customer) {
	c.Name = strings.TrimSpace(c.Name)
	c.Email = strings.TrimSpace(c.Email)
	c.Phone = strings.TrimSpace(c.Phone)
	c.Address = strings.TrimSpace(c.Address)
}

func (s *InventoryService) CreateCustomer(ctx context.Context, c *models.Customer) (int64, error) {
	normalizeCustomer(c)
	if c.Name == "" {
		return 0, apperr.Validation("Name is required.")
	}
	id, err := s.customers.Create(ctx, c)
	if err != nil {
		return 0, storageErr(err)
	}
	return id, nil
}

func (s *InventoryService) UpdateCustomer(ctx context.Context, c *models.Customer) error {
	normalizeCustomer(c)
	if c.ID <= 0 || c.Name == "" {
		return apperr.Validation("ID and name are required.")
	}
	err := s.customers.Update(ctx, c)
	if errors.Is(err, repositories.ErrNotFound) {
		return apperr.NotFound("Customer not found.")
	}
	if err != nil {
		return storageErr(err)
	}
	return nil
}

func (s *InventoryService) DeleteCustomer(ctx context.Context, id int64) error {
	if id <= 0 {
		return apperr.Validation("Invalid customer id.")
	}
	n, err := s.customers.CountMovements(ctx, id)
	if err != nil {
		return storageErr(err)
	}
	if n > 0 {
		return apperr.Conflict("Cannot delete the customer: it is linked to movements.")
	}
	err = s.customers.Delete(ctx, id)
	if errors.Is(err, repositories.ErrNotFound) {
		return apperr.NotFound("Customer not found.")
	}
	if err != nil {
		return storageErr(err)
	}
	return nil
}
