package handlers

import (
	"context"
	"strconv"

	"github.com/patobeur/inouttracker/internal/models"
	"github.com/patobeur/inouttracker/internal/services"
)

const defaultAuditLimit = 100

func done(message string) result {
	return ok(successResponse{Success: true, Message: message})
}

func (a *API) dashboard(ctx context.Context, _ *request) (result, error) {
	stats, err := a.Admin.Dashboard(ctx)
	if err != nil {
		return result{}, err
	}
	return ok(stats), nil
}

func (a *API) listUsers(ctx context.Context, _ *request) (result, error) {
	users, err := a.Admin.ListUsers(ctx)
	if err != nil {
		return result{}, err
	}
	return ok(users), nil
}

func (a *API) promoteUser(ctx context.Context, req *request) (result, error) {
	id, err := req.params.int64("user_id")
	if err != nil {
		return result{}, err
	}
	if err := a.Admin.Promote(ctx, req.sess.UserID(), id); err != nil {
		return result{}, err
	}
	return done(services.MsgPromoted), nil
}

func (a *API) demoteUser(ctx context.Context, req *request) (result, error) {
	id, err := req.params.int64("user_id")
	if err != nil {
		return result{}, err
	}
	if err := a.Admin.Demote(ctx, req.sess.UserID(), id); err != nil {
		return result{}, err
	}
	return done(services.MsgDemoted), nil
}

func (a *API) auditTrail(ctx context.Context, req *request) (result, error) {
	limit := int64(defaultAuditLimit)
	if v := req.params.get("limit"); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil && n > 0 {
			limit = n
		}
	}
	events, err := a.Admin.AuditTrail(ctx, limit)
	if err != nil {
		return result{}, err
	}
	if events == nil {
		events = []models.AuthEvent{}
	}
	return ok(events), nil
}

func articleFrom(p params) *models.Article {
	return &models.Article{
		ID:        idParam(p),
		Barcode:   p.get("barcode"),
		Name:      p.get("name"),
		Category:  p.get("category"),
		Condition: p.get("condition"),
	}
}

func customerFrom(p params) *models.Customer {
	return &models.Customer{
		ID:      idParam(p),
		Name:    p.get("name"),
		Email:   p.get("email"),
		Phone:   p.get("phone"),
		Address: p.get("address"),
	}
}

// idParam yields 0 for a missing or malformed id; services reject it.
func idParam(p params) int64 {
	id, _ := strconv.ParseInt(p.get("id"), 10, 64)
	return id
}

func (a *API) listArticles(ctx context.Context, _ *request) (result, error) {
	list, err := a.Inventory.ListArticles(ctx)
	if err != nil {
		return result{}, err
	}
	if list == nil {
		list = []models.Article{}
	}
	return ok(list), nil
}

func (a *API) createArticle(ctx context.Context, req *request) (result, error) {
	if _, err := a.Inventory.CreateArticle(ctx, articleFrom(req.params)); err != nil {
		return result{}, err
	}
	return done("Article created."), nil
}

func (a *API) updateArticle(ctx context.Context, req *request) (result, error) {
	if err := a.Inventory.UpdateArticle(ctx, articleFrom(req.params)); err != nil {
		return result{}, err
	}
	return done("Article updated."), nil
}

func (a *API) deleteArticle(ctx context.Context, req *request) (result, error) {
	if err := a.Inventory.DeleteArticle(ctx, idParam(req.params)); err != nil {
		return result{}, err
	}
	return done("Article deleted."), nil
}

func (a *API) listCustomers(ctx context.Context, _ *request) (result, error) {
	list, err := a.Inventory.ListCustomers(ctx)
	if err != nil {
		return result{}, err
	}
	if list == nil {
		list = []models.Customer{}
	}
	return ok(list), nil
}

func (a *API) createCustomer(ctx context.Context, req *request) (result, error) {
	if _, err := a.Inventory.CreateCustomer(ctx, customerFrom(req.params)); err != nil {
		return result{}, err
	}
	return done("Customer created."), nil
}

func (a *API) updateCustomer(ctx context.Context, req *request) (result, error) {
	if err := a.Inventory.UpdateCustomer(ctx, customerFrom(req.params)); err != nil {
		return result{}, err
	}
	return done("Customer updated."), nil
}

func (a *API) deleteCustomer(ctx context.Context, req *request) (result, error) {
	if err := a.Inventory.DeleteCustomer(ctx, idParam(req.params)); err != nil {
		return result{}, err
	}
	return done("Customer deleted."), nil
}
