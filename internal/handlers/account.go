package handlers

import (
	"context"

	"github.com/patobeur/inouttracker/internal/models"
)

type meResponse struct {
	models.Profile
	CSRFToken string `json:"csrf_token"`
}

type successResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

func (a *API) me(ctx context.Context, req *request) (result, error) {
	profile, err := a.Profiles.Get(ctx, req.sess.UserID())
	if err != nil {
		return result{}, err
	}
	return ok(meResponse{Profile: *profile, CSRFToken: req.sess.Data.CSRFToken}), nil
}

func (a *API) profileUpdate(ctx context.Context, req *request) (result, error) {
	p := req.params
	msg, err := a.Profiles.Update(ctx, req.sess, models.ProfileUpdate{
		Pseudo:    p.optional("pseudo"),
		FirstName: p.optional("first_name"),
		LastName:  p.optional("last_name"),
	})
	if err != nil {
		return result{}, err
	}
	return ok(successResponse{Success: true, Message: msg}), nil
}

// badges lists the caller's badges, or the whole catalogue with scope=all.
func (a *API) badges(ctx context.Context, req *request) (result, error) {
	if req.params.get("scope") == "all" {
		return ok(a.Badges.All(ctx)), nil
	}
	return ok(a.Badges.ForUser(ctx, req.sess.UserID())), nil
}
