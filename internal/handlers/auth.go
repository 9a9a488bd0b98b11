package handlers

import (
	"context"
	"net/http"

	"github.com/patobeur/inouttracker/internal/apperr"
	"github.com/patobeur/inouttracker/internal/services"
)

type messageResponse struct {
	Message string `json:"message"`
}

type sessionUser struct {
	Pseudo  string `json:"pseudo"`
	IsAdmin bool   `json:"is_admin"`
}

type loginResponse struct {
	Message   string      `json:"message"`
	User      sessionUser `json:"user"`
	CSRFToken string      `json:"csrf_token"`
}

type csrfResponse struct {
	CSRFToken string `json:"csrf_token"`
}

func (a *API) status(ctx context.Context, _ *request) (result, error) {
	installed := false
	if a.Installed != nil {
		var err error
		installed, err = a.Installed(ctx)
		if err != nil {
			return result{}, apperr.Unavailable(err)
		}
	}
	return ok(map[string]bool{"installed": installed}), nil
}

func (a *API) register(ctx context.Context, req *request) (result, error) {
	p := req.params
	if err := a.Auth.Register(ctx, p.get("email"), p.get("pseudo"), p.raw("password")); err != nil {
		return result{}, err
	}
	return result{status: http.StatusCreated, payload: messageResponse{Message: services.MsgRegistered}}, nil
}

func (a *API) login(ctx context.Context, req *request) (result, error) {
	p := req.params
	if _, err := a.Auth.Login(ctx, req.sess, p.get("email"), p.raw("password")); err != nil {
		return result{}, err
	}
	return ok(loginResponse{
		Message:   services.MsgLoggedIn,
		User:      sessionUser{Pseudo: req.sess.Data.UserPseudo, IsAdmin: req.sess.IsAdmin()},
		CSRFToken: req.sess.Data.CSRFToken,
	}), nil
}

func (a *API) logout(ctx context.Context, req *request) (result, error) {
	if err := a.Auth.Logout(ctx, req.sess); err != nil {
		return result{}, err
	}
	return ok(messageResponse{Message: services.MsgLoggedOut}), nil
}

func (a *API) csrfToken(_ context.Context, req *request) (result, error) {
	return ok(csrfResponse{CSRFToken: req.sess.Data.CSRFToken}), nil
}

func (a *API) requestReset(ctx context.Context, req *request) (result, error) {
	a.Auth.RequestPasswordReset(ctx, req.params.get("email"))
	return ok(messageResponse{Message: services.MsgResetRequested}), nil
}

func (a *API) confirmReset(ctx context.Context, req *request) (result, error) {
	p := req.params
	if err := a.Auth.ConfirmPasswordReset(ctx, p.get("token"), p.raw("password")); err != nil {
		return result{}, err
	}
	return ok(messageResponse{Message: services.MsgResetConfirmed}), nil
}
