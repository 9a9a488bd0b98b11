package services

import (
	"context"
	"errors"
	"strings"

	"github.com/patobeur/inouttracker/internal/apperr"
	"github.com/patobeur/inouttracker/internal/models"
	"github.com/patobeur/inouttracker/internal/repositories"
	"github.com/patobeur/inouttracker/internal/session"
	"github.com/patobeur/inouttracker/pkg/utils"
)

const (
	MsgProfileUpdated = "Profile updated successfully."
	MsgNoChanges      = "No changes detected."
)

type ProfileStore interface {
	FindByID(ctx context.Context, id int64) (*models.User, error)
	PseudoTakenByOther(ctx context.Context, pseudo string, userID int64) (bool, error)
	UpdateProfile(ctx context.Context, id int64, pseudo, firstName, lastName string) error
}

type ProfileService struct {
	users ProfileStore
}

func NewProfileService(users ProfileStore) *ProfileService {
	return &ProfileService{users: users}
}

func (s *ProfileService) Get(ctx context.Context, userID int64) (*models.Profile, error) {
	u, err := s.users.FindByID(ctx, userID)
	if errors.Is(err, repositories.ErrNotFound) {
		return nil, apperr.NotFound("Profile not found.")
	}
	if err != nil {
		return nil, storageErr(err)
	}
	p := u.Profile()
	return &p, nil
}

// Update merges the supplied fields over the stored profile. Only the pseudo
// is validated; it must stay unique among other users.
func (s *ProfileService) Update(ctx context.Context, sess *session.Session, upd models.ProfileUpdate) (string, error) {
	u, err := s.users.FindByID(ctx, sess.UserID())
	if errors.Is(err, repositories.ErrNotFound) {
		return "", apperr.NotFound("User not found.")
	}
	if err != nil {
		return "", storageErr(err)
	}

	pseudo, first, last := u.Pseudo, u.FirstName, u.LastName
	if upd.Pseudo != nil {
		pseudo = strings.TrimSpace(*upd.Pseudo)
	}
	if upd.FirstName != nil {
		first = strings.TrimSpace(*upd.FirstName)
	}
	if upd.LastName != nil {
		last = strings.TrimSpace(*upd.LastName)
	}

	if pseudo == "" {
		return "", apperr.Validation("The pseudo cannot be empty.").WithDetails(map[string]interface{}{"field": "pseudo"})
	}
	if err := utils.ValidatePseudo(pseudo); err != nil {
		return "", validationErr(err)
	}

	if pseudo == u.Pseudo && first == u.FirstName && last == u.LastName {
		return MsgNoChanges, nil
	}

	if pseudo != u.Pseudo {
		taken, err := s.users.PseudoTakenByOther(ctx, pseudo, u.ID)
		if err != nil {
			return "", storageErr(err)
		}
		if taken {
			return "", apperr.Conflict("This pseudo is already in use.")
		}
	}

	err = s.users.UpdateProfile(ctx, u.ID, pseudo, first, last)
	switch {
	case errors.Is(err, repositories.ErrDuplicate):
		return "", apperr.Conflict("This pseudo is already in use.")
	case errors.Is(err, repositories.ErrNotFound):
		return "", apperr.NotFound("User not found.")
	case err != nil:
		return "", storageErr(err)
	}

	sess.Data.UserPseudo = pseudo
	return MsgProfileUpdated, nil
}
