package services

import (
	"context"
	"errors"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/patobeur/inouttracker/internal/apperr"
	"github.com/patobeur/inouttracker/internal/audit"
	"github.com/patobeur/inouttracker/internal/models"
	"github.com/patobeur/inouttracker/internal/repositories"
	"github.com/patobeur/inouttracker/internal/security"
	"github.com/patobeur/inouttracker/internal/session"
	"github.com/patobeur/inouttracker/pkg/utils"
)

const (
	resetTokenBytes = 32
	ResetTokenTTL   = time.Hour

	MsgRegistered     = "Registration successful. You can now log in."
	MsgLoggedIn       = "Login successful."
	MsgLoggedOut      = "Logout successful."
	MsgResetRequested = "If an account exists for this email, a reset link has been sent."
	MsgResetConfirmed = "Your password has been reset. You can now log in."
	msgAccountTaken   = "The email or pseudo is already in use."
)

// UserStore is the credential store used by AuthService.
type UserStore interface {
	ExistsByEmailOrPseudo(ctx context.Context, email, pseudo string) (bool, error)
	Create(ctx context.Context, u *models.User) (int64, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	FindByResetToken(ctx context.Context, token string) (*models.User, error)
	SetResetToken(ctx context.Context, id int64, token string, expiresAt time.Time) error
	ResetPassword(ctx context.Context, id int64, passwordHash string) error
}

// SessionLifecycle is the part of session.Manager that auth transitions need.
type SessionLifecycle interface {
	Regenerate(ctx context.Context, s *session.Session) error
	Destroy(ctx context.Context, s *session.Session) error
}

type AuthService struct {
	users    UserStore
	sessions SessionLifecycle
	mailer   Mailer
	audit    audit.Recorder
	appURL   string
	now      func() time.Time

	// dummyHash is verified against when the email is unknown so both
	// login failure paths cost one Argon2 computation.
	dummyHash string
}

func NewAuthService(users UserStore, sessions SessionLifecycle, mailer Mailer, recorder audit.Recorder, appURL string) (*AuthService, error) {
	dummy, err := utils.HashPassword("not-a-real-password")
	if err != nil {
		return nil, err
	}
	return &AuthService{
		users:     users,
		sessions:  sessions,
		mailer:    mailer,
		audit:     recorder,
		appURL:    strings.TrimRight(appURL, "/"),
		now:       time.Now,
		dummyHash: dummy,
	}, nil
}

// SetClock overrides the time source. Tests only.
func (s *AuthService) SetClock(now func() time.Time) {
	s.now = now
}

// Register validates input and stores a new non-admin account. It does not log in.
func (s *AuthService) Register(ctx context.Context, email, pseudo, password string) error {
	email = strings.TrimSpace(email)
	pseudo = strings.TrimSpace(pseudo)

	if err := utils.ValidateEmail(email); err != nil {
		return validationErr(err)
	}
	if err := utils.ValidatePseudo(pseudo); err != nil {
		return validationErr(err)
	}
	if err := utils.ValidatePassword(password); err != nil {
		return validationErr(err)
	}

	taken, err := s.users.ExistsByEmailOrPseudo(ctx, email, pseudo)
	if err != nil {
		return storageErr(err)
	}
	if taken {
		return apperr.Conflict(msgAccountTaken)
	}

	hash, err := utils.HashPassword(password)
	if err != nil {
		return apperr.Internal(err)
	}

	id, err := s.users.Create(ctx, &models.User{Email: email, Pseudo: pseudo, PasswordHash: hash})
	if errors.Is(err, repositories.ErrDuplicate) {
		return apperr.Conflict(msgAccountTaken)
	}
	if err != nil {
		return storageErr(err)
	}

	s.audit.Record(ctx, models.AuthEvent{Type: models.EventRegister, UserID: &id, Email: email})
	return nil
}

// Login authenticates and binds the user to sess. Unknown email and wrong
// password produce the same error.
func (s *AuthService) Login(ctx context.Context, sess *session.Session, email, password string) (*models.User, error) {
	email = strings.TrimSpace(email)

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil && !errors.Is(err, repositories.ErrNotFound) {
		return nil, storageErr(err)
	}

	hash := s.dummyHash
	if user != nil {
		hash = user.PasswordHash
	}
	ok, verr := utils.VerifyPassword(password, hash)
	if verr != nil {
		log.WithError(verr).WithField("email", email).Warn("stored password hash is unreadable")
	}
	if user == nil || !ok {
		s.audit.Record(ctx, models.AuthEvent{Type: models.EventLoginFailed, Email: email})
		return nil, apperr.ErrInvalidCredentials
	}

	if err := s.sessions.Regenerate(ctx, sess); err != nil {
		return nil, err
	}
	sess.SetUser(user.ID, user.Pseudo, user.IsAdmin)
	if _, err := security.RotateToken(sess); err != nil {
		return nil, apperr.Internal(err)
	}

	s.audit.Record(ctx, models.AuthEvent{Type: models.EventLoginSucceeded, UserID: &user.ID, Email: email})
	return user, nil
}

// Logout destroys the session. Calling it on an anonymous session is harmless.
func (s *AuthService) Logout(ctx context.Context, sess *session.Session) error {
	var uid *int64
	if sess.IsLoggedIn() {
		id := sess.UserID()
		uid = &id
	}
	if err := s.sessions.Destroy(ctx, sess); err != nil {
		return err
	}
	s.audit.Record(ctx, models.AuthEvent{Type: models.EventLogout, UserID: uid})
	return nil
}

// RequestPasswordReset issues a one-hour token and mails the link when the
// email is known. The outcome is never reported to the caller.
func (s *AuthService) RequestPasswordReset(ctx context.Context, email string) {
	email = strings.TrimSpace(email)
	logger := log.WithField("email", email)

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if !errors.Is(err, repositories.ErrNotFound) {
			logger.WithError(err).Error("password reset lookup failed")
		}
		s.audit.Record(ctx, models.AuthEvent{Type: models.EventResetRequested, Email: email, Detail: "unknown email"})
		return
	}

	token, err := utils.RandomHex(resetTokenBytes)
	if err != nil {
		logger.WithError(err).Error("reset token generation failed")
		return
	}
	expiresAt := s.now().Add(ResetTokenTTL)
	if err := s.users.SetResetToken(ctx, user.ID, token, expiresAt); err != nil {
		logger.WithError(err).Error("storing reset token failed")
		return
	}

	link := s.appURL + "/#reset=" + token
	msg := MailMessage{
		To:      user.Email,
		Subject: "Password reset",
		Body: "Hello " + user.Pseudo + ",\n\n" +
			"A password reset was requested for your account. Open the link below within one hour:\n" +
			link + "\n\nIf you did not ask for this, ignore this message.",
	}
	if err := s.mailer.Send(ctx, msg); err != nil {
		logger.WithError(err).Error("sending reset mail failed")
	}

	s.audit.Record(ctx, models.AuthEvent{Type: models.EventResetRequested, UserID: &user.ID, Email: email})
}

// ConfirmPasswordReset sets a new password for the token's owner and clears the token.
func (s *AuthService) ConfirmPasswordReset(ctx context.Context, token, newPassword string) error {
	token = strings.TrimSpace(token)
	if token == "" {
		return apperr.ErrInvalidToken
	}
	if err := utils.ValidatePassword(newPassword); err != nil {
		return validationErr(err)
	}

	user, err := s.users.FindByResetToken(ctx, token)
	if errors.Is(err, repositories.ErrNotFound) {
		return apperr.ErrInvalidToken
	}
	if err != nil {
		return storageErr(err)
	}
	if user.ResetExpiresAt == nil {
		return apperr.ErrInvalidToken
	}
	if s.now().After(*user.ResetExpiresAt) {
		return apperr.ErrExpiredToken
	}

	hash, err := utils.HashPassword(newPassword)
	if err != nil {
		return apperr.Internal(err)
	}
	if err := s.users.ResetPassword(ctx, user.ID, hash); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return apperr.ErrInvalidToken
		}
		return storageErr(err)
	}

	s.audit.Record(ctx, models.AuthEvent{Type: models.EventResetConfirmed, UserID: &user.ID})
	return nil
}

func validationErr(err error) error {
	var verr *utils.ValidationError
	if errors.As(err, &verr) {
		return apperr.Validation(verr.Message).WithDetails(map[string]interface{}{"field": verr.Field})
	}
	return apperr.Validation(err.Error())
}
