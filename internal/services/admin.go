package services

import (
	"context"
	"errors"
	"strconv"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/patobeur/inouttracker/internal/apperr"
	"github.com/patobeur/inouttracker/internal/audit"
	"github.com/patobeur/inouttracker/internal/models"
	"github.com/patobeur/inouttracker/internal/repositories"
	"github.com/patobeur/inouttracker/pkg/utils"
)

const (
	dashboardCacheKey = "admin:dashboard"
	dashboardCacheTTL = time.Minute

	MsgPromoted = "User promoted to administrator."
	MsgDemoted  = "Administrator demoted."
)

type RosterStore interface {
	List(ctx context.Context) ([]models.User, error)
	SetAdmin(ctx context.Context, id int64, isAdmin bool) error
	Count(ctx context.Context) (int64, error)
	Create(ctx context.Context, u *models.User) (int64, error)
}

type DashboardSource interface {
	Dashboard(ctx context.Context) (*models.DashboardStats, error)
}

type AdminService struct {
	users RosterStore
	stats DashboardSource
	cache *CacheService
	audit audit.Recorder
}

func NewAdminService(users RosterStore, stats DashboardSource, cache *CacheService, recorder audit.Recorder) *AdminService {
	return &AdminService{users: users, stats: stats, cache: cache, audit: recorder}
}

func (s *AdminService) ListUsers(ctx context.Context) ([]models.User, error) {
	users, err := s.users.List(ctx)
	if err != nil {
		return nil, storageErr(err)
	}
	if users == nil {
		users = []models.User{}
	}
	return users, nil
}

func (s *AdminService) Promote(ctx context.Context, actorID, targetID int64) error {
	return s.setAdmin(ctx, actorID, targetID, true)
}

// Demote removes admin rights from targetID. An admin cannot demote themself.
func (s *AdminService) Demote(ctx context.Context, actorID, targetID int64) error {
	if targetID == actorID {
		return apperr.ErrSelfDemotion
	}
	return s.setAdmin(ctx, actorID, targetID, false)
}

func (s *AdminService) setAdmin(ctx context.Context, actorID, targetID int64, isAdmin bool) error {
	if targetID <= 0 {
		return apperr.Validation("Invalid user id.")
	}
	err := s.users.SetAdmin(ctx, targetID, isAdmin)
	if errors.Is(err, repositories.ErrNotFound) {
		return apperr.NotFound("User not found.")
	}
	if err != nil {
		return storageErr(err)
	}

	s.cache.Delete(ctx, dashboardCacheKey)
	detail := "demoted"
	if isAdmin {
		detail = "promoted"
	}
	s.audit.Record(ctx, models.AuthEvent{Type: models.EventRoleChanged, UserID: &targetID,
		Detail: detail + " by user " + strconv.FormatInt(actorID, 10)})
	return nil
}

// Dashboard returns aggregate counters, cached briefly in Redis.
func (s *AdminService) Dashboard(ctx context.Context) (*models.DashboardStats, error) {
	var cached models.DashboardStats
	if s.cache.Get(ctx, dashboardCacheKey, &cached) {
		return &cached, nil
	}
	stats, err := s.stats.Dashboard(ctx)
	if err != nil {
		return nil, storageErr(err)
	}
	s.cache.Set(ctx, dashboardCacheKey, stats, dashboardCacheTTL)
	return stats, nil
}

func (s *AdminService) AuditTrail(ctx context.Context, limit int64) ([]models.AuthEvent, error) {
	events, err := s.audit.Recent(ctx, limit)
	if err != nil {
		return nil, storageErr(err)
	}
	return events, nil
}

// EnsureAdmin creates a bootstrap admin when the users table is empty.
func (s *AdminService) EnsureAdmin(ctx context.Context, email, pseudo, password string) error {
	n, err := s.users.Count(ctx)
	if err != nil {
		return err
	}
	if n > 0 {
		return nil
	}
	if err := utils.ValidateEmail(email); err != nil {
		return err
	}
	if err := utils.ValidatePseudo(pseudo); err != nil {
		return err
	}
	if err := utils.ValidatePassword(password); err != nil {
		return err
	}
	hash, err := utils.HashPassword(password)
	if err != nil {
		return err
	}
	id, err := s.users.Create(ctx, &models.User{Email: email, Pseudo: pseudo, PasswordHash: hash, IsAdmin: true})
	if err != nil {
		return err
	}
	log.WithFields(log.Fields{"user_id": id, "email": email}).Info("Seed administrator created")
	return nil
}
