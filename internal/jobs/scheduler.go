// Package jobs runs background maintenance on a cron schedule.
package jobs

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	log "github.com/sirupsen/logrus"
)

// ResetTokenGrace is how long an expired reset token is kept so that
// confirmations still report "expired" rather than "unknown".
const ResetTokenGrace = 24 * time.Hour

const resetSweepSpec = "30 3 * * *"

type ResetTokenStore interface {
	ClearExpiredResetTokens(ctx context.Context, cutoff time.Time) (int64, error)
}

type Scheduler struct {
	cron   *cron.Cron
	tokens ResetTokenStore
	now    func() time.Time
}

func NewScheduler(tokens ResetTokenStore) *Scheduler {
	return &Scheduler{
		cron:   cron.New(cron.WithLocation(time.UTC)),
		tokens: tokens,
		now:    time.Now,
	}
}

// Start registers the jobs and starts the cron runner.
func (s *Scheduler) Start(ctx context.Context) error {
	if _, err := s.cron.AddFunc(resetSweepSpec, func() {
		if _, err := s.SweepResetTokens(ctx); err != nil {
			log.WithError(err).Error("[CRON] reset token sweep failed")
		}
	}); err != nil {
		return err
	}
	s.cron.Start()
	log.Info("Job scheduler started (UTC)")
	return nil
}

// SweepResetTokens clears reset tokens that expired more than ResetTokenGrace ago.
func (s *Scheduler) SweepResetTokens(ctx context.Context) (int64, error) {
	cutoff := s.now().Add(-ResetTokenGrace)
	n, err := s.tokens.ClearExpiredResetTokens(ctx, cutoff)
	if err != nil {
		return 0, err
	}
	log.WithFields(log.Fields{"cleared": n, "cutoff": cutoff.Format(time.RFC3339)}).Info("[CRON] reset tokens swept")
	return n, nil
}

// Stop waits for running jobs to finish.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	log.Info("Job scheduler stopped")
}
