package jobs

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type tokenStoreStub struct {
	cutoff time.Time
	n      int64
	err    error
}

func (s *tokenStoreStub) ClearExpiredResetTokens(_ context.Context, cutoff time.Time) (int64, error) {
	s.cutoff = cutoff
	return s.n, s.err
}

func TestSweepResetTokensUsesGraceWindow(t *testing.T) {
	now := time.Date(2024, 3, 10, 3, 30, 0, 0, time.UTC)
	store := &tokenStoreStub{n: 4}
	s := NewScheduler(store)
	s.now = func() time.Time { return now }

	n, err := s.SweepResetTokens(context.Background())
	require.NoError(t, err)
	assert.EqualValues(t, 4, n)
	assert.Equal(t, now.Add(-24*time.Hour), store.cutoff)
}

func TestSweepResetTokensError(t *testing.T) {
	s := NewScheduler(&tokenStoreStub{err: errors.New("db down")})
	_, err := s.SweepResetTokens(context.Background())
	assert.Error(t, err)
}

func TestStartStop(t *testing.T) {
	s := NewScheduler(&tokenStoreStub{})
	require.NoError(t, s.Start(context.Background()))
	assert.Len(t, s.cron.Entries(), 1)
	s.Stop()
}
