package security

import (
	"time"

	"github.com/patobeur/inouttracker/internal/apperr"
	"github.com/patobeur/inouttracker/internal/session"
)

// Limit is a maximum number of attempts within a trailing window.
type Limit struct {
	Max    int
	Window time.Duration
}

var (
	RegisterLimit     = Limit{Max: 5, Window: time.Hour}
	LoginLimit        = Limit{Max: 10, Window: time.Minute}
	ResetRequestLimit = Limit{Max: 5, Window: time.Hour}
)

// RateLimiter is a sliding-window counter whose state lives in the session.
type RateLimiter struct {
	now func() time.Time
}

func NewRateLimiter() *RateLimiter {
	return &RateLimiter{now: time.Now}
}

// Check prunes attempts older than the window, rejects when Max remain and
// otherwise records this attempt. Rejected attempts are not recorded.
func (l *RateLimiter) Check(s *session.Session, action, clientKey string, limit Limit) error {
	key := action + ":" + clientKey
	now := l.now().Unix()
	cutoff := now - int64(limit.Window/time.Second)

	var kept []int64
	for _, ts := range s.Data.RateLimits[key] {
		if ts > cutoff {
			kept = append(kept, ts)
		}
	}

	if s.Data.RateLimits == nil {
		s.Data.RateLimits = make(map[string][]int64)
	}

	if len(kept) >= limit.Max {
		s.Data.RateLimits[key] = kept
		return apperr.ErrRateLimited
	}

	s.Data.RateLimits[key] = append(kept, now)
	return nil
}
