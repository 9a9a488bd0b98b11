package security

import "time"

func NewRateLimiterWithClock(now func() time.Time) *RateLimiter {
	return &RateLimiter{now: now}
}
