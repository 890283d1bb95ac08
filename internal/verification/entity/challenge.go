package entity

import "time"

// MaxAttempts is how many wrong codes a challenge tolerates before it locks.
const MaxAttempts = 3

// Challenge is the single active one-time code for an email identity.
type Challenge struct {
	Email     string
	CodeHash  string
	ExpiresAt time.Time
	Attempts  int
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (c *Challenge) IsLocked(maxAttempts int) bool {
	return c.Attempts >= maxAttempts
}

// IsExpired is strict: a challenge is still valid at exactly ExpiresAt.
func (c *Challenge) IsExpired(now time.Time) bool {
	return now.After(c.ExpiresAt)
}

// Remaining returns attempts left after n failures, never negative.
func Remaining(maxAttempts, n int) int {
	return max(maxAttempts-n, 0)
}
