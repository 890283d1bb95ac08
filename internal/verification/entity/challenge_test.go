package entity

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestChallenge(t *testing.T) {
	now := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	c := &Challenge{ExpiresAt: now, Attempts: 2}

	assert.False(t, c.IsExpired(now))
	assert.True(t, c.IsExpired(now.Add(time.Nanosecond)))
	assert.False(t, c.IsLocked(MaxAttempts))

	c.Attempts = 3
	assert.True(t, c.IsLocked(MaxAttempts))

	assert.Equal(t, 2, Remaining(MaxAttempts, 1))
	assert.Equal(t, 0, Remaining(MaxAttempts, 3))
	assert.Equal(t, 0, Remaining(MaxAttempts, 7))
}
