package clock

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestTimeClocker_Now(t *testing.T) {
	before := time.Now().UTC()
	got := New().Now()
	after := time.Now().UTC()

	assert.Equal(t, time.UTC, got.Location())
	assert.False(t, got.Before(before))
	assert.False(t, got.After(after))
}

func TestFunc_Now(t *testing.T) {
	fixed := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	c := Func(func() time.Time { return fixed })

	assert.Equal(t, fixed, c.Now())
}
