package authz

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuthorizer(t *testing.T) {
	a, err := New([]string{
		"admin:*:subscribe",
		"support:challenge:subscribe",
		"g:auditor:support",
	})
	require.NoError(t, err)

	tests := []struct {
		role, obj, act string
		want           bool
	}{
		{"admin", "challenge", ActionSubscribe, true},
		{"admin", "booking", ActionSubscribe, true},
		{"admin", "challenge", "delete", false},
		{"support", "challenge", ActionSubscribe, true},
		{"support", "booking", ActionSubscribe, false},
		{"auditor", "challenge", ActionSubscribe, true},
		{"customer", "challenge", ActionSubscribe, false},
	}
	for _, tt := range tests {
		t.Run(tt.role+"/"+tt.obj+"/"+tt.act, func(t *testing.T) {
			ok, err := a.Can(tt.role, tt.obj, tt.act)
			require.NoError(t, err)
			assert.Equal(t, tt.want, ok)
		})
	}

	allowed, err := a.Allowed("support", ActionSubscribe, []string{"booking", "challenge"})
	require.NoError(t, err)
	assert.Equal(t, []string{"challenge"}, allowed)
}

func TestNew_InvalidPolicy(t *testing.T) {
	for _, p := range []string{"admin", "admin:challenge", "admin::subscribe", "a:b:c:d"} {
		_, err := New([]string{p})
		assert.ErrorIs(t, err, ErrInvalidPolicy, p)
	}
}

func TestNew_Empty(t *testing.T) {
	a, err := New(nil)
	require.NoError(t, err)

	ok, err := a.Can("admin", "challenge", ActionSubscribe)
	require.NoError(t, err)
	assert.False(t, ok)
}
