package verification

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shandysiswandi/trimly/internal/pkg/config"
)

func TestIssueLimits(t *testing.T) {
	tests := []struct {
		name         string
		yaml         string
		wantCooldown time.Duration
		wantHourly   int64
	}{
		{"unset", "modules:\n  verification: {}\n", 60 * time.Second, 10},
		{"not positive", "modules:\n  verification:\n    issue_cooldown_seconds: 0\n    issue_hourly_limit: -1\n", 60 * time.Second, 10},
		{"explicit", "modules:\n  verification:\n    issue_cooldown_seconds: 90\n    issue_hourly_limit: 4\n", 90 * time.Second, 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := config.NewViperFromBytes("yaml", []byte(tt.yaml))
			require.NoError(t, err)

			cooldown, hourly := issueLimits(cfg)
			assert.Equal(t, tt.wantCooldown, cooldown)
			assert.Equal(t, tt.wantHourly, hourly)
		})
	}
}

func TestIssueLimits_SampleConfigMatchesDefaults(t *testing.T) {
	data, err := os.ReadFile("../../config/config.yaml")
	require.NoError(t, err)

	cfg, err := config.NewViperFromBytes("yaml", data)
	require.NoError(t, err)

	cooldown, hourly := issueLimits(cfg)
	assert.Equal(t, defaultIssueCooldown, cooldown)
	assert.Equal(t, int64(defaultIssueHourlyLimit), hourly)
}
