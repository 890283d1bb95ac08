package migration

import (
	"io/fs"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRun_Arguments(t *testing.T) {
	require.ErrorIs(t, Run("", DirectionUp), ErrDSNRequired)

	for _, d := range []string{"", "UP", "sideways"} {
		assert.ErrorIs(t, Run("postgres://localhost/trimly", d), ErrInvalidDirection, d)
	}
}

func TestEmbeddedFiles(t *testing.T) {
	names, err := fs.Glob(files, "migrations/*.sql")
	require.NoError(t, err)
	assert.Contains(t, names, "migrations/0001_create_otps.up.sql")
	assert.Contains(t, names, "migrations/0001_create_otps.down.sql")
}
