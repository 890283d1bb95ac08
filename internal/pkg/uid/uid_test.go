package uid

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUUID_Generate(t *testing.T) {
	var gen StringID = NewUUID()

	a, b := gen.Generate(), gen.Generate()
	assert.NotEqual(t, a, b)

	parsed, err := uuid.Parse(a)
	require.NoError(t, err)
	assert.Equal(t, uuid.Version(7), parsed.Version())
}

func TestSnowflake_Generate(t *testing.T) {
	_, err := NewSnowflake(1 << 20)
	require.Error(t, err)

	gen, err := NewSnowflake(-1)
	require.NoError(t, err)

	var ids NumberID = gen
	prev := ids.Generate()
	for range 100 {
		next := ids.Generate()
		assert.Greater(t, next, prev)
		prev = next
	}
}
