package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashPassword(t *testing.T) {
	hash, err := HashPassword("pw123")
	require.NoError(t, err)
	assert.NotEmpty(t, hash)
	assert.NotEqual(t, "pw123", hash)

	t.Run("matching password verifies", func(t *testing.T) {
		assert.True(t, CheckPasswordHash("pw123", hash))
	})

	t.Run("wrong password fails", func(t *testing.T) {
		assert.False(t, CheckPasswordHash("pw124", hash))
	})

	t.Run("hashes are salted", func(t *testing.T) {
		other, err := HashPassword("pw123")
		require.NoError(t, err)
		assert.NotEqual(t, hash, other)
	})
}
