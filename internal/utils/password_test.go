package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashAndCheckPassword(t *testing.T) {
	hash, err := HashPassword("abc123")
	require.NoError(t, err)
	assert.NotEqual(t, "abc123", hash)

	assert.True(t, CheckPasswordHash("abc123", hash))
	assert.False(t, CheckPasswordHash("abc124", hash))
}

func TestGenerateVerificationCode(t *testing.T) {
	seen := map[string]bool{}
	for i := 0; i < 20; i++ {
		code, err := GenerateVerificationCode()
		require.NoError(t, err)
		require.Len(t, code, 6)
		for _, r := range code {
			assert.True(t, r >= '0' && r <= '9')
		}
		seen[code] = true
	}
	// 20 draws from a million values colliding down to one would mean a
	// broken generator.
	assert.Greater(t, len(seen), 1)
}
