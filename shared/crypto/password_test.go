package crypto

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestBcryptHasher(t *testing.T) {
	h := NewBcryptHasher(bcrypt.MinCost)

	t.Run("digest verifies and is not the plaintext", func(t *testing.T) {
		digest, err := h.Hash("senha123")
		require.NoError(t, err)
		assert.NotEqual(t, "senha123", digest)

		ok, err := h.Compare("senha123", digest)
		require.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("same plaintext gives different digests", func(t *testing.T) {
		d1, err := h.Hash("senha123")
		require.NoError(t, err)
		d2, err := h.Hash("senha123")
		require.NoError(t, err)

		assert.NotEqual(t, d1, d2)
		for _, d := range []string{d1, d2} {
			ok, err := h.Compare("senha123", d)
			require.NoError(t, err)
			assert.True(t, ok)
		}
	})

	t.Run("wrong password is a mismatch, not an error", func(t *testing.T) {
		digest, err := h.Hash("senha123")
		require.NoError(t, err)

		ok, err := h.Compare("senhaErrada", digest)
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("malformed digest is an error", func(t *testing.T) {
		ok, err := h.Compare("senha123", "not-a-bcrypt-digest")
		assert.Error(t, err)
		assert.False(t, ok)
	})

	t.Run("long multibyte password", func(t *testing.T) {
		password := strings.Repeat("ç", 32) // 64 bytes
		password += strings.Repeat("€", 10) // past 72 bytes
		digest, err := h.Hash(password)
		require.NoError(t, err)

		ok, err := h.Compare(password, digest)
		require.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("invalid cost fails hashing", func(t *testing.T) {
		_, err := NewBcryptHasher(bcrypt.MaxCost + 1).Hash("senha123")
		assert.Error(t, err)
	})
}

func TestNewBcryptHasherDefaultCost(t *testing.T) {
	h := NewBcryptHasher(0)
	digest, err := h.Hash("senha123")
	require.NoError(t, err)

	cost, err := bcrypt.Cost([]byte(digest))
	require.NoError(t, err)
	assert.Equal(t, 10, cost)
}
