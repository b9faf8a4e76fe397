package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestHashAndVerify(t *testing.T) {
	h := NewBcryptHasher(bcrypt.MinCost)

	hash, err := h.Hash("s3cret-joyas")
	require.NoError(t, err)

	assert.True(t, h.Verify(hash, "s3cret-joyas"))
	assert.False(t, h.Verify(hash, "s3cret-joyaS"))
	assert.False(t, h.Verify(hash, ""))
}

func TestHash_SaltsEveryCall(t *testing.T) {
	a, err := HashPassword("same", bcrypt.MinCost)
	require.NoError(t, err)
	b, err := HashPassword("same", bcrypt.MinCost)
	require.NoError(t, err)

	assert.NotEqual(t, a, b)
	assert.True(t, VerifyPassword(a, "same"))
	assert.True(t, VerifyPassword(b, "same"))
}

func TestVerify_CorruptHashes(t *testing.T) {
	corrupt := []string{
		"",
		"   ",
		"\t\n",
		"not-a-hash",
		"$2a$",
		"$2a$10$",
		"$2a$99$abcdefghijklmnopqrstuuabcdefghijklmnopqrstuvwxyz01234",
		"$2x$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy",
		"$argon2id$v=19$m=65536,t=3,p=4$c2FsdA$aGFzaA",
		string([]byte{0xff, 0xfe, 0x00}),
	}
	for _, hash := range corrupt {
		assert.NotPanics(t, func() {
			assert.False(t, VerifyPassword(hash, "password"), "hash %q", hash)
		})
	}
}

func TestNewBcryptHasher_ClampsCost(t *testing.T) {
	assert.Equal(t, bcrypt.DefaultCost, NewBcryptHasher(0).Cost)
	assert.Equal(t, bcrypt.DefaultCost, NewBcryptHasher(99).Cost)
	assert.Equal(t, 12, NewBcryptHasher(12).Cost)
}
