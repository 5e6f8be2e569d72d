package password

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/adityadhiman-in/bcryptjs-authentication/internal/apperrors"
)

func TestHashAndVerify(t *testing.T) {
	hash, err := Hash("s3cret-pw", bcrypt.MinCost)
	require.NoError(t, err)
	require.NotEmpty(t, hash)
	assert.NotContains(t, hash, "s3cret-pw")

	ok, err := Verify("s3cret-pw", hash)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = Verify("wrong-pw", hash)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestHashIsSalted(t *testing.T) {
	first, err := Hash("same-password", bcrypt.MinCost)
	require.NoError(t, err)
	second, err := Hash("same-password", bcrypt.MinCost)
	require.NoError(t, err)

	assert.NotEqual(t, first, second, "salt must differ per call")

	for _, hash := range []string{first, second} {
		ok, err := Verify("same-password", hash)
		require.NoError(t, err)
		assert.True(t, ok)
	}
}

func TestVerifyMalformedHash(t *testing.T) {
	ok, err := Verify("whatever", "not-a-bcrypt-hash")
	assert.False(t, ok)
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrMalformedHash)
}

func TestHashInvalidCost(t *testing.T) {
	_, err := Hash("pw", bcrypt.MaxCost+1)
	assert.Error(t, err)
}
