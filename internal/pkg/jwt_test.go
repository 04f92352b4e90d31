package pkg

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVerifyTokenRoundTrip(t *testing.T) {
	secret := []byte("s3cret")

	token, err := SignToken(secret, "m1", time.Minute)
	require.NoError(t, err)

	uid, err := VerifyToken(secret, token)
	require.NoError(t, err)
	assert.Equal(t, "m1", uid)
}

func TestVerifyTokenExpired(t *testing.T) {
	secret := []byte("s3cret")

	token, err := SignToken(secret, "m1", -time.Minute)
	require.NoError(t, err)

	_, err = VerifyToken(secret, token)
	assert.ErrorIs(t, err, ErrTokenExpired)
}

func TestVerifyTokenWrongSecret(t *testing.T) {
	token, err := SignToken([]byte("one"), "m1", time.Minute)
	require.NoError(t, err)

	_, err = VerifyToken([]byte("two"), token)
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestVerifyTokenGarbage(t *testing.T) {
	_, err := VerifyToken([]byte("s"), "not-a-token")
	assert.ErrorIs(t, err, ErrTokenInvalid)
}
