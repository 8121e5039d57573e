package authtoken

import (
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func signed(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("secret"))
	require.NoError(t, err)
	return s
}

func TestUsername(t *testing.T) {
	token := signed(t, jwt.MapClaims{"username": "alice"})

	name, err := Username(token)
	require.NoError(t, err)
	assert.Equal(t, "alice", name)

	name, err = Username("Bearer " + token)
	require.NoError(t, err)
	assert.Equal(t, "alice", name)
}

func TestUsername_MissingClaim(t *testing.T) {
	_, err := Username(signed(t, jwt.MapClaims{"sub": "42"}))
	assert.ErrorIs(t, err, ErrNoUsername)
}

func TestUsername_NotAJWT(t *testing.T) {
	_, err := Username("opaque-session-token")
	assert.Error(t, err)

	_, err = Username("")
	assert.ErrorIs(t, err, ErrNoUsername)
}
