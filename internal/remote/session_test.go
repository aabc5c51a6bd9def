package remote

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func signedToken(t *testing.T, claims jwt.RegisteredClaims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	require.NoError(t, err)
	return token
}

func TestSession_UserID(t *testing.T) {
	s := NewSession(signedToken(t, jwt.RegisteredClaims{Subject: "user-1"}))

	id, err := s.UserID()
	require.NoError(t, err)
	assert.Equal(t, "user-1", id)
}

func TestSession_UserID_Errors(t *testing.T) {
	_, err := NewSession("").UserID()
	require.ErrorIs(t, err, ErrUnauthorized)

	_, err = NewSession("not-a-jwt").UserID()
	require.ErrorIs(t, err, ErrUnauthorized)

	_, err = NewSession(signedToken(t, jwt.RegisteredClaims{})).UserID()
	require.ErrorIs(t, err, ErrUnauthorized)
}

func TestSession_Valid(t *testing.T) {
	now := time.Now()

	live := NewSession(signedToken(t, jwt.RegisteredClaims{
		Subject:   "user-1",
		ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour)),
	}))
	assert.True(t, live.Valid(now))
	assert.False(t, live.Valid(now.Add(2*time.Hour)))

	// no exp claim means the token never expires client-side
	eternal := NewSession(signedToken(t, jwt.RegisteredClaims{Subject: "user-1"}))
	assert.True(t, eternal.Valid(now))

	assert.False(t, NewSession("").Valid(now))
}
