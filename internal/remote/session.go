package remote

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Session holds the backend access token. The token is issued by the auth
// flow (outside this program); we only read its claims, we never verify the
// signature — that is the server's job.
type Session struct {
	AccessToken string
}

func NewSession(accessToken string) *Session {
	return &Session{AccessToken: accessToken}
}

func (s *Session) claims() (*jwt.RegisteredClaims, error) {
	if s == nil || s.AccessToken == "" {
		return nil, ErrUnauthorized
	}
	claims := &jwt.RegisteredClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(s.AccessToken, claims); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnauthorized, err)
	}
	return claims, nil
}

// UserID returns the authenticated user id (the token's sub claim).
func (s *Session) UserID() (string, error) {
	claims, err := s.claims()
	if err != nil {
		return "", err
	}
	if claims.Subject == "" {
		return "", ErrUnauthorized
	}
	return claims.Subject, nil
}

// Valid reports whether the token has not expired yet. Tokens without an
// exp claim are treated as valid.
func (s *Session) Valid(now time.Time) bool {
	claims, err := s.claims()
	if err != nil {
		return false
	}
	if claims.ExpiresAt == nil {
		return true
	}
	return now.Before(claims.ExpiresAt.Time)
}
