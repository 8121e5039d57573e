// Package authtoken reads claims from the session token handed to the client.
// The client never verifies signatures; the backend does.
package authtoken

import (
	"errors"
	"strings"

	"github.com/golang-jwt/jwt/v5"
)

var ErrNoUsername = errors.New("token carries no username claim")

// Username returns the "username" claim of a JWT session token. A "Bearer "
// prefix is tolerated.
func Username(token string) (string, error) {
	token = strings.TrimSpace(strings.TrimPrefix(token, "Bearer "))
	if token == "" {
		return "", ErrNoUsername
	}

	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return "", err
	}

	username, ok := claims["username"].(string)
	if !ok || username == "" {
		return "", ErrNoUsername
	}
	return username, nil
}
