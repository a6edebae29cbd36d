package session

import (
	"errors"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrNoExpiry is returned when a token carries no exp claim.
var ErrNoExpiry = errors.New("token has no expiry")

// TokenInfo is what the client can learn from an access token without the
// signing key.
type TokenInfo struct {
	UserID    string
	ExpiresAt time.Time
}

type accessClaims struct {
	jwt.RegisteredClaims
	UserID    any    `json:"user_id"`
	TokenType string `json:"token_type"`
}

// Inspect decodes token without verifying its signature. It is only meant
// for display; the server remains the authority on validity.
func Inspect(token string) (TokenInfo, error) {
	claims := &accessClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return TokenInfo{}, err
	}
	if claims.ExpiresAt == nil {
		return TokenInfo{}, ErrNoExpiry
	}

	info := TokenInfo{ExpiresAt: claims.ExpiresAt.Time}
	switch id := claims.UserID.(type) {
	case string:
		info.UserID = id
	case float64:
		info.UserID = strconv.FormatFloat(id, 'f', -1, 64)
	}
	return info, nil
}

// Expired reports whether the token's exp lies before now.
func Expired(token string, now time.Time) bool {
	info, err := Inspect(token)
	if err != nil {
		return true
	}
	return !now.Before(info.ExpiresAt)
}
