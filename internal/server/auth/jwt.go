// Package auth issues and verifies the HS256 tokens of the API.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/propkeeper/internal/common"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Claims carries the registered claims plus the user id and token type,
// serialized under the same names as simplejwt so clients can read them.
type Claims struct {
	jwt.RegisteredClaims
	UserID    string `json:"user_id"`
	TokenType string `json:"token_type"`
}

// GenerateToken signs a token of tokenType for userID. Every token gets a
// fresh jti, which is returned alongside it.
func GenerateToken(userID, tokenType string, secretKey []byte, validityDuration time.Duration) (string, string, error) {
	jti := uuid.NewString()
	now := time.Now()

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        jti,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(validityDuration)),
		},
		UserID:    userID,
		TokenType: tokenType,
	})

	tokenString, err := token.SignedString(secretKey)
	if err != nil {
		return "", "", err
	}

	return tokenString, jti, nil
}

// ParseToken verifies tokenString and checks its token_type. Expired tokens
// yield common.ErrTokenExpired, anything else that fails common.ErrInvalidToken.
func ParseToken(tokenString, tokenType string, secretKey []byte) (*Claims, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return secretKey, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, common.ErrTokenExpired
		}
		return nil, fmt.Errorf("%w: %w", common.ErrInvalidToken, err)
	}

	if !token.Valid {
		return nil, common.ErrInvalidToken
	}
	if claims.TokenType != tokenType {
		return nil, fmt.Errorf("%w: token_type %q", common.ErrInvalidToken, claims.TokenType)
	}

	return claims, nil
}

// GetUserIDFromToken returns the user id of a valid access token.
func GetUserIDFromToken(tokenString string, secretKey []byte) (string, error) {
	claims, err := ParseToken(tokenString, common.TokenTypeAccess, secretKey)
	if err != nil {
		return "", err
	}
	return claims.UserID, nil
}
