// Package common contains shared constants and sentinel errors used across
// propkeeper components.
package common

// Header names used on both sides of the API.
const (
	AuthorizationHeaderName = "Authorization"
	RequestIDHeaderName     = "X-Request-ID"
	BearerPrefix            = "Bearer "
)

// Keys under which the credential pair is persisted in the local metadata store.
const (
	AccessTokenKey  = "access_token"
	RefreshTokenKey = "refresh_token"
)

// Token type claim values, as issued by simplejwt.
const (
	TokenTypeAccess  = "access"
	TokenTypeRefresh = "refresh"
)

// UsernameKey holds the last username that logged in, to prefill the prompt.
const UsernameKey = "username"
