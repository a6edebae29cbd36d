// Package refreshtokens tracks issued refresh tokens so that each one can be
// consumed once. A consumed or logged-out token is blacklisted.
package refreshtokens

import (
	"context"
)

type Repository interface {
	Create(ctx context.Context, token *RefreshToken) error
	Find(ctx context.Context, id string) (*RefreshToken, error)
	// Revoke moves the token to the blacklist. It fails with
	// common.ErrorNotFound when the token is not outstanding, which makes
	// it the atomic "consume" step of a rotation.
	Revoke(ctx context.Context, id string) error
	IsRevoked(ctx context.Context, id string) (bool, error)
}
