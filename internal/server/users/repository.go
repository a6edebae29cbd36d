// Package users holds accounts and the token lifecycle: login, refresh
// with rotation, and logout.
package users

import "context"

// Repository stores accounts. Create fails with common.ErrorValidation when
// the username is taken; GetByUserName reports common.ErrorNotFound.
type Repository interface {
	Create(ctx context.Context, user *User) (*User, error)
	GetByUserName(ctx context.Context, userName string) (*User, error)
}
