// Package metadata stores small named values (the credential pair, the last
// username) in the local SQLite database.
package metadata

import "context"

// Repository maps string keys to opaque byte values.
//
// A missing key is common.ErrorNotFound from Get; Delete of a missing key
// is not an error. Clear drops every key.
type Repository interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, keys ...string) error
	List(ctx context.Context) (map[string][]byte, error)
	Clear(ctx context.Context) error
}
