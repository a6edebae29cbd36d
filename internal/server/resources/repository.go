package resources

import (
	"context"
)

// Record is one stored object in its wire form.
type Record map[string]any

// Repository stores records per owner and collection. Ids are assigned per
// collection, unique across owners.
type Repository interface {
	Insert(ctx context.Context, owner, collection string, rec Record) (Record, error)
	List(ctx context.Context, owner, collection string, offset, limit int) ([]Record, int, error)
	Get(ctx context.Context, owner, collection string, id int64) (Record, error)
	Delete(ctx context.Context, owner, collection string, id int64) error
}
