package records

import (
	"context"
	"time"
)

// Row is one cached record.
type Row struct {
	Collection string
	ID         int64
	Body       []byte
	FetchedAt  time.Time
}

// Repository describes the cache operations. Implementations are typically
// backed by a local SQLite database.
type Repository interface {
	// CreateOrUpdate inserts a row or replaces the one with the same key.
	CreateOrUpdate(ctx context.Context, row *Row) error

	// GetAll returns the rows of collection ordered by id.
	GetAll(ctx context.Context, collection string) ([]Row, error)

	// GetByID returns one row or common.ErrorNotFound.
	GetByID(ctx context.Context, collection string, id int64) (*Row, error)

	// DeleteByID removes a row. Deleting a missing row is not an error.
	DeleteByID(ctx context.Context, collection string, id int64) error

	// Clear drops every cached row, e.g. on logout.
	Clear(ctx context.Context) error
}
