package records

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/propkeeper/internal/common"
	"github.com/dmitrijs2005/propkeeper/internal/dbx"
)

// SQLiteRepository implements Repository using a DBTX (either *sql.DB or *sql.Tx).
type SQLiteRepository struct {
	db dbx.DBTX
}

// NewSQLiteRepository returns a new SQLiteRepository bound to the given DBTX.
func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

// CreateOrUpdate upserts a row by (collection, id).
func (r *SQLiteRepository) CreateOrUpdate(ctx context.Context, row *Row) error {
	query := `INSERT INTO records (collection, id, body, fetched_at)
			VALUES (?, ?, ?, ?)
			ON CONFLICT(collection, id) DO UPDATE SET body = excluded.body,
				fetched_at = excluded.fetched_at
	`
	_, err := r.db.ExecContext(ctx, query, row.Collection, row.ID, row.Body, row.FetchedAt.Unix())
	if err != nil {
		return fmt.Errorf("failed to upsert record: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) GetAll(ctx context.Context, collection string) ([]Row, error) {
	query := `SELECT id, body, fetched_at FROM records WHERE collection = ? ORDER BY id`
	rows, err := r.db.QueryContext(ctx, query, collection)
	if err != nil {
		return nil, fmt.Errorf("failed to select records: %w", err)
	}
	defer rows.Close()

	var result []Row
	for rows.Next() {
		item := Row{Collection: collection}
		var fetched int64
		if err := rows.Scan(&item.ID, &item.Body, &fetched); err != nil {
			return nil, err
		}
		item.FetchedAt = time.Unix(fetched, 0)
		result = append(result, item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *SQLiteRepository) GetByID(ctx context.Context, collection string, id int64) (*Row, error) {
	query := `SELECT body, fetched_at FROM records WHERE collection = ? AND id = ?`
	row := r.db.QueryRowContext(ctx, query, collection, id)

	item := &Row{Collection: collection, ID: id}
	var fetched int64
	if err := row.Scan(&item.Body, &fetched); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("query row scan failed: %w", err)
	}
	item.FetchedAt = time.Unix(fetched, 0)
	return item, nil
}

func (r *SQLiteRepository) DeleteByID(ctx context.Context, collection string, id int64) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM records WHERE collection = ? AND id = ?`, collection, id); err != nil {
		return fmt.Errorf("failed to delete record: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) Clear(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM records`); err != nil {
		return fmt.Errorf("failed to clear records: %w", err)
	}
	return nil
}
