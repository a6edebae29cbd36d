package session

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"

	"github.com/dmitrijs2005/propkeeper/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/propkeeper/internal/common"
	"github.com/dmitrijs2005/propkeeper/internal/dbx"
)

// Pair is the access/refresh credential pair.
type Pair struct {
	Access  string
	Refresh string
}

// Empty reports whether neither token is set.
func (p Pair) Empty() bool {
	return p.Access == "" && p.Refresh == ""
}

// Store persists a Pair. Load returns a zero Pair and nil error when nothing
// is stored.
type Store interface {
	Load(ctx context.Context) (Pair, error)
	Save(ctx context.Context, p Pair) error
	Clear(ctx context.Context) error
}

// MemoryStore keeps the pair in process memory only.
type MemoryStore struct {
	mu   sync.Mutex
	pair Pair
}

func NewMemoryStore(initial Pair) *MemoryStore {
	return &MemoryStore{pair: initial}
}

func (m *MemoryStore) Load(ctx context.Context) (Pair, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.pair, nil
}

func (m *MemoryStore) Save(ctx context.Context, p Pair) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pair = p
	return nil
}

func (m *MemoryStore) Clear(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pair = Pair{}
	return nil
}

// SQLiteStore keeps the pair in the metadata table. Both keys are written
// and removed in one transaction so a crash never leaves half a pair.
type SQLiteStore struct {
	db *sql.DB
}

func NewSQLiteStore(db *sql.DB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

func (s *SQLiteStore) Load(ctx context.Context) (Pair, error) {
	repo := metadata.NewSQLiteRepository(s.db)

	access, err := repo.Get(ctx, common.AccessTokenKey)
	if err != nil && !errors.Is(err, common.ErrorNotFound) {
		return Pair{}, fmt.Errorf("load access token: %w", err)
	}
	refresh, err := repo.Get(ctx, common.RefreshTokenKey)
	if err != nil && !errors.Is(err, common.ErrorNotFound) {
		return Pair{}, fmt.Errorf("load refresh token: %w", err)
	}

	return Pair{Access: string(access), Refresh: string(refresh)}, nil
}

func (s *SQLiteStore) Save(ctx context.Context, p Pair) error {
	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := metadata.NewSQLiteRepository(tx)
		if err := repo.Set(ctx, common.AccessTokenKey, []byte(p.Access)); err != nil {
			return err
		}
		return repo.Set(ctx, common.RefreshTokenKey, []byte(p.Refresh))
	})
}

func (s *SQLiteStore) Clear(ctx context.Context) error {
	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		return metadata.NewSQLiteRepository(tx).Delete(ctx, common.AccessTokenKey, common.RefreshTokenKey)
	})
}
