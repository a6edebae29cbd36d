package refreshtokens

import (
	"context"
	"sync"
	"time"

	"github.com/dmitrijs2005/propkeeper/internal/common"
)

type MemoryRepository struct {
	mu          sync.Mutex
	outstanding map[string]RefreshToken
	blacklist   map[string]time.Time
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		outstanding: make(map[string]RefreshToken),
		blacklist:   make(map[string]time.Time),
	}
}

func (r *MemoryRepository) Create(ctx context.Context, token *RefreshToken) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if token.CreatedAt.IsZero() {
		token.CreatedAt = time.Now()
	}
	r.outstanding[token.ID] = *token
	return nil
}

func (r *MemoryRepository) Find(ctx context.Context, id string) (*RefreshToken, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	t, ok := r.outstanding[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return &t, nil
}

func (r *MemoryRepository) Revoke(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.outstanding[id]; !ok {
		return common.ErrorNotFound
	}
	delete(r.outstanding, id)
	r.blacklist[id] = time.Now()
	return nil
}

func (r *MemoryRepository) IsRevoked(ctx context.Context, id string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, ok := r.blacklist[id]
	return ok, nil
}
