package users

import (
	"context"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/dmitrijs2005/propkeeper/internal/common"
)

// MemoryRepository keeps users in a map. IDs are sequential integers
// rendered as strings, like the primary keys of the production API.
type MemoryRepository struct {
	mu     sync.RWMutex
	byName map[string]User
	lastID int64
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{byName: make(map[string]User)}
}

func (r *MemoryRepository) Create(ctx context.Context, user *User) (*User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byName[user.UserName]; exists {
		return nil, fmt.Errorf("%w: username %q is taken", common.ErrorValidation, user.UserName)
	}

	r.lastID++
	u := *user
	u.ID = strconv.FormatInt(r.lastID, 10)
	u.CreatedAt = time.Now()
	r.byName[u.UserName] = u
	return &u, nil
}

func (r *MemoryRepository) GetByUserName(ctx context.Context, userName string) (*User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.byName[userName]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return &u, nil
}
