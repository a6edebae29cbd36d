package resources

import (
	"context"
	"maps"
	"slices"
	"sync"

	"github.com/dmitrijs2005/propkeeper/internal/common"
)

type bucketKey struct {
	owner      string
	collection string
}

type MemoryRepository struct {
	mu      sync.RWMutex
	buckets map[bucketKey]map[int64]Record
	lastID  map[string]int64
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		buckets: make(map[bucketKey]map[int64]Record),
		lastID:  make(map[string]int64),
	}
}

func (r *MemoryRepository) Insert(ctx context.Context, owner, collection string, rec Record) (Record, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.lastID[collection]++
	id := r.lastID[collection]

	stored := maps.Clone(rec)
	stored["id"] = id

	key := bucketKey{owner, collection}
	if r.buckets[key] == nil {
		r.buckets[key] = make(map[int64]Record)
	}
	r.buckets[key][id] = stored
	return maps.Clone(stored), nil
}

// List returns a window of the owner's records ordered by id, plus the
// total count.
func (r *MemoryRepository) List(ctx context.Context, owner, collection string, offset, limit int) ([]Record, int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	bucket := r.buckets[bucketKey{owner, collection}]
	ids := slices.Sorted(maps.Keys(bucket))

	total := len(ids)
	if offset >= total {
		return []Record{}, total, nil
	}
	end := min(offset+limit, total)

	out := make([]Record, 0, end-offset)
	for _, id := range ids[offset:end] {
		out = append(out, maps.Clone(bucket[id]))
	}
	return out, total, nil
}

func (r *MemoryRepository) Get(ctx context.Context, owner, collection string, id int64) (Record, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rec, ok := r.buckets[bucketKey{owner, collection}][id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return maps.Clone(rec), nil
}

func (r *MemoryRepository) Delete(ctx context.Context, owner, collection string, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	bucket := r.buckets[bucketKey{owner, collection}]
	if _, ok := bucket[id]; !ok {
		return common.ErrorNotFound
	}
	delete(bucket, id)
	return nil
}
