package store

import (
	"context"
	"sync"

	"github.com/viant/posts/internal/idgen"
	"github.com/viant/posts/service/dao"
	"github.com/viant/posts/service/dao/criteria"
)

// MemoryStore is a generic, append-only, in-memory implementation of
// dao.Service. Records keep their creation order for the lifetime of the
// store; they are never reordered, updated or removed.
//
// Records are held by value. Create copies the supplied payload and every
// read hands out fresh copies, so callers can neither mutate stored records
// nor observe later appends through a previously returned slice.
type MemoryStore[T any] struct {
	mu       sync.RWMutex
	records  []T
	index    map[string]int
	assignID func(*T, string)
}

// NewMemoryStore creates a new MemoryStore.
// assignID writes a freshly generated identifier onto a new record.
func NewMemoryStore[T any](assignID func(*T, string)) *MemoryStore[T] {
	return &MemoryStore[T]{
		index:    make(map[string]int),
		assignID: assignID,
	}
}

// Create appends a copy of v with a new identifier and returns that copy.
func (s *MemoryStore[T]) Create(_ context.Context, v *T) (*T, error) {
	if v == nil {
		return nil, dao.ErrNilEntity
	}
	record := *v
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.nextID()
	s.assignID(&record, id)
	s.index[id] = len(s.records)
	s.records = append(s.records, record)
	return &record, nil
}

// nextID returns an identifier not yet used by this store; callers hold the write lock.
func (s *MemoryStore[T]) nextID() string {
	for {
		id := idgen.New()
		if _, ok := s.index[id]; !ok && id != "" {
			return id
		}
	}
}

// Load returns a copy of the record with the given id.
func (s *MemoryStore[T]) Load(_ context.Context, id string) (*T, error) {
	if id == "" {
		return nil, dao.ErrInvalidID
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	i, ok := s.index[id]
	if !ok {
		return nil, dao.ErrNotFound
	}
	record := s.records[i]
	return &record, nil
}

// FindMany returns copies of the records selected by the Skip and Limit
// parameters, in creation order. The result is never nil.
func (s *MemoryStore[T]) FindMany(_ context.Context, parameters ...*dao.Parameter) ([]*T, error) {
	window, err := criteria.WindowOf(parameters...)
	if err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	from, to := window.Bounds(len(s.records))
	out := make([]*T, 0, to-from)
	for i := from; i < to; i++ {
		record := s.records[i]
		out = append(out, &record)
	}
	return out, nil
}

// Count returns the number of stored records.
func (s *MemoryStore[T]) Count(_ context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records), nil
}

var _ dao.Service[struct{}] = (*MemoryStore[struct{}])(nil)
