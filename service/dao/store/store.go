// Package store provides a generic in-memory record store that concrete
// registries embed to avoid repeating identical Save/Load/Delete/List logic
// for every entity type. It deliberately contains no business filtering;
// higher-level registries override List when they need criteria or ordering.
package store

import (
	"context"
	"sync"

	"github.com/viant/tarmac/service/dao"
)

// Memory keeps entities of type *T mapped by a comparable key extracted with
// the supplied selector. It is safe for concurrent use.
type Memory[K comparable, T any] struct {
	mu       sync.RWMutex
	records  map[K]*T
	keyOf    func(*T) K
	validKey func(K) bool
}

// NewMemory creates a store; keyOf extracts the entity key (usually the ID
// field) from a value.
func NewMemory[K comparable, T any](keyOf func(*T) K) *Memory[K, T] {
	var zero K
	return &Memory[K, T]{
		records: make(map[K]*T),
		keyOf:   keyOf,
		validKey: func(k K) bool {
			return k != zero
		},
	}
}

// Save stores or overwrites a record. Saving an existing key replaces the
// entry; id uniqueness is the caller's concern.
func (s *Memory[K, T]) Save(_ context.Context, v *T) error {
	if v == nil {
		return dao.ErrNilEntity
	}
	key := s.keyOf(v)
	if !s.validKey(key) {
		return dao.ErrInvalidID
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records[key] = v
	return nil
}

// Load returns a record by key or dao.ErrNotFound.
func (s *Memory[K, T]) Load(_ context.Context, key K) (*T, error) {
	if !s.validKey(key) {
		return nil, dao.ErrInvalidID
	}
	s.mu.RLock()
	v, ok := s.records[key]
	s.mu.RUnlock()
	if !ok {
		return nil, dao.ErrNotFound
	}
	return v, nil
}

// Delete removes a record.
func (s *Memory[K, T]) Delete(_ context.Context, key K) error {
	if !s.validKey(key) {
		return dao.ErrInvalidID
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.records[key]; !ok {
		return dao.ErrNotFound
	}
	delete(s.records, key)
	return nil
}

// Clear removes every record.
func (s *Memory[K, T]) Clear(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = make(map[K]*T)
	return nil
}

// List returns all records in unspecified order.
func (s *Memory[K, T]) List(_ context.Context, _ ...*dao.Parameter) ([]*T, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*T, 0, len(s.records))
	for _, v := range s.records {
		out = append(out, v)
	}
	return out, nil
}

// Size returns the number of stored records.
func (s *Memory[K, T]) Size() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}
