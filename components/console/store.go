package console

import (
	"fmt"
	"sync"
)

// IDAllocator picks the id for a record appended to a store.
type IDAllocator interface {
	Next(existing []int) int
}

// SequenceIDs hands out monotonically increasing ids that are never reused,
// even after the highest record is deleted.
type SequenceIDs struct {
	mu   sync.Mutex
	last int
}

func (s *SequenceIDs) Next(existing []int) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, id := range existing {
		if id > s.last {
			s.last = id
		}
	}
	s.last++
	return s.last
}

// LengthIDs allocates len(collection)+1, the scheme of legacy exports. After
// a deletion the allocated id can collide with a live record; stores refuse
// such commits with ErrIDConflict.
type LengthIDs struct{}

func (LengthIDs) Next(existing []int) int {
	return len(existing) + 1
}

// StoreOption customizes a Store.
type StoreOption func(*storeConfig)

type storeConfig struct {
	ids IDAllocator
}

// WithIDAllocator overrides the default SequenceIDs allocator.
func WithIDAllocator(ids IDAllocator) StoreOption {
	return func(cfg *storeConfig) {
		if ids != nil {
			cfg.ids = ids
		}
	}
}

// Store is the authoritative in-memory collection for one screen. Records
// keep their insertion order.
type Store[T Record[T]] struct {
	mu    sync.RWMutex
	items []T
	ids   IDAllocator
}

// NewStore seeds a store with a copy of seed.
func NewStore[T Record[T]](seed []T, opts ...StoreOption) *Store[T] {
	cfg := storeConfig{}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.ids == nil {
		cfg.ids = &SequenceIDs{}
	}
	items := make([]T, len(seed))
	copy(items, seed)
	return &Store[T]{items: items, ids: cfg.ids}
}

// All returns a snapshot of the collection.
func (s *Store[T]) All() []T {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]T, len(s.items))
	copy(out, s.items)
	return out
}

// Len returns the number of records.
func (s *Store[T]) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.items)
}

// Get returns the record with id.
func (s *Store[T]) Get(id int) (T, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	idx := s.indexOf(id)
	if idx < 0 {
		var zero T
		return zero, false
	}
	return s.items[idx], true
}

// Create appends item under a freshly allocated id.
func (s *Store[T]) Create(item T) (T, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	existing := make([]int, len(s.items))
	for i, it := range s.items {
		existing[i] = it.RecordID()
	}
	id := s.ids.Next(existing)
	if s.indexOf(id) >= 0 {
		var zero T
		return zero, fmt.Errorf("%w: %d", ErrIDConflict, id)
	}
	record := item.WithID(id)
	s.items = append(s.items, record)
	return record, nil
}

// Replace swaps the record stored under id, keeping id and position.
func (s *Store[T]) Replace(id int, item T) (T, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	idx := s.indexOf(id)
	if idx < 0 {
		var zero T
		return zero, fmt.Errorf("%w: %d", ErrNotFound, id)
	}
	record := item.WithID(id)
	s.items[idx] = record
	return record, nil
}

// Delete removes the record stored under id and returns it.
func (s *Store[T]) Delete(id int) (T, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	idx := s.indexOf(id)
	if idx < 0 {
		var zero T
		return zero, fmt.Errorf("%w: %d", ErrNotFound, id)
	}
	removed := s.items[idx]
	s.items = append(s.items[:idx:idx], s.items[idx+1:]...)
	return removed, nil
}

// Reset replaces the whole collection with a copy of items.
func (s *Store[T]) Reset(items []T) {
	next := make([]T, len(items))
	copy(next, items)
	s.mu.Lock()
	s.items = next
	s.mu.Unlock()
}

func (s *Store[T]) indexOf(id int) int {
	for i, item := range s.items {
		if item.RecordID() == id {
			return i
		}
	}
	return -1
}
