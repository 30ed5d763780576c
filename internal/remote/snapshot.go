package remote

import (
	"context"
	"log"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

// FetchFunc loads a full collection from the API.
type FetchFunc[T any] func(ctx context.Context) ([]T, error)

// Snapshot caches the collection that every new page starts from. A failed
// fetch is never cached: the caller gets the last good value, or an empty
// collection when there is none.
type Snapshot[T any] struct {
	name       string
	fetch      FetchFunc[T]
	revalidate time.Duration
	now        func() time.Time

	mu        sync.RWMutex
	value     []T
	fetchedAt time.Time
	hasValue  bool

	group singleflight.Group
}

// NewSnapshot creates a snapshot. A zero revalidate keeps the first
// successful fetch for the lifetime of the process.
func NewSnapshot[T any](name string, fetch FetchFunc[T], revalidate time.Duration) *Snapshot[T] {
	return &Snapshot[T]{
		name:       name,
		fetch:      fetch,
		revalidate: revalidate,
		now:        time.Now,
	}
}

// Cached returns the cached collection without fetching. The second result
// is false when nothing usable is cached or the cached value is stale.
func (s *Snapshot[T]) Cached() ([]T, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.hasValue || s.stale() {
		return nil, false
	}
	return cloneSlice(s.value), true
}

// Load returns the cached collection, fetching it first when missing or stale.
func (s *Snapshot[T]) Load(ctx context.Context) []T {
	if value, ok := s.Cached(); ok {
		return value
	}

	// Callers share one fetch, so it must not die with the first caller's
	// request. The HTTP client timeout still bounds it.
	shared := context.WithoutCancel(ctx)
	result, err, _ := s.group.Do(s.name, func() (interface{}, error) {
		value, err := s.fetch(shared)
		if err != nil {
			return nil, err
		}
		value = s.store(value)
		log.Printf("Snapshot %s: fetched %d records", s.name, len(value))
		return value, nil
	})
	if err != nil {
		log.Printf("Snapshot %s: fetch failed: %v", s.name, err)
		s.mu.RLock()
		defer s.mu.RUnlock()
		if s.hasValue {
			log.Printf("Snapshot %s: serving stale copy from %s", s.name, s.fetchedAt.Format(time.RFC3339))
			return cloneSlice(s.value)
		}
		return []T{}
	}
	return cloneSlice(result.([]T))
}

// Warm fetches the snapshot and reports whether the fetch succeeded.
func (s *Snapshot[T]) Warm(ctx context.Context) error {
	value, err := s.fetch(ctx)
	if err != nil {
		return err
	}
	value = s.store(value)
	log.Printf("Snapshot %s: warmed with %d records", s.name, len(value))
	return nil
}

func (s *Snapshot[T]) store(value []T) []T {
	if value == nil {
		value = []T{}
	}

	s.mu.Lock()
	s.value = value
	s.fetchedAt = s.now()
	s.hasValue = true
	s.mu.Unlock()

	return value
}

func (s *Snapshot[T]) stale() bool {
	if s.revalidate <= 0 {
		return false
	}
	return s.now().Sub(s.fetchedAt) > s.revalidate
}

func cloneSlice[T any](in []T) []T {
	out := make([]T, len(in))
	copy(out, in)
	return out
}
