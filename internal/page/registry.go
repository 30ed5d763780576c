package page

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
)

var (
	ErrNotFound = errors.New("page not found")
)

// IDPattern matches the page IDs handed out by Registry.Create, for use in
// route variables.
const IDPattern = "[0-9a-f]{8}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{12}"

type entry[P any] struct {
	owner    string
	page     P
	lastSeen time.Time
}

// Registry keeps the live pages of one kind, keyed by page ID. A page is only
// handed back to the visitor that created it.
type Registry[P any] struct {
	mu      sync.RWMutex
	entries map[string]*entry[P]
	now     func() time.Time
}

func NewRegistry[P any]() *Registry[P] {
	return &Registry[P]{
		entries: make(map[string]*entry[P]),
		now:     time.Now,
	}
}

// Create stores page for owner and returns its new ID.
func (r *Registry[P]) Create(owner string, page P) string {
	id := uuid.New().String()

	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries[id] = &entry[P]{owner: owner, page: page, lastSeen: r.now()}
	return id
}

// Get returns the page and marks it as recently used. Pages owned by someone
// else are reported as not found.
func (r *Registry[P]) Get(id, owner string) (P, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.entries[id]
	if !ok || e.owner != owner {
		var zero P
		return zero, ErrNotFound
	}
	e.lastSeen = r.now()
	return e.page, nil
}

// Sweep drops pages idle for longer than maxIdle and returns how many went.
func (r *Registry[P]) Sweep(maxIdle time.Duration) int {
	cutoff := r.now().Add(-maxIdle)

	r.mu.Lock()
	defer r.mu.Unlock()

	removed := 0
	for id, e := range r.entries {
		if e.lastSeen.Before(cutoff) {
			delete(r.entries, id)
			removed++
		}
	}
	return removed
}

func (r *Registry[P]) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.entries)
}
