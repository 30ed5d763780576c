package page

import "errors"

var (
	ErrNotLoaded = errors.New("page collection is not loaded yet")
)

// Record is anything stored in a page collection.
type Record interface {
	RecordID() int
}

// Draft is a record that has not been given an ID yet.
type Draft[T Record] interface {
	Complete(id int) T
}

// LoadState tells "still loading" apart from "loaded but empty".
type LoadState int

const (
	NotLoaded LoadState = iota
	LoadedEmpty
	LoadedWithData
)

func (s LoadState) String() string {
	switch s {
	case NotLoaded:
		return "not-loaded"
	case LoadedEmpty:
		return "loaded-empty"
	case LoadedWithData:
		return "loaded-with-data"
	default:
		return "unknown"
	}
}

// ListPage holds the append-only collection of one page load along with its
// modal toggle. It is not safe for concurrent use; callers go through a
// Dispatcher.
type ListPage[T Record] struct {
	records   []T
	loaded    bool
	modalOpen bool
}

func NewListPage[T Record]() *ListPage[T] {
	return &ListPage[T]{}
}

// Seed sets the initial collection. Only the first call has an effect.
func (p *ListPage[T]) Seed(records []T) bool {
	if p.loaded {
		return false
	}
	p.records = make([]T, len(records))
	copy(p.records, records)
	p.loaded = true
	return true
}

func (p *ListPage[T]) State() LoadState {
	switch {
	case !p.loaded:
		return NotLoaded
	case len(p.records) == 0:
		return LoadedEmpty
	default:
		return LoadedWithData
	}
}

// Records returns a copy of the collection in insertion order.
func (p *ListPage[T]) Records() []T {
	out := make([]T, len(p.records))
	copy(out, p.records)
	return out
}

func (p *ListPage[T]) Len() int {
	return len(p.records)
}

// NextID is one more than the largest ID in the collection, or 1 when empty.
func (p *ListPage[T]) NextID() int {
	next := 1
	for _, r := range p.records {
		if id := r.RecordID(); id >= next {
			next = id + 1
		}
	}
	return next
}

// Add assigns the next ID to draft, appends the record and closes the modal.
func (p *ListPage[T]) Add(draft Draft[T]) (T, error) {
	if !p.loaded {
		var zero T
		return zero, ErrNotLoaded
	}
	record := draft.Complete(p.NextID())
	p.records = append(p.records, record)
	p.modalOpen = false
	return record, nil
}

func (p *ListPage[T]) ModalOpen() bool {
	return p.modalOpen
}

func (p *ListPage[T]) OpenModal() {
	p.modalOpen = true
}

func (p *ListPage[T]) CloseModal() {
	p.modalOpen = false
}
