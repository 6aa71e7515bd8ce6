package debounce

import (
	"slices"
	"sync"
)

// Flusher is implemented by every Debouncer regardless of its argument type.
type Flusher interface {
	Trigger()
}

// Registry holds debouncers with pending actions in scheduling order.
// The zero value is ready to use.
type Registry struct {
	mu    sync.Mutex
	items []Flusher
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{}
}

// FlushAll triggers every registered debouncer and empties the registry.
// Debouncers scheduled by the triggered actions are kept for the next flush.
// It returns the number of debouncers triggered.
func (r *Registry) FlushAll() int {
	r.mu.Lock()
	items := r.items
	r.items = nil
	r.mu.Unlock()

	for _, f := range items {
		f.Trigger()
	}
	return len(items)
}

// Len returns the number of registered debouncers.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.items)
}

func (r *Registry) add(f Flusher) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !slices.Contains(r.items, f) {
		r.items = append(r.items, f)
	}
}

func (r *Registry) remove(f Flusher) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if idx := slices.Index(r.items, f); idx != -1 {
		r.items = slices.Delete(r.items, idx, idx+1)
	}
}
