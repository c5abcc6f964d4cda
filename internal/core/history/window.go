// Package history
package history

import "sync"

// Window is a fixed-capacity FIFO retention buffer. Pushing onto a full
// window evicts the oldest entry.
type Window[T any] struct {
	mu    sync.RWMutex
	cap   int
	items []T
}

func NewWindow[T any](capacity int) *Window[T] {
	if capacity <= 0 {
		capacity = 1
	}
	return &Window[T]{
		cap:   capacity,
		items: make([]T, 0, capacity),
	}
}

func (w *Window[T]) Push(item T) {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.items = append(w.items, item)
	if len(w.items) > w.cap {
		w.items = w.items[len(w.items)-w.cap:]
	}
}

// Items returns the retained window oldest-first.
func (w *Window[T]) Items() []T {
	w.mu.RLock()
	defer w.mu.RUnlock()

	out := make([]T, len(w.items))
	copy(out, w.items)
	return out
}

func (w *Window[T]) Len() int {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return len(w.items)
}
