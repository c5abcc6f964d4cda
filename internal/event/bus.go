// Package event
package event

import "sync"

type Handler func(payload any)

// Bus is a minimal in-process pub/sub. Handlers run synchronously on the
// publishing goroutine; a handler that blocks stalls that publish only.
type Bus struct {
	mu       sync.RWMutex
	handlers map[string][]subscription
	nextID   int
}

type subscription struct {
	id      int
	handler Handler
}

func New() *Bus {
	return &Bus{handlers: make(map[string][]subscription)}
}

// Subscribe registers a handler and returns an unsubscribe func.
func (b *Bus) Subscribe(name string, h Handler) func() {
	b.mu.Lock()
	b.nextID++
	id := b.nextID
	b.handlers[name] = append(b.handlers[name], subscription{id: id, handler: h})
	b.mu.Unlock()

	return func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		subs := b.handlers[name]
		for i, sub := range subs {
			if sub.id == id {
				b.handlers[name] = append(subs[:i], subs[i+1:]...)
				break
			}
		}
		if len(b.handlers[name]) == 0 {
			delete(b.handlers, name)
		}
	}
}

func (b *Bus) Publish(name string, payload any) {
	b.mu.RLock()
	subs := make([]subscription, len(b.handlers[name]))
	copy(subs, b.handlers[name])
	b.mu.RUnlock()

	for _, sub := range subs {
		sub.handler(payload)
	}
}
