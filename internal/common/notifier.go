package common

import "sync"

// Notifier fans a change event out to registered observers. Observers run
// synchronously on the goroutine that calls Notify.
type Notifier[T any] struct {
	observers map[int]func(T)
	nextID    int
	mu        sync.Mutex
}

// Subscribe registers fn and returns a function that removes it.
func (n *Notifier[T]) Subscribe(fn func(T)) (unsubscribe func()) {
	n.mu.Lock()
	defer n.mu.Unlock()

	if n.observers == nil {
		n.observers = make(map[int]func(T))
	}
	id := n.nextID
	n.nextID++
	n.observers[id] = fn

	return func() {
		n.mu.Lock()
		defer n.mu.Unlock()
		delete(n.observers, id)
	}
}

// Notify calls every observer with event.
func (n *Notifier[T]) Notify(event T) {
	n.mu.Lock()
	fns := make([]func(T), 0, len(n.observers))
	for _, fn := range n.observers {
		fns = append(fns, fn)
	}
	n.mu.Unlock()

	for _, fn := range fns {
		fn(event)
	}
}
