// Package event holds the observer list shared by change notification,
// command enablement and the view-model error channel.
package event

import (
	"sync"

	"github.com/google/uuid"
)

// ID identifies one subscription on a Bus.
type ID string

type subscriber[T any] struct {
	id ID
	fn func(T)
}

// Bus is an ordered list of callbacks. The zero value is ready to use.
//
// Publish calls every subscriber registered at the time of the call, in
// registration order, before returning. Subscribe and Unsubscribe may be
// called at any time, including from inside a callback; changes apply to
// the next Publish.
type Bus[T any] struct {
	mu   sync.Mutex
	subs []subscriber[T]
}

// Subscribe appends fn and returns the ID needed to remove it again.
func (b *Bus[T]) Subscribe(fn func(T)) ID {
	id := ID(uuid.NewString())
	b.mu.Lock()
	defer b.mu.Unlock()
	b.subs = append(b.subs, subscriber[T]{id: id, fn: fn})
	return id
}

// Unsubscribe removes the subscription. It reports whether id was found.
func (b *Bus[T]) Unsubscribe(id ID) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	for i, s := range b.subs {
		if s.id == id {
			b.subs = append(b.subs[:i], b.subs[i+1:]...)
			return true
		}
	}
	return false
}

// Len returns the number of current subscribers.
func (b *Bus[T]) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.subs)
}

// Publish calls every current subscriber synchronously with v.
func (b *Bus[T]) Publish(v T) {
	for _, fn := range b.Snapshot() {
		fn(v)
	}
}

// Snapshot returns the current callbacks in registration order.
func (b *Bus[T]) Snapshot() []func(T) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if len(b.subs) == 0 {
		return nil
	}
	fns := make([]func(T), len(b.subs))
	for i, s := range b.subs {
		fns[i] = s.fn
	}
	return fns
}
