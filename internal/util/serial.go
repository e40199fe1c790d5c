package util

import (
	"context"
	"sync"
)

// Serial runs functions one at a time on a single goroutine. Hosts without
// a UI thread of their own use it to give view-models one.
type Serial struct {
	ch       chan func()
	done     chan struct{}
	stopOnce sync.Once
}

func NewSerial() *Serial {
	return &Serial{ch: make(chan func(), 64), done: make(chan struct{})}
}

// Run processes queued functions until ctx is done. After Run returns,
// Post and Do drop their functions instead of blocking.
func (s *Serial) Run(ctx context.Context) {
	defer s.stopOnce.Do(func() { close(s.done) })
	for {
		select {
		case <-ctx.Done():
			return
		case f := <-s.ch:
			f()
		}
	}
}

// Post queues f and returns immediately.
func (s *Serial) Post(f func()) {
	select {
	case s.ch <- f:
	case <-s.done:
	}
}

// Do queues f and waits until it has run or Run has stopped. Calling Do
// from inside a function run by s deadlocks.
func (s *Serial) Do(f func()) {
	ran := make(chan struct{})
	select {
	case s.ch <- func() {
		defer close(ran)
		f()
	}:
	case <-s.done:
		return
	}
	select {
	case <-ran:
	case <-s.done:
	}
}
