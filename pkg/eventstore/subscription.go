package eventstore

import (
	"context"
	"sync"
)

// Subscription is a long-lived stream of full replacement values. Only the
// newest undelivered value is kept.
type Subscription[T any] struct {
	updates chan T
	cancel  context.CancelFunc
	done    chan struct{}

	mu      sync.Mutex
	closed  bool
	loading bool
	err     error
}

func newSubscription[T any](cancel context.CancelFunc) *Subscription[T] {
	return &Subscription[T]{
		updates: make(chan T, 1),
		cancel:  cancel,
		done:    make(chan struct{}),
		loading: true,
	}
}

func (s *Subscription[T]) Updates() <-chan T { return s.updates }

// Loading is true until the first value (or the failure) was delivered.
func (s *Subscription[T]) Loading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loading
}

// Err reports why the subscription could not be opened, if it could not.
func (s *Subscription[T]) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

// Close stops the stream and waits for its goroutine to exit.
func (s *Subscription[T]) Close() {
	s.cancel()
	<-s.done
}

func (s *Subscription[T]) emit(v T) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.loading = false
	select {
	case <-s.updates:
	default:
	}
	s.updates <- v
}

func (s *Subscription[T]) fail(err error, empty T) {
	s.mu.Lock()
	s.err = err
	s.mu.Unlock()
	s.emit(empty)
}

func (s *Subscription[T]) finish() {
	s.mu.Lock()
	s.closed = true
	s.loading = false
	close(s.updates)
	s.mu.Unlock()
	close(s.done)
}
