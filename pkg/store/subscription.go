package store

import (
	"context"
	"sync"
)

// Subscription is an active stream of update events.
// Caller must call Close() when done to clean up resources.
type Subscription struct {
	events <-chan UpdateEvent
	errors <-chan error
	cancel func()
	once   sync.Once
}

// NewSubscription starts run in its own goroutine and returns a subscription
// delivering what it sends. Both channels are buffered (size 10) and closed
// once run returns, errors first so that a reader seeing Events closed has
// already been offered every error. run must stop when its context is done.
func NewSubscription(ctx context.Context, run func(ctx context.Context, events chan<- UpdateEvent, errs chan<- error)) *Subscription {
	eventsChan := make(chan UpdateEvent, 10)
	errorsChan := make(chan error, 10)

	subCtx, cancelFunc := context.WithCancel(ctx)

	go func() {
		run(subCtx, eventsChan, errorsChan)
		close(errorsChan)
		close(eventsChan)
	}()

	return &Subscription{
		events: eventsChan,
		errors: errorsChan,
		cancel: cancelFunc,
	}
}

// Events returns the channel of update events.
// The channel will be closed when the subscription is closed or the context is cancelled.
func (s *Subscription) Events() <-chan UpdateEvent {
	return s.events
}

// Errors returns the channel of subscription errors.
// The subscription continues after errors.
func (s *Subscription) Errors() <-chan error {
	return s.errors
}

// Close stops the subscription. Implements io.Closer.
// Safe to call multiple times - subsequent calls are no-ops.
func (s *Subscription) Close() error {
	s.once.Do(s.cancel)
	return nil
}
