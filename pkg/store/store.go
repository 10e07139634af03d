// Package store defines the versioned blob store that boreds are kept in.
//
// A store holds one opaque blob per id together with a counter. Creating an
// item sets the counter to zero and every accepted update increments it by
// exactly one. Updates name the counter they expect to replace, so two
// writers that read the same version cannot both succeed: the store is the
// sole arbiter of which write wins.
//
// Implementations live in the redisstore and sqlitestore subpackages.
package store

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// DefaultCapacity is the largest blob a store accepts unless configured
// otherwise.
const DefaultCapacity = 4 * 1024 * 1024

var (
	// ErrNotFound is returned when no item exists for an id.
	ErrNotFound = errors.New("item not found")

	// ErrAlreadyExists is returned by Create when the id already holds an item.
	ErrAlreadyExists = errors.New("item already exists")

	// ErrTooLarge is returned when content is bigger than the store capacity.
	ErrTooLarge = errors.New("content too large for store")

	// ErrCounterMismatch is returned by Update when the stored counter is not
	// the one the caller expected, meaning another writer got there first.
	ErrCounterMismatch = errors.New("counter does not match")
)

// Cost is an informational estimate of what creating an item would cost.
type Cost struct {
	// Bytes is the space reserved for the item.
	Bytes int
	// Amount is the backend specific price, "0" for self-hosted stores.
	Amount string
}

// String implements fmt.Stringer.
func (c Cost) String() string {
	return fmt.Sprintf("%s for %d bytes", c.Amount, c.Bytes)
}

// Store is a key addressed versioned blob store.
type Store interface {
	// EstimateCost estimates the cost of creating an item at id.
	EstimateCost(ctx context.Context, id string) (Cost, error)

	// Create stores content at id with counter zero. Returns ErrAlreadyExists
	// if id is taken and ErrTooLarge if content exceeds Capacity.
	Create(ctx context.Context, id string, content []byte) error

	// Get returns the content at id and its counter, or ErrNotFound.
	Get(ctx context.Context, id string) (content []byte, counter uint64, err error)

	// Update replaces the content at id if its counter is still expected and
	// returns the new counter, expected+1. Returns ErrNotFound, ErrTooLarge or
	// ErrCounterMismatch without changing anything.
	Update(ctx context.Context, id string, content []byte, expected uint64) (uint64, error)

	// Capacity is the largest content in bytes the store accepts.
	Capacity() int
}

// UpdateEvent announces an accepted write.
type UpdateEvent struct {
	ID      string    `json:"id"`
	Counter uint64    `json:"counter"`
	Writer  string    `json:"writer"`
	Time    time.Time `json:"time"`
}

// Watcher is implemented by stores that can announce updates.
type Watcher interface {
	// Watch delivers an UpdateEvent for every accepted write to id until the
	// subscription is closed or ctx is cancelled.
	Watch(ctx context.Context, id string) (*Subscription, error)
}

// IsNotFound returns true if err is or wraps ErrNotFound.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// CheckCapacity returns ErrTooLarge if content does not fit in capacity.
func CheckCapacity(content []byte, capacity int) error {
	if len(content) > capacity {
		return fmt.Errorf("%w: %d bytes, capacity is %d", ErrTooLarge, len(content), capacity)
	}
	return nil
}
