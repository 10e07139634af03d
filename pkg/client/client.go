// Package client implements the bored synchronization protocol on top of a
// versioned blob store.
//
// State is explicit: every call takes the State it works from and returns
// the State that results, and a failed call either returns the State it was
// given or a fully replaced one. Nothing is cached inside the Client, so one
// Client may serve any number of boreds and goroutines.
//
// Publishing is optimistic. The client re-reads the stored bored, refuses to
// write if someone else has written since the caller last fetched, and
// otherwise writes naming the counter it fetched. The store rejects the write
// if the counter moved in between. Either way the caller receives a
// *ConflictError carrying the latest remote bored; there is no merge and no
// automatic retry.
package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/dyluth/bored/pkg/address"
	"github.com/dyluth/bored/pkg/bored"
	"github.com/dyluth/bored/pkg/store"
)

// State is what a client knows about one bored.
type State struct {
	Address address.Address
	Bored   *bored.Bored
	Counter uint64
	// Fetched is true once Bored and Counter came from the store.
	Fetched bool
}

// Outcome classifies the result of a publish for observers.
type Outcome string

const (
	OutcomePublished Outcome = "published"
	OutcomeConflict  Outcome = "conflict"
	OutcomeTooLarge  Outcome = "too_large"
	OutcomeError     Outcome = "error"
)

// Observer is told about every protocol call, typically to record metrics.
type Observer interface {
	ObserveFetch(duration time.Duration, err error)
	ObservePublish(outcome Outcome, duration time.Duration)
}

type nopObserver struct{}

func (nopObserver) ObserveFetch(time.Duration, error)     {}
func (nopObserver) ObservePublish(Outcome, time.Duration) {}

// Client runs the protocol against a store.
type Client struct {
	store    store.Store
	logger   *zap.Logger
	observer Observer
}

// Option configures a Client.
type Option func(*Client)

// WithLogger sets the logger. The default discards everything.
func WithLogger(logger *zap.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithObserver sets the observer told about each fetch and publish.
func WithObserver(observer Observer) Option {
	return func(c *Client) {
		c.observer = observer
	}
}

// New creates a client for s.
func New(s store.Store, opts ...Option) *Client {
	c := &Client{
		store:    s,
		logger:   zap.NewNop(),
		observer: nopObserver{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Store returns the underlying store.
func (c *Client) Store() store.Store {
	return c.store
}

// EstimateCost estimates what creating a bored at addr would cost. A nil
// addr estimates for a fresh random address.
func (c *Client) EstimateCost(ctx context.Context, addr address.Address) (store.Cost, error) {
	if addr == nil {
		fresh, err := address.NewKeyAddress()
		if err != nil {
			return store.Cost{}, err
		}
		addr = fresh
	}
	cost, err := c.store.EstimateCost(ctx, addr.ResolveKey().StoreID())
	if err != nil {
		return store.Cost{}, fmt.Errorf("failed to estimate cost: %w", err)
	}
	return cost, nil
}

// Create stores a new empty bored at addr and returns its fetched state. A
// nil addr creates the bored at a fresh random address.
func (c *Client) Create(ctx context.Context, name string, dimensions bored.Coordinate, addr address.Address) (State, error) {
	if addr == nil {
		fresh, err := address.NewKeyAddress()
		if err != nil {
			return State{}, err
		}
		addr = fresh
	}

	b := bored.New(name, dimensions)
	blob, err := c.encode(addr, b)
	if err != nil {
		return State{}, err
	}

	if err := c.store.Create(ctx, addr.ResolveKey().StoreID(), blob); err != nil {
		return State{}, fmt.Errorf("failed to create bored: %w", err)
	}
	c.logger.Info("created bored", zap.String("name", name), zap.Stringer("dimensions", dimensions))

	// read back rather than trusting the local copy
	return c.Load(ctx, addr)
}

// Fetch reads the bored stored at addr together with its counter.
func (c *Client) Fetch(ctx context.Context, addr address.Address) (*bored.Bored, uint64, error) {
	start := time.Now()
	b, counter, err := c.fetch(ctx, addr)
	c.observer.ObserveFetch(time.Since(start), err)
	if err != nil {
		c.logger.Debug("fetch failed", zap.Error(err))
		return nil, 0, err
	}
	c.logger.Debug("fetched bored", zap.String("name", b.Name()), zap.Uint64("counter", counter))
	return b, counter, nil
}

func (c *Client) fetch(ctx context.Context, addr address.Address) (*bored.Bored, uint64, error) {
	key := addr.ResolveKey()
	blob, counter, err := c.store.Get(ctx, key.StoreID())
	if err != nil {
		return nil, 0, fmt.Errorf("failed to get bored: %w", err)
	}

	contentType, plaintext, err := open(key, blob)
	if err != nil {
		return nil, 0, &FetchError{Address: addr.String(), Kind: ErrDecryption, Err: err}
	}
	if _, err := bored.CheckProtocolVersion(contentType); err != nil {
		return nil, 0, &FetchError{Address: addr.String(), Kind: ErrDeserialization, Err: err}
	}
	if !utf8.Valid(plaintext) {
		return nil, 0, &FetchError{Address: addr.String(), Kind: ErrBinary}
	}

	var b bored.Bored
	if err := json.Unmarshal(plaintext, &b); err != nil {
		return nil, 0, &FetchError{Address: addr.String(), Kind: ErrDeserialization, Err: err}
	}
	return &b, counter, nil
}

// Load fetches addr into a new State.
func (c *Client) Load(ctx context.Context, addr address.Address) (State, error) {
	b, counter, err := c.Fetch(ctx, addr)
	if err != nil {
		return State{}, err
	}
	return State{Address: addr, Bored: b, Counter: counter, Fetched: true}, nil
}

// Refresh re-fetches the bored of state. On error state is returned as is.
func (c *Client) Refresh(ctx context.Context, state State) (State, error) {
	if state.Address == nil {
		return state, ErrNoBored
	}
	fresh, err := c.Load(ctx, state.Address)
	if err != nil {
		return state, err
	}
	return fresh, nil
}

// Publish writes local as the new version of the bored in state.
//
// It fails with ErrNeverFetched if state has no counter, and with a
// *ConflictError if the stored bored moved on since state was fetched,
// either before the write or during it; state is returned unchanged in both
// cases. If local is too big for the store, the most recent and then the
// oldest notice are dropped from a copy of local and ErrCapacityExceeded is
// returned with that smaller bored in the returned state, so the caller can
// try again. On success the bored is re-fetched and the fresh state returned.
func (c *Client) Publish(ctx context.Context, state State, local *bored.Bored) (State, error) {
	start := time.Now()
	next, outcome, err := c.publish(ctx, state, local)
	c.observer.ObservePublish(outcome, time.Since(start))
	return next, err
}

func (c *Client) publish(ctx context.Context, state State, local *bored.Bored) (State, Outcome, error) {
	if !state.Fetched || state.Address == nil {
		return state, OutcomeError, ErrNeverFetched
	}

	remote, remoteCounter, err := c.Fetch(ctx, state.Address)
	if err != nil {
		return state, OutcomeError, err
	}
	if remoteCounter > state.Counter {
		c.logger.Info("newer bored exists, not publishing",
			zap.Uint64("cached_counter", state.Counter),
			zap.Uint64("remote_counter", remoteCounter))
		return state, OutcomeConflict, &ConflictError{Remote: remote, Counter: remoteCounter}
	}

	blob, err := c.encode(state.Address, local)
	if err != nil {
		return state, OutcomeError, err
	}

	id := state.Address.ResolveKey().StoreID()
	counter, err := c.store.Update(ctx, id, blob, state.Counter)
	switch {
	case errors.Is(err, store.ErrTooLarge):
		shrunk := local.Clone()
		// the newest notice is what tipped it over, the oldest makes room for the next
		shrunk.RemoveNewest()
		shrunk.RemoveOldest()
		c.logger.Warn("bored too big for store, dropped newest and oldest notices",
			zap.Int("blob_bytes", len(blob)),
			zap.Int("capacity", c.store.Capacity()),
			zap.Int("notices_left", shrunk.Len()))
		next := state
		next.Bored = shrunk
		return next, OutcomeTooLarge, fmt.Errorf("%w: %d bytes, capacity is %d", ErrCapacityExceeded, len(blob), c.store.Capacity())

	case errors.Is(err, store.ErrCounterMismatch):
		remote, remoteCounter, fetchErr := c.Fetch(ctx, state.Address)
		if fetchErr != nil {
			return state, OutcomeError, fmt.Errorf("lost publish race and failed to refetch: %w", fetchErr)
		}
		c.logger.Info("lost publish race", zap.Uint64("remote_counter", remoteCounter))
		return state, OutcomeConflict, &ConflictError{Remote: remote, Counter: remoteCounter}

	case err != nil:
		return state, OutcomeError, fmt.Errorf("failed to update bored: %w", err)
	}

	c.logger.Info("published bored", zap.Uint64("counter", counter), zap.Int("notices", local.Len()))

	// re-read so the state reflects what the store holds
	fresh, err := c.Load(ctx, state.Address)
	if err != nil {
		c.logger.Warn("failed to refetch after publish, using local copy", zap.Error(err))
		return State{Address: state.Address, Bored: local.Clone(), Counter: counter, Fetched: true}, OutcomePublished, nil
	}
	return fresh, OutcomePublished, nil
}

func (c *Client) encode(addr address.Address, b *bored.Bored) ([]byte, error) {
	plaintext, err := json.Marshal(b)
	if err != nil {
		return nil, fmt.Errorf("failed to serialize bored: %w", err)
	}
	blob, err := seal(addr.ResolveKey(), b.ProtocolVersion().ContentType(), plaintext)
	if err != nil {
		return nil, fmt.Errorf("failed to seal bored: %w", err)
	}
	return blob, nil
}
