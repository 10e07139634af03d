// Package redisstore keeps boreds in Redis.
//
// Each blob is a hash with a content field and a counter field. Create and
// Update run inside WATCH/MULTI transactions so the counter comparison and
// the write are atomic; a transaction aborted by a concurrent write is
// reported as store.ErrCounterMismatch. Accepted updates are announced on a
// per-blob Pub/Sub channel.
package redisstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/dyluth/bored/pkg/store"
)

// Store implements store.Store and store.Watcher on Redis.
// The store is thread-safe and can be used concurrently from multiple goroutines.
type Store struct {
	rdb       *redis.Client
	namespace string
	capacity  int
	writer    string
}

var (
	_ store.Store   = (*Store)(nil)
	_ store.Watcher = (*Store)(nil)
)

// Option configures a Store.
type Option func(*Store)

// WithCapacity sets the largest blob in bytes the store accepts.
func WithCapacity(capacity int) Option {
	return func(s *Store) {
		s.capacity = capacity
	}
}

// New creates a store for the namespace.
//
// Parameters:
//   - redisOpts: Redis connection options (address, password, DB, etc.)
//   - namespace: key prefix shared by every client of one deployment (must not be empty)
//
// Returns an error if namespace is empty.
func New(redisOpts *redis.Options, namespace string, opts ...Option) (*Store, error) {
	if namespace == "" {
		return nil, fmt.Errorf("namespace cannot be empty")
	}

	s := &Store{
		rdb:       redis.NewClient(redisOpts),
		namespace: namespace,
		capacity:  store.DefaultCapacity,
		writer:    uuid.NewString(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.capacity <= 0 {
		s.rdb.Close()
		return nil, fmt.Errorf("capacity must be positive, got %d", s.capacity)
	}
	return s, nil
}

// NewFromURL creates a store from a redis:// URL.
func NewFromURL(url, namespace string, opts ...Option) (*Store, error) {
	redisOpts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis url: %w", err)
	}
	return New(redisOpts, namespace, opts...)
}

// Close closes the Redis connection. Implements io.Closer.
func (s *Store) Close() error {
	return s.rdb.Close()
}

// Ping verifies Redis connectivity.
func (s *Store) Ping(ctx context.Context) error {
	return s.rdb.Ping(ctx).Err()
}

// Writer returns the id this store stamps on the update events it publishes.
func (s *Store) Writer() string {
	return s.writer
}

// Capacity implements store.Store.
func (s *Store) Capacity() int {
	return s.capacity
}

// EstimateCost implements store.Store. Self-hosted Redis charges nothing;
// the estimate reports the space a new blob may grow to.
func (s *Store) EstimateCost(ctx context.Context, id string) (store.Cost, error) {
	if err := ctx.Err(); err != nil {
		return store.Cost{}, err
	}
	return store.Cost{Bytes: s.capacity, Amount: "0"}, nil
}

// Create implements store.Store.
func (s *Store) Create(ctx context.Context, id string, content []byte) error {
	if err := store.CheckCapacity(content, s.capacity); err != nil {
		return err
	}

	key := BlobKey(s.namespace, id)
	err := s.rdb.Watch(ctx, func(tx *redis.Tx) error {
		exists, err := tx.Exists(ctx, key).Result()
		if err != nil {
			return fmt.Errorf("failed to check blob existence: %w", err)
		}
		if exists > 0 {
			return fmt.Errorf("%w: %s", store.ErrAlreadyExists, id)
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.HSet(ctx, key, fieldContent, content, fieldCounter, 0)
			return nil
		})
		return err
	}, key)
	if errors.Is(err, redis.TxFailedErr) {
		return fmt.Errorf("%w: %s", store.ErrAlreadyExists, id)
	}
	if err != nil {
		return fmt.Errorf("failed to create blob: %w", err)
	}

	s.publish(ctx, id, 0)
	return nil
}

// Get implements store.Store.
func (s *Store) Get(ctx context.Context, id string) ([]byte, uint64, error) {
	key := BlobKey(s.namespace, id)

	hashData, err := s.rdb.HGetAll(ctx, key).Result()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to read blob from Redis: %w", err)
	}

	// HGetAll returns an empty map for non-existent keys
	if len(hashData) == 0 {
		return nil, 0, fmt.Errorf("%w: %s", store.ErrNotFound, id)
	}

	counter, err := parseCounter(hashData[fieldCounter])
	if err != nil {
		return nil, 0, err
	}
	return []byte(hashData[fieldContent]), counter, nil
}

// Update implements store.Store.
func (s *Store) Update(ctx context.Context, id string, content []byte, expected uint64) (uint64, error) {
	if err := store.CheckCapacity(content, s.capacity); err != nil {
		return 0, err
	}

	key := BlobKey(s.namespace, id)
	next := expected + 1
	err := s.rdb.Watch(ctx, func(tx *redis.Tx) error {
		raw, err := tx.HGet(ctx, key, fieldCounter).Result()
		if errors.Is(err, redis.Nil) {
			return fmt.Errorf("%w: %s", store.ErrNotFound, id)
		}
		if err != nil {
			return fmt.Errorf("failed to read counter: %w", err)
		}
		current, err := parseCounter(raw)
		if err != nil {
			return err
		}
		if current != expected {
			return fmt.Errorf("%w: expected %d, store has %d", store.ErrCounterMismatch, expected, current)
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.HSet(ctx, key, fieldContent, content, fieldCounter, next)
			return nil
		})
		return err
	}, key)
	if errors.Is(err, redis.TxFailedErr) {
		return 0, fmt.Errorf("%w: concurrent write to %s", store.ErrCounterMismatch, id)
	}
	if err != nil {
		if errors.Is(err, store.ErrNotFound) || errors.Is(err, store.ErrCounterMismatch) {
			return 0, err
		}
		return 0, fmt.Errorf("failed to update blob: %w", err)
	}

	s.publish(ctx, id, next)
	return next, nil
}

// publish announces a write. Delivery is best effort: the write has already
// been accepted, so a failed publish is not reported to the writer.
func (s *Store) publish(ctx context.Context, id string, counter uint64) {
	event, err := json.Marshal(store.UpdateEvent{
		ID:      id,
		Counter: counter,
		Writer:  s.writer,
		Time:    time.Now().UTC(),
	})
	if err != nil {
		return
	}
	s.rdb.Publish(ctx, UpdatesChannel(s.namespace, id), event)
}

// Watch implements store.Watcher.
//
// Events are delivered on a buffered channel (size 10) to prevent blocking.
// If the subscriber is too slow, events may be dropped by Redis Pub/Sub
// (at-most-once delivery).
func (s *Store) Watch(ctx context.Context, id string) (*store.Subscription, error) {
	pubsub := s.rdb.Subscribe(ctx, UpdatesChannel(s.namespace, id))

	// wait for the subscription to be confirmed so no write is missed
	if _, err := pubsub.Receive(ctx); err != nil {
		pubsub.Close()
		return nil, fmt.Errorf("failed to subscribe to updates: %w", err)
	}

	return store.NewSubscription(ctx, func(ctx context.Context, events chan<- store.UpdateEvent, errs chan<- error) {
		defer pubsub.Close()

		ch := pubsub.Channel()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-ch:
				if !ok {
					return
				}

				var event store.UpdateEvent
				if err := json.Unmarshal([]byte(msg.Payload), &event); err != nil {
					select {
					case errs <- fmt.Errorf("failed to unmarshal update event: %w", err):
					case <-ctx.Done():
						return
					}
					continue
				}

				select {
				case events <- event:
				case <-ctx.Done():
					return
				}
			}
		}
	}), nil
}

func parseCounter(raw string) (uint64, error) {
	counter, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("failed to parse counter %q: %w", raw, err)
	}
	return counter, nil
}
