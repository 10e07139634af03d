// Package sqlitestore keeps boreds in a local SQLite database, for offline
// use and single machine deployments.
package sqlitestore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/mattn/go-sqlite3"

	"github.com/dyluth/bored/pkg/store"
)

// DefaultPollInterval is how often Watch checks for new writes.
const DefaultPollInterval = time.Second

// Store implements store.Store and store.Watcher on SQLite.
type Store struct {
	db           *sql.DB
	capacity     int
	pollInterval time.Duration
	writer       string
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

// WithPollInterval sets how often Watch checks for new writes.
func WithPollInterval(interval time.Duration) Option {
	return func(s *Store) {
		s.pollInterval = interval
	}
}

// Open opens (creating if needed) the database at path and ensures the
// blobs table exists.
func Open(path string, opts ...Option) (*Store, error) {
	db, err := sql.Open("sqlite3", path+"?_busy_timeout=5000&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	s := &Store{
		db:           db,
		capacity:     store.DefaultCapacity,
		pollInterval: DefaultPollInterval,
		writer:       uuid.NewString(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.capacity <= 0 {
		db.Close()
		return nil, fmt.Errorf("capacity must be positive, got %d", s.capacity)
	}

	if _, err := db.Exec(
		`CREATE TABLE IF NOT EXISTS blobs (
			id text not null primary key,
			content blob not null,
			counter integer not null,
			writer text not null,
			updated_at integer not null
		)`,
	); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create blobs table: %w", err)
	}
	return s, nil
}

// Close closes the database. Implements io.Closer.
func (s *Store) Close() error {
	return s.db.Close()
}

// Writer returns the id recorded against writes made through this store.
func (s *Store) Writer() string {
	return s.writer
}

// Capacity implements store.Store.
func (s *Store) Capacity() int {
	return s.capacity
}

// EstimateCost implements store.Store.
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

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO blobs (id, content, counter, writer, updated_at) VALUES (?, ?, 0, ?, ?)`,
		id, content, s.writer, time.Now().UnixNano(),
	)
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) && sqliteErr.Code == sqlite3.ErrConstraint {
		return fmt.Errorf("%w: %s", store.ErrAlreadyExists, id)
	}
	if err != nil {
		return fmt.Errorf("failed to insert blob: %w", err)
	}
	return nil
}

// Get implements store.Store.
func (s *Store) Get(ctx context.Context, id string) ([]byte, uint64, error) {
	var content []byte
	var counter uint64
	err := s.db.QueryRowContext(ctx,
		`SELECT content, counter FROM blobs WHERE id = ?`, id,
	).Scan(&content, &counter)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, 0, fmt.Errorf("%w: %s", store.ErrNotFound, id)
	}
	if err != nil {
		return nil, 0, fmt.Errorf("failed to read blob: %w", err)
	}
	return content, counter, nil
}

// Update implements store.Store. The counter comparison happens in the
// UPDATE itself so concurrent writers cannot both succeed.
func (s *Store) Update(ctx context.Context, id string, content []byte, expected uint64) (uint64, error) {
	if err := store.CheckCapacity(content, s.capacity); err != nil {
		return 0, err
	}

	res, err := s.db.ExecContext(ctx,
		`UPDATE blobs SET content = ?, counter = counter + 1, writer = ?, updated_at = ? WHERE id = ? AND counter = ?`,
		content, s.writer, time.Now().UnixNano(), id, expected,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to update blob: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to check update: %w", err)
	}
	if affected == 1 {
		return expected + 1, nil
	}

	// nothing matched: find out whether the blob is missing or moved on
	_, current, err := s.Get(ctx, id)
	if err != nil {
		return 0, err
	}
	return 0, fmt.Errorf("%w: expected %d, store has %d", store.ErrCounterMismatch, expected, current)
}

// Watch implements store.Watcher by polling the counter of id every poll
// interval. Writes landing between two polls are reported as one event
// carrying the latest counter.
func (s *Store) Watch(ctx context.Context, id string) (*store.Subscription, error) {
	last, err := s.currentCounter(ctx, id)
	if err != nil {
		return nil, err
	}

	return store.NewSubscription(ctx, func(ctx context.Context, events chan<- store.UpdateEvent, errs chan<- error) {
		ticker := time.NewTicker(s.pollInterval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				var event store.UpdateEvent
				var updatedAt int64
				err := s.db.QueryRowContext(ctx,
					`SELECT counter, writer, updated_at FROM blobs WHERE id = ?`, id,
				).Scan(&event.Counter, &event.Writer, &updatedAt)
				if errors.Is(err, sql.ErrNoRows) || (err == nil && last >= 0 && event.Counter == uint64(last)) {
					continue
				}
				if err != nil {
					if ctx.Err() != nil {
						return
					}
					select {
					case errs <- fmt.Errorf("failed to poll blob: %w", err):
					case <-ctx.Done():
						return
					}
					continue
				}

				last = int64(event.Counter)
				event.ID = id
				event.Time = time.Unix(0, updatedAt).UTC()
				select {
				case events <- event:
				case <-ctx.Done():
					return
				}
			}
		}
	}), nil
}

// currentCounter returns the counter of id, or -1 if it does not exist yet.
func (s *Store) currentCounter(ctx context.Context, id string) (int64, error) {
	var counter int64
	err := s.db.QueryRowContext(ctx, `SELECT counter FROM blobs WHERE id = ?`, id).Scan(&counter)
	if errors.Is(err, sql.ErrNoRows) {
		return -1, nil
	}
	if err != nil {
		return 0, fmt.Errorf("failed to read counter: %w", err)
	}
	return counter, nil
}
