// Package watch streams the updates of one bored to a writer.
package watch

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"

	"go.uber.org/zap"

	"github.com/dyluth/bored/pkg/address"
	"github.com/dyluth/bored/pkg/client"
	"github.com/dyluth/bored/pkg/store"
)

// OutputFormat selects how events are written
type OutputFormat string

const (
	// OutputFormatDefault writes one human readable line per update
	OutputFormatDefault OutputFormat = "default"
	// OutputFormatJSON writes line-delimited JSON
	OutputFormatJSON OutputFormat = "json"
)

// DefaultPollInterval is how often stores without update events are polled.
const DefaultPollInterval = 200 * time.Millisecond

// UpdateObserver is told about every update seen, typically to record metrics.
type UpdateObserver interface {
	ObserveUpdate(event store.UpdateEvent)
}

type options struct {
	logger       *zap.Logger
	observer     UpdateObserver
	pollInterval time.Duration
	until        uint64
	untilSet     bool
}

// Option configures Stream.
type Option func(*options)

// WithLogger sets the logger used for subscription errors.
func WithLogger(logger *zap.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithObserver sets an observer told about each update.
func WithObserver(observer UpdateObserver) Option {
	return func(o *options) {
		o.observer = observer
	}
}

// WithPollInterval sets the poll interval for stores that cannot announce
// updates.
func WithPollInterval(interval time.Duration) Option {
	return func(o *options) {
		o.pollInterval = interval
	}
}

// WithUntil stops the stream once an update with at least counter is seen.
func WithUntil(counter uint64) Option {
	return func(o *options) {
		o.until = counter
		o.untilSet = true
	}
}

// Event is the JSON form of an update.
type Event struct {
	Counter uint64    `json:"counter"`
	Writer  string    `json:"writer,omitempty"`
	Time    time.Time `json:"time"`
	Name    string    `json:"name,omitempty"`
	Notices int       `json:"notices"`
	Error   string    `json:"error,omitempty"`
}

// Stream writes a line for every update to the bored at addr until ctx is
// done, the WithUntil counter is reached, or the subscription ends. Each
// update is re-fetched so the line can describe the new bored.
func Stream(ctx context.Context, c *client.Client, addr address.Address, format OutputFormat, w io.Writer, opts ...Option) error {
	o := options{logger: zap.NewNop(), pollInterval: DefaultPollInterval}
	for _, opt := range opts {
		opt(&o)
	}

	id := addr.ResolveKey().StoreID()
	var sub *store.Subscription
	if watcher, ok := c.Store().(store.Watcher); ok {
		var err error
		sub, err = watcher.Watch(ctx, id)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return fmt.Errorf("failed to subscribe to updates: %w", err)
		}
	} else {
		sub = Poll(ctx, c.Store(), id, o.pollInterval)
	}
	defer sub.Close()

	// the stream ends when Events closes; buffered events outlive Errors
	errs := sub.Errors()
	for {
		select {
		case <-ctx.Done():
			return nil

		case err, ok := <-errs:
			if !ok {
				errs = nil
				continue
			}
			o.logger.Warn("watch subscription error", zap.Error(err))

		case update, ok := <-sub.Events():
			if !ok {
				return nil
			}
			if o.observer != nil {
				o.observer.ObserveUpdate(update)
			}

			event := Event{Counter: update.Counter, Writer: update.Writer, Time: update.Time}
			if b, _, err := c.Fetch(ctx, addr); err != nil {
				event.Error = err.Error()
			} else {
				event.Name = b.Name()
				event.Notices = b.Len()
			}
			if err := writeEvent(w, event, format); err != nil {
				return err
			}

			if o.untilSet && update.Counter >= o.until {
				return nil
			}
		}
	}
}

func writeEvent(w io.Writer, event Event, format OutputFormat) error {
	if format == OutputFormatJSON {
		data, err := json.Marshal(event)
		if err != nil {
			return fmt.Errorf("failed to marshal event to JSON: %w", err)
		}
		_, err = fmt.Fprintf(w, "%s\n", data)
		return err
	}
	_, err := fmt.Fprintln(w, FormatEvent(event))
	return err
}

// FormatEvent renders an event as a single human readable line.
func FormatEvent(event Event) string {
	timestamp := event.Time.Local().Format("15:04:05")
	if event.Error != "" {
		return fmt.Sprintf("[%s] ⚠️  Update %d: %s", timestamp, event.Counter, event.Error)
	}
	line := fmt.Sprintf("[%s] 📌 Update %d: bored=%q notices=%d", timestamp, event.Counter, event.Name, event.Notices)
	if event.Writer != "" {
		line += fmt.Sprintf(" writer=%s", shortWriter(event.Writer))
	}
	return line
}

func shortWriter(writer string) string {
	if len(writer) > 8 {
		return writer[:8]
	}
	return writer
}

// Poll watches id by reading it every interval, for stores that cannot
// announce updates. The first event reports the counter found on the first
// successful read; after that only changes are reported.
func Poll(ctx context.Context, s store.Store, id string, interval time.Duration) *store.Subscription {
	return store.NewSubscription(ctx, func(ctx context.Context, events chan<- store.UpdateEvent, errs chan<- error) {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		var last uint64
		seen := false
		for {
			select {
			case <-ctx.Done():
				return

			case <-ticker.C:
				_, counter, err := s.Get(ctx, id)
				if errors.Is(err, store.ErrNotFound) {
					// Not created yet, continue polling
					continue
				}
				if err != nil {
					if ctx.Err() != nil {
						return
					}
					select {
					case errs <- fmt.Errorf("failed to poll bored: %w", err):
					case <-ctx.Done():
						return
					}
					continue
				}
				if seen && counter == last {
					continue
				}

				seen, last = true, counter
				select {
				case events <- store.UpdateEvent{ID: id, Counter: counter, Time: time.Now().UTC()}:
				case <-ctx.Done():
					return
				}
			}
		}
	})
}
