// Package bus runs the single-consumer event dispatcher: it drains an
// inbound channel, fans each event out concurrently to every adapter
// addressed by that event's channel list, and on shutdown persists
// whatever events are still outstanding back to the durable store.
package bus

import (
	"context"
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"github.com/nugget/eventbridge/internal/adapter"
	"github.com/nugget/eventbridge/internal/event"
	"github.com/nugget/eventbridge/internal/eventlog"
)

// Bus is the dispatcher loop described in the package doc. Construct
// one with New and run it with Run; Run blocks until ctx is cancelled
// or the inbound channel is closed.
type Bus struct {
	rx       <-chan event.Event
	adapters []adapter.ChannelAdapter
	store    *eventlog.Store
	logger   *slog.Logger
}

// New returns a Bus that reads from rx and fans out to adapters,
// persisting any event still pending at shutdown to store.
func New(rx <-chan event.Event, adapters []adapter.ChannelAdapter, store *eventlog.Store, logger *slog.Logger) *Bus {
	if logger == nil {
		logger = slog.Default()
	}
	return &Bus{rx: rx, adapters: adapters, store: store, logger: logger}
}

// Run drains rx until ctx is cancelled or rx is closed. Each received
// event is sent concurrently to every adapter whose name appears in
// the event's channel list; an event is considered delivered, and
// dropped from the pending set, as soon as at least one adapter
// succeeds (the tail-retention rule: at-least-one-success releases
// the event, it is not required that every adapter succeed). On
// shutdown, whatever remains pending is written to the store as one
// batch so it can be replayed on the next startup.
//
// Shutdown always wins a race with an incoming event: Run checks
// ctx.Err() before every receive, so a cancellation observed at the
// same moment as a ready event does not admit one more event into the
// pending set after the drain has begun.
func (b *Bus) Run(ctx context.Context) error {
	var pending []event.Event

	for {
		if ctx.Err() != nil {
			return b.drain(pending)
		}

		select {
		case <-ctx.Done():
			return b.drain(pending)
		case ev, ok := <-b.rx:
			if !ok {
				return b.drain(pending)
			}
			pending = b.dispatch(ctx, ev, pending)
		}
	}
}

// dispatch appends ev to pending, fans it out to every matching
// adapter concurrently, and removes ev from pending if any adapter
// accepted it.
func (b *Bus) dispatch(ctx context.Context, ev event.Event, pending []event.Event) []event.Event {
	pending = append(pending, ev)

	var wg sync.WaitGroup
	var mu sync.Mutex
	delivered := false

	for _, a := range b.adapters {
		if !ev.IsForChannel(a.Name()) {
			continue
		}
		if f, ok := a.(adapter.Filterer); ok && !f.Matches(ev.EventName) {
			continue
		}
		wg.Add(1)
		go func(a adapter.ChannelAdapter) {
			defer wg.Done()
			if err := a.Send(ctx, &ev); err != nil {
				b.logger.Error("failed to send event", "adapter", a.Name(), "event_id", ev.ID, "error", err)
				return
			}
			mu.Lock()
			delivered = true
			mu.Unlock()
		}(a)
	}
	wg.Wait()

	if delivered {
		pending = removeEvent(pending, ev.ID)
	}
	return pending
}

func (b *Bus) drain(pending []event.Event) error {
	if len(pending) == 0 {
		return nil
	}
	b.logger.Info("shutting down event bus, saving pending events", "count", len(pending))
	return b.store.SaveEvents(pending)
}

func removeEvent(events []event.Event, id uuid.UUID) []event.Event {
	out := events[:0]
	for _, e := range events {
		if e.ID != id {
			out = append(out, e)
		}
	}
	return out
}
