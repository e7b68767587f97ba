// Package system assembles the event log store, the inbound channel,
// and the bus into one façade: NotificationSystem. It is the single
// entry point a producer or a cmd/ binary uses to send events and
// start delivery.
package system

import (
	"context"
	"fmt"
	"log/slog"
	"sync/atomic"

	"github.com/nugget/eventbridge/internal/adapter"
	"github.com/nugget/eventbridge/internal/bus"
	"github.com/nugget/eventbridge/internal/config"
	"github.com/nugget/eventbridge/internal/event"
	"github.com/nugget/eventbridge/internal/eventlog"
)

// EventBusStartedError is returned by Start when called more than
// once on the same NotificationSystem.
type EventBusStartedError struct{}

func (e *EventBusStartedError) Error() string { return "event bus already started" }

// NotificationSystem owns the inbound channel, the durable store, and
// the bus that drains one into the other.
type NotificationSystem struct {
	tx      chan<- event.Event
	rx      chan event.Event
	store   *eventlog.Store
	logger  *slog.Logger
	started atomic.Bool
}

// New constructs a NotificationSystem backed by the store at
// cfg.StorePath with an inbound channel of capacity
// cfg.ChannelCapacity, then replays every previously undelivered
// event from the store into that channel before returning. Replay
// happens here, not in Start: the replayed batch files are removed
// from the store at this point, and the events are then held only in
// the channel until Start's bus delivers them or saves them again at
// shutdown.
func New(cfg config.NotificationConfig, logger *slog.Logger) (*NotificationSystem, error) {
	if logger == nil {
		logger = slog.Default()
	}

	store, err := eventlog.New(cfg.StorePath)
	if err != nil {
		return nil, fmt.Errorf("system: create store: %w", err)
	}

	capacity := cfg.ChannelCapacity
	if capacity <= 0 {
		capacity = 100
	}
	ch := make(chan event.Event, capacity)

	restored, err := store.LoadAndClear()
	if err != nil {
		return nil, fmt.Errorf("system: replay store: %w", err)
	}
	for _, ev := range restored {
		ch <- ev
	}

	return &NotificationSystem{tx: ch, rx: ch, store: store, logger: logger}, nil
}

// Start runs the bus until ctx is cancelled, fanning out events to
// adapters. It may be called exactly once per NotificationSystem;
// subsequent calls return *EventBusStartedError. Start blocks until
// the bus stops.
func (s *NotificationSystem) Start(ctx context.Context, adapters []adapter.ChannelAdapter) error {
	if !s.started.CompareAndSwap(false, true) {
		return &EventBusStartedError{}
	}

	b := bus.New(s.rx, adapters, s.store, s.logger)
	return b.Run(ctx)
}

// SendEvent enqueues ev for delivery. It blocks if the inbound channel
// is at capacity.
func (s *NotificationSystem) SendEvent(ctx context.Context, ev event.Event) error {
	select {
	case s.tx <- ev:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
