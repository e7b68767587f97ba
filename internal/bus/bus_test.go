package bus

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/nugget/eventbridge/internal/adapter"
	"github.com/nugget/eventbridge/internal/event"
	"github.com/nugget/eventbridge/internal/eventlog"
)

type fakeAdapter struct {
	name string
	fail bool

	mu  sync.Mutex
	got []event.Event
}

func (f *fakeAdapter) Name() string { return f.name }

func (f *fakeAdapter) Send(ctx context.Context, ev *event.Event) error {
	if f.fail {
		return errors.New("simulated adapter failure")
	}
	f.mu.Lock()
	f.got = append(f.got, *ev)
	f.mu.Unlock()
	return nil
}

func buildEvent(t *testing.T, channels ...string) event.Event {
	t.Helper()
	ev, err := event.ForObjectCreation(event.Metadata{
		SchemaVersion: "1.0",
		Bucket: event.Bucket{
			Name:          "bucket",
			OwnerIdentity: event.Identity{PrincipalID: "owner"},
			ARN:           "arn:aws:s3:::bucket",
		},
		Object: event.Object{Key: "k", Sequencer: "1"},
	}, event.Source{Host: "h", Port: "9000", UserAgent: "test"}).
		Channels(channels).
		Build()
	if err != nil {
		t.Fatalf("build event: %v", err)
	}
	return *ev
}

func TestBusDeliversToMatchingAdapterOnly(t *testing.T) {
	webhook := &fakeAdapter{name: "webhook"}
	kafka := &fakeAdapter{name: "kafka"}

	rx := make(chan event.Event, 1)
	store, err := eventlog.New(t.TempDir())
	if err != nil {
		t.Fatalf("eventlog.New: %v", err)
	}
	b := New(rx, []adapter.ChannelAdapter{webhook, kafka}, store, nil)

	ctx, cancel := context.WithCancel(context.Background())
	rx <- buildEvent(t, "webhook")

	done := make(chan error, 1)
	go func() { done <- b.Run(ctx) }()

	time.Sleep(50 * time.Millisecond)
	close(rx)
	if err := <-done; err != nil {
		t.Fatalf("Run: %v", err)
	}
	cancel()

	webhook.mu.Lock()
	gotWebhook := len(webhook.got)
	webhook.mu.Unlock()
	if gotWebhook != 1 {
		t.Errorf("webhook adapter received %d events, want 1", gotWebhook)
	}

	kafka.mu.Lock()
	gotKafka := len(kafka.got)
	kafka.mu.Unlock()
	if gotKafka != 0 {
		t.Errorf("kafka adapter received %d events, want 0", gotKafka)
	}
}

func TestBusSavesPendingEventsOnShutdownWhenAllAdaptersFail(t *testing.T) {
	failing := &fakeAdapter{name: "webhook", fail: true}

	rx := make(chan event.Event, 1)
	dir := t.TempDir()
	store, err := eventlog.New(dir)
	if err != nil {
		t.Fatalf("eventlog.New: %v", err)
	}
	b := New(rx, []adapter.ChannelAdapter{failing}, store, nil)

	ctx, cancel := context.WithCancel(context.Background())
	ev := buildEvent(t, "webhook")
	rx <- ev

	done := make(chan error, 1)
	go func() { done <- b.Run(ctx) }()

	time.Sleep(50 * time.Millisecond)
	cancel()
	if err := <-done; err != nil {
		t.Fatalf("Run: %v", err)
	}

	saved, err := store.LoadEvents()
	if err != nil {
		t.Fatalf("LoadEvents: %v", err)
	}
	if len(saved) != 1 || saved[0].ID != ev.ID {
		t.Fatalf("expected the failed event to be persisted, got %v", saved)
	}
}

// TestBusDeliversWhenOneOfTwoAdaptersOnSameEventFails exercises the
// tail-retention rule with mixed outcomes on a single event: kafka
// fails (standing in for an adapter that has already exhausted its own
// internal retries), webhook succeeds. The event must count as
// delivered and must not be persisted, since at least one adapter
// accepted it.
func TestBusDeliversWhenOneOfTwoAdaptersOnSameEventFails(t *testing.T) {
	webhook := &fakeAdapter{name: "webhook"}
	kafka := &fakeAdapter{name: "kafka", fail: true}

	rx := make(chan event.Event, 1)
	store, err := eventlog.New(t.TempDir())
	if err != nil {
		t.Fatalf("eventlog.New: %v", err)
	}
	b := New(rx, []adapter.ChannelAdapter{webhook, kafka}, store, nil)

	ctx, cancel := context.WithCancel(context.Background())
	ev := buildEvent(t, "webhook", "kafka")
	rx <- ev

	done := make(chan error, 1)
	go func() { done <- b.Run(ctx) }()

	time.Sleep(50 * time.Millisecond)
	cancel()
	if err := <-done; err != nil {
		t.Fatalf("Run: %v", err)
	}

	webhook.mu.Lock()
	gotWebhook := len(webhook.got)
	webhook.mu.Unlock()
	if gotWebhook != 1 {
		t.Errorf("webhook adapter received %d events, want 1", gotWebhook)
	}

	saved, err := store.LoadEvents()
	if err != nil {
		t.Fatalf("LoadEvents: %v", err)
	}
	if len(saved) != 0 {
		t.Fatalf("expected event delivered via webhook to not be persisted, got %d", len(saved))
	}
}

func TestBusDeliveredEventIsNotPersisted(t *testing.T) {
	succeeding := &fakeAdapter{name: "webhook"}

	rx := make(chan event.Event, 1)
	store, err := eventlog.New(t.TempDir())
	if err != nil {
		t.Fatalf("eventlog.New: %v", err)
	}
	b := New(rx, []adapter.ChannelAdapter{succeeding}, store, nil)

	ctx, cancel := context.WithCancel(context.Background())
	rx <- buildEvent(t, "webhook")

	done := make(chan error, 1)
	go func() { done <- b.Run(ctx) }()

	time.Sleep(50 * time.Millisecond)
	cancel()
	if err := <-done; err != nil {
		t.Fatalf("Run: %v", err)
	}

	saved, err := store.LoadEvents()
	if err != nil {
		t.Fatalf("LoadEvents: %v", err)
	}
	if len(saved) != 0 {
		t.Fatalf("expected no events persisted after successful delivery, got %d", len(saved))
	}
}
