package system

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/nugget/eventbridge/internal/adapter"
	"github.com/nugget/eventbridge/internal/config"
	"github.com/nugget/eventbridge/internal/event"
)

type recordingAdapter struct {
	name string
	mu   sync.Mutex
	got  []event.Event
}

func (r *recordingAdapter) Name() string { return r.name }

func (r *recordingAdapter) Send(ctx context.Context, ev *event.Event) error {
	r.mu.Lock()
	r.got = append(r.got, *ev)
	r.mu.Unlock()
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

func TestSendEventThenStartDelivers(t *testing.T) {
	sys, err := New(config.NotificationConfig{StorePath: t.TempDir(), ChannelCapacity: 10}, nil)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	rec := &recordingAdapter{name: "webhook"}
	if err := sys.SendEvent(context.Background(), buildEvent(t, "webhook")); err != nil {
		t.Fatalf("SendEvent: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- sys.Start(ctx, []adapter.ChannelAdapter{rec}) }()

	time.Sleep(50 * time.Millisecond)
	cancel()
	if err := <-done; err != nil {
		t.Fatalf("Start: %v", err)
	}

	rec.mu.Lock()
	got := len(rec.got)
	rec.mu.Unlock()
	if got != 1 {
		t.Errorf("adapter received %d events, want 1", got)
	}
}

func TestStartTwiceReturnsEventBusStartedError(t *testing.T) {
	sys, err := New(config.NotificationConfig{StorePath: t.TempDir(), ChannelCapacity: 10}, nil)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan error, 1)
	go func() { done <- sys.Start(ctx, nil) }()
	time.Sleep(20 * time.Millisecond)

	err = sys.Start(context.Background(), nil)
	var started *EventBusStartedError
	if !errors.As(err, &started) {
		t.Fatalf("expected *EventBusStartedError, got %v", err)
	}

	cancel()
	<-done
}

func TestNewReplaysUndeliveredEvents(t *testing.T) {
	dir := t.TempDir()

	first, err := New(config.NotificationConfig{StorePath: dir, ChannelCapacity: 10}, nil)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	ev := buildEvent(t, "webhook")
	if err := first.SendEvent(context.Background(), ev); err != nil {
		t.Fatalf("SendEvent: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- first.Start(ctx, nil) }()
	time.Sleep(50 * time.Millisecond)
	cancel()
	if err := <-done; err != nil {
		t.Fatalf("Start: %v", err)
	}

	second, err := New(config.NotificationConfig{StorePath: dir, ChannelCapacity: 10}, nil)
	if err != nil {
		t.Fatalf("New (replay): %v", err)
	}

	rec := &recordingAdapter{name: "webhook"}
	ctx2, cancel2 := context.WithCancel(context.Background())
	done2 := make(chan error, 1)
	go func() { done2 <- second.Start(ctx2, []adapter.ChannelAdapter{rec}) }()
	time.Sleep(50 * time.Millisecond)
	cancel2()
	if err := <-done2; err != nil {
		t.Fatalf("Start: %v", err)
	}

	rec.mu.Lock()
	defer rec.mu.Unlock()
	if len(rec.got) != 1 || rec.got[0].ID != ev.ID {
		t.Fatalf("expected replayed event to be redelivered, got %v", rec.got)
	}
}
