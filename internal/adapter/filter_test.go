package adapter

import (
	"context"
	"testing"

	"github.com/nugget/eventbridge/internal/event"
)

type stubAdapter struct{ name string }

func (s *stubAdapter) Name() string { return s.name }

func (s *stubAdapter) Send(ctx context.Context, ev *event.Event) error { return nil }

func TestFilteredMatchesEmptyFilterMatchesEverything(t *testing.T) {
	f := &Filtered{ChannelAdapter: &stubAdapter{name: "webhook"}}
	if !f.Matches(event.ObjectCreatedPut) {
		t.Error("empty filter should match any name")
	}
}

func TestFilteredMatchesLeaf(t *testing.T) {
	f := &Filtered{ChannelAdapter: &stubAdapter{name: "webhook"}, Filter: []event.Name{event.ObjectCreatedPut}}
	if !f.Matches(event.ObjectCreatedPut) {
		t.Error("expected exact leaf match")
	}
	if f.Matches(event.ObjectRemovedDelete) {
		t.Error("did not expect unrelated leaf to match")
	}
}

func TestFilteredMatchesGroup(t *testing.T) {
	f := &Filtered{ChannelAdapter: &stubAdapter{name: "webhook"}, Filter: []event.Name{event.ObjectCreatedAll}}
	if !f.Matches(event.ObjectCreatedPut) {
		t.Error("expected ObjectCreatedPut to match the ObjectCreatedAll group filter")
	}
	if f.Matches(event.ObjectRemovedDelete) {
		t.Error("did not expect an unrelated leaf to match the group filter")
	}
}

func TestFilteredDelegatesNameAndSend(t *testing.T) {
	f := &Filtered{ChannelAdapter: &stubAdapter{name: "webhook"}, Filter: []event.Name{event.ObjectCreatedPut}}
	if f.Name() != "webhook" {
		t.Errorf("Name() = %q, want %q", f.Name(), "webhook")
	}
	if err := f.Send(context.Background(), testEvent(t)); err != nil {
		t.Errorf("Send: %v", err)
	}
}
