package analytics

import (
	"testing"

	"go.uber.org/zap"
)

func TestPublish_NilReceiverIsNoop(t *testing.T) {
	var p *Publisher
	p.Publish(SubjectAnimeServed, "anime_served", "rid", map[string]any{"id": "42"})
}

func TestPublish_NilJetStreamIsNoop(t *testing.T) {
	p := New(nil, zap.NewNop())
	p.Publish(SubjectWatchListServed, "watchlist_served", "", nil)
}

func TestNewEvent_Envelope(t *testing.T) {
	ev := newEvent("anime_served", "rid-1", map[string]any{"cache_hit": true})
	if ev.EventID == "" {
		t.Fatal("expected generated event id")
	}
	if ev.EventName != "anime_served" || ev.RequestID != "rid-1" {
		t.Fatalf("unexpected event: %+v", ev)
	}
	if ev.OccurredAt.IsZero() || ev.OccurredAt.Location().String() != "UTC" {
		t.Fatalf("expected UTC timestamp, got %v", ev.OccurredAt)
	}
}
