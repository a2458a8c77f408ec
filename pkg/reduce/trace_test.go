// ABOUTME: Tests for the trace bus and the reducer's event stream
// ABOUTME: Covers subscribe/unsubscribe and per-run event shape

package reduce

import (
	"context"
	"strings"
	"sync"
	"testing"
)

func TestTraceBus_SubscribeAndUnsubscribe(t *testing.T) {
	t.Parallel()

	bus := NewTraceBus()
	var got []EventType
	unsubscribe := bus.Subscribe(func(evt Event) {
		got = append(got, evt.Type)
	})

	bus.publish(Event{Type: EventRoundStart})
	unsubscribe()
	bus.publish(Event{Type: EventRoundEnd})

	if len(got) != 1 || got[0] != EventRoundStart {
		t.Errorf("got %v, want only the event before unsubscribe", got)
	}
}

func TestTraceBus_NilBusIsSafe(t *testing.T) {
	t.Parallel()

	var bus *TraceBus
	bus.publish(Event{Type: EventFinalize}) // must not panic
}

func TestReduce_EmitsLifecycleEvents(t *testing.T) {
	t.Parallel()

	bus := NewTraceBus()
	var mu sync.Mutex
	var events []Event
	bus.Subscribe(func(evt Event) {
		mu.Lock()
		events = append(events, evt)
		mu.Unlock()
	})

	r := &Reducer{
		Collapse: func(ctx context.Context, docs []Document, extra map[string]any) (string, error) {
			return "short", nil
		},
		Finalize:    concatFinalize,
		TokenMax:    50,
		Concurrency: 1,
		Trace:       bus,
	}

	docs := []Document{
		{Content: strings.Repeat("a", 40)},
		{Content: strings.Repeat("b", 40)},
	}
	if _, _, err := r.Reduce(context.Background(), docs, nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	mu.Lock()
	defer mu.Unlock()

	want := []EventType{
		EventRoundStart,
		EventGroupStart, EventGroupEnd,
		EventGroupStart, EventGroupEnd,
		EventRoundEnd,
		EventFinalize,
	}
	if len(events) != len(want) {
		t.Fatalf("got %d events, want %d: %+v", len(events), len(want), events)
	}
	for i, evt := range events {
		if evt.Type != want[i] {
			t.Errorf("event %d = %s, want %s", i, evt.Type, want[i])
		}
		if evt.RunID != events[0].RunID {
			t.Errorf("event %d carries a different run ID", i)
		}
	}

	if events[0].Documents != 2 || events[0].Cost != 82 {
		t.Errorf("round start = %+v, want 2 docs at cost 82", events[0])
	}
	if events[len(events)-1].Documents != 2 {
		t.Errorf("finalize = %+v, want 2 documents in scope", events[len(events)-1])
	}
}
