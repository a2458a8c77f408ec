// ABOUTME: Trace bus publishing reduction lifecycle events to observers
// ABOUTME: Display/telemetry only; handlers never influence the reduction

package reduce

import (
	"sync"

	"github.com/google/uuid"
)

// EventType identifies a reduction lifecycle event.
type EventType string

const (
	EventRoundStart EventType = "round_start"
	EventRoundEnd   EventType = "round_end"
	EventGroupStart EventType = "group_start"
	EventGroupEnd   EventType = "group_end"
	EventFinalize   EventType = "finalize"
)

// Event describes one step of a reduction run. Group-scoped events are
// published concurrently from the fan-out workers; everything an observer
// needs is in the event value itself.
type Event struct {
	RunID     uuid.UUID
	Type      EventType
	Round     int    // 0-based collapse round
	Group     int    // group index within the round (group events only)
	Groups    int    // number of groups in the round
	Documents int    // documents in scope of the event
	Cost      int    // measured length (round events only)
	Preview   string // leading content of the first document in scope
}

// TraceBus delivers reduction events to registered handlers. Handlers are
// called synchronously from whichever goroutine publishes, so they must be
// safe for concurrent use and should return quickly.
type TraceBus struct {
	mu       sync.RWMutex
	handlers map[int]func(Event)
	nextID   int
}

// NewTraceBus creates an empty trace bus.
func NewTraceBus() *TraceBus {
	return &TraceBus{handlers: make(map[int]func(Event))}
}

// Subscribe registers a handler and returns its unsubscribe function.
func (b *TraceBus) Subscribe(handler func(Event)) func() {
	b.mu.Lock()
	id := b.nextID
	b.nextID++
	b.handlers[id] = handler
	b.mu.Unlock()

	return func() {
		b.mu.Lock()
		delete(b.handlers, id)
		b.mu.Unlock()
	}
}

// publish snapshots the handler set before calling out, so handlers can
// unsubscribe from within a callback without deadlocking.
func (b *TraceBus) publish(evt Event) {
	if b == nil {
		return
	}
	b.mu.RLock()
	snapshot := make([]func(Event), 0, len(b.handlers))
	for _, h := range b.handlers {
		snapshot = append(snapshot, h)
	}
	b.mu.RUnlock()

	for _, h := range snapshot {
		h(evt)
	}
}
