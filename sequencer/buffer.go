package sequencer

import "sync"

// EventBuffer hands note events from the transport callback thread to
// the polling thread. Push never drops and never blocks beyond the
// append itself; Drain atomically takes everything queued so far in
// arrival order. This is the only shared mutable state between the two
// threads.
type EventBuffer struct {
	mu     sync.Mutex
	events []NoteEvent
}

// Push appends an event. Callable concurrently from the transport
// callback.
func (b *EventBuffer) Push(e NoteEvent) {
	b.mu.Lock()
	b.events = append(b.events, e)
	b.mu.Unlock()
}

// Drain removes and returns all queued events in arrival order. An
// empty buffer yields a nil slice, which is a normal result.
func (b *EventBuffer) Drain() []NoteEvent {
	b.mu.Lock()
	evs := b.events
	b.events = nil
	b.mu.Unlock()
	return evs
}

// Reset discards everything queued.
func (b *EventBuffer) Reset() {
	b.mu.Lock()
	b.events = nil
	b.mu.Unlock()
}

// Len returns the number of queued events.
func (b *EventBuffer) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.events)
}
