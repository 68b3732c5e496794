package events

import (
	"sync"
	"time"
)

// Bus distributes events from producers to a single consumer. Emit never
// blocks: when the consumer falls behind, the oldest buffered event is
// dropped, since progress output is advisory.
type Bus struct {
	mu     sync.Mutex
	ch     chan Event
	closed bool
}

// NewBus creates a new event bus with the specified buffer capacity.
func NewBus(capacity int) *Bus {
	if capacity < 1 {
		capacity = 1
	}
	return &Bus{ch: make(chan Event, capacity)}
}

// Emit publishes an event, stamping its time.
func (b *Bus) Emit(e Event) {
	e.Time = time.Now()
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return
	}
	for {
		select {
		case b.ch <- e:
			return
		default:
		}
		select {
		case <-b.ch:
		default:
		}
	}
}

// Events returns the consumer channel. It is closed by Close.
func (b *Bus) Events() <-chan Event {
	return b.ch
}

// Close shuts down the bus. Emit becomes a no-op afterwards.
func (b *Bus) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if !b.closed {
		b.closed = true
		close(b.ch)
	}
}
