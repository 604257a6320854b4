// Package events provides an in-memory event bus for task lifecycle events.
package events

import (
	"fmt"
	"sync"
	"sync/atomic"
	"time"
)

// Type represents the kind of event.
type Type string

const (
	EventTaskCreated    Type = "task.created"
	EventTaskUpdated    Type = "task.updated"
	EventTaskDeleted    Type = "task.deleted"
	EventTaskExported   Type = "task.exported"
	EventSessionCreated Type = "session.created"
)

// Event is one entry on the bus.
type Event struct {
	ID        string         `json:"id"`
	SessionID string         `json:"session_id,omitempty"`
	Type      Type           `json:"type"`
	Timestamp time.Time      `json:"timestamp"`
	Payload   map[string]any `json:"payload"`
}

var eventIDCounter uint64

// New creates an event with the current timestamp and session context.
func New(eventType Type, sessionID string, payload map[string]any) Event {
	seq := atomic.AddUint64(&eventIDCounter, 1)
	return Event{
		ID:        fmt.Sprintf("%d-%d", time.Now().UnixNano(), seq),
		SessionID: sessionID,
		Type:      eventType,
		Timestamp: time.Now(),
		Payload:   payload,
	}
}

// Subscriber is a function that receives events.
type Subscriber func(Event)

// Bus fans events out to subscribers and keeps a bounded history. Publishing
// is synchronous; handlers are expected to be cheap.
type Bus struct {
	mu          sync.RWMutex
	subscribers map[int]Subscriber
	nextID      int
	ring        *ringBuffer
}

// NewBus creates a bus whose history holds up to bufferSize events.
func NewBus(bufferSize int) *Bus {
	return &Bus{
		subscribers: make(map[int]Subscriber),
		ring:        newRingBuffer(bufferSize),
	}
}

// Publish records the event and notifies every subscriber.
func (b *Bus) Publish(event Event) {
	b.ring.add(event)

	b.mu.RLock()
	defer b.mu.RUnlock()
	for _, sub := range b.subscribers {
		sub(event)
	}
}

// Subscribe registers a handler for all events and returns an unsubscribe
// function.
func (b *Bus) Subscribe(handler Subscriber) func() {
	b.mu.Lock()
	defer b.mu.Unlock()

	id := b.nextID
	b.nextID++
	b.subscribers[id] = handler

	return func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		delete(b.subscribers, id)
	}
}

// History returns up to limit most recent events, oldest first.
func (b *Bus) History(limit int) []Event {
	return b.ring.get(limit)
}

// ringBuffer is a fixed-size circular buffer of events.
type ringBuffer struct {
	mu     sync.RWMutex
	events []Event
	pos    int
	count  int
}

func newRingBuffer(size int) *ringBuffer {
	if size <= 0 {
		size = 1
	}
	return &ringBuffer{events: make([]Event, size)}
}

func (r *ringBuffer) add(event Event) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.events[r.pos] = event
	r.pos = (r.pos + 1) % len(r.events)
	if r.count < len(r.events) {
		r.count++
	}
}

func (r *ringBuffer) get(n int) []Event {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if n > r.count {
		n = r.count
	}
	if n <= 0 {
		return nil
	}
	out := make([]Event, n)
	start := (r.pos - n + len(r.events)) % len(r.events)
	for i := 0; i < n; i++ {
		out[i] = r.events[(start+i)%len(r.events)]
	}
	return out
}
