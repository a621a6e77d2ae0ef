package logger

import (
	"sync"
	"time"
)

// Event is one captured log event.
type Event struct {
	Level   string                 `json:"level"`
	Message string                 `json:"message"`
	Fields  map[string]interface{} `json:"fields,omitempty"`
	Time    time.Time              `json:"time"`
}

// EventRing is a fixed-capacity ring of recent events. Oldest entries are
// overwritten when full.
type EventRing struct {
	mu    sync.Mutex
	buf   []Event
	next  int
	count int
}

// NewEventRing creates a ring with the given capacity (minimum 1).
func NewEventRing(capacity int) *EventRing {
	if capacity < 1 {
		capacity = 1
	}
	return &EventRing{buf: make([]Event, capacity)}
}

// Add records one event.
func (r *EventRing) Add(level, message string, fields map[string]interface{}) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.buf[r.next] = Event{Level: level, Message: message, Fields: fields, Time: time.Now()}
	r.next = (r.next + 1) % len(r.buf)
	if r.count < len(r.buf) {
		r.count++
	}
}

// Events returns the captured events, oldest first.
func (r *EventRing) Events() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Event, 0, r.count)
	start := r.next - r.count
	if start < 0 {
		start += len(r.buf)
	}
	for i := 0; i < r.count; i++ {
		out = append(out, r.buf[(start+i)%len(r.buf)])
	}
	return out
}
