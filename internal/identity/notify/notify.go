// Package notify delivers session change notifications to in-process
// subscribers (cache invalidation, audit hooks). Delivery is synchronous and
// best-effort; subscribers must not block.
package notify

import (
	"sync"

	"alphaseek/internal/identity/models"
)

type EventType string

const (
	EventSessionStarted EventType = "session_started"
	EventSessionEnded   EventType = "session_ended"
)

// Event describes one session state change.
type Event struct {
	Type    EventType
	Session models.Session
}

// Broadcaster fans session events out to subscribers.
type Broadcaster struct {
	mu   sync.RWMutex
	subs map[int]func(Event)
	next int
}

func NewBroadcaster() *Broadcaster {
	return &Broadcaster{subs: make(map[int]func(Event))}
}

// Subscribe registers a callback and returns its unsubscribe function.
// Unsubscribing twice is harmless.
func (b *Broadcaster) Subscribe(fn func(Event)) func() {
	b.mu.Lock()
	defer b.mu.Unlock()
	token := b.next
	b.next++
	b.subs[token] = fn
	return func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		delete(b.subs, token)
	}
}

// Publish delivers the event to every current subscriber.
func (b *Broadcaster) Publish(ev Event) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	for _, fn := range b.subs {
		fn(ev)
	}
}
