// Package eventbus provides the in-process publish/subscribe registry that
// decouples producers of session, location and booking events from their UI
// consumers. Delivery is synchronous and best-effort; nothing is persisted or
// replayed.
package eventbus

import (
	"sync"

	"github.com/uniride/uniride/internal/pkg/logger"
)

// Handler receives the payload published for an event type.
type Handler func(payload interface{})

// Subscription identifies one registered handler. Unsubscribing with a
// handle that was never issued, or was already removed, is a no-op.
type Subscription struct {
	event string
	id    uint64
}

type registration struct {
	id      uint64
	handler Handler
}

// Bus is a synchronous in-process event dispatcher. Within one Publish call
// handlers run in registration order; no ordering is promised across
// different event types.
type Bus struct {
	mu       sync.RWMutex
	nextID   uint64
	handlers map[string][]registration
}

// New creates an empty event bus
func New() *Bus {
	return &Bus{
		handlers: make(map[string][]registration),
	}
}

// Subscribe registers a handler for the given event type and returns the
// handle needed to remove it again.
func (b *Bus) Subscribe(event string, h Handler) Subscription {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.nextID++
	b.handlers[event] = append(b.handlers[event], registration{id: b.nextID, handler: h})
	return Subscription{event: event, id: b.nextID}
}

// Unsubscribe removes exactly the handler identified by sub. Other handlers
// registered for the same event type are untouched.
func (b *Bus) Unsubscribe(sub Subscription) {
	b.mu.Lock()
	defer b.mu.Unlock()

	regs := b.handlers[sub.event]
	for i, reg := range regs {
		if reg.id == sub.id {
			b.handlers[sub.event] = append(regs[:i:i], regs[i+1:]...)
			break
		}
	}
	if len(b.handlers[sub.event]) == 0 {
		delete(b.handlers, sub.event)
	}
}

// Publish invokes every handler currently registered for the event type,
// synchronously in the calling goroutine. A panicking handler is isolated so
// the remaining handlers still run and the publisher never observes it.
func (b *Bus) Publish(event string, payload interface{}) {
	b.mu.RLock()
	regs := b.handlers[event]
	snapshot := make([]registration, len(regs))
	copy(snapshot, regs)
	b.mu.RUnlock()

	for _, reg := range snapshot {
		b.invoke(event, reg, payload)
	}
}

func (b *Bus) invoke(event string, reg registration, payload interface{}) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error("Event handler panicked",
				logger.String("event", event),
				logger.Any("panic", r))
		}
	}()
	reg.handler(payload)
}
