package event

import (
	"log/slog"
	"sync"
)

type HandlerFunc func(evt Event)

// Bus delivers events synchronously on the publisher's goroutine, in
// subscription order. Publishers on the tick loop therefore never race
// their own subscribers.
type Bus struct {
	mu       sync.RWMutex
	handlers map[string][]HandlerFunc
}

func NewBus() *Bus {
	return &Bus{
		handlers: make(map[string][]HandlerFunc),
	}
}

func (b *Bus) Subscribe(eventName string, handler HandlerFunc) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.handlers[eventName] = append(b.handlers[eventName], handler)
}

// Publish is safe on a nil bus so components can be built without one.
func (b *Bus) Publish(evt Event) {
	if b == nil || evt == nil {
		return
	}
	name := evt.Name()
	b.mu.RLock()
	handlers := make([]HandlerFunc, len(b.handlers[name]))
	copy(handlers, b.handlers[name])
	b.mu.RUnlock()

	for _, handler := range handlers {
		b.dispatch(name, handler, evt)
	}
}

func (b *Bus) dispatch(name string, h HandlerFunc, evt Event) {
	defer func() {
		if r := recover(); r != nil {
			slog.Error("Event handler panicked", "event", name, "panic", r)
		}
	}()
	h(evt)
}
