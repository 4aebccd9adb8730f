// Package event is an in-process event dispatcher.
package event

import (
	"sync"

	"github.com/shashiranjanraj/storefront/pkg/logger"
)

// Names fired by the storefront.
const (
	OrderPlaced    = "order.placed"
	ProductChanged = "product.changed"
)

// Handler receives an event payload.
type Handler func(payload any)

// Dispatcher routes fired events to their listeners.
type Dispatcher struct {
	mu       sync.RWMutex
	handlers map[string][]Handler
}

func New() *Dispatcher {
	return &Dispatcher{handlers: map[string][]Handler{}}
}

// Listen registers a handler for the given event name.
func (d *Dispatcher) Listen(event string, handler Handler) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.handlers[event] = append(d.handlers[event], handler)
}

func (d *Dispatcher) listeners(event string) []Handler {
	d.mu.RLock()
	defer d.mu.RUnlock()
	hs := make([]Handler, len(d.handlers[event]))
	copy(hs, d.handlers[event])
	return hs
}

// Fire dispatches an event synchronously. A panicking listener is logged and
// does not stop the others.
func (d *Dispatcher) Fire(event string, payload any) {
	for _, h := range d.listeners(event) {
		call(event, h, payload)
	}
}

// FireAsync dispatches the event to all listeners concurrently and returns
// without waiting.
func (d *Dispatcher) FireAsync(event string, payload any) {
	for _, h := range d.listeners(event) {
		go call(event, h, payload)
	}
}

func call(event string, h Handler, payload any) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error("event: listener panicked", "event", event, "panic", r)
		}
	}()
	h(payload)
}
