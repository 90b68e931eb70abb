package service

import (
	"context"
	"sync"
)

// MemoryHub is an in-process channel shared by several transports, one per
// simulated instance. Delivery is synchronous in the publisher's goroutine.
type MemoryHub struct {
	mu       sync.RWMutex
	handlers map[*MemoryTransport]func([]byte)
}

func NewMemoryHub() *MemoryHub {
	return &MemoryHub{handlers: make(map[*MemoryTransport]func([]byte))}
}

// Transport returns a new endpoint attached to the hub.
func (h *MemoryHub) Transport() *MemoryTransport {
	return &MemoryTransport{hub: h}
}

func (h *MemoryHub) deliver(message []byte) {
	h.mu.RLock()
	handlers := make([]func([]byte), 0, len(h.handlers))
	for _, handler := range h.handlers {
		handlers = append(handlers, handler)
	}
	h.mu.RUnlock()

	for _, handler := range handlers {
		// Each subscriber gets its own copy.
		handler(append([]byte(nil), message...))
	}
}

// SubscriberCount returns how many endpoints are subscribed.
func (h *MemoryHub) SubscriberCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.handlers)
}

type MemoryTransport struct {
	hub    *MemoryHub
	mu     sync.Mutex
	closed bool
}

func (t *MemoryTransport) Publish(_ context.Context, message []byte) error {
	t.mu.Lock()
	closed := t.closed
	t.mu.Unlock()
	if closed {
		return ErrTransportClosed
	}

	t.hub.deliver(message)
	return nil
}

func (t *MemoryTransport) Subscribe(_ context.Context, handler func([]byte)) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.closed {
		return ErrTransportClosed
	}

	t.hub.mu.Lock()
	t.hub.handlers[t] = handler
	t.hub.mu.Unlock()
	return nil
}

func (t *MemoryTransport) Close() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.closed {
		return nil
	}
	t.closed = true

	t.hub.mu.Lock()
	delete(t.hub.handlers, t)
	t.hub.mu.Unlock()
	return nil
}
