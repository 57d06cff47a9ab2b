package notifier

import (
	"sync"

	"github.com/stellovault/backend/internal/domain/entity"
	coreport "github.com/stellovault/backend/internal/domain/port/core"
)

const defaultBufferSize = 64

// Hub fans committed domain events out to in-process subscribers. Publish
// never blocks: a subscriber that cannot keep up has events dropped, with a
// warning, rather than stalling the publisher.
type Hub struct {
	logger     coreport.Logger
	bufferSize int

	mu          sync.RWMutex
	subscribers map[int]chan entity.Event
	nextID      int
	closed      bool
}

// NewHub creates a new Hub
func NewHub(logger coreport.Logger) *Hub {
	return &Hub{
		logger:      logger,
		bufferSize:  defaultBufferSize,
		subscribers: make(map[int]chan entity.Event),
	}
}

// Subscribe registers a new subscriber and returns its channel and an
// unsubscribe function. The channel is closed on unsubscribe or hub close.
func (h *Hub) Subscribe() (<-chan entity.Event, func()) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		ch := make(chan entity.Event)
		close(ch)
		return ch, func() {}
	}

	id := h.nextID
	h.nextID++
	ch := make(chan entity.Event, h.bufferSize)
	h.subscribers[id] = ch

	return ch, func() { h.unsubscribe(id) }
}

func (h *Hub) unsubscribe(id int) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if ch, ok := h.subscribers[id]; ok {
		delete(h.subscribers, id)
		close(ch)
	}
}

// Publish delivers the event to every subscriber without blocking
func (h *Hub) Publish(event entity.Event) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	if h.closed {
		return
	}

	for id, ch := range h.subscribers {
		select {
		case ch <- event:
		default:
			h.logger.Warn("Dropping event for slow subscriber", map[string]any{
				"event":      event.Name(),
				"subscriber": id,
			})
		}
	}
}

// Close shuts the hub down and closes all subscriber channels
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return
	}
	h.closed = true

	for id, ch := range h.subscribers {
		delete(h.subscribers, id)
		close(ch)
	}
}
