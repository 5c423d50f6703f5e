package ws

import (
	"context"
	"log/slog"
	"sync"

	"github.com/labdesk/workbench/internal/service"
)

const TopicRoulette = "roulette"

type Conn interface {
	Send(msg Message) error
	Close() error
	UserID() int64
	Topic() string
}

type Hub struct {
	mu     sync.RWMutex
	topics map[string]map[Conn]struct{} // topic -> set of connections
}

func NewHub() *Hub {
	return &Hub{topics: make(map[string]map[Conn]struct{})}
}

func (h *Hub) Add(c Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()

	cs, ok := h.topics[c.Topic()]
	if !ok {
		cs = make(map[Conn]struct{})
		h.topics[c.Topic()] = cs
	}
	cs[c] = struct{}{}
}

func (h *Hub) Remove(c Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if cs, ok := h.topics[c.Topic()]; ok {
		delete(cs, c)
		if len(cs) == 0 {
			delete(h.topics, c.Topic())
		}
	}
}

func (h *Hub) Count(topic string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.topics[topic])
}

// Broadcast sends msg to every subscriber of topic and returns how many got it.
func (h *Hub) Broadcast(topic string, msg Message) int {
	h.mu.RLock()
	conns := make([]Conn, 0, len(h.topics[topic]))
	for c := range h.topics[topic] {
		conns = append(conns, c)
	}
	h.mu.RUnlock()

	sent := 0
	for _, c := range conns {
		if err := c.Send(msg); err != nil {
			slog.Debug("ws send failed", "topic", topic, "user", c.UserID(), "err", err)
			continue
		}
		sent++
	}
	return sent
}

// PublishDraw implements service.Publisher.
func (h *Hub) PublishDraw(ctx context.Context, d *service.Draw) {
	n := h.Broadcast(TopicRoulette, Message{Type: TypeDraw, Payload: NewDrawPayload(d)})
	slog.DebugContext(ctx, "roulette draw published", "draw_id", d.ID, "subscribers", n)
}
