package realtime

import (
	"context"
	"sync"
	"time"

	"github.com/neboloop/mindsort/internal/events"
	"github.com/neboloop/mindsort/internal/logging"
)

// Message types pushed to clients.
const (
	TypeSessionCompleted = "session_completed"
	TypeDistressDetected = "distress_detected"
	TypeTaskChanged      = "task_changed"
	TypePong             = "pong"
)

// Message is the envelope written to every websocket frame.
type Message struct {
	Type      string    `json:"type"`
	Data      any       `json:"data,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// Hub tracks connected clients per owner.
type Hub struct {
	mu      sync.RWMutex
	clients map[string]map[*Client]struct{}
}

// NewHub creates an empty hub.
func NewHub() *Hub {
	return &Hub{clients: make(map[string]map[*Client]struct{})}
}

func (h *Hub) register(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	set, ok := h.clients[c.UserID]
	if !ok {
		set = make(map[*Client]struct{})
		h.clients[c.UserID] = set
	}
	set[c] = struct{}{}
	logging.Infof("[Realtime] Client %s connected for %s (%d open)", c.ID, c.UserID, len(set))
}

func (h *Hub) unregister(c *Client) {
	h.mu.Lock()
	if set, ok := h.clients[c.UserID]; ok {
		delete(set, c)
		if len(set) == 0 {
			delete(h.clients, c.UserID)
		}
	}
	h.mu.Unlock()
	c.Close()
	logging.Infof("[Realtime] Client %s disconnected", c.ID)
}

// ClientCount reports how many connections the owner has open.
func (h *Hub) ClientCount(userID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients[userID])
}

// SendToUser delivers msg to every connection of userID and returns how
// many accepted it.
func (h *Hub) SendToUser(userID string, msg *Message) int {
	if msg.Timestamp.IsZero() {
		msg.Timestamp = time.Now()
	}

	h.mu.RLock()
	targets := make([]*Client, 0, len(h.clients[userID]))
	for c := range h.clients[userID] {
		if !c.IsClosed() {
			targets = append(targets, c)
		}
	}
	h.mu.RUnlock()

	sent := 0
	for _, c := range targets {
		if err := c.SendMessage(msg); err != nil {
			logging.Debugf("[Realtime] Drop %s for client %s: %v", msg.Type, c.ID, err)
			continue
		}
		sent++
	}
	return sent
}

// Bridge forwards pipeline and task events to the owning user's clients.
// The returned function detaches the subscriptions.
func (h *Hub) Bridge(bus *events.Subject) func() {
	subs := []events.Subscription{
		events.Subscribe(bus, events.TopicSessionCompleted, func(_ context.Context, e events.SessionCompleted) error {
			h.SendToUser(e.OwnerID, &Message{Type: TypeSessionCompleted, Data: e})
			return nil
		}),
		events.Subscribe(bus, events.TopicDistressDetected, func(_ context.Context, e events.DistressDetected) error {
			h.SendToUser(e.OwnerID, &Message{Type: TypeDistressDetected, Data: e})
			return nil
		}),
		events.Subscribe(bus, events.TopicTaskChanged, func(_ context.Context, e events.TaskChanged) error {
			h.SendToUser(e.OwnerID, &Message{Type: TypeTaskChanged, Data: e})
			return nil
		}),
	}
	return func() {
		for _, s := range subs {
			s.Unsubscribe()
		}
	}
}
