package realtime

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/neboloop/mindsort/internal/logging"
)

const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer.
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10

	// Clients only send small control messages.
	maxMessageSize = 4096
)

var (
	ErrClientSendBufferFull = errors.New("client send buffer full")
	ErrClientClosed         = errors.New("client connection closed")
)

// Client represents a websocket connection
type Client struct {
	conn *websocket.Conn
	send chan []byte
	hub  *Hub

	ID     string
	UserID string

	ctx    context.Context
	cancel context.CancelFunc

	closed   bool
	closedMu sync.RWMutex
}

// NewClient creates a new WebSocket client
func NewClient(conn *websocket.Conn, hub *Hub, id, userID string) *Client {
	ctx, cancel := context.WithCancel(context.Background())
	return &Client{
		conn:   conn,
		hub:    hub,
		send:   make(chan []byte, 64),
		ID:     id,
		UserID: userID,
		ctx:    ctx,
		cancel: cancel,
	}
}

// readPump reads control messages until the peer goes away.
func (c *Client) readPump() {
	defer c.hub.unregister(c)

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, msg, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				logging.Errorf("[Realtime] Read error for %s: %v", c.ID, err)
			}
			return
		}
		c.handleTextMessage(msg)
	}
}

// writePump pumps messages from the hub to the websocket connection.
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}

		case <-c.ctx.Done():
			return
		}
	}
}

// handleTextMessage answers "ping"; everything else is ignored.
func (c *Client) handleTextMessage(msg []byte) {
	var message Message
	if err := json.Unmarshal(msg, &message); err != nil {
		logging.Debugf("[Realtime] Bad message from %s: %v", c.ID, err)
		return
	}
	switch message.Type {
	case "ping":
		if err := c.SendMessage(&Message{Type: TypePong, Timestamp: time.Now()}); err != nil {
			logging.Debugf("[Realtime] Pong to %s failed: %v", c.ID, err)
		}
	default:
		logging.Debugf("[Realtime] Unknown message type %q from %s", message.Type, c.ID)
	}
}

// SendMessage queues a message for the client without blocking.
func (c *Client) SendMessage(msg *Message) error {
	data, err := json.Marshal(msg)
	if err != nil {
		return err
	}

	c.closedMu.RLock()
	defer c.closedMu.RUnlock()
	if c.closed {
		return ErrClientClosed
	}

	select {
	case c.send <- data:
		return nil
	default:
		return ErrClientSendBufferFull
	}
}

// IsClosed returns whether the client connection is closed
func (c *Client) IsClosed() bool {
	c.closedMu.RLock()
	defer c.closedMu.RUnlock()
	return c.closed
}

// Close closes the client connection. Safe to call more than once.
func (c *Client) Close() {
	c.closedMu.Lock()
	if c.closed {
		c.closedMu.Unlock()
		return
	}
	c.closed = true
	close(c.send)
	c.closedMu.Unlock()

	c.cancel()
	c.conn.Close()
}

// ServeWS registers the connection and starts its pumps.
func ServeWS(hub *Hub, conn *websocket.Conn, clientID, userID string) *Client {
	client := NewClient(conn, hub, clientID, userID)
	hub.register(client)

	go client.writePump()
	go client.readPump()
	return client
}
