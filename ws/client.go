package ws

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

const (
	writeWait = 10 * time.Second

	// Clients send a heartbeat every 30s; three missed beats close the socket.
	pongWait = 90 * time.Second

	maxMessageSize = 4096

	sendBufferSize = 256
)

// Client is one WebSocket connection of an authenticated user.
type Client struct {
	hub    *Hub
	conn   *websocket.Conn
	userID int64
	name   string

	send chan []byte
	mu   sync.Mutex
}

func (c *Client) UserID() int64 { return c.userID }
func (c *Client) Name() string  { return c.name }

// ReadPump reads client frames until the connection fails or the read
// deadline (extended by each heartbeat) passes.
func (c *Client) ReadPump() {
	defer func() {
		c.hub.drop(c)
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	if err := c.conn.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
		return
	}

	for {
		_, raw, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.hub.log.Debug().Err(err).Int64("user_id", c.userID).Msg("unexpected close")
			}
			return
		}

		var event Event
		if err := json.Unmarshal(raw, &event); err != nil {
			c.hub.log.Debug().Err(err).Int64("user_id", c.userID).Msg("invalid message")
			continue
		}

		c.handleEvent(event)
	}
}

func (c *Client) handleEvent(event Event) {
	switch event.Op {
	case OpHeartbeat:
		if err := c.conn.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
			return
		}
		c.Send(Event{Op: OpHeartbeatAck})
	default:
		c.hub.log.Debug().Int64("user_id", c.userID).Str("op", event.Op).Msg("unknown op")
	}
}

// Send queues one event for this connection only.
func (c *Client) Send(event Event) {
	event.Seq = c.hub.seq.Add(1)

	data, err := json.Marshal(event)
	if err != nil {
		c.hub.log.Error().Err(err).Str("op", event.Op).Msg("failed to marshal event")
		return
	}

	c.hub.mu.RLock()
	defer c.hub.mu.RUnlock()

	if !c.hub.clients[c.userID][c] {
		return
	}
	select {
	case c.send <- data:
	default:
		go c.hub.drop(c)
	}
}

// WritePump drains the send channel onto the socket. A closed channel
// means the hub dropped the client.
func (c *Client) WritePump() {
	defer c.conn.Close()

	for message := range c.send {
		if err := c.writeMessage(websocket.TextMessage, message); err != nil {
			return
		}
	}
	_ = c.writeMessage(websocket.CloseMessage, nil)
}

func (c *Client) writeMessage(messageType int, data []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		return err
	}
	return c.conn.WriteMessage(messageType, data)
}
