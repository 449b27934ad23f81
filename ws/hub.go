package ws

import (
	"encoding/json"
	"sync"
	"sync/atomic"

	"github.com/rs/zerolog"
)

// EventPublisher is what services depend on to notify users. Hub implements
// it; tests use a recording fake.
type EventPublisher interface {
	BroadcastToUser(userID int64, event Event)
}

// Hub tracks every connection per user. One user may hold several (tabs,
// devices); all of them receive the user's events.
type Hub struct {
	clients map[int64]map[*Client]bool
	mu      sync.RWMutex

	register   chan *Client
	unregister chan *Client
	done       chan struct{}

	seq atomic.Int64
	log zerolog.Logger

	onConnect func(c *Client)
}

func NewHub(logger zerolog.Logger) *Hub {
	return &Hub{
		clients:    make(map[int64]map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		done:       make(chan struct{}),
		log:        logger.With().Str("component", "ws").Logger(),
	}
}

// OnConnect registers a callback run (in its own goroutine) after each new
// connection is added. main uses it to send the ready snapshot.
func (h *Hub) OnConnect(fn func(c *Client)) {
	h.onConnect = fn
}

// Run serializes register/unregister until Shutdown.
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.addClient(client)
			if h.onConnect != nil {
				go h.onConnect(client)
			}
		case client := <-h.unregister:
			h.removeClient(client)
		case <-h.done:
			return
		}
	}
}

func (h *Hub) addClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.clients[client.userID]; !ok {
		h.clients[client.userID] = make(map[*Client]bool)
	}
	h.clients[client.userID][client] = true

	h.log.Debug().Int64("user_id", client.userID).
		Int("connections", len(h.clients[client.userID])).
		Msg("client connected")
}

func (h *Hub) removeClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	clients, ok := h.clients[client.userID]
	if !ok {
		return
	}
	if _, exists := clients[client]; !exists {
		return
	}

	delete(clients, client)
	close(client.send)

	if len(clients) == 0 {
		delete(h.clients, client.userID)
	}
	h.log.Debug().Int64("user_id", client.userID).Int("remaining", len(clients)).Msg("client disconnected")
}

// BroadcastToUser sends event to every connection of userID. Connections
// whose buffer is full are dropped.
func (h *Hub) BroadcastToUser(userID int64, event Event) {
	event.Seq = h.seq.Add(1)

	data, err := json.Marshal(event)
	if err != nil {
		h.log.Error().Err(err).Str("op", event.Op).Msg("failed to marshal event")
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	for client := range h.clients[userID] {
		select {
		case client.send <- data:
		default:
			go h.drop(client)
		}
	}
}

// Shutdown stops Run and closes every send channel, which makes each
// WritePump send a close frame and exit.
func (h *Hub) Shutdown() {
	h.mu.Lock()
	defer h.mu.Unlock()

	select {
	case <-h.done:
		return
	default:
		close(h.done)
	}

	closed := 0
	for _, clients := range h.clients {
		for client := range clients {
			close(client.send)
			closed++
		}
	}
	h.clients = make(map[int64]map[*Client]bool)
	h.log.Info().Int("connections", closed).Msg("hub shut down")
}

func (h *Hub) drop(c *Client) {
	select {
	case h.unregister <- c:
	case <-h.done:
	}
}
