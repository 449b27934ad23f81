package ws

import (
	"net/http"

	"github.com/gorilla/websocket"

	"github.com/akinalp/studytrack/models"
)

// TokenValidator checks the access credential passed as ?token=. Browsers
// cannot set headers on a WebSocket handshake.
type TokenValidator interface {
	VerifyAccess(tokenString string) (*models.AccessClaims, error)
}

type Handler struct {
	hub       *Hub
	validator TokenValidator
	upgrader  websocket.Upgrader
}

// NewHandler builds the upgrade handler. checkOrigin may be nil to accept
// any origin.
func NewHandler(hub *Hub, validator TokenValidator, checkOrigin func(r *http.Request) bool) *Handler {
	if checkOrigin == nil {
		checkOrigin = func(r *http.Request) bool { return true }
	}
	return &Handler{
		hub:       hub,
		validator: validator,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     checkOrigin,
		},
	}
}

// HandleConnection authenticates, upgrades and runs the pumps. It blocks
// until the connection closes.
func (h *Handler) HandleConnection(w http.ResponseWriter, r *http.Request) {
	token := r.URL.Query().Get("token")
	if token == "" {
		http.Error(w, "missing token", http.StatusUnauthorized)
		return
	}

	claims, err := h.validator.VerifyAccess(token)
	if err != nil {
		http.Error(w, "invalid token", http.StatusUnauthorized)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.hub.log.Debug().Err(err).Int64("user_id", claims.UserID).Msg("upgrade failed")
		return
	}

	client := &Client{
		hub:    h.hub,
		conn:   conn,
		userID: claims.UserID,
		name:   claims.Name,
		send:   make(chan []byte, sendBufferSize),
	}

	select {
	case h.hub.register <- client:
	case <-h.hub.done:
		conn.Close()
		return
	}

	go client.WritePump()
	client.ReadPump()
}
