// Package ws pushes server events to a user's open WebSocket connections.
//
// Wire format (both directions):
//
//	{"op": "streak_update", "d": {...}, "seq": 12}
//
// seq increases monotonically per hub so clients can detect gaps.
package ws

// Event is one frame on the socket.
type Event struct {
	Op   string `json:"op"`
	Data any    `json:"d,omitempty"`
	Seq  int64  `json:"seq,omitempty"`
}

// Client → server.
const (
	OpHeartbeat = "heartbeat"
)

// Server → client.
const (
	OpReady           = "ready"
	OpHeartbeatAck    = "heartbeat_ack"
	OpStreakUpdate    = "streak_update"
	OpSessionsRevoked = "sessions_revoked"
)

// ReadyData is sent once after a connection is registered.
type ReadyData struct {
	UserID int64  `json:"user_id"`
	Name   string `json:"name"`
	Streak any    `json:"streak,omitempty"`
}

// SessionsRevokedData tells every device of a user that its refresh
// credentials are gone and it should sign in again.
type SessionsRevokedData struct {
	Count int64 `json:"count"`
}
