package models

import "time"

// Session is one outstanding refresh credential. Deleting the row revokes
// the credential; nothing else does.
type Session struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"-"`
	TokenID   string    `json:"-"`
	UserAgent *string   `json:"user_agent"`
	IP        *string   `json:"ip"`
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at"`
	Current   bool      `json:"current"`
}

// ClientInfo describes the device a session was opened from.
type ClientInfo struct {
	UserAgent string
	IP        string
}
