package models

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenKind is carried in the "type" claim so an access token can never be
// used as a refresh token and vice versa.
type TokenKind string

const (
	TokenKindAccess  TokenKind = "access"
	TokenKindRefresh TokenKind = "refresh"
)

// AccessClaims is the payload of the short-lived bearer credential.
// sub holds the user id, jti the session token id.
type AccessClaims struct {
	Name  string    `json:"name"`
	Email string    `json:"email"`
	Kind  TokenKind `json:"type"`
	jwt.RegisteredClaims

	UserID int64 `json:"-"`
}

// RefreshClaims is the payload of the long-lived credential. Its jti must
// match a live session row.
type RefreshClaims struct {
	Kind TokenKind `json:"type"`
	jwt.RegisteredClaims

	UserID int64 `json:"-"`
}

// TokenPair is what issue and rotate hand back to the client.
type TokenPair struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`

	TokenID          string    `json:"-"`
	AccessExpiresAt  time.Time `json:"-"`
	RefreshExpiresAt time.Time `json:"-"`
}

// AuthResult is the register/login response body.
type AuthResult struct {
	User *User `json:"user"`
	*TokenPair
}

// Identity is what the auth middleware stores in the request context.
type Identity struct {
	UserID  int64
	Name    string
	Email   string
	TokenID string
}
