// Package pkg holds utilities shared across the server.
// This file defines the domain-level errors.
//
// Services return these (wrapped with fmt.Errorf("%w: ...")) and the
// handler layer maps them to HTTP status codes with errors.Is:
//
//	if errors.Is(err, pkg.ErrNotFound) { ... }
package pkg

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound      = errors.New("not found")
	ErrUnauthorized  = errors.New("unauthorized")
	ErrAlreadyExists = errors.New("already exists")
	ErrBadRequest    = errors.New("bad request")
)

// Authentication failures. All of them unwrap to ErrUnauthorized so the
// response layer answers 401 without knowing which one occurred.
var (
	// ErrInvalidCredentials is returned by login for an unknown email or a
	// wrong password. Callers must not be able to tell the two apart.
	ErrInvalidCredentials = fmt.Errorf("%w: invalid credentials", ErrUnauthorized)

	// ErrInvalidToken covers bad signatures, wrong token kind and expiry.
	ErrInvalidToken = fmt.Errorf("%w: invalid token", ErrUnauthorized)

	// ErrSessionRevoked means the refresh token is well-formed but its
	// session row is gone (logout, rotation or logout-all).
	ErrSessionRevoked = fmt.Errorf("%w: session revoked", ErrUnauthorized)
)
