// Package handlers is the HTTP layer. Handlers decode the request, call a
// service and encode the result; they hold no business rules and never
// touch the database.
package handlers

import (
	"context"

	"github.com/akinalp/studytrack/models"
)

type contextKey string

const identityContextKey contextKey = "identity"

// WithIdentity returns a copy of ctx carrying the authenticated caller.
func WithIdentity(ctx context.Context, identity *models.Identity) context.Context {
	return context.WithValue(ctx, identityContextKey, identity)
}

// IdentityFromContext returns the caller stored by the auth middleware.
func IdentityFromContext(ctx context.Context) (*models.Identity, bool) {
	identity, ok := ctx.Value(identityContextKey).(*models.Identity)
	return identity, ok && identity != nil
}
