// Package middleware holds the layers that wrap handlers:
//
//	func(next http.Handler) http.Handler
//
// A middleware either calls next or answers the request itself.
package middleware

import (
	"net/http"
	"strings"

	"github.com/akinalp/studytrack/handlers"
	"github.com/akinalp/studytrack/models"
	"github.com/akinalp/studytrack/pkg"
)

const bearerScheme = "bearer"

// AccessVerifier validates an access credential without a store lookup.
type AccessVerifier interface {
	VerifyAccess(tokenString string) (*models.AccessClaims, error)
}

// AuthMiddleware authenticates requests with Authorization: Bearer <token>.
type AuthMiddleware struct {
	verifier AccessVerifier
}

func NewAuthMiddleware(verifier AccessVerifier) *AuthMiddleware {
	return &AuthMiddleware{verifier: verifier}
}

// Require rejects the request with 401 unless it carries a valid access
// credential. Missing, malformed and invalid credentials all get the same
// answer.
func (m *AuthMiddleware) Require(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		identity, ok := m.authenticate(r)
		if !ok {
			pkg.ErrorWithMessage(w, http.StatusUnauthorized, "authentication required")
			return
		}

		next.ServeHTTP(w, r.WithContext(handlers.WithIdentity(r.Context(), identity)))
	})
}

// Optional attaches the identity when the credential is valid and otherwise
// serves the request anonymously.
func (m *AuthMiddleware) Optional(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if identity, ok := m.authenticate(r); ok {
			r = r.WithContext(handlers.WithIdentity(r.Context(), identity))
		}
		next.ServeHTTP(w, r)
	})
}

func (m *AuthMiddleware) authenticate(r *http.Request) (*models.Identity, bool) {
	tokenString, ok := bearerToken(r.Header.Get("Authorization"))
	if !ok {
		return nil, false
	}

	claims, err := m.verifier.VerifyAccess(tokenString)
	if err != nil {
		return nil, false
	}

	return &models.Identity{
		UserID:  claims.UserID,
		Name:    claims.Name,
		Email:   claims.Email,
		TokenID: claims.ID,
	}, true
}

// bearerToken extracts the token from "Bearer <token>". The scheme is
// matched case-insensitively.
func bearerToken(header string) (string, bool) {
	scheme, token, found := strings.Cut(strings.TrimSpace(header), " ")
	if !found || !strings.EqualFold(scheme, bearerScheme) {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}
