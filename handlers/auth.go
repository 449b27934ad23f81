package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/akinalp/studytrack/models"
	"github.com/akinalp/studytrack/pkg"
	"github.com/akinalp/studytrack/pkg/ratelimit"
	"github.com/akinalp/studytrack/services"
)

type AuthHandler struct {
	authService  services.AuthService
	tokenService services.TokenService
	loginLimiter *ratelimit.Limiter
	trustProxy   bool
}

// NewAuthHandler builds the /auth handlers. A nil loginLimiter disables
// login throttling. trustProxy lets forwarding headers pick the client IP.
func NewAuthHandler(authService services.AuthService, tokenService services.TokenService, loginLimiter *ratelimit.Limiter, trustProxy bool) *AuthHandler {
	return &AuthHandler{
		authService:  authService,
		tokenService: tokenService,
		loginLimiter: loginLimiter,
		trustProxy:   trustProxy,
	}
}

// Register godoc
// POST /auth/register
// Body: { "name", "email", "password", "timezone"? }
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req models.CreateUserRequest
	if !decodeJSON(w, r, &req, false) {
		return
	}

	result, err := h.authService.Register(r.Context(), &req, clientInfo(r, h.trustProxy))
	if err != nil {
		writeError(w, r, err)
		return
	}

	pkg.JSON(w, http.StatusCreated, result)
}

// Login godoc
// POST /auth/login
//
// Attempts are counted per client IP; a successful login clears the count.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	client := clientInfo(r, h.trustProxy)
	if h.loginLimiter != nil && !h.loginLimiter.Allow(client.IP) {
		retry := int(h.loginLimiter.RetryAfter(client.IP).Seconds())
		w.Header().Set("Retry-After", strconv.Itoa(retry))
		pkg.ErrorWithMessage(w, http.StatusTooManyRequests,
			fmt.Sprintf("too many login attempts, try again in %d seconds", retry))
		return
	}

	var req models.LoginRequest
	if !decodeJSON(w, r, &req, false) {
		return
	}

	result, err := h.authService.Login(r.Context(), &req, client)
	if err != nil {
		writeError(w, r, err)
		return
	}

	if h.loginLimiter != nil {
		h.loginLimiter.Reset(client.IP)
	}

	pkg.JSON(w, http.StatusOK, result)
}

// Refresh godoc
// POST /auth/refresh
// Body: { "refreshToken": "..." }
//
// Every credential failure gets the same 401, whether the token was
// expired, forged or already rotated.
func (h *AuthHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	var req struct {
		RefreshToken string `json:"refreshToken"`
	}
	if !decodeJSON(w, r, &req, true) {
		return
	}
	if req.RefreshToken == "" {
		pkg.ErrorWithMessage(w, http.StatusBadRequest, "refreshToken is required")
		return
	}

	pair, err := h.authService.Refresh(r.Context(), req.RefreshToken, clientInfo(r, h.trustProxy))
	if errors.Is(err, pkg.ErrUnauthorized) {
		pkg.ErrorWithMessage(w, http.StatusUnauthorized, "invalid refresh token")
		return
	}
	if err != nil {
		writeError(w, r, err)
		return
	}

	pkg.JSON(w, http.StatusOK, pair)
}

// Logout godoc
// POST /auth/logout
// Body: { "jti": "..." }
//
// Unknown or missing ids answer 200. A body that is not JSON counts as a
// missing jti.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	var req struct {
		JTI string `json:"jti"`
	}
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		req.JTI = ""
	}

	if err := h.authService.Logout(r.Context(), req.JTI); err != nil {
		writeError(w, r, err)
		return
	}

	pkg.JSON(w, http.StatusOK, map[string]string{"message": "logged out"})
}

// LogoutAll godoc
// POST /auth/logout-all
func (h *AuthHandler) LogoutAll(w http.ResponseWriter, r *http.Request) {
	identity, ok := requireIdentity(w, r)
	if !ok {
		return
	}

	if err := h.authService.LogoutAll(r.Context(), identity.UserID); err != nil {
		writeError(w, r, err)
		return
	}

	pkg.JSON(w, http.StatusOK, map[string]string{"message": "logged out everywhere"})
}

// Sessions godoc
// GET /auth/sessions
func (h *AuthHandler) Sessions(w http.ResponseWriter, r *http.Request) {
	identity, ok := requireIdentity(w, r)
	if !ok {
		return
	}

	sessions, err := h.tokenService.ListSessions(r.Context(), identity.UserID, identity.TokenID)
	if err != nil {
		writeError(w, r, err)
		return
	}

	pkg.JSON(w, http.StatusOK, sessions)
}
