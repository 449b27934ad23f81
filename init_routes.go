package main

import (
	"net/http"

	"github.com/akinalp/studytrack/handlers"
	"github.com/akinalp/studytrack/middleware"
)

// initRoutes registers every endpoint on mux. Everything under /api except
// health requires a bearer credential.
func initRoutes(mux *http.ServeMux, h *Handlers, verifier middleware.AccessVerifier) {
	authMw := middleware.NewAuthMiddleware(verifier)

	auth := func(handler http.HandlerFunc) http.Handler {
		return authMw.Require(handler)
	}

	// Auth
	mux.HandleFunc("POST /auth/register", h.Auth.Register)
	mux.HandleFunc("POST /auth/login", h.Auth.Login)
	mux.HandleFunc("POST /auth/refresh", h.Auth.Refresh)
	mux.HandleFunc("POST /auth/logout", h.Auth.Logout)
	mux.Handle("POST /auth/logout-all", auth(h.Auth.LogoutAll))
	mux.Handle("GET /auth/sessions", auth(h.Auth.Sessions))

	// Account
	mux.Handle("GET /api/me", auth(h.User.Me))
	mux.Handle("PATCH /api/me", auth(h.User.UpdateMe))
	mux.Handle("PUT /api/me", auth(h.User.UpdateMe))
	mux.Handle("DELETE /api/me", auth(h.User.DeleteMe))
	mux.Handle("PUT /api/me/password", auth(h.User.ChangePassword))
	mux.Handle("PATCH /api/me/password", auth(h.User.PatchPassword))

	// Study logs
	mux.Handle("GET /api/logs", auth(h.StudyLog.List))
	mux.Handle("POST /api/logs", auth(h.StudyLog.Create))
	mux.Handle("GET /api/logs/{date}", auth(h.StudyLog.Get))
	mux.Handle("PUT /api/logs/{date}", auth(h.StudyLog.Put))
	mux.Handle("DELETE /api/logs/{ref}", auth(h.StudyLog.Delete))

	// Streak
	mux.Handle("GET /api/streak", auth(h.Streak.Get))
	mux.Handle("POST /api/streak/recompute", auth(h.Streak.Recompute))

	mux.Handle("GET /api/health", authMw.Optional(http.HandlerFunc(handlers.Health)))

	// Browsers cannot set headers on the upgrade request, so the socket
	// authenticates with ?token= inside the handler.
	mux.HandleFunc("GET /ws", h.WS.HandleConnection)
}
