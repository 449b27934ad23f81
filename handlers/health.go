package handlers

import (
	"net/http"

	"github.com/akinalp/studytrack/pkg"
)

type HealthResponse struct {
	Status        string `json:"status"`
	Authenticated bool   `json:"authenticated"`
}

// Health godoc
// GET /api/health
// Runs behind the optional auth middleware.
func Health(w http.ResponseWriter, r *http.Request) {
	_, authenticated := IdentityFromContext(r.Context())
	pkg.JSON(w, http.StatusOK, HealthResponse{Status: "ok", Authenticated: authenticated})
}
