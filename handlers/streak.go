package handlers

import (
	"net/http"

	"github.com/akinalp/studytrack/models"
	"github.com/akinalp/studytrack/pkg"
	"github.com/akinalp/studytrack/services"
)

type StreakHandler struct {
	streakService services.StreakService
}

func NewStreakHandler(streakService services.StreakService) *StreakHandler {
	return &StreakHandler{streakService: streakService}
}

// GET /api/streak
func (h *StreakHandler) Get(w http.ResponseWriter, r *http.Request) {
	identity, ok := requireIdentity(w, r)
	if !ok {
		return
	}

	streak, err := h.streakService.Get(r.Context(), identity.UserID)
	if err != nil {
		writeError(w, r, err)
		return
	}

	pkg.JSON(w, http.StatusOK, streak)
}

// Recompute godoc
// POST /api/streak/recompute
// Rebuilds the streak from every logged day, including the true longest run.
func (h *StreakHandler) Recompute(w http.ResponseWriter, r *http.Request) {
	identity, ok := requireIdentity(w, r)
	if !ok {
		return
	}

	streak, err := h.streakService.Recompute(r.Context(), identity.UserID, models.StreakFullRecompute)
	if err != nil {
		writeError(w, r, err)
		return
	}

	pkg.JSON(w, http.StatusOK, streak)
}
