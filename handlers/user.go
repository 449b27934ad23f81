package handlers

import (
	"net/http"

	"github.com/akinalp/studytrack/models"
	"github.com/akinalp/studytrack/pkg"
	"github.com/akinalp/studytrack/services"
)

// UserHandler serves the caller's own account under /api/me.
type UserHandler struct {
	userService services.UserService
}

func NewUserHandler(userService services.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

// GET /api/me
func (h *UserHandler) Me(w http.ResponseWriter, r *http.Request) {
	identity, ok := requireIdentity(w, r)
	if !ok {
		return
	}

	profile, err := h.userService.Profile(r.Context(), identity.UserID)
	if err != nil {
		writeError(w, r, err)
		return
	}

	pkg.JSON(w, http.StatusOK, profile)
}

// PATCH /api/me, PUT /api/me
func (h *UserHandler) UpdateMe(w http.ResponseWriter, r *http.Request) {
	identity, ok := requireIdentity(w, r)
	if !ok {
		return
	}

	var req models.UpdateProfileRequest
	if !decodeJSON(w, r, &req, false) {
		return
	}

	user, err := h.userService.UpdateProfile(r.Context(), identity.UserID, &req)
	if err != nil {
		writeError(w, r, err)
		return
	}

	pkg.JSON(w, http.StatusOK, user)
}

// PUT /api/me/password
// Body: { "current_password": "...", "new_password": "..." }
func (h *UserHandler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	identity, ok := requireIdentity(w, r)
	if !ok {
		return
	}

	var req models.ChangePasswordRequest
	if !decodeJSON(w, r, &req, false) {
		return
	}

	h.changePassword(w, r, identity.UserID, &req)
}

// PATCH /api/me/password
// Body: { "current": "...", "next": "..." }
func (h *UserHandler) PatchPassword(w http.ResponseWriter, r *http.Request) {
	identity, ok := requireIdentity(w, r)
	if !ok {
		return
	}

	var body struct {
		Current string `json:"current"`
		Next    string `json:"next"`
	}
	if !decodeJSON(w, r, &body, false) {
		return
	}

	h.changePassword(w, r, identity.UserID, &models.ChangePasswordRequest{
		CurrentPassword: body.Current,
		NewPassword:     body.Next,
	})
}

func (h *UserHandler) changePassword(w http.ResponseWriter, r *http.Request, userID int64, req *models.ChangePasswordRequest) {
	if err := h.userService.ChangePassword(r.Context(), userID, req); err != nil {
		writeError(w, r, err)
		return
	}

	pkg.JSON(w, http.StatusOK, map[string]string{"message": "password changed"})
}

// DELETE /api/me
// Body: { "password": "..." }
func (h *UserHandler) DeleteMe(w http.ResponseWriter, r *http.Request) {
	identity, ok := requireIdentity(w, r)
	if !ok {
		return
	}

	var req models.DeleteAccountRequest
	if !decodeJSON(w, r, &req, true) {
		return
	}

	if err := h.userService.DeleteAccount(r.Context(), identity.UserID, req.Password); err != nil {
		writeError(w, r, err)
		return
	}

	pkg.JSON(w, http.StatusOK, map[string]string{"message": "account deleted"})
}
