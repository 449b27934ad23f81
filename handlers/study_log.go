package handlers

import (
	"net/http"
	"strconv"

	"github.com/akinalp/studytrack/models"
	"github.com/akinalp/studytrack/pkg"
	"github.com/akinalp/studytrack/services"
)

type StudyLogHandler struct {
	logService services.StudyLogService
}

func NewStudyLogHandler(logService services.StudyLogService) *StudyLogHandler {
	return &StudyLogHandler{logService: logService}
}

// List godoc
// GET /api/logs?start=YYYY-MM-DD&end=YYYY-MM-DD&subject=S&min_hours=H&limit=N
func (h *StudyLogHandler) List(w http.ResponseWriter, r *http.Request) {
	identity, ok := requireIdentity(w, r)
	if !ok {
		return
	}

	q := r.URL.Query()
	filter := models.LogFilter{Start: q.Get("start"), End: q.Get("end"), Subject: q.Get("subject")}
	if mh := q.Get("min_hours"); mh != "" {
		minHours, err := strconv.ParseFloat(mh, 64)
		if err != nil {
			pkg.ErrorWithMessage(w, http.StatusBadRequest, "min_hours must be a number")
			return
		}
		filter.MinHours = &minHours
	}
	if l := q.Get("limit"); l != "" {
		limit, err := strconv.Atoi(l)
		if err != nil || limit <= 0 {
			pkg.ErrorWithMessage(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		filter.Limit = limit
	}

	logs, err := h.logService.List(r.Context(), identity.UserID, filter)
	if err != nil {
		writeError(w, r, err)
		return
	}

	pkg.JSON(w, http.StatusOK, logs)
}

// Create godoc
// POST /api/logs
// 201 when a new day was logged, 200 when an existing one was replaced.
func (h *StudyLogHandler) Create(w http.ResponseWriter, r *http.Request) {
	identity, ok := requireIdentity(w, r)
	if !ok {
		return
	}

	var req models.UpsertLogRequest
	if !decodeJSON(w, r, &req, false) {
		return
	}

	h.upsert(w, r, identity.UserID, &req)
}

// GET /api/logs/{date}
func (h *StudyLogHandler) Get(w http.ResponseWriter, r *http.Request) {
	identity, ok := requireIdentity(w, r)
	if !ok {
		return
	}

	log, err := h.logService.Get(r.Context(), identity.UserID, r.PathValue("date"))
	if err != nil {
		writeError(w, r, err)
		return
	}

	pkg.JSON(w, http.StatusOK, log)
}

// Put godoc
// PUT /api/logs/{date}
// The path date wins; a conflicting body date is rejected.
func (h *StudyLogHandler) Put(w http.ResponseWriter, r *http.Request) {
	identity, ok := requireIdentity(w, r)
	if !ok {
		return
	}

	var req models.UpsertLogRequest
	if !decodeJSON(w, r, &req, false) {
		return
	}

	date := r.PathValue("date")
	if req.Date != "" && req.Date != date {
		pkg.ErrorWithMessage(w, http.StatusBadRequest, "body date does not match path")
		return
	}
	req.Date = date

	h.upsert(w, r, identity.UserID, &req)
}

// Delete godoc
// DELETE /api/logs/{ref}
// ref is a log id or a YYYY-MM-DD date.
func (h *StudyLogHandler) Delete(w http.ResponseWriter, r *http.Request) {
	identity, ok := requireIdentity(w, r)
	if !ok {
		return
	}

	result, err := h.logService.Delete(r.Context(), identity.UserID, r.PathValue("ref"))
	if err != nil {
		writeError(w, r, err)
		return
	}

	pkg.JSON(w, http.StatusOK, result)
}

func (h *StudyLogHandler) upsert(w http.ResponseWriter, r *http.Request, userID int64, req *models.UpsertLogRequest) {
	result, err := h.logService.Upsert(r.Context(), userID, req)
	if err != nil {
		writeError(w, r, err)
		return
	}

	status := http.StatusOK
	if result.Created {
		status = http.StatusCreated
	}
	pkg.JSON(w, status, result)
}
