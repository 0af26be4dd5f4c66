package handlers

import (
	"encoding/json"
	"io"
	"net/http"
	"time"

	"smartstudy-backend/internal/middleware"
	"smartstudy-backend/internal/models"
	"smartstudy-backend/internal/repository"
	"smartstudy-backend/internal/services"
)

type ScheduleHandler struct {
	service  *services.ScheduleService
	sessions *repository.SessionRepo
}

func NewScheduleHandler(service *services.ScheduleService, sessions *repository.SessionRepo) *ScheduleHandler {
	return &ScheduleHandler{service: service, sessions: sessions}
}

// Generate runs a scheduling pass and replaces the user's planned sessions.
func (h *ScheduleHandler) Generate(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	var req models.ScheduleGenerateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && err != io.EOF {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid request body", r))
		return
	}

	result, err := h.service.Generate(r.Context(), userID, req)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// Week lists the sessions of the Monday-aligned week containing the given
// date (default: today).
func (h *ScheduleHandler) Week(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	target := time.Now().UTC()
	if raw := r.URL.Query().Get("date"); raw != "" {
		parsed, err := time.Parse("2006-01-02", raw)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "date must be YYYY-MM-DD", r))
			return
		}
		target = parsed
	}

	weekStart, weekEnd := weekBounds(target)
	sessions, err := h.sessions.ListRange(r.Context(), userID, weekStart, weekEnd)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to load schedule", r))
		return
	}
	if sessions == nil {
		sessions = []models.StudySession{}
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"week_start": weekStart,
		"week_end":   weekEnd,
		"sessions":   sessions,
	})
}

// weekBounds returns the half-open Monday-to-Monday week containing t.
func weekBounds(t time.Time) (time.Time, time.Time) {
	t = t.UTC()
	day := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	offset := (int(day.Weekday()) + 6) % 7 // Monday = 0
	start := day.AddDate(0, 0, -offset)
	return start, start.AddDate(0, 0, 7)
}
