package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"smartstudy-backend/internal/middleware"
	"smartstudy-backend/internal/models"
	"smartstudy-backend/internal/repository"
)

type AvailabilityHandler struct {
	repo *repository.AvailabilityRepo
}

func NewAvailabilityHandler(repo *repository.AvailabilityRepo) *AvailabilityHandler {
	return &AvailabilityHandler{repo: repo}
}

func (h *AvailabilityHandler) ListRules(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	rules, err := h.repo.ListRules(r.Context(), userID)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to load availability rules", r))
		return
	}
	if rules == nil {
		rules = []models.AvailabilityRule{}
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"rules": rules})
}

func (h *AvailabilityHandler) CreateRule(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	var req models.CreateRuleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid request body", r))
		return
	}

	fields := make(map[string]string)
	day := models.DayOfWeek(req.DayOfWeek)
	if _, ok := day.Weekday(); !ok {
		fields["day_of_week"] = "Day must be monday through sunday"
	}
	if !validClock(req.StartTime) {
		fields["start_time"] = "Start time must be HH:MM"
	}
	if !validClock(req.EndTime) {
		fields["end_time"] = "End time must be HH:MM"
	}
	if len(fields) == 0 && req.EndTime <= req.StartTime {
		fields["end_time"] = "End time must be after start time"
	}
	if len(fields) > 0 {
		writeJSON(w, http.StatusBadRequest, errorRespWithFields("VALIDATION_ERROR", "Validation failed", fields, r))
		return
	}

	rule := &models.AvailabilityRule{
		UserID:    userID,
		DayOfWeek: day,
		StartTime: req.StartTime,
		EndTime:   req.EndTime,
	}
	if err := h.repo.CreateRule(r.Context(), rule); err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to create availability rule", r))
		return
	}

	writeJSON(w, http.StatusCreated, map[string]interface{}{"rule": rule})
}

func (h *AvailabilityHandler) DeleteRule(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	ruleID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid rule ID", r))
		return
	}

	affected, err := h.repo.DeleteRule(r.Context(), ruleID, userID)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to delete availability rule", r))
		return
	}
	if affected == 0 {
		writeJSON(w, http.StatusNotFound, errorResp("NOT_FOUND", "Availability rule not found", r))
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *AvailabilityHandler) ListExceptions(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	exceptions, err := h.repo.ListExceptions(r.Context(), userID)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to load availability exceptions", r))
		return
	}
	if exceptions == nil {
		exceptions = []models.AvailabilityException{}
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"exceptions": exceptions})
}

func (h *AvailabilityHandler) CreateException(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	var req models.CreateExceptionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid request body", r))
		return
	}

	fields := make(map[string]string)
	if req.Date.IsZero() {
		fields["date"] = "Date is required"
	}
	if req.StartTime != nil && !validClock(*req.StartTime) {
		fields["start_time"] = "Start time must be HH:MM"
	}
	if req.EndTime != nil && !validClock(*req.EndTime) {
		fields["end_time"] = "End time must be HH:MM"
	}
	if (req.StartTime == nil) != (req.EndTime == nil) {
		fields["end_time"] = "Start and end time must be given together"
	}
	if req.IsAvailable && req.StartTime == nil {
		fields["start_time"] = "An added availability window needs start and end times"
	}
	if len(fields) == 0 && req.StartTime != nil && *req.EndTime <= *req.StartTime {
		fields["end_time"] = "End time must be after start time"
	}
	if len(fields) > 0 {
		writeJSON(w, http.StatusBadRequest, errorRespWithFields("VALIDATION_ERROR", "Validation failed", fields, r))
		return
	}

	ex := &models.AvailabilityException{
		UserID:      userID,
		Date:        req.Date.UTC().Truncate(24 * time.Hour),
		StartTime:   req.StartTime,
		EndTime:     req.EndTime,
		IsAvailable: req.IsAvailable,
	}
	if err := h.repo.CreateException(r.Context(), ex); err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to create availability exception", r))
		return
	}

	writeJSON(w, http.StatusCreated, map[string]interface{}{"exception": ex})
}

func (h *AvailabilityHandler) DeleteException(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	exID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid exception ID", r))
		return
	}

	affected, err := h.repo.DeleteException(r.Context(), exID, userID)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to delete availability exception", r))
		return
	}
	if affected == 0 {
		writeJSON(w, http.StatusNotFound, errorResp("NOT_FOUND", "Availability exception not found", r))
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func validClock(s string) bool {
	_, err := time.Parse("15:04", s)
	return err == nil && len(s) == 5
}
