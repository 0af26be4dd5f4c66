package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"smartstudy-backend/internal/middleware"
	"smartstudy-backend/internal/models"
	"smartstudy-backend/internal/repository"
	"smartstudy-backend/internal/websocket"
)

type SessionHandler struct {
	repo *repository.SessionRepo
	hub  *websocket.Hub
}

func NewSessionHandler(repo *repository.SessionRepo, hub *websocket.Hub) *SessionHandler {
	return &SessionHandler{repo: repo, hub: hub}
}

type updateSessionStatusRequest struct {
	Status        string `json:"status"`
	ActualMinutes *int   `json:"actual_minutes"`
}

// UpdateStatus moves a session through its state machine:
// planned → in_progress → completed, or planned → skipped.
func (h *SessionHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	sessionID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid session ID", r))
		return
	}

	var req updateSessionStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid request body", r))
		return
	}

	next := models.SessionStatus(req.Status)
	switch next {
	case models.SessionInProgress, models.SessionCompleted, models.SessionSkipped:
	default:
		writeJSON(w, http.StatusBadRequest, errorRespWithFields("VALIDATION_ERROR", "Validation failed",
			map[string]string{"status": "Status must be in_progress, completed or skipped"}, r))
		return
	}
	if req.ActualMinutes != nil && *req.ActualMinutes < 0 {
		writeJSON(w, http.StatusBadRequest, errorRespWithFields("VALIDATION_ERROR", "Validation failed",
			map[string]string{"actual_minutes": "Actual minutes must not be negative"}, r))
		return
	}

	session, err := h.repo.GetByID(r.Context(), sessionID, userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeJSON(w, http.StatusNotFound, errorResp("NOT_FOUND", "Session not found", r))
			return
		}
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to load session", r))
		return
	}

	if !session.Status.CanTransitionTo(next) {
		writeJSON(w, http.StatusConflict, errorResp("CONFLICT",
			"Session cannot move from "+string(session.Status)+" to "+string(next), r))
		return
	}

	actual := 0
	if req.ActualMinutes != nil {
		actual = *req.ActualMinutes
	} else if next == models.SessionCompleted {
		actual = session.PlannedMinutes
	}

	affected, err := h.repo.UpdateStatus(r.Context(), sessionID, userID, session.Status, next, actual)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to update session", r))
		return
	}
	if affected == 0 {
		// Lost a race with another writer; the load-then-check is only advisory.
		writeJSON(w, http.StatusConflict, errorResp("CONFLICT", "Session was updated concurrently", r))
		return
	}

	session.Status = next
	session.ActualMinutes += actual

	if h.hub != nil {
		h.hub.SendToUser(userID, models.WSMessage{
			Type: "session_status",
			Payload: models.SessionStatusEvent{
				SessionID: session.ID,
				TaskID:    session.TaskID,
				Status:    next,
			},
		})
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"session": session})
}
