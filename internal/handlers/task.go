package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"smartstudy-backend/internal/middleware"
	"smartstudy-backend/internal/models"
	"smartstudy-backend/internal/repository"
)

type TaskHandler struct {
	repo *repository.TaskRepo
}

func NewTaskHandler(repo *repository.TaskRepo) *TaskHandler {
	return &TaskHandler{repo: repo}
}

func (h *TaskHandler) List(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	tasks, err := h.repo.ListByUser(r.Context(), userID)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to load tasks", r))
		return
	}
	if tasks == nil {
		tasks = []models.Task{}
	}

	// Overdue is derived on read only; the stored status stays pending so the
	// task remains eligible for scheduling.
	now := time.Now().UTC()
	for i := range tasks {
		if tasks[i].Status == models.TaskPending && tasks[i].DueDate.Before(now) {
			tasks[i].Status = models.TaskOverdue
		}
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"tasks": tasks})
}

func (h *TaskHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	var req models.CreateTaskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid request body", r))
		return
	}

	if fields := validateTaskRequest(req); len(fields) > 0 {
		writeJSON(w, http.StatusBadRequest, errorRespWithFields("VALIDATION_ERROR", "Validation failed", fields, r))
		return
	}

	priority := models.TaskPriority(req.Priority)
	if req.Priority == "" {
		priority = models.PriorityMedium
	}

	task := &models.Task{
		UserID:           userID,
		CourseID:         req.CourseID,
		Title:            req.Title,
		Description:      req.Description,
		DueDate:          req.DueDate.UTC(),
		Priority:         priority,
		EstimatedMinutes: req.EstimatedMinutes,
	}
	if err := h.repo.Create(r.Context(), task); err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to create task", r))
		return
	}

	writeJSON(w, http.StatusCreated, map[string]interface{}{"task": task})
}

func (h *TaskHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	taskID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid task ID", r))
		return
	}

	var req models.UpdateTaskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid request body", r))
		return
	}

	task, err := h.repo.GetByID(r.Context(), taskID, userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeJSON(w, http.StatusNotFound, errorResp("NOT_FOUND", "Task not found", r))
			return
		}
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to load task", r))
		return
	}

	fields := make(map[string]string)
	if req.Title != nil {
		if *req.Title == "" {
			fields["title"] = "Title is required"
		} else {
			task.Title = *req.Title
		}
	}
	if req.Description != nil {
		task.Description = req.Description
	}
	if req.DueDate != nil {
		task.DueDate = req.DueDate.UTC()
	}
	if req.Priority != nil {
		p := models.TaskPriority(*req.Priority)
		if !p.Valid() {
			fields["priority"] = "Priority must be low, medium, high or urgent"
		} else {
			task.Priority = p
		}
	}
	if req.EstimatedMinutes != nil {
		if *req.EstimatedMinutes <= 0 {
			fields["estimated_minutes"] = "Estimated minutes must be positive"
		} else {
			task.EstimatedMinutes = *req.EstimatedMinutes
		}
	}
	if req.Status != nil {
		s := models.TaskStatus(*req.Status)
		switch s {
		case models.TaskPending, models.TaskInProgress, models.TaskCompleted, models.TaskOverdue:
			task.Status = s
		default:
			fields["status"] = "Status must be pending, in_progress, completed or overdue"
		}
	}
	if len(fields) > 0 {
		writeJSON(w, http.StatusBadRequest, errorRespWithFields("VALIDATION_ERROR", "Validation failed", fields, r))
		return
	}

	if err := h.repo.Update(r.Context(), task); err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to update task", r))
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"task": task})
}

func (h *TaskHandler) Complete(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	taskID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid task ID", r))
		return
	}

	affected, err := h.repo.Complete(r.Context(), taskID, userID)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to complete task", r))
		return
	}
	if affected == 0 {
		writeJSON(w, http.StatusNotFound, errorResp("NOT_FOUND", "Task not found", r))
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "Task completed"})
}

func (h *TaskHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	taskID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid task ID", r))
		return
	}

	affected, err := h.repo.Delete(r.Context(), taskID, userID)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to delete task", r))
		return
	}
	if affected == 0 {
		writeJSON(w, http.StatusNotFound, errorResp("NOT_FOUND", "Task not found", r))
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func validateTaskRequest(req models.CreateTaskRequest) map[string]string {
	fields := make(map[string]string)
	if req.Title == "" {
		fields["title"] = "Title is required"
	}
	if req.DueDate.IsZero() {
		fields["due_date"] = "Due date is required"
	}
	if req.EstimatedMinutes <= 0 {
		fields["estimated_minutes"] = "Estimated minutes must be positive"
	}
	if req.Priority != "" && !models.TaskPriority(req.Priority).Valid() {
		fields["priority"] = "Priority must be low, medium, high or urgent"
	}
	if len(fields) > 0 {
		return fields
	}
	return nil
}
