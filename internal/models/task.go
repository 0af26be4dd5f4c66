package models

import (
	"time"

	"github.com/google/uuid"
)

type TaskStatus string

const (
	TaskPending    TaskStatus = "pending"
	TaskInProgress TaskStatus = "in_progress"
	TaskCompleted  TaskStatus = "completed"
	TaskOverdue    TaskStatus = "overdue"
)

type TaskPriority string

const (
	PriorityLow    TaskPriority = "low"
	PriorityMedium TaskPriority = "medium"
	PriorityHigh   TaskPriority = "high"
	PriorityUrgent TaskPriority = "urgent"
)

func (p TaskPriority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh, PriorityUrgent:
		return true
	}
	return false
}

// Schedulable reports whether a task in this status may receive study sessions.
func (s TaskStatus) Schedulable() bool {
	return s == TaskPending || s == TaskInProgress
}

type Task struct {
	ID               uuid.UUID    `json:"id"`
	UserID           uuid.UUID    `json:"user_id"`
	CourseID         *uuid.UUID   `json:"course_id,omitempty"`
	Title            string       `json:"title"`
	Description      *string      `json:"description,omitempty"`
	DueDate          time.Time    `json:"due_date"`
	Priority         TaskPriority `json:"priority"`
	EstimatedMinutes int          `json:"estimated_minutes"`
	ActualMinutes    int          `json:"actual_minutes"`
	Status           TaskStatus   `json:"status"`
	CreatedAt        time.Time    `json:"created_at"`
}

type CreateTaskRequest struct {
	Title            string     `json:"title"`
	Description      *string    `json:"description"`
	CourseID         *uuid.UUID `json:"course_id"`
	DueDate          time.Time  `json:"due_date"`
	Priority         string     `json:"priority"`
	EstimatedMinutes int        `json:"estimated_minutes"`
}

type UpdateTaskRequest struct {
	Title            *string    `json:"title"`
	Description      *string    `json:"description"`
	DueDate          *time.Time `json:"due_date"`
	Priority         *string    `json:"priority"`
	EstimatedMinutes *int       `json:"estimated_minutes"`
	Status           *string    `json:"status"`
}
