package models

import (
	"time"

	"github.com/google/uuid"
)

type SessionStatus string

const (
	SessionPlanned    SessionStatus = "planned"
	SessionInProgress SessionStatus = "in_progress"
	SessionCompleted  SessionStatus = "completed"
	SessionSkipped    SessionStatus = "skipped"
)

// CanTransitionTo implements the session state machine:
// planned → in_progress → completed, planned → skipped.
// completed and skipped are terminal.
func (s SessionStatus) CanTransitionTo(next SessionStatus) bool {
	switch s {
	case SessionPlanned:
		return next == SessionInProgress || next == SessionSkipped
	case SessionInProgress:
		return next == SessionCompleted
	}
	return false
}

type StudySession struct {
	ID             uuid.UUID     `json:"id"`
	UserID         uuid.UUID     `json:"user_id"`
	TaskID         uuid.UUID     `json:"task_id"`
	CourseID       *uuid.UUID    `json:"course_id,omitempty"`
	StartTime      time.Time     `json:"start_time"`
	EndTime        time.Time     `json:"end_time"`
	PlannedMinutes int           `json:"planned_minutes"`
	ActualMinutes  int           `json:"actual_minutes"`
	Status         SessionStatus `json:"status"`
	CreatedAt      time.Time     `json:"created_at"`
}
