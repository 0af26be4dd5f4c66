package models

import (
	"time"

	"github.com/google/uuid"
)

// ScheduleReason explains an empty scheduling result.
type ScheduleReason string

const (
	ReasonNoTasks        ScheduleReason = "no_tasks"
	ReasonNoAvailability ScheduleReason = "no_availability"
	ReasonInfeasible     ScheduleReason = "infeasible"
	ReasonTimeout        ScheduleReason = "timeout"
)

type ScheduleGenerateRequest struct {
	StartDate *time.Time `json:"start_date"`
	EndDate   *time.Time `json:"end_date"`
	// Strategy is an optional hint: "auto" (default), "optimal" or "greedy".
	Strategy string `json:"strategy"`
}

type ScheduleResult struct {
	Sessions    []StudySession `json:"sessions"`
	Count       int            `json:"count"`
	Reason      ScheduleReason `json:"reason,omitempty"`
	Message     string         `json:"message"`
	Unscheduled []uuid.UUID    `json:"unscheduled_task_ids,omitempty"`
}
