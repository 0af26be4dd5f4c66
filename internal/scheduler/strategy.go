package scheduler

import (
	"context"
	"time"

	"github.com/google/uuid"

	"smartstudy-backend/internal/models"
)

// Defaults applied when the user has no stored preferences.
const (
	DefaultSessionLength = 50 // minutes
	DefaultBreakLength   = 10 // minutes
	DefaultHorizonDays   = 14
)

// Horizon is the half-open date range [Start, End) eligible for scheduling.
type Horizon struct {
	Start time.Time
	End   time.Time
}

// Window is a half-open free-time interval [Start, End).
type Window struct {
	Start time.Time
	End   time.Time
}

func (w Window) Minutes() int {
	return int(w.End.Sub(w.Start).Minutes())
}

// Preferences are the per-user knobs the engine honors.
type Preferences struct {
	SessionLength int
	BreakLength   int
}

// Input is everything a scheduling strategy needs for one run. Tasks must
// already be filtered to schedulable statuses and Windows must be the
// resolved, disjoint output of ResolveWindows.
type Input struct {
	Tasks       []models.Task
	Windows     []Window
	Horizon     Horizon
	Preferences Preferences
}

// Assignment binds one chunk of a task to a concrete time slot.
type Assignment struct {
	TaskID     uuid.UUID
	CourseID   *uuid.UUID
	ChunkIndex int
	Start      time.Time
	End        time.Time
	Minutes    int
}

// Plan is the outcome of a strategy run. An empty Assignments slice with a
// non-empty Reason is a legitimate result, not an error.
type Plan struct {
	Assignments []Assignment
	Unscheduled []uuid.UUID
	Reason      models.ScheduleReason
	Strategy    string
}

// Strategy produces an assignment from tasks, windows and preferences.
// ConstraintScheduler and GreedyScheduler are the two implementations.
type Strategy interface {
	Name() string
	Schedule(ctx context.Context, in Input) (*Plan, error)
}

// effectiveDeadline returns the instant a task's chunks must end by. Tasks
// already overdue at the horizon start stay eligible (Scorer gives them the
// maximal tier); their cutoff becomes the horizon end.
func effectiveDeadline(t *models.Task, h Horizon) time.Time {
	if !t.DueDate.After(h.Start) {
		return h.End
	}
	if t.DueDate.After(h.End) {
		return h.End
	}
	return t.DueDate
}
