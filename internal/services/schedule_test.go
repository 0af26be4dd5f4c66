package services

import (
	"testing"
	"time"

	"github.com/google/uuid"

	"smartstudy-backend/internal/models"
	"smartstudy-backend/internal/scheduler"
)

func TestResolveHorizon(t *testing.T) {
	s := &ScheduleService{horizonDays: 14}

	t.Run("defaults to now plus horizon", func(t *testing.T) {
		h, err := s.resolveHorizon(models.ScheduleGenerateRequest{})
		if err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}
		if got := h.End.Sub(h.Start); got != 14*24*time.Hour {
			t.Errorf("Expected a 14 day horizon, got %v", got)
		}
	})

	t.Run("honors explicit range", func(t *testing.T) {
		start := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
		end := start.AddDate(0, 0, 7)
		h, err := s.resolveHorizon(models.ScheduleGenerateRequest{StartDate: &start, EndDate: &end})
		if err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}
		if !h.Start.Equal(start) || !h.End.Equal(end) {
			t.Errorf("Expected [%v, %v), got [%v, %v)", start, end, h.Start, h.End)
		}
	})

	t.Run("rejects inverted range", func(t *testing.T) {
		start := time.Date(2026, 3, 9, 0, 0, 0, 0, time.UTC)
		end := start.AddDate(0, 0, -1)
		_, err := s.resolveHorizon(models.ScheduleGenerateRequest{StartDate: &start, EndDate: &end})
		if _, ok := err.(*ValidationError); !ok {
			t.Errorf("Expected ValidationError, got %v", err)
		}
	})
}

func TestPickStrategies(t *testing.T) {
	s := &ScheduleService{solverBudget: 10 * time.Second, fallbackThreshold: 2000}

	t.Run("greedy hint", func(t *testing.T) {
		primary, fallback, err := s.pickStrategies("greedy", 100)
		if err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}
		if primary.Name() != "greedy" || fallback != nil {
			t.Errorf("Expected greedy with no fallback, got %q", primary.Name())
		}
	})

	t.Run("optimal hint", func(t *testing.T) {
		primary, fallback, err := s.pickStrategies("optimal", 100)
		if err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}
		if primary.Name() != "constraint" || fallback != nil {
			t.Errorf("Expected constraint with no fallback, got %q", primary.Name())
		}
	})

	t.Run("auto under threshold gets fallback", func(t *testing.T) {
		primary, fallback, err := s.pickStrategies("auto", 100)
		if err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}
		if primary.Name() != "constraint" {
			t.Errorf("Expected constraint primary, got %q", primary.Name())
		}
		if fallback == nil || fallback.Name() != "greedy" {
			t.Errorf("Expected greedy fallback")
		}
	})

	t.Run("auto over threshold goes straight to greedy", func(t *testing.T) {
		primary, fallback, err := s.pickStrategies("", 5000)
		if err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}
		if primary.Name() != "greedy" || fallback != nil {
			t.Errorf("Expected greedy only, got %q", primary.Name())
		}
	})

	t.Run("invalid hint", func(t *testing.T) {
		_, _, err := s.pickStrategies("quantum", 100)
		if _, ok := err.(*ValidationError); !ok {
			t.Errorf("Expected ValidationError, got %v", err)
		}
	})
}

func TestChunkWindowPairs(t *testing.T) {
	tasks := []models.Task{
		{EstimatedMinutes: 120}, // 3 chunks at 50
		{EstimatedMinutes: 50},  // 1 chunk
		{EstimatedMinutes: 0},   // skipped
	}
	if got := chunkWindowPairs(tasks, 50, 10); got != 40 {
		t.Errorf("Expected 40 pairs, got %d", got)
	}
}

func TestAssembleSessions(t *testing.T) {
	userID := uuid.New()
	taskID := uuid.New()
	base := time.Date(2026, 3, 2, 18, 0, 0, 0, time.UTC)

	plan := &scheduler.Plan{
		Strategy: "greedy",
		Assignments: []scheduler.Assignment{
			{TaskID: taskID, ChunkIndex: 1, Start: base.Add(time.Hour), End: base.Add(time.Hour + 50*time.Minute), Minutes: 50},
			{TaskID: taskID, ChunkIndex: 0, Start: base, End: base.Add(50 * time.Minute), Minutes: 50},
		},
	}

	sessions := assembleSessions(userID, plan)
	if len(sessions) != 2 {
		t.Fatalf("Expected 2 sessions, got %d", len(sessions))
	}
	if !sessions[0].StartTime.Equal(base) {
		t.Errorf("Expected sessions ordered by start time")
	}
	for i, sess := range sessions {
		if sess.ID == uuid.Nil {
			t.Errorf("Session %d has no ID", i)
		}
		if sess.UserID != userID || sess.TaskID != taskID {
			t.Errorf("Session %d carries wrong ownership", i)
		}
		if sess.Status != models.SessionPlanned {
			t.Errorf("Session %d: expected status planned, got %q", i, sess.Status)
		}
		if sess.PlannedMinutes != 50 {
			t.Errorf("Session %d: expected 50 planned minutes, got %d", i, sess.PlannedMinutes)
		}
	}
	// The input plan must not be reordered in place.
	if plan.Assignments[0].ChunkIndex != 1 {
		t.Errorf("Expected the source plan to be left untouched")
	}
}

func TestReasonMessage(t *testing.T) {
	tests := []struct {
		reason models.ScheduleReason
		want   string
	}{
		{models.ReasonNoTasks, "No pending tasks to schedule"},
		{models.ReasonNoAvailability, "Please set your availability first"},
	}
	for _, tc := range tests {
		if got := reasonMessage(tc.reason); got != tc.want {
			t.Errorf("Reason %q: expected %q, got %q", tc.reason, tc.want, got)
		}
	}
	if reasonMessage(models.ReasonInfeasible) == "" || reasonMessage(models.ReasonTimeout) == "" {
		t.Error("Expected non-empty messages for infeasible and timeout")
	}
}
