package scheduler

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	"smartstudy-backend/internal/models"
)

func task(title string, due time.Time, priority models.TaskPriority, minutes int) models.Task {
	return models.Task{
		ID:               uuid.New(),
		Title:            title,
		DueDate:          due,
		Priority:         priority,
		EstimatedMinutes: minutes,
		Status:           models.TaskPending,
	}
}

func eveningWindows(start time.Time, days int) []Window {
	wins := make([]Window, days)
	for i := 0; i < days; i++ {
		day := start.AddDate(0, 0, i)
		wins[i] = Window{Start: day.Add(18 * time.Hour), End: day.Add(22 * time.Hour)}
	}
	return wins
}

func defaultInput(tasks []models.Task, windows []Window) Input {
	return Input{
		Tasks:       tasks,
		Windows:     windows,
		Horizon:     Horizon{Start: weekStart, End: weekStart.AddDate(0, 0, 7)},
		Preferences: Preferences{SessionLength: 50, BreakLength: 10},
	}
}

func TestGreedy_PacksChunksWithBreaks(t *testing.T) {
	tasks := []models.Task{task("essay", weekStart.AddDate(0, 0, 5), models.PriorityMedium, 100)}
	in := defaultInput(tasks, eveningWindows(weekStart, 1))

	plan, err := NewGreedyScheduler().Schedule(context.Background(), in)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if len(plan.Assignments) != 2 {
		t.Fatalf("Expected 2 assignments, got %d", len(plan.Assignments))
	}

	first, second := plan.Assignments[0], plan.Assignments[1]
	if !first.Start.Equal(weekStart.Add(18 * time.Hour)) {
		t.Errorf("Expected first chunk at 18:00, got %v", first.Start)
	}
	if first.Minutes != 50 || second.Minutes != 50 {
		t.Errorf("Expected two 50-minute chunks, got %d and %d", first.Minutes, second.Minutes)
	}
	// 10-minute break between sittings.
	if got := second.Start.Sub(first.End); got != 10*time.Minute {
		t.Errorf("Expected a 10 minute gap, got %v", got)
	}
	if first.ChunkIndex != 0 || second.ChunkIndex != 1 {
		t.Errorf("Expected chunk indices 0,1, got %d,%d", first.ChunkIndex, second.ChunkIndex)
	}
	if len(plan.Unscheduled) != 0 {
		t.Errorf("Expected nothing unscheduled, got %v", plan.Unscheduled)
	}
}

func TestGreedy_HigherPriorityGoesFirst(t *testing.T) {
	low := task("reading", weekStart.AddDate(0, 0, 2), models.PriorityLow, 50)
	urgent := task("exam prep", weekStart.AddDate(0, 0, 5), models.PriorityUrgent, 50)
	in := defaultInput([]models.Task{low, urgent}, eveningWindows(weekStart, 2))

	plan, err := NewGreedyScheduler().Schedule(context.Background(), in)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if len(plan.Assignments) != 2 {
		t.Fatalf("Expected 2 assignments, got %d", len(plan.Assignments))
	}
	if plan.Assignments[0].TaskID != urgent.ID {
		t.Errorf("Expected the urgent task to be placed first")
	}
}

func TestGreedy_EarlierDueDateBreaksPriorityTie(t *testing.T) {
	later := task("later", weekStart.AddDate(0, 0, 6), models.PriorityHigh, 50)
	sooner := task("sooner", weekStart.AddDate(0, 0, 2), models.PriorityHigh, 50)
	in := defaultInput([]models.Task{later, sooner}, eveningWindows(weekStart, 2))

	plan, err := NewGreedyScheduler().Schedule(context.Background(), in)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if plan.Assignments[0].TaskID != sooner.ID {
		t.Errorf("Expected the sooner-due task to be placed first")
	}
}

func TestGreedy_NeverPlacesWorkPastDeadline(t *testing.T) {
	// Due mid-window: the first chunk would end at 18:50, past the 18:30
	// deadline, so the task is left unscheduled rather than truncated.
	due := weekStart.Add(18*time.Hour + 30*time.Minute)
	doomed := task("doomed", due, models.PriorityUrgent, 100)
	filler := task("filler", weekStart.AddDate(0, 0, 5), models.PriorityLow, 50)
	in := defaultInput([]models.Task{doomed, filler}, eveningWindows(weekStart, 1))

	plan, err := NewGreedyScheduler().Schedule(context.Background(), in)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if len(plan.Unscheduled) != 1 || plan.Unscheduled[0] != doomed.ID {
		t.Fatalf("Expected the doomed task unscheduled, got %v", plan.Unscheduled)
	}
	for _, a := range plan.Assignments {
		if a.TaskID == doomed.ID {
			t.Errorf("Expected no assignments for the doomed task")
		}
	}
	// The filler still gets the window.
	if len(plan.Assignments) != 1 || plan.Assignments[0].TaskID != filler.ID {
		t.Errorf("Expected the filler to take the window")
	}
}

func TestGreedy_OverdueTaskStillScheduled(t *testing.T) {
	overdue := task("overdue", weekStart.AddDate(0, 0, -2), models.PriorityHigh, 50)
	in := defaultInput([]models.Task{overdue}, eveningWindows(weekStart, 1))

	plan, err := NewGreedyScheduler().Schedule(context.Background(), in)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if len(plan.Assignments) != 1 {
		t.Fatalf("Expected the overdue task to be scheduled, got %d assignments", len(plan.Assignments))
	}
	if !plan.Assignments[0].Start.Equal(weekStart.Add(18 * time.Hour)) {
		t.Errorf("Expected the overdue task at the first slot, got %v", plan.Assignments[0].Start)
	}
}

func TestGreedy_ShortWindowYieldsShortChunk(t *testing.T) {
	tasks := []models.Task{task("essay", weekStart.AddDate(0, 0, 5), models.PriorityMedium, 80)}
	wins := []Window{
		{Start: weekStart.Add(18 * time.Hour), End: weekStart.Add(18*time.Hour + 30*time.Minute)},
		{Start: weekStart.Add(20 * time.Hour), End: weekStart.Add(22 * time.Hour)},
	}
	in := defaultInput(tasks, wins)

	plan, err := NewGreedyScheduler().Schedule(context.Background(), in)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if len(plan.Assignments) != 2 {
		t.Fatalf("Expected 2 assignments, got %d", len(plan.Assignments))
	}
	if plan.Assignments[0].Minutes != 30 {
		t.Errorf("Expected the short window to hold a 30-minute sitting, got %d", plan.Assignments[0].Minutes)
	}
	if plan.Assignments[1].Minutes != 50 {
		t.Errorf("Expected a 50-minute sitting in the second window, got %d", plan.Assignments[1].Minutes)
	}
}

func TestGreedy_ReportsUnschedulableOverflow(t *testing.T) {
	// 4h of capacity, 8h of work.
	big := task("thesis", weekStart.AddDate(0, 0, 6), models.PriorityMedium, 480)
	in := defaultInput([]models.Task{big}, eveningWindows(weekStart, 1))

	plan, err := NewGreedyScheduler().Schedule(context.Background(), in)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if len(plan.Assignments) == 0 {
		t.Fatalf("Expected partial placement")
	}
	if len(plan.Unscheduled) != 1 || plan.Unscheduled[0] != big.ID {
		t.Errorf("Expected the task reported as not fully scheduled, got %v", plan.Unscheduled)
	}
}

func TestGreedy_EmptyInputs(t *testing.T) {
	g := NewGreedyScheduler()

	plan, err := g.Schedule(context.Background(), defaultInput(nil, eveningWindows(weekStart, 1)))
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if plan.Reason != models.ReasonNoTasks {
		t.Errorf("Expected reason %q, got %q", models.ReasonNoTasks, plan.Reason)
	}

	tasks := []models.Task{task("essay", weekStart.AddDate(0, 0, 5), models.PriorityMedium, 50)}
	plan, err = g.Schedule(context.Background(), defaultInput(tasks, nil))
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if plan.Reason != models.ReasonNoAvailability {
		t.Errorf("Expected reason %q, got %q", models.ReasonNoAvailability, plan.Reason)
	}
}

func TestGreedy_SkipsNonSchedulableStatuses(t *testing.T) {
	done := task("done", weekStart.AddDate(0, 0, 3), models.PriorityHigh, 50)
	done.Status = models.TaskCompleted
	open := task("open", weekStart.AddDate(0, 0, 3), models.PriorityLow, 50)
	in := defaultInput([]models.Task{done, open}, eveningWindows(weekStart, 1))

	plan, err := NewGreedyScheduler().Schedule(context.Background(), in)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if len(plan.Assignments) != 1 || plan.Assignments[0].TaskID != open.ID {
		t.Errorf("Expected only the open task scheduled")
	}
}

func TestGreedy_Deterministic(t *testing.T) {
	tasks := []models.Task{
		task("a", weekStart.AddDate(0, 0, 3), models.PriorityHigh, 120),
		task("b", weekStart.AddDate(0, 0, 3), models.PriorityHigh, 120),
		task("c", weekStart.AddDate(0, 0, 2), models.PriorityLow, 70),
	}
	in := defaultInput(tasks, eveningWindows(weekStart, 3))

	first, err := NewGreedyScheduler().Schedule(context.Background(), in)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	for i := 0; i < 5; i++ {
		again, err := NewGreedyScheduler().Schedule(context.Background(), in)
		if err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}
		if len(again.Assignments) != len(first.Assignments) {
			t.Fatalf("Run %d produced %d assignments, expected %d", i, len(again.Assignments), len(first.Assignments))
		}
		for j := range first.Assignments {
			if first.Assignments[j] != again.Assignments[j] {
				t.Fatalf("Run %d diverged at assignment %d", i, j)
			}
		}
	}
}
