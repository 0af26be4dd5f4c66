package scheduler

import (
	"testing"
	"time"

	"smartstudy-backend/internal/models"
)

var ref = time.Date(2026, 3, 2, 8, 0, 0, 0, time.UTC)

func TestUrgencyTier(t *testing.T) {
	tests := []struct {
		name string
		due  time.Time
		tier int
	}{
		{"overdue", ref.Add(-2 * time.Hour), 10},
		{"due today", ref.Add(3 * time.Hour), 10},
		{"due tomorrow", ref.Add(26 * time.Hour), 10},
		{"due in two days", ref.AddDate(0, 0, 2), 7},
		{"due in three days", ref.AddDate(0, 0, 3), 7},
		{"due in five days", ref.AddDate(0, 0, 5), 5},
		{"due in a week", ref.AddDate(0, 0, 7), 5},
		{"due in ten days", ref.AddDate(0, 0, 10), 3},
		{"due in two weeks", ref.AddDate(0, 0, 14), 3},
		{"far out", ref.AddDate(0, 0, 30), 1},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := UrgencyTier(tc.due, ref); got != tc.tier {
				t.Errorf("Expected tier %d, got %d", tc.tier, got)
			}
		})
	}
}

func TestDaysUntilDue(t *testing.T) {
	if got := DaysUntilDue(ref.Add(26*time.Hour), ref); got != 1 {
		t.Errorf("Expected 1 day, got %d", got)
	}
	if got := DaysUntilDue(ref.Add(-2*time.Hour), ref); got != -1 {
		t.Errorf("Expected -1 days for overdue, got %d", got)
	}
	if got := DaysUntilDue(ref, ref); got != 0 {
		t.Errorf("Expected 0 days, got %d", got)
	}
}

func TestPriorityWeight(t *testing.T) {
	tests := []struct {
		priority models.TaskPriority
		weight   int
	}{
		{models.PriorityUrgent, 10},
		{models.PriorityHigh, 7},
		{models.PriorityMedium, 5},
		{models.PriorityLow, 3},
		{models.TaskPriority(""), 5},
		{models.TaskPriority("bogus"), 5},
	}

	for _, tc := range tests {
		if got := PriorityWeight(tc.priority); got != tc.weight {
			t.Errorf("Priority %q: expected weight %d, got %d", tc.priority, tc.weight, got)
		}
	}
}

func TestCombinedWeight(t *testing.T) {
	// An urgent task due tomorrow carries the maximal coefficient.
	due := ref.Add(20 * time.Hour)
	if got := CombinedWeight(due, models.PriorityUrgent, ref); got != 100 {
		t.Errorf("Expected combined weight 100, got %d", got)
	}

	// A low task due far out carries the minimal one.
	if got := CombinedWeight(ref.AddDate(0, 0, 30), models.PriorityLow, ref); got != 3 {
		t.Errorf("Expected combined weight 3, got %d", got)
	}
}
