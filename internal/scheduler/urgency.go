package scheduler

import (
	"math"
	"time"

	"smartstudy-backend/internal/models"
)

// DaysUntilDue is floor((due - ref) / 24h); negative for overdue tasks.
func DaysUntilDue(due, ref time.Time) int {
	return int(math.Floor(due.Sub(ref).Hours() / 24))
}

// UrgencyTier maps proximity to the due date onto a discrete score, higher
// meaning more urgent. Overdue tasks land in the top tier.
func UrgencyTier(due, ref time.Time) int {
	switch days := DaysUntilDue(due, ref); {
	case days <= 1:
		return 10
	case days <= 3:
		return 7
	case days <= 7:
		return 5
	case days <= 14:
		return 3
	default:
		return 1
	}
}

// PriorityWeight returns the weight for a priority level. Unknown or missing
// priorities count as medium.
func PriorityWeight(p models.TaskPriority) int {
	switch p {
	case models.PriorityUrgent:
		return 10
	case models.PriorityHigh:
		return 7
	case models.PriorityLow:
		return 3
	default:
		return 5
	}
}

// CombinedWeight is the objective coefficient for one task:
// urgency tier × priority weight.
func CombinedWeight(due time.Time, p models.TaskPriority, ref time.Time) int {
	return UrgencyTier(due, ref) * PriorityWeight(p)
}
