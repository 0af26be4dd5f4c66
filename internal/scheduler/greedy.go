package scheduler

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"

	"smartstudy-backend/internal/models"
)

// GreedyScheduler is the solver-free fallback: a deterministic bin-packing
// pass over the resolved windows. It commits greedily per window and never
// re-optimizes across the horizon, so it can miss packings the constraint
// path would find; that tradeoff buys a bounded, predictable runtime.
type GreedyScheduler struct{}

func NewGreedyScheduler() *GreedyScheduler {
	return &GreedyScheduler{}
}

func (g *GreedyScheduler) Name() string { return "greedy" }

func (g *GreedyScheduler) Schedule(ctx context.Context, in Input) (*Plan, error) {
	if len(in.Tasks) == 0 {
		return &Plan{Reason: models.ReasonNoTasks, Strategy: g.Name()}, nil
	}
	if len(in.Windows) == 0 {
		return &Plan{Reason: models.ReasonNoAvailability, Strategy: g.Name()}, nil
	}

	// Priority descending, due date ascending; stable, so input order breaks
	// remaining ties.
	queue := make([]*models.Task, 0, len(in.Tasks))
	for i := range in.Tasks {
		if in.Tasks[i].Status.Schedulable() {
			queue = append(queue, &in.Tasks[i])
		}
	}
	if len(queue) == 0 {
		return &Plan{Reason: models.ReasonNoTasks, Strategy: g.Name()}, nil
	}
	sort.SliceStable(queue, func(i, j int) bool {
		pi, pj := PriorityWeight(queue[i].Priority), PriorityWeight(queue[j].Priority)
		if pi != pj {
			return pi > pj
		}
		return queue[i].DueDate.Before(queue[j].DueDate)
	})

	remaining := make(map[uuid.UUID]int, len(queue))
	nextChunk := make(map[uuid.UUID]int, len(queue))
	for _, t := range queue {
		remaining[t.ID] = t.EstimatedMinutes
	}

	plan := &Plan{Strategy: g.Name()}
	breakLen := time.Duration(in.Preferences.BreakLength) * time.Minute
	head := 0

	for _, win := range in.Windows {
		if head >= len(queue) {
			break
		}
		cursor := win.Start
		for head < len(queue) {
			if err := ctx.Err(); err != nil {
				return nil, err
			}

			task := queue[head]
			// A finished task is dequeued before its next chunk is sized, so
			// a zero-length session can never be emitted.
			if remaining[task.ID] <= 0 {
				head++
				continue
			}

			windowLeft := int(win.End.Sub(cursor).Minutes())
			if windowLeft <= 0 {
				break
			}

			size := in.Preferences.SessionLength
			if remaining[task.ID] < size {
				size = remaining[task.ID]
			}
			if windowLeft < size {
				size = windowLeft
			}
			if size <= 0 {
				break
			}

			end := cursor.Add(time.Duration(size) * time.Minute)
			if end.After(effectiveDeadline(task, in.Horizon)) {
				// Windows are sorted, so the deadline is equally missed in
				// every later window: give up on this task instead of
				// placing work past its due instant.
				plan.Unscheduled = append(plan.Unscheduled, task.ID)
				head++
				continue
			}

			plan.Assignments = append(plan.Assignments, Assignment{
				TaskID:     task.ID,
				CourseID:   task.CourseID,
				ChunkIndex: nextChunk[task.ID],
				Start:      cursor,
				End:        end,
				Minutes:    size,
			})
			nextChunk[task.ID]++
			remaining[task.ID] -= size
			cursor = end.Add(breakLen)

			if remaining[task.ID] == 0 {
				head++
			}
		}
	}

	// Whatever effort is still left when the horizon runs out is reported,
	// not errored.
	seen := make(map[uuid.UUID]bool, len(plan.Unscheduled))
	for _, id := range plan.Unscheduled {
		seen[id] = true
	}
	for _, t := range queue {
		if remaining[t.ID] > 0 && !seen[t.ID] {
			plan.Unscheduled = append(plan.Unscheduled, t.ID)
		}
	}
	return plan, nil
}
