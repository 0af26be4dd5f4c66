package scheduler

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"

	"smartstudy-backend/internal/models"
	"smartstudy-backend/internal/solver"
)

// ConstraintScheduler builds a constraint model over all chunks and windows
// and hands it to the solving facility: per-chunk start/end offsets bounded
// to the horizon, deadline upper bounds, global no-overlap and disjunctive
// window containment, minimizing the urgency/priority-weighted sum of chunk
// end offsets. Model construction is deterministic; which optimum is
// returned among ties is the solver's business.
type ConstraintScheduler struct {
	Budget time.Duration
}

func NewConstraintScheduler(budget time.Duration) *ConstraintScheduler {
	return &ConstraintScheduler{Budget: budget}
}

func (s *ConstraintScheduler) Name() string { return "constraint" }

type chunkVars struct {
	task  *models.Task
	chunk Chunk
	start solver.IntVar
	end   solver.IntVar
}

func (s *ConstraintScheduler) Schedule(ctx context.Context, in Input) (*Plan, error) {
	if len(in.Tasks) == 0 {
		return &Plan{Reason: models.ReasonNoTasks, Strategy: s.Name()}, nil
	}
	if len(in.Windows) == 0 {
		return &Plan{Reason: models.ReasonNoAvailability, Strategy: s.Name()}, nil
	}

	horizonMinutes := int(in.Horizon.End.Sub(in.Horizon.Start).Minutes())
	offset := func(t time.Time) int { return int(t.Sub(in.Horizon.Start).Minutes()) }

	m := solver.NewModel()
	var vars []chunkVars
	var intervals []solver.Interval
	var objective []solver.Term

	for ti := range in.Tasks {
		task := &in.Tasks[ti]
		if !task.Status.Schedulable() {
			continue
		}
		chunks := Decompose(task.ID, task.EstimatedMinutes, in.Preferences.SessionLength)
		if len(chunks) == 0 {
			continue
		}
		weight := CombinedWeight(task.DueDate, task.Priority, in.Horizon.Start)
		dueOffset := offset(effectiveDeadline(task, in.Horizon))

		for _, c := range chunks {
			if c.Duration > horizonMinutes {
				return &Plan{Reason: models.ReasonInfeasible, Strategy: s.Name()}, nil
			}
			start := m.NewIntVar(0, horizonMinutes-c.Duration)
			end := m.NewIntVar(0, horizonMinutes)
			m.AddUpperBound(end, dueOffset)
			iv := m.NewInterval(start, c.Duration, end)

			// Containment is disjunctive: one indicator per (chunk, window)
			// pair, enforced only when chosen, at least one chosen.
			var guards []solver.BoolVar
			for _, win := range in.Windows {
				ws, we := offset(win.Start), offset(win.End)
				if we-ws < c.Duration || ws >= dueOffset {
					continue
				}
				b := m.NewBoolVar()
				m.AddLowerBound(start, ws).OnlyEnforceIf(b)
				m.AddUpperBound(end, we).OnlyEnforceIf(b)
				guards = append(guards, b)
			}
			if len(guards) == 0 {
				// The chunk fits no window before its deadline: the task is
				// reported infeasible, never silently dropped.
				return &Plan{Reason: models.ReasonInfeasible, Strategy: s.Name()}, nil
			}
			m.AddAtLeastOne(guards...)

			vars = append(vars, chunkVars{task: task, chunk: c, start: start, end: end})
			intervals = append(intervals, iv)
			objective = append(objective, solver.Term{Var: end, Coeff: weight})
		}
	}

	if len(vars) == 0 {
		return &Plan{Reason: models.ReasonNoTasks, Strategy: s.Name()}, nil
	}

	m.AddNoOverlap(intervals...)
	m.Minimize(objective...)

	sol, err := solver.Solve(ctx, m, s.Budget)
	if err != nil {
		return nil, err
	}

	switch sol.Status {
	case solver.StatusOptimal, solver.StatusFeasible:
		return s.extract(sol, vars, in), nil
	case solver.StatusTimeout:
		return &Plan{Reason: models.ReasonTimeout, Strategy: s.Name()}, nil
	default:
		return &Plan{Reason: models.ReasonInfeasible, Strategy: s.Name()}, nil
	}
}

// extract converts solved offsets back to absolute instants and renumbers
// each task's chunks in start order.
func (s *ConstraintScheduler) extract(sol *solver.Solution, vars []chunkVars, in Input) *Plan {
	plan := &Plan{Strategy: s.Name()}
	for _, v := range vars {
		start := in.Horizon.Start.Add(time.Duration(sol.Value(v.start)) * time.Minute)
		plan.Assignments = append(plan.Assignments, Assignment{
			TaskID:   v.task.ID,
			CourseID: v.task.CourseID,
			Start:    start,
			End:      start.Add(time.Duration(v.chunk.Duration) * time.Minute),
			Minutes:  v.chunk.Duration,
		})
	}

	sort.Slice(plan.Assignments, func(i, j int) bool {
		return plan.Assignments[i].Start.Before(plan.Assignments[j].Start)
	})
	ordinal := make(map[uuid.UUID]int, len(in.Tasks))
	for i := range plan.Assignments {
		id := plan.Assignments[i].TaskID
		plan.Assignments[i].ChunkIndex = ordinal[id]
		ordinal[id]++
	}
	return plan
}
