package solver

import (
	"context"
	"math"
	"sort"
	"time"
)

type placementRange struct {
	startMin int
	endMax   int
}

type searchItem struct {
	dur    int
	weight int
	ranges []placementRange
}

// Solve searches for an assignment minimizing the model's objective within
// the given wall-clock budget. It returns ErrUnsupportedModel when the model
// does not fit the supported interval-scheduling shape; every other outcome
// is reported through Solution.Status.
func Solve(ctx context.Context, m *Model, budget time.Duration) (*Solution, error) {
	if len(m.intervals) == 0 {
		return nil, ErrEmptyModel
	}

	items, feasible, err := prepare(m)
	if err != nil {
		return nil, err
	}
	if !feasible {
		return &Solution{Status: StatusInfeasible}, nil
	}
	if budget <= 0 {
		return &Solution{Status: StatusTimeout}, nil
	}

	s := &searcher{
		ctx:      ctx,
		items:    items,
		placed:   make([]bool, len(items)),
		starts:   make([]int, len(items)),
		bestSet:  make([]int, len(items)),
		deadline: time.Now().Add(budget),
	}
	s.dfs(0, math.MinInt/2, 0)

	sol := &Solution{Nodes: s.nodes}
	switch {
	case s.timedOut && s.hasBest:
		sol.Status = StatusFeasible
	case s.timedOut:
		sol.Status = StatusTimeout
	case s.hasBest:
		sol.Status = StatusOptimal
	default:
		sol.Status = StatusInfeasible
	}

	if s.hasBest {
		sol.Objective = s.best
		sol.values = make([]int, len(m.lo))
		for i, iv := range m.intervals {
			sol.values[iv.start] = s.bestSet[i]
			sol.values[iv.end] = s.bestSet[i] + iv.dur
		}
	}
	return sol, nil
}

// prepare tightens domains, validates the model shape and compiles each
// interval into a duration, an objective weight and a sorted list of allowed
// placement ranges. The bool result is false when the model is trivially
// infeasible.
func prepare(m *Model) ([]searchItem, bool, error) {
	lo := append([]int(nil), m.lo...)
	hi := append([]int(nil), m.hi...)

	guardBounds := make(map[BoolVar][]boundDef)
	for _, b := range m.bounds {
		if int(b.v) >= len(lo) {
			return nil, false, ErrUnsupportedModel
		}
		if b.guard >= 0 {
			guardBounds[b.guard] = append(guardBounds[b.guard], b)
			continue
		}
		if b.kind == lowerBound && b.bound > lo[b.v] {
			lo[b.v] = b.bound
		}
		if b.kind == upperBound && b.bound < hi[b.v] {
			hi[b.v] = b.bound
		}
	}
	for v := range lo {
		if lo[v] > hi[v] {
			return nil, false, nil
		}
	}

	// Map each variable to its interval and role.
	const (
		roleStart = 0
		roleEnd   = 1
	)
	type varRole struct {
		interval int
		role     int
	}
	roles := make(map[IntVar]varRole)
	for i, iv := range m.intervals {
		if iv.dur <= 0 {
			return nil, false, ErrUnsupportedModel
		}
		if _, dup := roles[iv.start]; dup {
			return nil, false, ErrUnsupportedModel
		}
		roles[iv.start] = varRole{interval: i, role: roleStart}
		if _, dup := roles[iv.end]; dup {
			return nil, false, ErrUnsupportedModel
		}
		roles[iv.end] = varRole{interval: i, role: roleEnd}

		// Propagate end == start + dur into both domains.
		if v := hi[iv.end] - iv.dur; v < hi[iv.start] {
			hi[iv.start] = v
		}
		if v := lo[iv.start] + iv.dur; v > lo[iv.end] {
			lo[iv.end] = v
		}
		if lo[iv.start] > hi[iv.start] || lo[iv.end] > hi[iv.end] {
			return nil, false, nil
		}
	}

	// The search totally orders every interval, so all of them must be under
	// the no-overlap constraint.
	covered := make(map[Interval]bool, len(m.noOverlap))
	for _, iv := range m.noOverlap {
		covered[iv] = true
	}
	for i := range m.intervals {
		if !covered[Interval(i)] {
			return nil, false, ErrUnsupportedModel
		}
	}

	items := make([]searchItem, len(m.intervals))
	for i := range m.intervals {
		items[i] = searchItem{dur: m.intervals[i].dur}
	}

	// Objective: non-negative weights on interval end variables only.
	for _, t := range m.objective {
		r, ok := roles[t.Var]
		if !ok || r.role != roleEnd || t.Coeff < 0 {
			return nil, false, ErrUnsupportedModel
		}
		items[r.interval].weight += t.Coeff
	}

	// Each clause becomes the set of allowed placement ranges for exactly one
	// interval.
	guardSeen := make(map[BoolVar]bool)
	clauseOf := make(map[int]bool)
	for _, clause := range m.clauses {
		if len(clause) == 0 {
			return nil, false, nil
		}
		target := -1
		var ranges []placementRange
		for _, g := range clause {
			if guardSeen[g] {
				return nil, false, ErrUnsupportedModel
			}
			guardSeen[g] = true

			r := placementRange{startMin: math.MinInt / 2, endMax: math.MaxInt / 2}
			for _, b := range guardBounds[g] {
				role, ok := roles[b.v]
				if !ok {
					return nil, false, ErrUnsupportedModel
				}
				if target == -1 {
					target = role.interval
				} else if target != role.interval {
					return nil, false, ErrUnsupportedModel
				}
				dur := m.intervals[role.interval].dur
				switch {
				case role.role == roleStart && b.kind == lowerBound:
					r.startMin = maxInt(r.startMin, b.bound)
				case role.role == roleStart && b.kind == upperBound:
					r.endMax = minInt(r.endMax, b.bound+dur)
				case role.role == roleEnd && b.kind == lowerBound:
					r.startMin = maxInt(r.startMin, b.bound-dur)
				case role.role == roleEnd && b.kind == upperBound:
					r.endMax = minInt(r.endMax, b.bound)
				}
			}
			ranges = append(ranges, r)
		}
		if target == -1 {
			// Clause whose guards constrain nothing is vacuously true.
			continue
		}
		if clauseOf[target] {
			return nil, false, ErrUnsupportedModel
		}
		clauseOf[target] = true
		items[target].ranges = ranges
	}

	// Clip ranges against static domains and drop the unusable ones.
	for i := range items {
		iv := m.intervals[i]
		if items[i].ranges == nil {
			items[i].ranges = []placementRange{{startMin: lo[iv.start], endMax: hi[iv.end]}}
		}
		kept := items[i].ranges[:0]
		for _, r := range items[i].ranges {
			r.startMin = maxInt(r.startMin, lo[iv.start])
			r.endMax = minInt(r.endMax, hi[iv.end])
			if r.startMin+iv.dur <= r.endMax {
				kept = append(kept, r)
			}
		}
		if len(kept) == 0 {
			return nil, false, nil
		}
		sort.Slice(kept, func(a, b int) bool { return kept[a].startMin < kept[b].startMin })
		items[i].ranges = kept
	}

	return items, true, nil
}

type searcher struct {
	ctx      context.Context
	items    []searchItem
	placed   []bool
	starts   []int
	deadline time.Time

	best     int
	bestSet  []int
	hasBest  bool
	nodes    int64
	timedOut bool
}

// earliestStart returns the smallest feasible start >= from for the item.
func (it *searchItem) earliestStart(from int) (int, bool) {
	best, ok := 0, false
	for _, r := range it.ranges {
		cand := maxInt(from, r.startMin)
		if cand+it.dur > r.endMax {
			continue
		}
		if !ok || cand < best {
			best, ok = cand, true
		}
	}
	return best, ok
}

// dfs explores interval placements in chronological order. Each level places
// one more interval at its earliest feasible start after the previous end;
// left-shifting is objective-optimal per permutation, so the search is exact.
func (s *searcher) dfs(nPlaced, lastEnd, obj int) {
	s.nodes++
	if s.nodes&63 == 0 {
		if time.Now().After(s.deadline) || s.ctx.Err() != nil {
			s.timedOut = true
		}
	}
	if s.timedOut {
		return
	}

	if nPlaced == len(s.items) {
		if !s.hasBest || obj < s.best {
			s.best = obj
			s.hasBest = true
			copy(s.bestSet, s.starts)
		}
		return
	}

	// Admissible lower bound: every unplaced interval ends no earlier than
	// its earliest feasible end after lastEnd, ignoring mutual exclusion.
	lb := obj
	for i := range s.items {
		if s.placed[i] {
			continue
		}
		st, ok := s.items[i].earliestStart(lastEnd)
		if !ok {
			return // time only moves forward; this branch is dead
		}
		lb += s.items[i].weight * (st + s.items[i].dur)
	}
	if s.hasBest && lb >= s.best {
		return
	}

	for i := range s.items {
		if s.placed[i] {
			continue
		}
		st, ok := s.items[i].earliestStart(lastEnd)
		if !ok {
			continue
		}
		end := st + s.items[i].dur
		s.placed[i] = true
		s.starts[i] = st
		s.dfs(nPlaced+1, end, obj+s.items[i].weight*end)
		s.placed[i] = false
		if s.timedOut {
			return
		}
	}
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
