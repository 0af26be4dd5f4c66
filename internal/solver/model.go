package solver

import "errors"

// Sentinel errors. Use errors.Is to check.
var (
	ErrUnsupportedModel = errors.New("solver: model shape not supported")
	ErrEmptyModel       = errors.New("solver: model has no intervals")
)

// Status is the outcome of a solve call.
type Status int

const (
	StatusUnknown Status = iota
	StatusOptimal
	StatusFeasible
	StatusInfeasible
	StatusTimeout
)

func (s Status) String() string {
	switch s {
	case StatusOptimal:
		return "optimal"
	case StatusFeasible:
		return "feasible"
	case StatusInfeasible:
		return "infeasible"
	case StatusTimeout:
		return "timeout"
	}
	return "unknown"
}

// IntVar is a handle to a bounded integer decision variable.
type IntVar int

// BoolVar is a handle to an indicator variable.
type BoolVar int

// Interval is a handle to an interval variable (start, fixed duration, end).
type Interval int

// Term is one coefficient of a linear objective.
type Term struct {
	Var   IntVar
	Coeff int
}

type intervalDef struct {
	start IntVar
	end   IntVar
	dur   int
}

type boundKind int

const (
	lowerBound boundKind = iota
	upperBound
)

type boundDef struct {
	v     IntVar
	kind  boundKind
	bound int
	guard BoolVar // -1 when unconditional
}

// Model accumulates variables and constraints. It is not safe for concurrent
// use; build one model per solve.
type Model struct {
	lo, hi    []int
	nBools    int
	intervals []intervalDef
	noOverlap []Interval
	bounds    []boundDef
	clauses   [][]BoolVar
	objective []Term
}

func NewModel() *Model {
	return &Model{}
}

// NewIntVar adds an integer variable with inclusive domain [lo, hi].
func (m *Model) NewIntVar(lo, hi int) IntVar {
	m.lo = append(m.lo, lo)
	m.hi = append(m.hi, hi)
	return IntVar(len(m.lo) - 1)
}

// NewBoolVar adds an indicator variable for use with OnlyEnforceIf.
func (m *Model) NewBoolVar() BoolVar {
	m.nBools++
	return BoolVar(m.nBools - 1)
}

// NewInterval adds an interval variable and implicitly constrains
// end == start + dur.
func (m *Model) NewInterval(start IntVar, dur int, end IntVar) Interval {
	m.intervals = append(m.intervals, intervalDef{start: start, end: end, dur: dur})
	return Interval(len(m.intervals) - 1)
}

// AddNoOverlap requires the given intervals to be pairwise disjoint.
func (m *Model) AddNoOverlap(ivs ...Interval) {
	m.noOverlap = append(m.noOverlap, ivs...)
}

// Constraint allows conditioning a bound on an indicator variable.
type Constraint struct {
	m   *Model
	idx int
}

// OnlyEnforceIf makes the constraint active only when b is true.
func (c *Constraint) OnlyEnforceIf(b BoolVar) *Constraint {
	c.m.bounds[c.idx].guard = b
	return c
}

// AddLowerBound adds v >= bound.
func (m *Model) AddLowerBound(v IntVar, bound int) *Constraint {
	m.bounds = append(m.bounds, boundDef{v: v, kind: lowerBound, bound: bound, guard: -1})
	return &Constraint{m: m, idx: len(m.bounds) - 1}
}

// AddUpperBound adds v <= bound.
func (m *Model) AddUpperBound(v IntVar, bound int) *Constraint {
	m.bounds = append(m.bounds, boundDef{v: v, kind: upperBound, bound: bound, guard: -1})
	return &Constraint{m: m, idx: len(m.bounds) - 1}
}

// AddAtLeastOne requires at least one of the indicators to be true.
func (m *Model) AddAtLeastOne(bs ...BoolVar) {
	clause := make([]BoolVar, len(bs))
	copy(clause, bs)
	m.clauses = append(m.clauses, clause)
}

// Minimize sets the objective to the sum of the given terms. Coefficients
// must be non-negative; the search's dominance argument depends on it.
func (m *Model) Minimize(terms ...Term) {
	m.objective = append([]Term(nil), terms...)
}

// Solution holds the result of a solve call.
type Solution struct {
	Status    Status
	Objective int
	Nodes     int64
	values    []int
}

// Value returns the assigned value of v. Only meaningful when Status is
// StatusOptimal or StatusFeasible.
func (s *Solution) Value(v IntVar) int {
	if s.values == nil || int(v) >= len(s.values) {
		return 0
	}
	return s.values[v]
}
