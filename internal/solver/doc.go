// Package solver provides a small, deterministic constraint-solving facility
// for interval scheduling models: bounded integer variables, interval
// variables with fixed durations, a global no-overlap constraint,
// indicator-conditioned bound constraints ("only enforce if"), at-least-one
// disjunctions over indicators, and a linear minimization objective.
//
// Solving runs an exhaustive branch-and-bound over interval placements with a
// wall-clock budget and reports one of four statuses: StatusOptimal (search
// space exhausted, best solution returned), StatusFeasible (budget elapsed
// with an incumbent), StatusInfeasible (search space exhausted, no solution)
// or StatusTimeout (budget elapsed, no incumbent).
//
// The search relies on a left-shift argument: for objectives that minimize a
// non-negative weighted sum of interval end offsets, some optimal solution
// places every interval either at the lower edge of one of its allowed ranges
// or immediately after another interval. Models outside the supported shape
// are rejected with ErrUnsupportedModel rather than solved incorrectly.
package solver
