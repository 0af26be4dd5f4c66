package solver

import (
	"context"
	"errors"
	"testing"
	"time"
)

const testBudget = 5 * time.Second

func TestSolve_SingleIntervalLeftShifted(t *testing.T) {
	m := NewModel()
	start := m.NewIntVar(0, 100)
	end := m.NewIntVar(0, 110)
	iv := m.NewInterval(start, 10, end)
	m.AddNoOverlap(iv)
	m.Minimize(Term{Var: end, Coeff: 1})

	sol, err := Solve(context.Background(), m, testBudget)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if sol.Status != StatusOptimal {
		t.Fatalf("Expected optimal, got %v", sol.Status)
	}
	if sol.Value(start) != 0 || sol.Value(end) != 10 {
		t.Errorf("Expected placement [0,10), got [%d,%d)", sol.Value(start), sol.Value(end))
	}
	if sol.Objective != 10 {
		t.Errorf("Expected objective 10, got %d", sol.Objective)
	}
}

func TestSolve_HeavierIntervalGoesFirst(t *testing.T) {
	m := NewModel()
	s1 := m.NewIntVar(0, 100)
	e1 := m.NewIntVar(0, 110)
	light := m.NewInterval(s1, 10, e1)
	s2 := m.NewIntVar(0, 100)
	e2 := m.NewIntVar(0, 110)
	heavy := m.NewInterval(s2, 10, e2)
	m.AddNoOverlap(light, heavy)
	m.Minimize(Term{Var: e1, Coeff: 1}, Term{Var: e2, Coeff: 5})

	sol, err := Solve(context.Background(), m, testBudget)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if sol.Status != StatusOptimal {
		t.Fatalf("Expected optimal, got %v", sol.Status)
	}
	// Heavy at [0,10), light at [10,20): 5*10 + 1*20 = 70.
	if sol.Value(s2) != 0 || sol.Value(s1) != 10 {
		t.Errorf("Expected heavy first, got heavy=%d light=%d", sol.Value(s2), sol.Value(s1))
	}
	if sol.Objective != 70 {
		t.Errorf("Expected objective 70, got %d", sol.Objective)
	}
}

func TestSolve_GuardedBoundsConfinePlacement(t *testing.T) {
	m := NewModel()
	start := m.NewIntVar(0, 200)
	end := m.NewIntVar(0, 200)
	iv := m.NewInterval(start, 10, end)
	m.AddNoOverlap(iv)

	b := m.NewBoolVar()
	m.AddLowerBound(start, 50).OnlyEnforceIf(b)
	m.AddUpperBound(end, 70).OnlyEnforceIf(b)
	m.AddAtLeastOne(b)
	m.Minimize(Term{Var: end, Coeff: 1})

	sol, err := Solve(context.Background(), m, testBudget)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if sol.Status != StatusOptimal {
		t.Fatalf("Expected optimal, got %v", sol.Status)
	}
	if sol.Value(start) != 50 {
		t.Errorf("Expected start at the range opening 50, got %d", sol.Value(start))
	}
}

func TestSolve_DisjunctionPicksSecondRange(t *testing.T) {
	// Two intervals, each allowed in [0,10) or [20,30): one must take each.
	m := NewModel()
	var starts, ends []IntVar
	var ivs []Interval
	for i := 0; i < 2; i++ {
		s := m.NewIntVar(0, 100)
		e := m.NewIntVar(0, 100)
		iv := m.NewInterval(s, 10, e)
		b1 := m.NewBoolVar()
		m.AddLowerBound(s, 0).OnlyEnforceIf(b1)
		m.AddUpperBound(e, 10).OnlyEnforceIf(b1)
		b2 := m.NewBoolVar()
		m.AddLowerBound(s, 20).OnlyEnforceIf(b2)
		m.AddUpperBound(e, 30).OnlyEnforceIf(b2)
		m.AddAtLeastOne(b1, b2)
		starts, ends, ivs = append(starts, s), append(ends, e), append(ivs, iv)
	}
	m.AddNoOverlap(ivs...)
	m.Minimize(Term{Var: ends[0], Coeff: 1}, Term{Var: ends[1], Coeff: 1})

	sol, err := Solve(context.Background(), m, testBudget)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if sol.Status != StatusOptimal {
		t.Fatalf("Expected optimal, got %v", sol.Status)
	}
	got := []int{sol.Value(starts[0]), sol.Value(starts[1])}
	if !(got[0] == 0 && got[1] == 20 || got[0] == 20 && got[1] == 0) {
		t.Errorf("Expected one interval per range, got starts %v", got)
	}
	if sol.Objective != 40 {
		t.Errorf("Expected objective 40, got %d", sol.Objective)
	}
}

func TestSolve_DeadlineTighterThanDuration(t *testing.T) {
	m := NewModel()
	start := m.NewIntVar(0, 100)
	end := m.NewIntVar(0, 100)
	iv := m.NewInterval(start, 30, end)
	m.AddUpperBound(end, 20)
	m.AddNoOverlap(iv)
	m.Minimize(Term{Var: end, Coeff: 1})

	sol, err := Solve(context.Background(), m, testBudget)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if sol.Status != StatusInfeasible {
		t.Errorf("Expected infeasible, got %v", sol.Status)
	}
}

func TestSolve_EmptyModel(t *testing.T) {
	_, err := Solve(context.Background(), NewModel(), testBudget)
	if !errors.Is(err, ErrEmptyModel) {
		t.Errorf("Expected ErrEmptyModel, got %v", err)
	}
}

func TestSolve_RejectsIntervalOutsideNoOverlap(t *testing.T) {
	m := NewModel()
	s := m.NewIntVar(0, 100)
	e := m.NewIntVar(0, 100)
	m.NewInterval(s, 10, e)
	// Interval never added to AddNoOverlap.
	m.Minimize(Term{Var: e, Coeff: 1})

	_, err := Solve(context.Background(), m, testBudget)
	if !errors.Is(err, ErrUnsupportedModel) {
		t.Errorf("Expected ErrUnsupportedModel, got %v", err)
	}
}

func TestSolve_RejectsNegativeObjectiveWeight(t *testing.T) {
	m := NewModel()
	s := m.NewIntVar(0, 100)
	e := m.NewIntVar(0, 100)
	iv := m.NewInterval(s, 10, e)
	m.AddNoOverlap(iv)
	m.Minimize(Term{Var: e, Coeff: -1})

	_, err := Solve(context.Background(), m, testBudget)
	if !errors.Is(err, ErrUnsupportedModel) {
		t.Errorf("Expected ErrUnsupportedModel, got %v", err)
	}
}

func TestSolve_ZeroBudgetReportsTimeout(t *testing.T) {
	m := NewModel()
	s := m.NewIntVar(0, 100)
	e := m.NewIntVar(0, 100)
	iv := m.NewInterval(s, 10, e)
	m.AddNoOverlap(iv)
	m.Minimize(Term{Var: e, Coeff: 1})

	sol, err := Solve(context.Background(), m, 0)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if sol.Status != StatusTimeout {
		t.Errorf("Expected timeout, got %v", sol.Status)
	}
}

func TestStatusString(t *testing.T) {
	tests := []struct {
		status Status
		want   string
	}{
		{StatusOptimal, "optimal"},
		{StatusFeasible, "feasible"},
		{StatusInfeasible, "infeasible"},
		{StatusTimeout, "timeout"},
		{StatusUnknown, "unknown"},
	}
	for _, tc := range tests {
		if got := tc.status.String(); got != tc.want {
			t.Errorf("Expected %q, got %q", tc.want, got)
		}
	}
}
