// Package lp exposes a narrow linear-programming oracle: an objective,
// a set of linear constraints, and a variable domain go in; a verdict with
// an optimal assignment comes out. The formulation layers never depend on
// the solver mechanics behind this interface.
package lp

import (
	"errors"
	"fmt"
)

// Sense is the comparison sense of a linear constraint.
type Sense int

const (
	// LessEq constrains coeffs·x <= bound.
	LessEq Sense = iota
	// GreaterEq constrains coeffs·x >= bound.
	GreaterEq
	// Equal constrains coeffs·x == bound.
	Equal
)

// String returns the comparison operator for the sense.
func (s Sense) String() string {
	switch s {
	case LessEq:
		return "<="
	case GreaterEq:
		return ">="
	case Equal:
		return "=="
	default:
		return fmt.Sprintf("Sense(%d)", int(s))
	}
}

// Status is the oracle's verdict on a problem.
type Status string

const (
	// StatusOptimal indicates an optimal assignment was found.
	StatusOptimal Status = "OPTIMAL"
	// StatusInfeasible indicates no assignment satisfies the constraints.
	StatusInfeasible Status = "INFEASIBLE"
	// StatusUnbounded indicates the objective can grow without limit.
	StatusUnbounded Status = "UNBOUNDED"
	// StatusError indicates a solver-internal failure.
	StatusError Status = "ERROR"
)

// Constraint is one linear constraint row over the decision variables.
type Constraint struct {
	Coeffs []float64
	Sense  Sense
	Bound  float64
}

// Problem is a linear program. All decision variables are bounded below by
// zero with no upper bound. When Integer is set the variables are restricted
// to integer values.
type Problem struct {
	Maximize    bool
	Objective   []float64
	Constraints []Constraint
	Integer     bool
}

// NumVariables returns the number of decision variables.
func (p Problem) NumVariables() int {
	return len(p.Objective)
}

// Validate checks structural consistency of the problem.
func (p Problem) Validate() error {
	if len(p.Objective) == 0 {
		return errors.New("lp: problem has no decision variables")
	}
	for i, con := range p.Constraints {
		if len(con.Coeffs) != len(p.Objective) {
			return fmt.Errorf("lp: constraint %d has %d coefficients, expected %d",
				i, len(con.Coeffs), len(p.Objective))
		}
	}
	return nil
}

// Solution is the oracle's answer. Values and Objective are only meaningful
// when Status is StatusOptimal.
type Solution struct {
	Status    Status
	Values    []float64
	Objective float64
}

// Solver is the linear-programming oracle contract. Implementations report
// infeasibility and unboundedness through Solution.Status, not through the
// error return; the error covers malformed problems and internal failures.
type Solver interface {
	Solve(p Problem) (Solution, error)
}
