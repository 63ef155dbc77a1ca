package lp

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/optimize/convex/lp"
)

const (
	// integralityTol is how far a relaxation value may sit from an integer
	// and still count as integral.
	integralityTol = 1e-6

	// improvementTol is the minimum objective gain for a branch to stay open.
	improvementTol = 1e-9

	// defaultMaxNodes bounds the branch-and-bound tree. Catalogs hold at most
	// a few dozen species, so this is far beyond any realistic problem here.
	defaultMaxNodes = 20000
)

// SimplexSolver solves linear programs with gonum's simplex method. Integer
// problems are handled by branch-and-bound over the continuous relaxation,
// so callers only ever see the Problem/Solution contract.
type SimplexSolver struct {
	// Tol is passed through to the simplex routine; zero selects its default.
	Tol float64

	// MaxNodes caps the branch-and-bound tree for integer problems.
	MaxNodes int
}

// NewSimplexSolver returns a SimplexSolver with default tolerances.
func NewSimplexSolver() *SimplexSolver {
	return &SimplexSolver{MaxNodes: defaultMaxNodes}
}

// Solve answers the problem with a verdict. Structural problems (mismatched
// coefficient lengths, empty objective) return an error; solver verdicts are
// regular Solution values.
func (s *SimplexSolver) Solve(p Problem) (Solution, error) {
	if err := p.Validate(); err != nil {
		return Solution{Status: StatusError}, err
	}
	if p.Integer {
		return s.branchAndBound(p)
	}
	return s.solveRelaxation(p, nil)
}

// solveRelaxation solves the continuous problem with any extra bound rows
// appended (used by branch-and-bound).
func (s *SimplexSolver) solveRelaxation(p Problem, extra []Constraint) (Solution, error) {
	n := p.NumVariables()
	rows := make([]Constraint, 0, len(p.Constraints)+len(extra))
	rows = append(rows, p.Constraints...)
	rows = append(rows, extra...)

	if len(rows) == 0 {
		return solveUnconstrained(p.Objective, p.Maximize), nil
	}

	c, a, b := standardForm(p.Objective, p.Maximize, rows, n)

	_, x, err := lp.Simplex(c, a, b, s.Tol, nil)
	if err != nil {
		switch {
		case errors.Is(err, lp.ErrInfeasible):
			return Solution{Status: StatusInfeasible}, nil
		case errors.Is(err, lp.ErrUnbounded):
			return Solution{Status: StatusUnbounded}, nil
		default:
			return Solution{Status: StatusError}, fmt.Errorf("lp: simplex failed: %w", err)
		}
	}

	values := make([]float64, n)
	copy(values, x[:n])
	return Solution{
		Status:    StatusOptimal,
		Values:    values,
		Objective: dot(p.Objective, values),
	}, nil
}

// solveUnconstrained settles the degenerate no-constraint case: the optimum
// sits at the origin unless some variable pays to grow, which makes the
// problem unbounded.
func solveUnconstrained(objective []float64, maximize bool) Solution {
	for _, v := range objective {
		if (maximize && v > 0) || (!maximize && v < 0) {
			return Solution{Status: StatusUnbounded}
		}
	}
	return Solution{
		Status: StatusOptimal,
		Values: make([]float64, len(objective)),
	}
}

// standardForm rewrites the rows as equalities over non-negative variables by
// appending one slack (or surplus) column per inequality, which is the form
// the simplex routine consumes.
func standardForm(objective []float64, maximize bool, rows []Constraint, n int) ([]float64, *mat.Dense, []float64) {
	slacks := 0
	for _, row := range rows {
		if row.Sense != Equal {
			slacks++
		}
	}

	cols := n + slacks
	c := make([]float64, cols)
	for i, v := range objective {
		if maximize {
			c[i] = -v
		} else {
			c[i] = v
		}
	}

	b := make([]float64, len(rows))
	a := mat.NewDense(len(rows), cols, nil)
	slack := n
	for i, row := range rows {
		for j, v := range row.Coeffs {
			a.Set(i, j, v)
		}
		switch row.Sense {
		case LessEq:
			a.Set(i, slack, 1)
			slack++
		case GreaterEq:
			a.Set(i, slack, -1)
			slack++
		}
		b[i] = row.Bound
	}

	return c, a, b
}

// branchAndBound finds an integer optimum by repeatedly solving the
// continuous relaxation with floor/ceil bound rows added for fractional
// variables. Depth-first with incumbent pruning.
func (s *SimplexSolver) branchAndBound(p Problem) (Solution, error) {
	maxNodes := s.MaxNodes
	if maxNodes <= 0 {
		maxNodes = defaultMaxNodes
	}

	root, err := s.solveRelaxation(p, nil)
	if err != nil {
		return root, err
	}
	if root.Status != StatusOptimal {
		// Infeasible or unbounded relaxations settle the integer problem too.
		return root, nil
	}

	var (
		incumbent    Solution
		hasIncumbent bool
		nodes        int
	)

	stack := [][]Constraint{nil}
	for len(stack) > 0 {
		if nodes >= maxNodes {
			break
		}
		nodes++

		extra := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		sol, err := s.solveRelaxation(p, extra)
		if err != nil {
			return sol, err
		}
		if sol.Status != StatusOptimal {
			continue
		}
		if hasIncumbent && !improves(p.Maximize, sol.Objective, incumbent.Objective) {
			continue
		}

		branchVar := mostFractional(sol.Values)
		if branchVar < 0 {
			rounded := roundIntegral(sol.Values)
			candidate := Solution{
				Status:    StatusOptimal,
				Values:    rounded,
				Objective: dot(p.Objective, rounded),
			}
			if !hasIncumbent || improves(p.Maximize, candidate.Objective, incumbent.Objective) {
				incumbent = candidate
				hasIncumbent = true
			}
			continue
		}

		value := sol.Values[branchVar]
		stack = append(stack,
			branch(extra, branchVar, len(p.Objective), LessEq, math.Floor(value)),
			branch(extra, branchVar, len(p.Objective), GreaterEq, math.Ceil(value)),
		)
	}

	if !hasIncumbent {
		if nodes >= maxNodes {
			return Solution{Status: StatusError},
				fmt.Errorf("lp: branch-and-bound exceeded %d nodes without an integer solution", maxNodes)
		}
		return Solution{Status: StatusInfeasible}, nil
	}
	return incumbent, nil
}

func branch(base []Constraint, variable, n int, sense Sense, bound float64) []Constraint {
	coeffs := make([]float64, n)
	coeffs[variable] = 1
	child := make([]Constraint, 0, len(base)+1)
	child = append(child, base...)
	return append(child, Constraint{Coeffs: coeffs, Sense: sense, Bound: bound})
}

// mostFractional returns the index of the value farthest from an integer, or
// -1 when all values are integral within tolerance.
func mostFractional(values []float64) int {
	best := -1
	bestDist := integralityTol
	for i, v := range values {
		dist := math.Abs(v - math.Round(v))
		if dist > bestDist {
			best = i
			bestDist = dist
		}
	}
	return best
}

func roundIntegral(values []float64) []float64 {
	rounded := make([]float64, len(values))
	for i, v := range values {
		rounded[i] = math.Round(v)
	}
	return rounded
}

func improves(maximize bool, candidate, incumbent float64) bool {
	if maximize {
		return candidate > incumbent+improvementTol
	}
	return candidate < incumbent-improvementTol
}

func dot(a, b []float64) float64 {
	var sum float64
	for i := range a {
		sum += a[i] * b[i]
	}
	return sum
}
