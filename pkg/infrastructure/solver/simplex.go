// Package solver adapts gonum's simplex implementation to optimization.Solver.
package solver

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/optimize/convex/lp"

	"github.com/vsinha/restock/pkg/domain/services/optimization"
)

// DefaultTolerance is passed to the simplex pivoting rule
const DefaultTolerance = 1e-10

// Simplex solves problems with gonum's two-phase simplex method. Each
// inequality row gets its own slack column, which keeps the standard-form
// matrix at full row rank.
type Simplex struct {
	Tolerance float64
}

// NewSimplex creates a simplex solver with the default tolerance
func NewSimplex() *Simplex {
	return &Simplex{Tolerance: DefaultTolerance}
}

// Verify interface compliance
var _ optimization.Solver = (*Simplex)(nil)

// Solve converts p to standard form and runs the simplex method
func (s *Simplex) Solve(p *optimization.Problem) (*optimization.Solution, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}

	n := len(p.Variables)
	values := make([]float64, n)

	// Columns that appear in no constraint sit at their bound of zero unless
	// the objective pushes them upward without limit. gonum rejects zero columns.
	active := make([]int, 0, n)
	for j := 0; j < n; j++ {
		used := false
		for _, row := range p.Constraints {
			if row.Coeffs[j] != 0 {
				used = true
				break
			}
		}
		if used {
			active = append(active, j)
			continue
		}
		if p.Objective[j] < 0 {
			return nil, fmt.Errorf("%s: variable %s: %w", p.Name, p.Variables[j], optimization.ErrUnbounded)
		}
	}

	if len(active) == 0 {
		for _, row := range p.Constraints {
			if row.Bound < 0 {
				return nil, fmt.Errorf("%s: constraint %s: %w", p.Name, row.Name, optimization.ErrInfeasible)
			}
		}
		return &optimization.Solution{Values: values}, nil
	}

	m := len(p.Constraints)
	cols := len(active) + m
	c := make([]float64, cols)
	for k, j := range active {
		c[k] = p.Objective[j]
	}

	a := mat.NewDense(m, cols, nil)
	b := make([]float64, m)
	for i, row := range p.Constraints {
		sign := 1.0
		if row.Bound < 0 {
			sign = -1.0
		}
		for k, j := range active {
			a.Set(i, k, sign*row.Coeffs[j])
		}
		a.Set(i, len(active)+i, sign)
		b[i] = sign * row.Bound
	}

	tol := s.Tolerance
	if tol <= 0 {
		tol = DefaultTolerance
	}

	optF, x, err := lp.Simplex(c, a, b, tol, nil)
	switch {
	case errors.Is(err, lp.ErrInfeasible):
		return nil, fmt.Errorf("%s: %w", p.Name, optimization.ErrInfeasible)
	case errors.Is(err, lp.ErrUnbounded):
		return nil, fmt.Errorf("%s: %w", p.Name, optimization.ErrUnbounded)
	case err != nil:
		return nil, fmt.Errorf("%s: simplex failed: %w", p.Name, err)
	}

	for k, j := range active {
		values[j] = x[k]
	}

	return &optimization.Solution{Objective: optF, Values: values}, nil
}
