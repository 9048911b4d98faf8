// Package optimization describes the linear programs restocking policies hand
// to an external solver. Every variable is continuous and bounded below by zero;
// every constraint has the form coeffs·x <= bound.
package optimization

import (
	"errors"
	"fmt"
)

var (
	ErrInfeasible = errors.New("linear program is infeasible")
	ErrUnbounded  = errors.New("linear program is unbounded")
)

// Constraint is a single row coeffs·x <= Bound
type Constraint struct {
	Name   string
	Coeffs []float64
	Bound  float64
}

// Problem is a minimization over non-negative continuous variables
type Problem struct {
	Name        string
	Variables   []string
	Objective   []float64
	Constraints []Constraint
}

// NewProblem creates an empty problem with the given variable names
func NewProblem(name string, variables []string) *Problem {
	return &Problem{
		Name:      name,
		Variables: variables,
		Objective: make([]float64, len(variables)),
	}
}

// Index returns the column of a named variable, or -1
func (p *Problem) Index(variable string) int {
	for i, v := range p.Variables {
		if v == variable {
			return i
		}
	}
	return -1
}

// AddLessEqual appends coeffs·x <= bound. coeffs is keyed by column index.
func (p *Problem) AddLessEqual(name string, coeffs map[int]float64, bound float64) {
	row := make([]float64, len(p.Variables))
	for col, v := range coeffs {
		row[col] = v
	}
	p.Constraints = append(p.Constraints, Constraint{Name: name, Coeffs: row, Bound: bound})
}

// AddGreaterEqual appends coeffs·x >= bound, stored as -coeffs·x <= -bound
func (p *Problem) AddGreaterEqual(name string, coeffs map[int]float64, bound float64) {
	negated := make(map[int]float64, len(coeffs))
	for col, v := range coeffs {
		negated[col] = -v
	}
	p.AddLessEqual(name, negated, -bound)
}

// Validate checks that all rows match the variable count
func (p *Problem) Validate() error {
	n := len(p.Variables)
	if n == 0 {
		return fmt.Errorf("problem %q has no variables", p.Name)
	}
	if len(p.Objective) != n {
		return fmt.Errorf("problem %q: objective has %d coefficients, expected %d", p.Name, len(p.Objective), n)
	}
	for _, c := range p.Constraints {
		if len(c.Coeffs) != n {
			return fmt.Errorf("problem %q: constraint %q has %d coefficients, expected %d", p.Name, c.Name, len(c.Coeffs), n)
		}
	}
	return nil
}

// Solution holds optimal variable values in problem column order
type Solution struct {
	Objective float64
	Values    []float64
}

// Value returns the value of column i
func (s *Solution) Value(i int) float64 {
	return s.Values[i]
}

// Solver solves a Problem or reports ErrInfeasible / ErrUnbounded
type Solver interface {
	Solve(p *Problem) (*Solution, error)
}
