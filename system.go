package gosolve

import (
	"fmt"

	"github.com/hashicorp/go-hclog"
)

// ============================================================
// Equations and triangular systems
// ============================================================

type Equation struct{ Left, Right Expr }

func Eq(left, right Expr) Equation { return Equation{Left: left, Right: right} }

func (e Equation) String() string { return e.Left.String() + " = " + e.Right.String() }
func (e Equation) LaTeX() string  { return e.Left.LaTeX() + " = " + e.Right.LaTeX() }

// Residual returns Left - Right.
func (e Equation) Residual() Expr { return Subtract(e.Left, e.Right) }

// SystemSolver solves equation i for unknown i, eliminating each solved
// unknown from the equations after it, then evaluates the solutions
// from last to first and stores them in the unknowns.
type SystemSolver struct {
	Logger hclog.Logger
}

func (s *SystemSolver) logger() hclog.Logger {
	if s == nil || s.Logger == nil {
		return hclog.NewNullLogger()
	}
	return s.Logger
}

// SolveSystem solves the system with a silent SystemSolver.
func SolveSystem(equations []Equation, unknowns []*Var) error {
	return (&SystemSolver{}).Solve(equations, unknowns)
}

// Solve writes the value of every unknown into its arena slot. On error
// no variable is modified.
func (s *SystemSolver) Solve(equations []Equation, unknowns []*Var) error {
	_, err := s.SolveWithSolutions(equations, unknowns)
	return err
}

// SolveWithSolutions is Solve, also returning the symbolic solution
// found for each unknown. Solution i may mention unknowns after i.
func (s *SystemSolver) SolveWithSolutions(equations []Equation, unknowns []*Var) ([]Expr, error) {
	log := s.logger()
	if len(equations) != len(unknowns) {
		return nil, &SolveError{
			Kind: PreconditionViolation,
			Msg:  fmt.Sprintf("%d equations for %d unknowns", len(equations), len(unknowns)),
		}
	}

	eqs := append([]Equation(nil), equations...)
	solutions := make([]Expr, len(eqs))
	for i, u := range unknowns {
		id := u.ID()
		sol, err := Solve(eqs[i].Left, eqs[i].Right, id)
		if err != nil {
			log.Debug("solve failed", "equation", i, "unknown", u.String(), "error", err)
			return nil, fmt.Errorf("equation %d, unknown %s: %w", i, u, err)
		}
		if log.IsDebug() {
			log.Debug("solved equation", "equation", i, "unknown", u.String(), "solution", sol.String())
		}
		for j := i; j < len(eqs); j++ {
			eqs[j] = Equation{
				Left:  eqs[j].Left.Substitute(id, sol),
				Right: eqs[j].Right.Substitute(id, sol),
			}
			if log.IsTrace() {
				log.Trace("substituted", "unknown", u.String(), "equation", j, "result", eqs[j].String())
			}
		}
		solutions[i] = sol
	}

	for i := len(unknowns) - 1; i >= 0; i-- {
		v := solutions[i].Evaluate()
		unknowns[i].Set(v)
		if log.IsDebug() {
			log.Debug("committed", "unknown", unknowns[i].String(), "value", v)
		}
	}
	return solutions, nil
}
