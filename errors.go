package gosolve

import (
	"errors"
	"fmt"
)

// ErrorKind classifies why a solve failed.
type ErrorKind int

const (
	// PreconditionViolation: the unknown is missing from the left side,
	// present on the right side, or a system has mismatched lengths.
	PreconditionViolation ErrorKind = iota + 1
	// UnsupportedForm: no inversion rule exists for the outer operation.
	UnsupportedForm
	// InternalInvariantViolation: isolation lost track of the unknown.
	InternalInvariantViolation
)

func (k ErrorKind) String() string {
	switch k {
	case PreconditionViolation:
		return "precondition violation"
	case UnsupportedForm:
		return "unsupported form"
	case InternalInvariantViolation:
		return "internal invariant violation"
	}
	return fmt.Sprintf("ErrorKind(%d)", int(k))
}

var (
	ErrPrecondition = errors.New("gosolve: " + PreconditionViolation.String())
	ErrUnsupported  = errors.New("gosolve: " + UnsupportedForm.String())
	ErrInternal     = errors.New("gosolve: " + InternalInvariantViolation.String())
)

// SolveError is returned by every failing solve. Use errors.Is with
// ErrPrecondition, ErrUnsupported or ErrInternal to branch on Kind.
type SolveError struct {
	Kind ErrorKind
	Var  VarID
	// Form is the shape of the left-hand side when the failure was
	// detected; zero for length mismatches.
	Form Kind
	Msg  string
}

func (e *SolveError) Error() string {
	if e.Form != 0 {
		return fmt.Sprintf("%s: %s (variable v%d, at %s)", e.Kind, e.Msg, e.Var, e.Form)
	}
	return fmt.Sprintf("%s: %s (variable v%d)", e.Kind, e.Msg, e.Var)
}

func (e *SolveError) Unwrap() error {
	switch e.Kind {
	case PreconditionViolation:
		return ErrPrecondition
	case UnsupportedForm:
		return ErrUnsupported
	case InternalInvariantViolation:
		return ErrInternal
	}
	return nil
}

func precondition(id VarID, format string, args ...interface{}) error {
	return &SolveError{Kind: PreconditionViolation, Var: id, Msg: fmt.Sprintf(format, args...)}
}

func unsupported(id VarID, at Expr, msg string) error {
	return &SolveError{Kind: UnsupportedForm, Var: id, Form: at.Kind(), Msg: msg}
}

func internal(id VarID, at Expr, msg string) error {
	return &SolveError{Kind: InternalInvariantViolation, Var: id, Form: at.Kind(), Msg: msg}
}
