// Package gosolve represents algebraic expressions as trees and solves
// equations for designated unknowns by inverting the operations around
// them.
//
// Design goals:
//   - Expressions are immutable trees; variables live in an Arena
//   - Solving is symbolic: the unknown is isolated, never searched for
//   - Unsupported algebraic forms fail with a typed error, never a guess
//   - JSON and MCP-style tool APIs for embedding in services and agents
package gosolve

import (
	"math"
	"strconv"
	"strings"
)

// ============================================================
// Core Interface
// ============================================================

type Expr interface {
	// Evaluate reduces the tree to a number, reading variables at call time.
	Evaluate() float64
	// DependsOn reports whether a variable with the identity occurs in the tree.
	DependsOn(id VarID) bool
	Equal(other Expr) bool
	// Substitute replaces every occurrence of the variable with a copy of value.
	Substitute(id VarID, value Expr) Expr
	Kind() Kind
	String() string
	LaTeX() string
	toJSON() map[string]interface{}
}

// Kind is the top-level tag of an expression.
type Kind int

const (
	SumKind Kind = iota + 1
	ProductKind
	PowerKind
	LogKind
	ScalarKind
	VarKind
	ConstantKind
)

var kindNames = map[Kind]string{
	SumKind:      "sum",
	ProductKind:  "product",
	PowerKind:    "power",
	LogKind:      "log",
	ScalarKind:   "scalar",
	VarKind:      "variable",
	ConstantKind: "constant",
}

func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return "Kind(" + strconv.Itoa(int(k)) + ")"
}

func IsSum(e Expr) bool      { return e.Kind() == SumKind }
func IsProduct(e Expr) bool  { return e.Kind() == ProductKind }
func IsPower(e Expr) bool    { return e.Kind() == PowerKind }
func IsLog(e Expr) bool      { return e.Kind() == LogKind }
func IsScalar(e Expr) bool   { return e.Kind() == ScalarKind }
func IsVar(e Expr) bool      { return e.Kind() == VarKind }
func IsConstant(e Expr) bool { return e.Kind() == ConstantKind }

// ============================================================
// Scalar: float leaf
// ============================================================

type Scalar float64

func N(f float64) Scalar { return Scalar(f) }

func (s Scalar) Evaluate() float64           { return float64(s) }
func (s Scalar) DependsOn(VarID) bool        { return false }
func (s Scalar) Substitute(VarID, Expr) Expr { return s }
func (s Scalar) Kind() Kind                  { return ScalarKind }
func (s Scalar) LaTeX() string               { return s.String() }

func (s Scalar) Equal(other Expr) bool {
	o, ok := other.(Scalar)
	return ok && ScalarsEqual(float64(s), float64(o))
}

func (s Scalar) toJSON() map[string]interface{} {
	return map[string]interface{}{"type": "num", "value": JSONValue(float64(s))}
}

func (s Scalar) String() string {
	return strconv.FormatFloat(float64(s), 'g', -1, 64)
}

// ============================================================
// Constant: e and pi
// ============================================================

type Constant int

const (
	E Constant = iota + 1
	Pi
)

func (c Constant) Evaluate() float64 {
	switch c {
	case E:
		return math.E
	case Pi:
		return math.Pi
	}
	panic("gosolve: unknown constant " + strconv.Itoa(int(c)))
}

func (c Constant) DependsOn(VarID) bool        { return false }
func (c Constant) Substitute(VarID, Expr) Expr { return c }
func (c Constant) Kind() Kind                  { return ConstantKind }

func (c Constant) Equal(other Expr) bool {
	o, ok := other.(Constant)
	return ok && c == o
}

func (c Constant) toJSON() map[string]interface{} {
	return map[string]interface{}{"type": "const", "name": c.String()}
}

func (c Constant) String() string {
	if c == Pi {
		return "pi"
	}
	return "e"
}

func (c Constant) LaTeX() string {
	if c == Pi {
		return `\pi`
	}
	return "e"
}

// ============================================================
// Sum: total of terms
// ============================================================

type Sum struct{ terms []Expr }

// SumOf builds a Sum without any flattening.
func SumOf(terms ...Expr) *Sum { return &Sum{terms: append([]Expr(nil), terms...)} }

func (s *Sum) Terms() []Expr { return append([]Expr(nil), s.terms...) }
func (s *Sum) Len() int      { return len(s.terms) }
func (s *Sum) Kind() Kind    { return SumKind }

func (s *Sum) Evaluate() float64 {
	acc := 0.0
	for _, t := range s.terms {
		acc += t.Evaluate()
	}
	return acc
}

func (s *Sum) DependsOn(id VarID) bool { return anyDependsOn(s.terms, id) }

func (s *Sum) Equal(other Expr) bool {
	o, ok := other.(*Sum)
	return ok && equalLists(s.terms, o.terms)
}

func (s *Sum) Substitute(id VarID, value Expr) Expr {
	terms, changed := substituteList(s.terms, id, value)
	if !changed {
		return s
	}
	return &Sum{terms: terms}
}

func (s *Sum) String() string {
	if len(s.terms) == 0 {
		return "0"
	}
	parts := make([]string, len(s.terms))
	for i, t := range s.terms {
		parts[i] = t.String()
	}
	return strings.Join(parts, " + ")
}

func (s *Sum) LaTeX() string {
	if len(s.terms) == 0 {
		return "0"
	}
	parts := make([]string, len(s.terms))
	for i, t := range s.terms {
		parts[i] = t.LaTeX()
	}
	return strings.Join(parts, " + ")
}

func (s *Sum) toJSON() map[string]interface{} {
	return map[string]interface{}{"type": "sum", "terms": listToJSON(s.terms)}
}

// ============================================================
// Product: product of factors
// ============================================================

type Product struct{ factors []Expr }

// ProductOf builds a Product without any flattening.
func ProductOf(factors ...Expr) *Product {
	return &Product{factors: append([]Expr(nil), factors...)}
}

func (p *Product) Factors() []Expr { return append([]Expr(nil), p.factors...) }
func (p *Product) Len() int        { return len(p.factors) }
func (p *Product) Kind() Kind      { return ProductKind }

func (p *Product) Evaluate() float64 {
	acc := 1.0
	for _, f := range p.factors {
		acc *= f.Evaluate()
	}
	return acc
}

func (p *Product) DependsOn(id VarID) bool { return anyDependsOn(p.factors, id) }

func (p *Product) Equal(other Expr) bool {
	o, ok := other.(*Product)
	return ok && equalLists(p.factors, o.factors)
}

func (p *Product) Substitute(id VarID, value Expr) Expr {
	factors, changed := substituteList(p.factors, id, value)
	if !changed {
		return p
	}
	return &Product{factors: factors}
}

func (p *Product) String() string {
	if len(p.factors) == 0 {
		return "1"
	}
	parts := make([]string, len(p.factors))
	for i, f := range p.factors {
		parts[i] = wrapIf(f.String(), IsSum(f) || isNegativeScalar(f) && i > 0)
	}
	return strings.Join(parts, "*")
}

func (p *Product) LaTeX() string {
	if len(p.factors) == 0 {
		return "1"
	}
	parts := make([]string, len(p.factors))
	for i, f := range p.factors {
		s := f.LaTeX()
		if IsSum(f) || isNegativeScalar(f) && i > 0 {
			s = `\left(` + s + `\right)`
		}
		parts[i] = s
	}
	return strings.Join(parts, ` \cdot `)
}

func (p *Product) toJSON() map[string]interface{} {
	return map[string]interface{}{"type": "product", "factors": listToJSON(p.factors)}
}

// ============================================================
// Power: base^exp
// ============================================================

type Power struct{ base, exp Expr }

// PowOf wraps base and exponent; nothing is folded or combined.
func PowOf(base, exp Expr) *Power { return &Power{base: base, exp: exp} }

func (p *Power) Base() Expr        { return p.base }
func (p *Power) Exponent() Expr    { return p.exp }
func (p *Power) Kind() Kind        { return PowerKind }
func (p *Power) Evaluate() float64 { return math.Pow(p.base.Evaluate(), p.exp.Evaluate()) }

func (p *Power) DependsOn(id VarID) bool {
	return p.base.DependsOn(id) || p.exp.DependsOn(id)
}

func (p *Power) Equal(other Expr) bool {
	o, ok := other.(*Power)
	return ok && p.base.Equal(o.base) && p.exp.Equal(o.exp)
}

func (p *Power) Substitute(id VarID, value Expr) Expr {
	base := p.base.Substitute(id, value)
	exp := p.exp.Substitute(id, value)
	if base == p.base && exp == p.exp {
		return p
	}
	return &Power{base: base, exp: exp}
}

func (p *Power) String() string {
	base := wrapIf(p.base.String(), isCompound(p.base) || isNegativeScalar(p.base))
	exp := wrapIf(p.exp.String(), isCompound(p.exp) || isNegativeScalar(p.exp))
	return base + "^" + exp
}

func (p *Power) LaTeX() string {
	base := p.base.LaTeX()
	if isCompound(p.base) || isNegativeScalar(p.base) {
		base = `\left(` + base + `\right)`
	}
	return base + "^{" + p.exp.LaTeX() + "}"
}

func (p *Power) toJSON() map[string]interface{} {
	return map[string]interface{}{"type": "pow", "base": p.base.toJSON(), "exp": p.exp.toJSON()}
}

// ============================================================
// Logarithm: log of arg in base
// ============================================================

type Logarithm struct{ base, arg Expr }

// LogOf returns the logarithm of arg in the given base.
func LogOf(arg, base Expr) *Logarithm { return &Logarithm{base: base, arg: arg} }

func (l *Logarithm) Base() Expr        { return l.base }
func (l *Logarithm) Arg() Expr         { return l.arg }
func (l *Logarithm) Kind() Kind        { return LogKind }
func (l *Logarithm) Evaluate() float64 { return logBase(l.base.Evaluate(), l.arg.Evaluate()) }

// logBase keeps the exact library routines for the common bases.
func logBase(base, x float64) float64 {
	switch base {
	case math.E:
		return math.Log(x)
	case 2:
		return math.Log2(x)
	case 10:
		return math.Log10(x)
	}
	return math.Log(x) / math.Log(base)
}

func (l *Logarithm) DependsOn(id VarID) bool {
	return l.base.DependsOn(id) || l.arg.DependsOn(id)
}

func (l *Logarithm) Equal(other Expr) bool {
	o, ok := other.(*Logarithm)
	return ok && l.base.Equal(o.base) && l.arg.Equal(o.arg)
}

func (l *Logarithm) Substitute(id VarID, value Expr) Expr {
	base := l.base.Substitute(id, value)
	arg := l.arg.Substitute(id, value)
	if base == l.base && arg == l.arg {
		return l
	}
	return &Logarithm{base: base, arg: arg}
}

func (l *Logarithm) String() string {
	return "log(" + l.arg.String() + ", " + l.base.String() + ")"
}

func (l *Logarithm) LaTeX() string {
	if c, ok := l.base.(Constant); ok && c == E {
		return `\ln\left(` + l.arg.LaTeX() + `\right)`
	}
	return `\log_{` + l.base.LaTeX() + `}\left(` + l.arg.LaTeX() + `\right)`
}

func (l *Logarithm) toJSON() map[string]interface{} {
	return map[string]interface{}{"type": "log", "base": l.base.toJSON(), "arg": l.arg.toJSON()}
}

// ============================================================
// Tree utilities
// ============================================================

// Clone returns a structural copy of e. Variable leaves are shared,
// not duplicated.
func Clone(e Expr) Expr {
	switch v := e.(type) {
	case *Sum:
		return &Sum{terms: cloneList(v.terms)}
	case *Product:
		return &Product{factors: cloneList(v.factors)}
	case *Power:
		return &Power{base: Clone(v.base), exp: Clone(v.exp)}
	case *Logarithm:
		return &Logarithm{base: Clone(v.base), arg: Clone(v.arg)}
	}
	return e
}

// Substitute is the functional form of Expr.Substitute.
func Substitute(e Expr, id VarID, value Expr) Expr { return e.Substitute(id, value) }

// NodeCount returns the number of nodes in the tree.
func NodeCount(e Expr) int {
	switch v := e.(type) {
	case *Sum:
		return 1 + countList(v.terms)
	case *Product:
		return 1 + countList(v.factors)
	case *Power:
		return 1 + NodeCount(v.base) + NodeCount(v.exp)
	case *Logarithm:
		return 1 + NodeCount(v.base) + NodeCount(v.arg)
	}
	return 1
}

// Variables returns the distinct variables of e in order of first
// appearance.
func Variables(e Expr) []*Var {
	seen := map[VarID]bool{}
	var out []*Var
	collectVars(e, seen, &out)
	return out
}

func collectVars(e Expr, seen map[VarID]bool, out *[]*Var) {
	switch v := e.(type) {
	case *Var:
		if !seen[v.ID()] {
			seen[v.ID()] = true
			*out = append(*out, v)
		}
	case *Sum:
		for _, t := range v.terms {
			collectVars(t, seen, out)
		}
	case *Product:
		for _, f := range v.factors {
			collectVars(f, seen, out)
		}
	case *Power:
		collectVars(v.base, seen, out)
		collectVars(v.exp, seen, out)
	case *Logarithm:
		collectVars(v.arg, seen, out)
		collectVars(v.base, seen, out)
	}
}

func anyDependsOn(list []Expr, id VarID) bool {
	for _, e := range list {
		if e.DependsOn(id) {
			return true
		}
	}
	return false
}

func equalLists(a, b []Expr) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !a[i].Equal(b[i]) {
			return false
		}
	}
	return true
}

func substituteList(list []Expr, id VarID, value Expr) ([]Expr, bool) {
	out := make([]Expr, len(list))
	changed := false
	for i, e := range list {
		out[i] = e.Substitute(id, value)
		if out[i] != e {
			changed = true
		}
	}
	return out, changed
}

func cloneList(list []Expr) []Expr {
	out := make([]Expr, len(list))
	for i, e := range list {
		out[i] = Clone(e)
	}
	return out
}

func countList(list []Expr) int {
	n := 0
	for _, e := range list {
		n += NodeCount(e)
	}
	return n
}

func isCompound(e Expr) bool {
	switch e.Kind() {
	case SumKind, ProductKind, PowerKind:
		return true
	}
	return false
}

func isNegativeScalar(e Expr) bool {
	s, ok := e.(Scalar)
	return ok && s < 0
}

func wrapIf(s string, cond bool) string {
	if cond {
		return "(" + s + ")"
	}
	return s
}
