package gosolve

// ============================================================
// Operator algebra
// ============================================================
//
// The constructors below flatten into a left operand of the same shape
// and do nothing else: no constant folding, no reordering, no merging
// of powers. Trees may therefore carry redundant structure.

// Add returns a + b. When a is a Sum, b is appended to it, spliced in
// if b is itself a Sum. A Sum appearing only on the right is kept whole.
func Add(a, b Expr) Expr {
	s, ok := a.(*Sum)
	if !ok {
		return &Sum{terms: []Expr{a, b}}
	}
	terms := make([]Expr, 0, len(s.terms)+1)
	terms = append(terms, s.terms...)
	if bs, ok := b.(*Sum); ok {
		terms = append(terms, bs.terms...)
	} else {
		terms = append(terms, b)
	}
	return &Sum{terms: terms}
}

// Multiply returns a * b, flattening like Add over Products.
func Multiply(a, b Expr) Expr {
	p, ok := a.(*Product)
	if !ok {
		return &Product{factors: []Expr{a, b}}
	}
	factors := make([]Expr, 0, len(p.factors)+1)
	factors = append(factors, p.factors...)
	if bp, ok := b.(*Product); ok {
		factors = append(factors, bp.factors...)
	} else {
		factors = append(factors, b)
	}
	return &Product{factors: factors}
}

func Negate(a Expr) Expr          { return Multiply(a, Scalar(-1)) }
func Subtract(a, b Expr) Expr     { return Add(a, Negate(b)) }
func Divide(a, b Expr) Expr       { return Multiply(a, PowOf(b, Scalar(-1))) }
func Sqrt(a Expr) Expr            { return PowOf(a, Scalar(0.5)) }
func Exp(a Expr) Expr             { return PowOf(E, a) }
func Ln(a Expr) Expr              { return LogOf(a, E) }
func AddAll(terms ...Expr) Expr   { return foldLeft(Add, terms) }
func MulAll(factors ...Expr) Expr { return foldLeft(Multiply, factors) }

// foldLeft applies op pairwise from the left. The list must not be empty.
func foldLeft(op func(a, b Expr) Expr, list []Expr) Expr {
	if len(list) == 0 {
		panic("gosolve: fold over empty expression list")
	}
	acc := list[0]
	for _, e := range list[1:] {
		acc = op(acc, e)
	}
	return acc
}
