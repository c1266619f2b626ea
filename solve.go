package gosolve

// ============================================================
// Single-equation solver
// ============================================================

// Solve isolates the variable id in left = right and returns the
// expression it equals. The result may still mention other variables.
//
// id must occur in left and must not occur in right. Each iteration
// removes the outermost operation from left and applies its inverse to
// right, until left is the bare variable.
//
// Two exact rewrites go beyond peeling. A Product whose factors all
// depend on id is merged when they are powers of one base free of id
// (b^e1 * b^e2 becomes b^(e1 + e2)). A Sum whose terms all depend on id
// through the same factors has them factored out (R*a + R*b becomes
// R*(a + b)). Any other such Product, and any other Sum of two or more
// terms, is an UnsupportedForm.
func Solve(left, right Expr, id VarID) (Expr, error) {
	if right.DependsOn(id) {
		return nil, precondition(id, "variable on right-hand side is not supported")
	}
	if !left.DependsOn(id) {
		return nil, precondition(id, "variable not part of equation")
	}
	budget := 4*NodeCount(left) + 8
	for step := 0; ; step++ {
		if v, ok := left.(*Var); ok {
			if v.ID() != id {
				return nil, internal(id, left, "isolation reached a different variable")
			}
			return right, nil
		}
		if step == budget {
			return nil, internal(id, left, "isolation did not converge")
		}
		var err error
		left, right, err = isolateStep(left, right, id)
		if err != nil {
			return nil, err
		}
	}
}

// MustSolve is like Solve but panics on failure.
func MustSolve(left, right Expr, id VarID) Expr {
	sol, err := Solve(left, right, id)
	if err != nil {
		panic(err)
	}
	return sol
}

func isolateStep(left, right Expr, id VarID) (Expr, Expr, error) {
	switch l := left.(type) {
	case *Product:
		return peelProduct(l, right, id)
	case *Power:
		return peelPower(l, right, id)
	case *Sum:
		return peelSum(l, right, id)
	case *Logarithm:
		return nil, nil, unsupported(id, l, "isolation through a logarithm is not implemented")
	case Scalar, Constant:
		return nil, nil, internal(id, l, "left-hand side reduced to a constant")
	}
	return nil, nil, internal(id, left, "unknown expression type")
}

func peelProduct(l *Product, right Expr, id VarID) (Expr, Expr, error) {
	factors := flattenFactors(l.factors)
	if len(factors) == 1 {
		return factors[0], right, nil
	}
	related, unrelated := partition(factors, id)
	if len(related) == 0 {
		return nil, nil, internal(id, l, "no factor depends on the variable")
	}
	if len(unrelated) > 0 {
		return productOrSingle(related), Divide(right, productOrSingle(unrelated)), nil
	}
	merged, ok := mergePowers(related, id)
	if !ok {
		return nil, nil, unsupported(id, l, "variable appears in every factor")
	}
	return merged, right, nil
}

func peelPower(l *Power, right Expr, id VarID) (Expr, Expr, error) {
	inBase, inExp := l.base.DependsOn(id), l.exp.DependsOn(id)
	switch {
	case inBase && inExp:
		return nil, nil, unsupported(id, l, "variable appears in both base and exponent")
	case inBase:
		return nil, nil, unsupported(id, l, "isolating a variable in the base of a power is not implemented")
	case inExp:
		return l.exp, LogOf(right, Clone(l.base)), nil
	}
	return nil, nil, internal(id, l, "power does not depend on the variable")
}

// peelSum factors the variable's part out of a Sum whose terms all
// carry the same related factors: R*a + R*b becomes R*(a + b).
// Moving independent terms across the equals sign is not implemented.
func peelSum(l *Sum, right Expr, id VarID) (Expr, Expr, error) {
	if len(l.terms) == 1 {
		return l.terms[0], right, nil
	}
	var shared []Expr
	coeffs := make([]Expr, 0, len(l.terms))
	for i, t := range l.terms {
		if !t.DependsOn(id) {
			return nil, nil, unsupported(id, l, "additive isolation is not implemented")
		}
		related, unrelated := partition(termFactors(t), id)
		if i == 0 {
			shared = related
		} else if !equalLists(shared, related) {
			return nil, nil, unsupported(id, l, "terms do not share a common factor in the variable")
		}
		if len(unrelated) == 0 {
			coeffs = append(coeffs, Scalar(1))
		} else {
			coeffs = append(coeffs, productOrSingle(unrelated))
		}
	}
	factors := append(append([]Expr(nil), shared...), &Sum{terms: coeffs})
	return &Product{factors: factors}, right, nil
}

// mergePowers rewrites b^e1 * b^e2 * ... as b^(e1 + e2 + ...). Nested
// powers (b^e1)^e2 contribute e1*e2. The common base must be free of
// the variable.
func mergePowers(factors []Expr, id VarID) (Expr, bool) {
	var base Expr
	exps := make([]Expr, 0, len(factors))
	for _, f := range factors {
		b, e, ok := powerParts(f)
		if !ok {
			return nil, false
		}
		if base == nil {
			base = b
		} else if !base.Equal(b) {
			return nil, false
		}
		exps = append(exps, e)
	}
	if base == nil || base.DependsOn(id) {
		return nil, false
	}
	return PowOf(base, &Sum{terms: exps}), true
}

func powerParts(e Expr) (base, exp Expr, ok bool) {
	p, ok := e.(*Power)
	if !ok {
		return nil, nil, false
	}
	base, exp = p.base, p.exp
	for {
		inner, ok := base.(*Power)
		if !ok {
			return base, exp, true
		}
		base, exp = inner.base, Multiply(inner.exp, exp)
	}
}

func partition(list []Expr, id VarID) (related, unrelated []Expr) {
	for _, e := range list {
		if e.DependsOn(id) {
			related = append(related, e)
		} else {
			unrelated = append(unrelated, e)
		}
	}
	return related, unrelated
}

// flattenFactors splices nested Products into one factor list.
func flattenFactors(list []Expr) []Expr {
	out := make([]Expr, 0, len(list))
	for _, e := range list {
		if p, ok := e.(*Product); ok {
			out = append(out, flattenFactors(p.factors)...)
		} else {
			out = append(out, e)
		}
	}
	return out
}

func termFactors(t Expr) []Expr {
	if p, ok := t.(*Product); ok {
		return flattenFactors(p.factors)
	}
	return []Expr{t}
}

func productOrSingle(list []Expr) Expr {
	if len(list) == 1 {
		return list[0]
	}
	return &Product{factors: append([]Expr(nil), list...)}
}
