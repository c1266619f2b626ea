package gosolve_test

import (
	"fmt"
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/njchilds90/gosolve"
)

var exprEqual = cmp.Comparer(func(a, b gosolve.Expr) bool { return a.Equal(b) })

func assertFloat(t *testing.T, want, got float64, msgAndArgs ...interface{}) {
	t.Helper()
	switch {
	case math.IsNaN(want):
		assert.True(t, math.IsNaN(got), msgAndArgs...)
	case math.IsInf(want, 0):
		assert.Equal(t, want, got, msgAndArgs...)
	default:
		assert.InDelta(t, want, got, 1e-12, msgAndArgs...)
	}
}

// ============================================================
// Evaluation
// ============================================================

func TestEvaluate(t *testing.T) {
	tests := []struct {
		name string
		expr gosolve.Expr
		want float64
	}{
		{"sum", gosolve.Add(gosolve.N(2), gosolve.N(3)), 5},
		{"e^0", gosolve.PowOf(gosolve.E, gosolve.N(0)), 1},
		{"pi", gosolve.Pi, math.Pi},
		{"e", gosolve.E, math.E},
		{"subtract", gosolve.Subtract(gosolve.N(10), gosolve.N(4)), 6},
		{"divide", gosolve.Divide(gosolve.N(1), gosolve.N(4)), 0.25},
		{"negate", gosolve.Negate(gosolve.N(3)), -3},
		{"product", gosolve.MulAll(gosolve.N(2), gosolve.N(3), gosolve.N(7)), 42},
		{"log2", gosolve.LogOf(gosolve.N(8), gosolve.N(2)), 3},
		{"log10", gosolve.LogOf(gosolve.N(100), gosolve.N(10)), 2},
		{"log3", gosolve.LogOf(gosolve.N(81), gosolve.N(3)), 4},
		{"ln e", gosolve.Ln(gosolve.E), 1},
		{"empty sum", gosolve.SumOf(), 0},
		{"empty product", gosolve.ProductOf(), 1},
		{"single product", gosolve.ProductOf(gosolve.N(9)), 9},
		{"sqrt", gosolve.Sqrt(gosolve.N(16)), 4},
		{"negative base fractional exponent", gosolve.PowOf(gosolve.N(-8), gosolve.N(1.0/3)), math.NaN()},
		{"log of zero", gosolve.LogOf(gosolve.N(0), gosolve.N(10)), math.Inf(-1)},
		{"log of negative", gosolve.Ln(gosolve.N(-1)), math.NaN()},
		{"divide by zero", gosolve.Divide(gosolve.N(1), gosolve.N(0)), math.Inf(1)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assertFloat(t, tt.want, tt.expr.Evaluate(), tt.expr.String())
		})
	}
}

func TestEvaluate_PiIsExact(t *testing.T) {
	assert.Equal(t, math.Pi, gosolve.Pi.Evaluate())
}

func TestEvaluate_ReadsLiveVariable(t *testing.T) {
	arena := gosolve.NewArena()
	v := arena.NewVar("v", 1)
	expr := gosolve.Add(gosolve.N(2), v)

	assert.Equal(t, 3.0, expr.Evaluate())
	v.Set(5)
	assert.Equal(t, 7.0, expr.Evaluate())
}

// ============================================================
// Scalars and variables
// ============================================================

func TestScalarsEqual(t *testing.T) {
	nan := math.NaN()
	assert.True(t, gosolve.ScalarsEqual(nan, nan))
	assert.True(t, gosolve.ScalarsEqual(1.5, 1.5))
	assert.True(t, gosolve.ScalarsEqual(0, math.Copysign(0, -1)))
	assert.False(t, gosolve.ScalarsEqual(nan, 1))
	assert.False(t, gosolve.ScalarsEqual(1, 2))

	assert.True(t, gosolve.N(nan).Equal(gosolve.N(nan)))
	assert.False(t, gosolve.N(nan).Equal(gosolve.N(0)))
}

func TestVar_Identity(t *testing.T) {
	arena := gosolve.NewArena()
	a := arena.NewVar("a", 2)
	b := arena.NewVar("b", 2)

	assert.Greater(t, uint64(b.ID()), uint64(a.ID()))
	assert.False(t, a.Equal(b), "distinct variables with equal values")

	id := a.ID()
	a.Set(10)
	assert.Equal(t, id, a.ID(), "Set must keep the identity")
	assert.Equal(t, 10.0, a.Value())

	same, ok := arena.Lookup("a")
	require.True(t, ok)
	assert.True(t, same.Equal(a))
	assert.Equal(t, gosolve.Variable{ID: id, Name: "a", Value: 10}, same.Get())

	_, ok = arena.Lookup("missing")
	assert.False(t, ok)
	assert.Equal(t, 2, arena.Len())
}

func TestVar_EqualComparesValue(t *testing.T) {
	rec := gosolve.Variable{ID: 7, Value: 1}
	assert.True(t, rec.Equal(gosolve.Variable{ID: 7, Value: 1}))
	assert.False(t, rec.Equal(gosolve.Variable{ID: 7, Value: 2}))
	assert.False(t, rec.Equal(gosolve.Variable{ID: 8, Value: 1}))
	assert.True(t, gosolve.Variable{ID: 1, Value: math.NaN()}.Equal(gosolve.Variable{ID: 1, Value: math.NaN()}))
}

func TestVar_UnnamedString(t *testing.T) {
	v := gosolve.NewArena().NewVar("", 0)
	assert.Equal(t, fmt.Sprintf("v%d", v.ID()), v.String())
}

// ============================================================
// Structure
// ============================================================

func TestDependsOn(t *testing.T) {
	arena := gosolve.NewArena()
	x := arena.NewVar("x", 0)
	y := arena.NewVar("y", 0)

	expr := gosolve.PowOf(gosolve.E, gosolve.LogOf(gosolve.Multiply(gosolve.N(2), x), gosolve.Pi))
	assert.True(t, expr.DependsOn(x.ID()))
	assert.False(t, expr.DependsOn(y.ID()))

	x.Set(math.NaN())
	assert.True(t, expr.DependsOn(x.ID()), "dependency ignores the value")

	assert.False(t, gosolve.N(1).DependsOn(x.ID()))
	assert.False(t, gosolve.E.DependsOn(x.ID()))
	assert.False(t, gosolve.SumOf().DependsOn(x.ID()))
}

func TestKindPredicates(t *testing.T) {
	arena := gosolve.NewArena()
	x := arena.NewVar("x", 0)

	assert.True(t, gosolve.IsSum(gosolve.Add(x, x)))
	assert.True(t, gosolve.IsProduct(gosolve.Multiply(x, x)))
	assert.True(t, gosolve.IsPower(gosolve.PowOf(x, x)))
	assert.True(t, gosolve.IsLog(gosolve.LogOf(x, x)))
	assert.True(t, gosolve.IsScalar(gosolve.N(1)))
	assert.True(t, gosolve.IsVar(x))
	assert.True(t, gosolve.IsConstant(gosolve.Pi))
	assert.False(t, gosolve.IsSum(x))
	assert.Equal(t, "product", gosolve.Divide(x, x).Kind().String())
}

func TestEqual(t *testing.T) {
	arena := gosolve.NewArena()
	x := arena.NewVar("x", 1)
	y := arena.NewVar("y", 1)

	assert.True(t, gosolve.Add(x, gosolve.N(1)).Equal(gosolve.Add(x, gosolve.N(1))))
	assert.False(t, gosolve.Add(x, gosolve.N(1)).Equal(gosolve.Add(gosolve.N(1), x)), "order matters")
	assert.False(t, gosolve.Add(x, gosolve.N(1)).Equal(gosolve.Multiply(x, gosolve.N(1))))
	assert.False(t, gosolve.PowOf(x, y).Equal(gosolve.PowOf(y, x)))
	assert.False(t, gosolve.LogOf(x, y).Equal(gosolve.LogOf(y, x)))
	assert.False(t, gosolve.E.Equal(gosolve.Pi))
	assert.False(t, gosolve.SumOf(x).Equal(gosolve.SumOf(x, x)))
}

func TestClone_SharesVariables(t *testing.T) {
	arena := gosolve.NewArena()
	x := arena.NewVar("x", 2)
	orig := gosolve.Add(gosolve.Multiply(x, gosolve.N(3)), gosolve.PowOf(x, gosolve.N(2)))

	c := gosolve.Clone(orig)
	assert.NotSame(t, orig, c)
	assert.True(t, orig.Equal(c))

	x.Set(3)
	assert.Equal(t, 18.0, c.Evaluate(), "a clone observes the shared variable")
}

func TestSubstitute(t *testing.T) {
	arena := gosolve.NewArena()
	x := arena.NewVar("x", 0)
	y := arena.NewVar("y", 0)
	z := arena.NewVar("z", 4)

	unrelated := gosolve.PowOf(y, gosolve.N(2))
	expr := gosolve.SumOf(gosolve.Multiply(x, gosolve.N(3)), unrelated, gosolve.LogOf(x, x))
	value := gosolve.Multiply(gosolve.N(2), z)

	got := expr.Substitute(x.ID(), value)
	var want gosolve.Expr = gosolve.SumOf(
		gosolve.ProductOf(gosolve.Multiply(gosolve.N(2), z), gosolve.N(3)),
		unrelated,
		gosolve.LogOf(value, value),
	)
	if diff := cmp.Diff(want, got, exprEqual); diff != "" {
		t.Errorf("Substitute() mismatch (-want +got):\n%s", diff)
	}
	assert.False(t, got.DependsOn(x.ID()))
	assert.True(t, expr.DependsOn(x.ID()), "the original is unchanged")

	terms := got.(*gosolve.Sum).Terms()
	assert.Same(t, unrelated, terms[1], "unrelated subtrees are shared")
	inner := terms[0].(*gosolve.Product).Factors()[0]
	assert.NotSame(t, value, inner, "replacements are copies")

	assert.Same(t, unrelated, gosolve.Substitute(unrelated, x.ID(), value))
}

func TestVariablesAndNodeCount(t *testing.T) {
	arena := gosolve.NewArena()
	x := arena.NewVar("x", 0)
	y := arena.NewVar("y", 0)
	expr := gosolve.Add(gosolve.Multiply(y, x), gosolve.PowOf(x, gosolve.N(2)))

	vars := gosolve.Variables(expr)
	require.Len(t, vars, 2)
	assert.Same(t, y, vars[0])
	assert.Same(t, x, vars[1])
	assert.Equal(t, 7, gosolve.NodeCount(expr))
}

// ============================================================
// Rendering
// ============================================================

func TestString(t *testing.T) {
	arena := gosolve.NewArena()
	a := arena.NewVar("a", 0)
	b := arena.NewVar("b", 0)
	x := arena.NewVar("x", 0)

	tests := []struct {
		expr gosolve.Expr
		want string
	}{
		{gosolve.Add(gosolve.Add(a, b), x), "a + b + x"},
		{gosolve.Multiply(gosolve.Add(a, b), x), "(a + b)*x"},
		{gosolve.Divide(x, gosolve.N(2)), "x*2^(-1)"},
		{gosolve.PowOf(gosolve.Add(x, gosolve.N(1)), gosolve.N(2)), "(x + 1)^2"},
		{gosolve.Exp(gosolve.Multiply(a, x)), "e^(a*x)"},
		{gosolve.LogOf(x, gosolve.N(2)), "log(x, 2)"},
		{gosolve.Negate(x), "x*(-1)"},
		{gosolve.Multiply(gosolve.N(-2), x), "-2*x"},
		{gosolve.N(0.5), "0.5"},
		{gosolve.SumOf(), "0"},
		{gosolve.ProductOf(), "1"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.expr.String())
	}
}

func TestLaTeX(t *testing.T) {
	arena := gosolve.NewArena()
	x := arena.NewVar("x", 0)

	assert.Equal(t, `\ln\left(x\right)`, gosolve.Ln(x).LaTeX())
	assert.Equal(t, `\log_{2}\left(x\right)`, gosolve.LogOf(x, gosolve.N(2)).LaTeX())
	assert.Equal(t, `\left(x + 1\right) \cdot \pi`, gosolve.Multiply(gosolve.Add(x, gosolve.N(1)), gosolve.Pi).LaTeX())
	assert.Equal(t, `e^{x}`, gosolve.Exp(x).LaTeX())
}

func TestVar_ZeroValuePanics(t *testing.T) {
	var v gosolve.Var
	assert.PanicsWithValue(t, "gosolve: Var not allocated by an Arena", func() { v.Evaluate() })
	assert.PanicsWithValue(t, "gosolve: Var not allocated by an Arena", func() { v.Set(1) })
	assert.Nil(t, v.Arena())
}
