package formula

import (
	"testing"

	"github.com/stretchr/testify/require"

	"sheetengine/position"
)

func mustParse(t *testing.T, expr string) *Formula {
	t.Helper()
	f, err := Parse(expr)
	require.NoErrorf(t, err, "Parse(%q)", expr)
	return f
}

func TestCanonicalPrinting(t *testing.T) {
	cases := map[string]string{
		"1+2*3":     "1+2*3",
		"(1+2)*3":   "(1+2)*3",
		"1+2+3":     "1+2+3",
		"1+(2+3)":   "1+2+3", // associativity normalization (spec scenario 6)
		"1-(2-3)":   "1-(2-3)",
		"1-2-3":     "1-2-3",
		"2/(3/4)":   "2/(3/4)",
		"2*(3/4)":   "2*3/4",
		"-(1+2)":    "-(1+2)",
		"-2*3":      "-2*3",
		"-(2*3)":    "-2*3",
		"A1+B2*C3":  "A1+B2*C3",
		"-A1":       "-A1",
	}
	for in, want := range cases {
		f := mustParse(t, in)
		got := f.GetExpression()
		if got != want {
			t.Errorf("GetExpression(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestCanonicalPrintingIsFixedPoint(t *testing.T) {
	inputs := []string{"1+2*3", "(1+2)*3", "1+2+3", "1+(2+3)", "2/(3/4)", "-(1+2)", "A1+B2*C3"}
	for _, in := range inputs {
		f := mustParse(t, in)
		canon := f.GetExpression()
		f2 := mustParse(t, canon)
		if f2.GetExpression() != canon {
			t.Errorf("re-printing is not a fixed point for %q: %q != %q", in, f2.GetExpression(), canon)
		}
	}
}

func TestParseErrors(t *testing.T) {
	bad := []string{"", "1+", "(1+2", "1 2", "1+*2", "1+ZZZZ1", "@"}
	for _, in := range bad {
		_, err := Parse(in)
		if err == nil {
			t.Errorf("Parse(%q) expected an error, got none", in)
		}
	}
}

func TestParseAcceptsOutOfRangeReference(t *testing.T) {
	f := mustParse(t, "ZZZ99999+1")
	refs := f.GetReferencedCells()
	require.Len(t, refs, 1)
	require.False(t, refs[0].IsValid())

	r := f.Evaluate(func(position.Position) CellValue { return Number(5) })
	require.True(t, r.IsError())
	require.Equal(t, ErrRef, r.Err)
}

func TestGetReferencedCellsSortedDeduped(t *testing.T) {
	f := mustParse(t, "B1+A1+A1+C3")
	refs := f.GetReferencedCells()
	a1, _ := position.Parse("A1")
	b1, _ := position.Parse("B1")
	c3, _ := position.Parse("C3")
	require.Equal(t, []position.Position{a1, b1, c3}, refs)
}

func TestEvaluateArithmetic(t *testing.T) {
	f := mustParse(t, "1+2*3")
	r := f.Evaluate(nil)
	require.False(t, r.IsError())
	require.Equal(t, 7.0, r.Num)
}

func TestEvaluateReferenceSemantics(t *testing.T) {
	a1, _ := position.Parse("A1")
	lookup := func(p position.Position) CellValue {
		if p == a1 {
			return Empty()
		}
		return ErrorValue(ErrRef)
	}
	f := mustParse(t, "A1+3")
	r := f.Evaluate(lookup)
	require.False(t, r.IsError())
	require.Equal(t, 3.0, r.Num) // empty cell counts as 0

	lookupText := func(position.Position) CellValue { return Text("hello") }
	r = mustParse(t, "A1+3").Evaluate(lookupText)
	require.True(t, r.IsError())
	require.Equal(t, ErrValue, r.Err)

	lookupTextNumber := func(position.Position) CellValue { return Text("7") }
	r = mustParse(t, "A1+3").Evaluate(lookupTextNumber)
	require.False(t, r.IsError())
	require.Equal(t, 10.0, r.Num)
}

func TestEvaluateDivideByZeroIsArithmeticError(t *testing.T) {
	f := mustParse(t, "1/0")
	r := f.Evaluate(nil)
	require.True(t, r.IsError())
	require.Equal(t, ErrArithmetic, r.Err)
}

func TestEvaluateLeftErrorTakesPrecedence(t *testing.T) {
	a1, _ := position.Parse("A1")
	b1, _ := position.Parse("B1")
	lookup := func(p position.Position) CellValue {
		if p == a1 {
			return ErrorValue(ErrValue)
		}
		if p == b1 {
			return ErrorValue(ErrArithmetic)
		}
		return Empty()
	}
	f := mustParse(t, "A1+B1")
	r := f.Evaluate(lookup)
	require.True(t, r.IsError())
	require.Equal(t, ErrValue, r.Err)
}
