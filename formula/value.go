package formula

import (
	"math"
	"regexp"
	"strconv"

	"sheetengine/position"
)

// decimalLiteral matches a signed decimal literal with an optional
// exponent - deliberately stricter than strconv.ParseFloat's grammar,
// which also accepts "Inf", "NaN", and hex floats that are not decimal
// literals by spec's definition of "a string that parses fully as a
// finite decimal" (spec 4.2).
var decimalLiteral = regexp.MustCompile(`^[+-]?(\d+\.?\d*|\.\d+)([eE][+-]?\d+)?$`)

// ParseFiniteDecimal reports whether s parses fully as a finite decimal
// literal, per the same grammar used for reference-to-text evaluation
// (spec 4.2) and for Cell.Set's Number-vs-Text classification (spec
// 4.3) - the two places the engine asks "is this text a number".
func ParseFiniteDecimal(s string) (float64, bool) {
	if !decimalLiteral.MatchString(s) {
		return 0, false
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// EvalError is an in-band formula evaluation error (spec 3, 7): it is
// never returned as a Go error, only carried inside a CellValue or a
// Result. The empty string means "no error".
type EvalError string

const (
	// NoError is the zero value: no evaluation error occurred.
	NoError EvalError = ""
	// ErrRef is produced by a reference to an invalid (out-of-range) position.
	ErrRef EvalError = "#REF!"
	// ErrValue is produced when a referenced cell's text value does not
	// parse fully as a finite decimal.
	ErrValue EvalError = "#VALUE!"
	// ErrArithmetic is produced by any non-finite IEEE-754 result
	// (division by zero, overflow).
	ErrArithmetic EvalError = "#ARITHM!"
)

// Kind discriminates the CellValue tagged union.
type Kind int

const (
	KindEmpty Kind = iota
	KindText
	KindNumber
	KindErr
)

// CellValue is the tagged union a cell exposes through its lookup:
// empty string, text, a finite double, or an EvalError (spec 3).
type CellValue struct {
	kind   Kind
	text   string
	number float64
	err    EvalError
}

func Empty() CellValue                { return CellValue{kind: KindEmpty} }
func Text(s string) CellValue         { return CellValue{kind: KindText, text: s} }
func Number(v float64) CellValue      { return CellValue{kind: KindNumber, number: v} }
func ErrorValue(e EvalError) CellValue { return CellValue{kind: KindErr, err: e} }

func (v CellValue) Kind() Kind       { return v.kind }
func (v CellValue) TextValue() string { return v.text }
func (v CellValue) NumberValue() float64 { return v.number }
func (v CellValue) ErrValue() EvalError  { return v.err }

// String renders v the way Sheet.PrintValues does: the number in its
// shortest round-tripping decimal form, text as-is, the fixed error
// token for an error, and the empty string for Empty.
func (v CellValue) String() string {
	switch v.kind {
	case KindEmpty:
		return ""
	case KindText:
		return v.text
	case KindNumber:
		return strconv.FormatFloat(v.number, 'g', -1, 64)
	case KindErr:
		return string(v.err)
	default:
		return ""
	}
}

// Lookup resolves a referenced position to its current CellValue, as
// seen by a formula evaluating against a Sheet.
type Lookup func(position.Position) CellValue

// Result is what evaluating a formula (or a subexpression) produces:
// either a finite number, or an EvalError - never both.
type Result struct {
	Num float64
	Err EvalError
}

func num(v float64) Result   { return Result{Num: v} }
func errResult(e EvalError) Result { return Result{Err: e} }

func (r Result) IsError() bool { return r.Err != NoError }

// cellValueToResult implements the reference-evaluation rules of spec
// 4.2: empty or empty text -> 0, number -> itself, other text -> its
// full decimal parse or Value error, error -> propagates unchanged.
func cellValueToResult(v CellValue) Result {
	switch v.kind {
	case KindEmpty:
		return num(0)
	case KindNumber:
		return num(v.number)
	case KindErr:
		return errResult(v.err)
	case KindText:
		if v.text == "" {
			return num(0)
		}
		f, ok := ParseFiniteDecimal(v.text)
		if !ok {
			return errResult(ErrValue)
		}
		return num(f)
	default:
		return num(0)
	}
}
