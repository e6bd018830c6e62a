package formula

import (
	"math"

	"sheetengine/ast"
)

// evalNode implements spec 4.2's evaluation semantics over the
// expression tree: numeric literals evaluate to themselves, references
// resolve through lookup (or to Ref if invalid), unary/binary operators
// propagate errors with the left operand taking precedence on binary
// ops, and any non-finite arithmetic result collapses to Arithmetic.
func evalNode(n ast.Node, lookup Lookup) Result {
	switch v := n.(type) {
	case *ast.NumberLiteral:
		return num(v.Value)

	case *ast.CellReference:
		if !v.Pos.IsValid() {
			return errResult(ErrRef)
		}
		return cellValueToResult(lookup(v.Pos))

	case *ast.PrefixExpression:
		r := evalNode(v.Right, lookup)
		if r.IsError() {
			return r
		}
		if v.Operator == "-" {
			return num(-r.Num)
		}
		return r

	case *ast.InfixExpression:
		left := evalNode(v.Left, lookup)
		right := evalNode(v.Right, lookup)
		if left.IsError() {
			return left
		}
		if right.IsError() {
			return right
		}
		result := applyOp(v.Operator, left.Num, right.Num)
		if math.IsNaN(result) || math.IsInf(result, 0) {
			return errResult(ErrArithmetic)
		}
		return num(result)

	default:
		return errResult(ErrValue)
	}
}

func applyOp(op string, l, r float64) float64 {
	switch op {
	case "+":
		return l + r
	case "-":
		return l - r
	case "*":
		return l * r
	case "/":
		return l / r
	default:
		return math.NaN()
	}
}
