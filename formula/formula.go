// Package formula implements the spreadsheet formula language: parsing,
// canonical re-printing, referenced-cell extraction, and evaluation
// against a position-to-value lookup (spec 4.2).
package formula

import (
	"fmt"
	"sort"

	"sheetengine/ast"
	"sheetengine/lexer"
	"sheetengine/parser"
	"sheetengine/position"
)

// ParseError reports a malformed formula body: unknown token,
// mismatched parentheses, a reference whose column/row run is
// out-of-format, trailing input, or an empty expression. This is the
// "FormulaException" of the spec - a structural failure raised by
// Parse, never an in-band EvalError.
type ParseError struct {
	Body string
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("formula %q: %v", e.Body, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// Formula is a parsed formula body (the text after the leading '=').
type Formula struct {
	expr ast.Node
	refs []position.Position
}

// Parse parses expr - the formula body without its leading '=' - into a
// Formula. It fails with *ParseError on any syntactic problem.
func Parse(expr string) (*Formula, error) {
	l := lexer.New(expr)
	p := parser.New(l)
	node, err := p.Parse()
	if err != nil {
		return nil, &ParseError{Body: expr, Err: err}
	}
	f := &Formula{expr: node}
	f.refs = sortedReferences(node)
	return f, nil
}

// GetExpression returns the canonical re-printed form: minimal
// parentheses, no whitespace, uppercase column letters (spec 4.2).
func (f *Formula) GetExpression() string {
	return ast.Print(f.expr)
}

// GetReferencedCells returns every position referenced by the formula,
// sorted and deduplicated. Invalid references are retained, collapsed
// into the single sentinel slot they sort to (spec 4.2, 9).
func (f *Formula) GetReferencedCells() []position.Position {
	out := make([]position.Position, len(f.refs))
	copy(out, f.refs)
	return out
}

// Evaluate computes the formula's value against lookup, propagating
// EvalErrors per spec 4.2. It is a total function: every well-formed
// Formula produces a Result.
func (f *Formula) Evaluate(lookup Lookup) Result {
	return evalNode(f.expr, lookup)
}

func sortedReferences(n ast.Node) []position.Position {
	var refs []position.Position
	collectReferences(n, &refs)
	sort.Slice(refs, func(i, j int) bool { return refs[i].Less(refs[j]) })
	deduped := refs[:0]
	for i, p := range refs {
		if i == 0 || p != refs[i-1] {
			deduped = append(deduped, p)
		}
	}
	return deduped
}

func collectReferences(n ast.Node, out *[]position.Position) {
	switch v := n.(type) {
	case *ast.CellReference:
		*out = append(*out, v.Pos)
	case *ast.PrefixExpression:
		collectReferences(v.Right, out)
	case *ast.InfixExpression:
		collectReferences(v.Left, out)
		collectReferences(v.Right, out)
	}
}
