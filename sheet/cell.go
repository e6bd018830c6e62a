package sheet

import (
	"strings"

	"sheetengine/formula"
	"sheetengine/position"
)

// kind discriminates the four mutually exclusive cell variants of spec
// 4.3. It is modeled as a tagged union rather than a type hierarchy, per
// design note 9.
type kind int

const (
	kindEmpty kind = iota
	kindText
	kindNumber
	kindFormula
)

// cell holds exactly one implementation variant plus its memoized
// value and dependency edges (spec 3). Mutation and cross-cell
// coordination (cycle checking, edge rewiring, cache invalidation)
// live on Sheet; cell only knows how to render and evaluate itself
// given context handed to it by the caller, which keeps it free of any
// back-reference to the sheet that owns it.
type cell struct {
	kind    kind
	text    string  // raw stored text for Empty/Text/Number
	number  float64 // decoded value for Number
	formula *formula.Formula

	cache *formula.CellValue

	dependsOn  []position.Position            // outgoing edges, valid positions only
	dependents map[position.Position]struct{} // incoming edges
}

func newCell() *cell {
	return &cell{kind: kindEmpty}
}

func (c *cell) isEmpty() bool { return c.kind == kindEmpty }

// getText implements Cell.GetText (spec 4.3): the raw stored text,
// reconstructed from the canonical expression for a formula cell.
func (c *cell) getText() string {
	if c.kind == kindFormula {
		return "=" + c.formula.GetExpression()
	}
	return c.text
}

// getReferencedCells implements Cell.GetReferencedCells: the ordered,
// deduplicated outgoing edges of the dependency graph. Invalid
// references inside the formula text are excluded here - they never
// become graph edges (spec 4.4, 9) - even though they stay in the
// formula's expression tree, where they evaluate to a Ref error, and in
// the formula's own GetReferencedCells.
func (c *cell) getReferencedCells() []position.Position {
	if len(c.dependsOn) == 0 {
		return nil
	}
	out := make([]position.Position, len(c.dependsOn))
	copy(out, c.dependsOn)
	return out
}

// getValue implements Cell.GetValue: the memoized value if present,
// otherwise a fresh evaluation under lookup, cached before returning
// (spec 4.3, invariant I4).
func (c *cell) getValue(lookup formula.Lookup) formula.CellValue {
	if c.cache != nil {
		return *c.cache
	}
	v := c.evaluate(lookup)
	c.cache = &v
	return v
}

func (c *cell) evaluate(lookup formula.Lookup) formula.CellValue {
	switch c.kind {
	case kindEmpty:
		return formula.Empty()
	case kindNumber:
		return formula.Number(c.number)
	case kindText:
		return formula.Text(displayText(c.text))
	case kindFormula:
		r := c.formula.Evaluate(lookup)
		if r.IsError() {
			return formula.ErrorValue(r.Err)
		}
		return formula.Number(r.Num)
	default:
		return formula.Empty()
	}
}

// displayText strips the leading escape apostrophe that marks a text
// cell which would otherwise be read as a number or formula (spec 6's
// escape rule). GetText preserves the apostrophe; GetValue does not.
func displayText(raw string) string {
	if strings.HasPrefix(raw, "'") {
		return raw[1:]
	}
	return raw
}

func (c *cell) dependentsList() []position.Position {
	if len(c.dependents) == 0 {
		return nil
	}
	out := make([]position.Position, 0, len(c.dependents))
	for p := range c.dependents {
		out = append(out, p)
	}
	return out
}

func (c *cell) addDependent(p position.Position) {
	if c.dependents == nil {
		c.dependents = make(map[position.Position]struct{})
	}
	c.dependents[p] = struct{}{}
}

func (c *cell) removeDependent(p position.Position) {
	delete(c.dependents, p)
}
