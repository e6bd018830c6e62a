// Package sheet implements the spreadsheet container: sparse cell
// storage, the dependency graph with admission-time cycle rejection,
// cascade cache invalidation, and the two rendering passes (spec 4.4).
package sheet

import (
	"strings"

	"sheetengine/formula"
	"sheetengine/position"
)

// Sheet is a sparse 2D container of cells, keyed by Position. The
// zero value is not usable; construct with New.
type Sheet struct {
	cells map[position.Position]*cell
}

// New returns an empty Sheet.
func New() *Sheet {
	return &Sheet{cells: make(map[position.Position]*cell)}
}

// Cell is a read-only-ish handle onto a materialized, non-empty cell,
// returned by GetCell. It binds the owning sheet so GetValue can
// recurse through referenced cells without the cell type itself
// needing a back-reference (design note 9).
type Cell struct {
	c *cell
	s *Sheet
}

// GetValue returns the cell's memoized value, computing and caching it
// on first access.
func (h Cell) GetValue() formula.CellValue { return h.c.getValue(h.s.lookup) }

// GetText returns the cell's raw stored text.
func (h Cell) GetText() string { return h.c.getText() }

// GetReferencedCells returns the cell's outgoing dependency edges, in
// sorted, deduplicated order; empty for non-formula cells.
func (h Cell) GetReferencedCells() []position.Position { return h.c.getReferencedCells() }

// GetCell returns a handle to the cell at pos if it is materialized
// and non-Empty. It returns (Cell{}, false) for an absent or Empty
// cell, and an error only for an invalid position.
func (s *Sheet) GetCell(pos position.Position) (Cell, bool, error) {
	if !pos.IsValid() {
		return Cell{}, false, &InvalidPositionError{}
	}
	c, ok := s.cells[pos]
	if !ok || c.isEmpty() {
		return Cell{}, false, nil
	}
	return Cell{c: c, s: s}, true, nil
}

// GetValue is a convenience that evaluates the cell at pos directly,
// treating an absent or Empty cell as the empty string (its natural
// CellValue) rather than requiring a prior GetCell.
func (s *Sheet) GetValue(pos position.Position) (formula.CellValue, error) {
	if !pos.IsValid() {
		return formula.CellValue{}, &InvalidPositionError{}
	}
	return s.lookup(pos), nil
}

func (s *Sheet) lookup(pos position.Position) formula.CellValue {
	c, ok := s.cells[pos]
	if !ok {
		return formula.Empty()
	}
	return c.getValue(s.lookup)
}

// SetCell implements spec 4.3/4.4's mutation entry point: it parses
// text into the appropriate variant, cycle-checks a would-be formula
// before committing anything, then rewires edges and invalidates
// caches. Any error leaves the sheet exactly as it was before the call
// (strong exception guarantee, P6).
func (s *Sheet) SetCell(pos position.Position, text string) error {
	if !pos.IsValid() {
		return &InvalidPositionError{}
	}

	c, existed := s.cells[pos]
	if !existed {
		if text == "" {
			return nil
		}
		c = newCell()
		s.cells[pos] = c
	}

	if text == c.getText() {
		return nil
	}

	if strings.HasPrefix(text, "=") && len(text) > 1 {
		f, err := formula.Parse(text[1:])
		if err != nil {
			if !existed {
				delete(s.cells, pos)
			}
			return err
		}

		refs := f.GetReferencedCells()
		validRefs := make([]position.Position, 0, len(refs))
		for _, r := range refs {
			if r.IsValid() {
				validRefs = append(validRefs, r)
			}
		}

		for _, r := range validRefs {
			if r == pos || s.reaches(r, pos, make(map[position.Position]bool)) {
				if !existed {
					delete(s.cells, pos)
				}
				return &CircularDependencyError{Pos: pos}
			}
		}

		s.removeOldEdges(pos, c)
		c.kind = kindFormula
		c.formula = f
		c.text = ""
		c.number = 0
		s.addNewEdges(pos, c, validRefs)
		s.invalidate(pos)
		return nil
	}

	s.removeOldEdges(pos, c)
	c.formula = nil
	c.number = 0
	switch {
	case text == "":
		c.kind = kindEmpty
		c.text = ""
	default:
		if v, ok := formula.ParseFiniteDecimal(text); ok {
			c.kind = kindNumber
			c.number = v
		} else {
			c.kind = kindText
		}
		c.text = text
	}
	s.invalidate(pos)
	return nil
}

// ClearCell is equivalent to SetCell(pos, ""), plus dropping the cell
// entirely once it has no remaining dependents (spec 4.4).
func (s *Sheet) ClearCell(pos position.Position) error {
	if !pos.IsValid() {
		return &InvalidPositionError{}
	}
	c, ok := s.cells[pos]
	if !ok {
		return nil
	}
	if err := s.SetCell(pos, ""); err != nil {
		return err
	}
	if len(c.dependents) == 0 {
		delete(s.cells, pos)
	}
	return nil
}

// GetPrintableSize returns the bounding rectangle of non-Empty cells,
// or the zero Size if none exist (spec 3, 4.4, P5).
func (s *Sheet) GetPrintableSize() position.Size {
	maxRow, maxCol := -1, -1
	for pos, c := range s.cells {
		if c.isEmpty() {
			continue
		}
		if pos.Row() > maxRow {
			maxRow = pos.Row()
		}
		if pos.Col() > maxCol {
			maxCol = pos.Col()
		}
	}
	if maxRow < 0 {
		return position.Size{}
	}
	return position.Size{Rows: maxRow + 1, Cols: maxCol + 1}
}

// removeOldEdges detaches c from its current outgoing references,
// ahead of installing a new implementation.
func (s *Sheet) removeOldEdges(pos position.Position, c *cell) {
	for _, q := range c.dependsOn {
		qc, ok := s.cells[q]
		if !ok {
			continue
		}
		qc.removeDependent(pos)
		if qc.isEmpty() && len(qc.dependents) == 0 {
			delete(s.cells, q)
		}
	}
	c.dependsOn = nil
}

// addNewEdges wires c's new outgoing references, materializing each
// referenced cell as Empty if it doesn't exist yet so it has somewhere
// to keep its incoming edge (spec 3 invariant I5).
func (s *Sheet) addNewEdges(pos position.Position, c *cell, refs []position.Position) {
	for _, r := range refs {
		rc, ok := s.cells[r]
		if !ok {
			rc = newCell()
			s.cells[r] = rc
		}
		rc.addDependent(pos)
	}
	c.dependsOn = refs
}

// reaches performs the admission-time cycle check of spec 4.4: does a
// depends_on walk starting at from ever reach target, following only
// edges already committed to the graph.
func (s *Sheet) reaches(from, target position.Position, visited map[position.Position]bool) bool {
	if from == target {
		return true
	}
	if visited[from] {
		return false
	}
	visited[from] = true
	c, ok := s.cells[from]
	if !ok {
		return false
	}
	for _, d := range c.dependsOn {
		if s.reaches(d, target, visited) {
			return true
		}
	}
	return false
}

// invalidate implements the cascade of spec 4.4/9: it unconditionally
// clears pos's own cache (the cell just changed), then walks the
// dependents graph with an explicit work-list - not recursion, so that
// a dependency chain longer than the goroutine stack's comfort zone
// cannot overflow it - stopping at any cell whose cache was already
// absent (invariant I3 guarantees this terminates).
func (s *Sheet) invalidate(pos position.Position) {
	c, ok := s.cells[pos]
	if !ok {
		return
	}
	c.cache = nil
	work := c.dependentsList()
	for len(work) > 0 {
		p := work[len(work)-1]
		work = work[:len(work)-1]
		dc, ok := s.cells[p]
		if !ok || dc.cache == nil {
			continue
		}
		dc.cache = nil
		work = append(work, dc.dependentsList()...)
	}
}
