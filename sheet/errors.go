package sheet

import (
	"fmt"

	"sheetengine/position"
)

// InvalidPositionError is raised by any Sheet operation given a
// position outside the addressable grid (spec 6, 7). All invalid
// positions collapse to one sentinel value, so there is no original
// row/column to report.
type InvalidPositionError struct{}

func (e *InvalidPositionError) Error() string {
	return "sheet: invalid position"
}

// CircularDependencyError is raised when admitting a formula would
// close a cycle in the dependency graph (spec 4.4, 7). The sheet is
// left exactly as it was before the call.
type CircularDependencyError struct {
	Pos position.Position
}

func (e *CircularDependencyError) Error() string {
	label, ok := position.Format(e.Pos)
	if !ok {
		label = "?"
	}
	return fmt.Sprintf("sheet: formula at %s would create a circular dependency", label)
}
