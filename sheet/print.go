package sheet

import (
	"bufio"
	"io"

	"sheetengine/position"
)

// PrintValues writes the computed value of every cell in the
// printable rectangle to out: tab-separated fields, newline-terminated
// rows, empty field for an absent or Empty cell (spec 4.4, 6).
func (s *Sheet) PrintValues(out io.Writer) error {
	return s.print(out, func(h Cell) string { return h.GetValue().String() })
}

// PrintTexts writes the raw stored text of every cell in the
// printable rectangle to out, in the same tab/newline layout as
// PrintValues.
func (s *Sheet) PrintTexts(out io.Writer) error {
	return s.print(out, func(h Cell) string { return h.GetText() })
}

func (s *Sheet) print(out io.Writer, render func(Cell) string) error {
	size := s.GetPrintableSize()
	w := bufio.NewWriter(out)
	for row := 0; row < size.Rows; row++ {
		for col := 0; col < size.Cols; col++ {
			if col > 0 {
				if _, err := w.WriteRune('\t'); err != nil {
					return err
				}
			}
			pos := position.New(row, col)
			h, ok, err := s.GetCell(pos)
			if err != nil {
				return err
			}
			if ok {
				if _, err := w.WriteString(render(h)); err != nil {
					return err
				}
			}
		}
		if _, err := w.WriteRune('\n'); err != nil {
			return err
		}
	}
	return w.Flush()
}
