// Package repl implements the interactive terminal session for a
// Sheet: a line at a time, either a cell assignment or a colon
// command, evaluated and echoed back.
package repl

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"sheetengine/position"
	"sheetengine/sheet"
)

const prompt = "sheet> "

type scannerResult struct {
	line string
	ok   bool
}

// Start begins the REPL session over sh, reading lines from in and
// writing prompts/results to out. It returns when the session ends
// (EOF, Ctrl+D, or :quit).
func Start(sh *sheet.Sheet, in io.Reader, out io.Writer) {
	scanner := bufio.NewScanner(in)
	scanCh := make(chan scannerResult)
	go scanInput(scanner, scanCh)

	fmt.Fprintf(out, "sheetengine interactive shell\n")
	fmt.Fprintf(out, "  A1 7          set a number\n")
	fmt.Fprintf(out, "  A1 =B1+1      set a formula\n")
	fmt.Fprintf(out, "  :clear A1     clear a cell\n")
	fmt.Fprintf(out, "  :print        render computed values\n")
	fmt.Fprintf(out, "  :text         render raw cell text\n")
	fmt.Fprintf(out, "  :quit         exit\n\n")

	for {
		fmt.Fprint(out, prompt)
		line, ok := waitForInput(scanCh)
		if !ok {
			return
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		if strings.HasPrefix(line, ":") {
			if handleCommand(line, out, sh) {
				return
			}
			continue
		}

		if err := evalAssignment(sh, line); err != nil {
			fmt.Fprintf(out, "error: %v\n", err)
		}
	}
}

// evalAssignment parses "<POS> <text>" and applies it via SetCell. A
// bare position with no text clears the cell.
func evalAssignment(sh *sheet.Sheet, line string) error {
	fields := strings.SplitN(line, " ", 2)
	pos, err := position.Parse(fields[0])
	if err != nil || !pos.IsValid() {
		return fmt.Errorf("%q is not a valid cell reference", fields[0])
	}
	text := ""
	if len(fields) == 2 {
		text = fields[1]
	}
	return sh.SetCell(pos, text)
}

// handleCommand processes a colon command. It returns true if the
// session should end.
func handleCommand(cmd string, out io.Writer, sh *sheet.Sheet) bool {
	fields := strings.Fields(cmd)
	switch fields[0] {
	case ":quit", ":q", ":exit":
		fmt.Fprintln(out, "goodbye")
		return true

	case ":help", ":h":
		fmt.Fprintln(out, "Commands:")
		fmt.Fprintln(out, "  :clear <POS>  - clear a cell")
		fmt.Fprintln(out, "  :get <POS>    - print a cell's computed value")
		fmt.Fprintln(out, "  :print        - render the whole sheet's values")
		fmt.Fprintln(out, "  :text         - render the whole sheet's raw text")
		fmt.Fprintln(out, "  :quit         - exit")

	case ":clear":
		if len(fields) != 2 {
			fmt.Fprintln(out, "usage: :clear <POS>")
			return false
		}
		pos, err := position.Parse(fields[1])
		if err != nil || !pos.IsValid() {
			fmt.Fprintf(out, "error: %q is not a valid cell reference\n", fields[1])
			return false
		}
		if err := sh.ClearCell(pos); err != nil {
			fmt.Fprintf(out, "error: %v\n", err)
		}

	case ":get":
		if len(fields) != 2 {
			fmt.Fprintln(out, "usage: :get <POS>")
			return false
		}
		pos, err := position.Parse(fields[1])
		if err != nil || !pos.IsValid() {
			fmt.Fprintf(out, "error: %q is not a valid cell reference\n", fields[1])
			return false
		}
		v, err := sh.GetValue(pos)
		if err != nil {
			fmt.Fprintf(out, "error: %v\n", err)
			return false
		}
		fmt.Fprintln(out, v.String())

	case ":print":
		if err := sh.PrintValues(out); err != nil {
			fmt.Fprintf(out, "error: %v\n", err)
		}

	case ":text":
		if err := sh.PrintTexts(out); err != nil {
			fmt.Fprintf(out, "error: %v\n", err)
		}

	default:
		fmt.Fprintf(out, "unknown command: %s (try :help)\n", fields[0])
	}

	return false
}

func scanInput(scanner *bufio.Scanner, out chan<- scannerResult) {
	defer close(out)
	for scanner.Scan() {
		out <- scannerResult{line: scanner.Text(), ok: true}
	}
}

func waitForInput(scanCh <-chan scannerResult) (string, bool) {
	r, ok := <-scanCh
	if !ok {
		return "", false
	}
	return r.line, r.ok
}
