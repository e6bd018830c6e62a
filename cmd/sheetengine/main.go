// Command sheetengine is the CLI entry point for the spreadsheet engine:
// an interactive REPL, a collaborative WebSocket server, and a
// non-interactive script renderer, dispatched through urfave/cli/v2
// subcommands (spec 9, supplemented features).
package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"

	"sheetengine/position"
	"sheetengine/repl"
	"sheetengine/server"
	"sheetengine/sheet"
)

func main() {
	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	app := &cli.App{
		Name:  "sheetengine",
		Usage: "in-memory spreadsheet engine",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "log-level",
				Value: "info",
				Usage: "logging level (debug, info, warn, error)",
			},
		},
		Before: func(c *cli.Context) error {
			level, err := logrus.ParseLevel(c.String("log-level"))
			if err != nil {
				return fmt.Errorf("invalid log-level: %w", err)
			}
			logger.SetLevel(level)
			return nil
		},
		Commands: []*cli.Command{
			{
				Name:  "repl",
				Usage: "start an interactive session against a fresh sheet",
				Action: func(c *cli.Context) error {
					repl.Start(sheet.New(), os.Stdin, os.Stdout)
					return nil
				},
			},
			{
				Name:  "serve",
				Usage: "serve a shared sheet over WebSocket for collaborative editing",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "addr",
						Value: ":8080",
						Usage: "address to listen on",
					},
					&cli.StringFlag{
						Name:  "static-dir",
						Value: "assets/sheetengine",
						Usage: "directory of static assets to serve at /, if present",
					},
				},
				Action: func(c *cli.Context) error {
					srv := server.New(sheet.New(), logger)
					return srv.ListenAndServe(c.String("addr"), c.String("static-dir"))
				},
			},
			{
				Name:      "render",
				Usage:     "apply a script of cell assignments and print the result",
				ArgsUsage: "[script]",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "text",
						Usage: "render raw cell text instead of computed values",
					},
				},
				Action: func(c *cli.Context) error {
					return runRender(c, logger)
				},
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		logger.WithError(err).Fatal("sheetengine failed")
	}
}

// runRender reads a line-oriented script, one assignment per line in
// "<POS> <text>" form (a bare position clears the cell), applies it to
// a fresh sheet, then prints either computed values or raw text.
func runRender(c *cli.Context, logger *logrus.Logger) error {
	var in io.Reader = os.Stdin
	if path := c.Args().First(); path != "" {
		f, err := os.Open(path)
		if err != nil {
			return fmt.Errorf("opening script: %w", err)
		}
		defer f.Close()
		in = f
	}

	sh := sheet.New()
	scanner := bufio.NewScanner(in)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.SplitN(line, " ", 2)
		pos, err := position.Parse(fields[0])
		if err != nil || !pos.IsValid() {
			return fmt.Errorf("line %d: %q is not a valid cell reference", lineNo, fields[0])
		}
		text := ""
		if len(fields) == 2 {
			text = fields[1]
		}
		if err := sh.SetCell(pos, text); err != nil {
			return fmt.Errorf("line %d: %w", lineNo, err)
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("reading script: %w", err)
	}

	logger.WithField("size", sh.GetPrintableSize()).Debug("script applied")

	if c.Bool("text") {
		return sh.PrintTexts(os.Stdout)
	}
	return sh.PrintValues(os.Stdout)
}
