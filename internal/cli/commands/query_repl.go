package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"slices"
	"strings"

	"github.com/chzyer/readline"
	"github.com/spf13/cobra"

	"github.com/leapstack-labs/olistflow/internal/cli/output"
	"github.com/leapstack-labs/olistflow/pkg/core"
)

const (
	replPrompt     = "olistflow> "
	replContinue   = "      ...> "
	historyFile    = "query_history"
	replHelpFormat = `
Commands:
  .help              Show this help message
  .tables [prefix]   List warehouse tables
  .schema <table>    Show the columns of a table
  .format [name]     Show or set the output format (%s)
  .quit / .exit      Leave the shell

SQL statements end with a semicolon and may span several lines.
`
)

// replSession is the line handler behind the interactive shell, kept apart
// from readline so it can be driven directly.
type replSession struct {
	ctx    context.Context
	db     core.Adapter
	out    io.Writer
	errOut io.Writer
	format string
	buf    strings.Builder
}

// handle processes one input line. It reports whether the shell should exit
// and whether a statement is still being continued.
func (s *replSession) handle(line string) (quit, pending bool) {
	line = strings.TrimSpace(line)
	if line == "" {
		return false, s.buf.Len() > 0
	}

	if s.buf.Len() == 0 && strings.HasPrefix(line, ".") {
		return s.dotCommand(strings.Fields(line)), false
	}

	s.buf.WriteString(line)
	if !strings.HasSuffix(line, ";") {
		s.buf.WriteString("\n")
		return false, true
	}

	stmt := strings.TrimSpace(strings.TrimSuffix(s.buf.String(), ";"))
	s.buf.Reset()
	if stmt == "" {
		return false, false
	}

	t, err := s.db.QueryTable(s.ctx, "query", stmt)
	if err != nil {
		_, _ = fmt.Fprintf(s.errOut, "Error: %v\n", err)
		return false, false
	}
	if err := renderResults(s.out, t, s.format); err != nil {
		_, _ = fmt.Fprintf(s.errOut, "Error: %v\n", err)
	}
	return false, false
}

// reset drops a partially typed statement.
func (s *replSession) reset() {
	s.buf.Reset()
}

func (s *replSession) dotCommand(parts []string) bool {
	switch strings.ToLower(parts[0]) {
	case ".quit", ".exit":
		return true
	case ".help":
		_, _ = fmt.Fprintf(s.out, replHelpFormat, strings.Join(queryFormats, ", "))
	case ".tables":
		prefix := ""
		if len(parts) > 1 {
			prefix = parts[1]
		}
		names, err := s.db.ListTables(s.ctx, prefix)
		if err != nil {
			_, _ = fmt.Fprintf(s.errOut, "Error: %v\n", err)
			return false
		}
		for _, n := range names {
			_, _ = fmt.Fprintln(s.out, n)
		}
	case ".schema":
		if len(parts) < 2 {
			_, _ = fmt.Fprintln(s.errOut, "Usage: .schema <table>")
			return false
		}
		meta, err := s.db.GetTableMetadata(s.ctx, parts[1])
		if err != nil {
			_, _ = fmt.Fprintf(s.errOut, "Error: %v\n", err)
			return false
		}
		r := output.NewRendererWithTTY(s.out, s.errOut, false, output.ModeText)
		rows := make([][]string, len(meta.Columns))
		for i, c := range meta.Columns {
			rows[i] = []string{c.Name, string(c.Type)}
		}
		r.Table([]string{"Column", "Type"}, rows)
		r.Printf("%s rows\n", output.FormatCount(meta.RowCount))
	case ".format":
		if len(parts) < 2 {
			_, _ = fmt.Fprintln(s.out, s.format)
			return false
		}
		if !slices.Contains(queryFormats, parts[1]) {
			_, _ = fmt.Fprintf(s.errOut, "Error: unknown format %q (expected one of %v)\n", parts[1], queryFormats)
			return false
		}
		s.format = parts[1]
	default:
		_, _ = fmt.Fprintf(s.errOut, "Unknown command: %s (type .help for commands)\n", parts[0])
	}
	return false
}

// runQueryREPL reads statements until .quit or end of input.
func runQueryREPL(cmd *cobra.Command, cmdCtx *CommandContext, db core.Adapter, format string) error {
	ctx := cmd.Context()
	s := &replSession{ctx: ctx, db: db, out: cmd.OutOrStdout(), errOut: cmd.ErrOrStderr(), format: format}

	rl, err := readline.NewEx(&readline.Config{
		Prompt:          replPrompt,
		HistoryFile:     filepath.Join(filepath.Dir(cmdCtx.Cfg.StatePath), historyFile),
		AutoComplete:    tableCompleter(ctx, db),
		InterruptPrompt: "^C",
		EOFPrompt:       ".quit",
	})
	if err != nil {
		return fmt.Errorf("failed to start query shell: %w", err)
	}
	defer func() { _ = rl.Close() }()

	_, _ = fmt.Fprintf(s.out, "olistflow query shell (%s)\nType .help for commands, .quit to exit\n\n", cmdCtx.Cfg.Target.Database)

	for {
		line, err := rl.Readline()
		if errors.Is(err, readline.ErrInterrupt) {
			s.reset()
			rl.SetPrompt(replPrompt)
			continue
		}
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}

		quit, pending := s.handle(line)
		if quit {
			return nil
		}
		if pending {
			rl.SetPrompt(replContinue)
		} else {
			rl.SetPrompt(replPrompt)
		}
	}
}

// tableCompleter completes dot-commands and warehouse table names.
func tableCompleter(ctx context.Context, db core.Adapter) *readline.PrefixCompleter {
	items := []readline.PrefixCompleterInterface{
		readline.PcItem(".help"),
		readline.PcItem(".tables"),
		readline.PcItem(".format"),
		readline.PcItem(".quit"),
		readline.PcItem(".exit"),
	}

	names, _ := db.ListTables(ctx, "")
	tables := make([]readline.PrefixCompleterInterface, len(names))
	for i, n := range names {
		tables[i] = readline.PcItem(n)
		items = append(items, readline.PcItem(n))
	}
	items = append(items, readline.PcItem(".schema", tables...))

	return readline.NewPrefixCompleter(items...)
}
