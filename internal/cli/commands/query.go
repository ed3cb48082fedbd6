package commands

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/leapstack-labs/olistflow/internal/cli/output"
	"github.com/leapstack-labs/olistflow/internal/export"
	"github.com/leapstack-labs/olistflow/pkg/core"
)

// QueryOptions holds options for the query command.
type QueryOptions struct {
	Format string
	Input  string
}

var queryFormats = []string{"table", "json", "csv", "markdown"}

// NewQueryCommand creates the query command.
func NewQueryCommand() *cobra.Command {
	opts := &QueryOptions{}

	cmd := &cobra.Command{
		Use:   "query [SQL]",
		Short: "Run ad-hoc SQL against the warehouse",
		Long: `Run a SQL statement against the warehouse and print the result.

The format defaults to a table on a terminal, markdown when piped and
JSON with --output json. Without SQL on a terminal an interactive shell
starts, with history and table-name completion.`,
		Example: `  # Revenue per state
  olistflow query "SELECT * FROM qry_revenue_per_state"

  # CSV for a spreadsheet
  olistflow query "SELECT order_status, COUNT(*) FROM olist_orders GROUP BY 1" --format csv

  # SQL from a file
  olistflow query --input report.sql --format json

  # Interactive shell (no SQL on a terminal)
  olistflow query`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runQuery(cmd, args, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.Format, "format", "f", "", "Output format: table, json, csv, markdown")
	cmd.Flags().StringVarP(&opts.Input, "input", "i", "", "Read SQL from file")
	_ = cmd.RegisterFlagCompletionFunc("format", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return queryFormats, cobra.ShellCompDirectiveNoFileComp
	})

	return cmd
}

func runQuery(cmd *cobra.Command, args []string, opts *QueryOptions) error {
	interactive := len(args) == 0 && opts.Input == "" && stdinIsTerminal()
	var sqlStr string
	if !interactive {
		var err error
		if sqlStr, err = querySQL(args, opts.Input); err != nil {
			return err
		}
	}

	cmdCtx, err := openPipeline(cmd)
	if err != nil {
		return err
	}
	defer cmdCtx.Close()

	format := opts.Format
	if format == "" {
		format = defaultQueryFormat(cmdCtx.Renderer.EffectiveMode())
	}

	adp, err := cmdCtx.Engine.Adapter(cmd.Context())
	if err != nil {
		return err
	}
	if interactive {
		return runQueryREPL(cmd, cmdCtx, adp, format)
	}

	t, err := adp.QueryTable(cmd.Context(), "query", sqlStr)
	if err != nil {
		return err
	}
	return renderResults(cmd.OutOrStdout(), t, format)
}

func stdinIsTerminal() bool {
	return term.IsTerminal(int(os.Stdin.Fd())) //nolint:gosec // file descriptors fit in int
}

func querySQL(args []string, input string) (string, error) {
	switch {
	case input != "" && len(args) > 0:
		return "", fmt.Errorf("pass SQL as an argument or with --input, not both")
	case input != "":
		b, err := os.ReadFile(input) //nolint:gosec // user-supplied query file
		if err != nil {
			return "", fmt.Errorf("failed to read %s: %w", input, err)
		}
		return strings.TrimSpace(string(b)), nil
	case len(args) == 1 && strings.TrimSpace(args[0]) != "":
		return args[0], nil
	default:
		return "", fmt.Errorf("no SQL given\nHint: olistflow query \"SELECT * FROM qry_revenue_by_month_year\"")
	}
}

func defaultQueryFormat(mode output.Mode) string {
	switch mode {
	case output.ModeJSON:
		return "json"
	case output.ModeMarkdown:
		return "markdown"
	default:
		return "table"
	}
}

func renderResults(w io.Writer, t *core.Table, format string) error {
	switch format {
	case "json":
		b, err := export.MarshalRecords(t)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(w, string(b))
		return err
	case "csv":
		return renderCSV(w, t)
	case "md", "markdown":
		return renderTable(w, t, true)
	case "table":
		return renderTable(w, t, false)
	default:
		return fmt.Errorf("unknown format %q (expected one of %v)", format, queryFormats)
	}
}

func renderTable(w io.Writer, t *core.Table, markdown bool) error {
	if len(t.Rows) == 0 {
		_, _ = fmt.Fprintln(w, "(0 rows)")
		return nil
	}

	tw := table.NewWriter()
	tw.SetOutputMirror(w)
	tw.SetStyle(table.StyleLight)
	tw.Style().Format.Header = text.FormatDefault

	header := make(table.Row, len(t.Columns))
	for i, c := range t.Columns {
		header[i] = c.Name
	}
	tw.AppendHeader(header)

	for _, row := range t.Rows {
		tr := make(table.Row, len(row))
		for i, v := range row {
			tr[i] = output.FormatValue(v)
		}
		tw.AppendRow(tr)
	}

	if markdown {
		tw.RenderMarkdown()
		return nil
	}
	tw.Render()
	_, _ = fmt.Fprintf(w, "(%d rows)\n", len(t.Rows))
	return nil
}

func renderCSV(w io.Writer, t *core.Table) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(t.ColumnNames()); err != nil {
		return err
	}
	for _, row := range t.Rows {
		rec := make([]string, len(row))
		for i, v := range row {
			rec[i] = csvValue(v)
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// csvValue leaves NULL empty and writes numbers without grouping.
func csvValue(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case time.Time:
		return x.Format(time.DateTime)
	default:
		return fmt.Sprint(x)
	}
}
