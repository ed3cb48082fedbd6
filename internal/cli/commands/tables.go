package commands

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/olistflow/internal/cli/output"
)

// NewTablesCommand creates the tables command.
func NewTablesCommand() *cobra.Command {
	var prefix string

	cmd := &cobra.Command{
		Use:   "tables",
		Short: "List warehouse tables with row counts",
		Example: `  # Every table
  olistflow tables

  # Only query results
  olistflow tables --prefix qry_`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmdCtx, err := openPipeline(cmd)
			if err != nil {
				return err
			}
			defer cmdCtx.Close()

			ctx := cmd.Context()
			adp, err := cmdCtx.Engine.Adapter(ctx)
			if err != nil {
				return err
			}
			names, err := adp.ListTables(ctx, prefix)
			if err != nil {
				return err
			}

			infos := make([]output.TableInfo, 0, len(names))
			for _, name := range names {
				meta, err := adp.GetTableMetadata(ctx, name)
				if err != nil {
					return fmt.Errorf("failed to describe %s: %w", name, err)
				}
				infos = append(infos, output.TableInfo{Name: name, Rows: meta.RowCount, Columns: len(meta.Columns)})
			}

			r := cmdCtx.Renderer
			if r.EffectiveMode() == output.ModeJSON {
				return r.JSON(infos)
			}
			if len(infos) == 0 {
				r.Muted("No tables found. Run `olistflow run` to build the warehouse.")
				return nil
			}
			rows := make([][]string, len(infos))
			for i, info := range infos {
				rows[i] = []string{info.Name, output.FormatCount(info.Rows), strconv.Itoa(info.Columns)}
			}
			r.Table([]string{"Table", "Rows", "Columns"}, rows)
			return nil
		},
	}

	cmd.Flags().StringVar(&prefix, "prefix", "", "Only list tables whose name starts with this prefix")
	return cmd
}
