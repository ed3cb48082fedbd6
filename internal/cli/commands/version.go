package commands

import (
	"runtime"
	"strings"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/olistflow/internal/cli/output"
	"github.com/leapstack-labs/olistflow/internal/transform"
)

// VersionInfo is the machine-readable form of `olistflow version`.
type VersionInfo struct {
	Version   string   `json:"version"`
	Commit    string   `json:"commit"`
	BuildDate string   `json:"build_date"`
	GoVersion string   `json:"go_version"`
	Dialects  []string `json:"dialects"`
}

// NewVersionCommand creates the version command.
func NewVersionCommand(version, commit, date string) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Long:  `Display olistflow version, build information and the SQL dialects the query catalog ships.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			dialects, err := transform.Dialects()
			if err != nil {
				return err
			}
			info := VersionInfo{
				Version:   version,
				Commit:    orUnknown(commit),
				BuildDate: orUnknown(date),
				GoVersion: runtime.Version(),
				Dialects:  dialects,
			}

			r := output.NewRenderer(cmd.OutOrStdout(), cmd.ErrOrStderr(), output.ModeText)
			if asJSON {
				return r.JSON(info)
			}
			r.Printf("olistflow v%s\n", info.Version)
			r.Printf("commit %s, built %s, %s\n", info.Commit, info.BuildDate, info.GoVersion)
			r.Printf("query dialects: %s\n", strings.Join(info.Dialects, ", "))
			r.Println("Olist e-commerce ETL and analytics dashboard")
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Output version information as JSON")
	return cmd
}

func orUnknown(s string) string {
	if s == "" {
		return "unknown"
	}
	return s
}
