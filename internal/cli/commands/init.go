package commands

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/leapstack-labs/olistflow/internal/cli/config"
	"github.com/leapstack-labs/olistflow/internal/cli/output"
	intconfig "github.com/leapstack-labs/olistflow/internal/config"
)

const configHeader = `# olistflow configuration.
# Relative paths are resolved against this file's directory.
# Environment variables override these values: OLISTFLOW_DATASET_DIR,
# OLISTFLOW_TARGET__TYPE, OLISTFLOW_HOLIDAYS__YEAR, ...

`

// NewInitCommand creates the init command.
func NewInitCommand() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init [directory]",
		Short: "Initialize a new olistflow project",
		Long: `Initialize a new olistflow project.

This creates:
  - olistflow.yaml with every setting at its default
  - dataset/ directory for the Olist CSV files`,
		Example: `  # Initialize in current directory
  olistflow init

  # Initialize in a new directory
  olistflow init olist-analytics

  # Force overwrite existing config
  olistflow init --force`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) > 0 {
				dir = args[0]
			}
			return runInit(newCommandContext(cmd).Renderer, dir, force)
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "Overwrite existing configuration")
	return cmd
}

func runInit(r *output.Renderer, dir string, force bool) error {
	configPath := filepath.Join(dir, intconfig.ConfigFileName)
	if _, err := os.Stat(configPath); err == nil && !force {
		return fmt.Errorf("%s already exists. Use --force to overwrite", configPath)
	}

	datasetDir := filepath.Join(dir, config.DefaultDatasetDir)
	if err := os.MkdirAll(datasetDir, 0750); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", datasetDir, err)
	}

	content, err := defaultConfigYAML()
	if err != nil {
		return err
	}
	if err := os.WriteFile(configPath, content, 0600); err != nil {
		return fmt.Errorf("failed to write %s: %w", configPath, err)
	}

	r.StatusLine(configPath, "success", "")
	r.StatusLine(datasetDir+string(filepath.Separator), "success", "")
	r.Println("")
	r.Success("olistflow project initialized!")
	r.Println("")
	r.Println("Next steps:")
	r.Println("  1. Copy the Olist CSV files into dataset/")
	r.Println("  2. Run 'olistflow doctor' to check the setup")
	r.Println("  3. Run 'olistflow run' to build the warehouse and export results")
	r.Println("  4. Run 'olistflow dashboard' to explore them")
	return nil
}

func defaultConfigYAML() ([]byte, error) {
	cfg := config.Default()
	cfg.Sources = intconfig.DefaultSources()

	var buf bytes.Buffer
	buf.WriteString(configHeader)
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(cfg); err != nil {
		return nil, fmt.Errorf("failed to encode config: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
