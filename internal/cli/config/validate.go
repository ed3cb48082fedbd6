package config

import (
	"fmt"
	"os"
	"slices"

	intconfig "github.com/leapstack-labs/olistflow/internal/config"
)

var (
	outputModes = []string{"auto", "text", "markdown", "json"}
	logFormats  = []string{"text", "json"}
)

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.DatasetDir == "" {
		return fmt.Errorf("dataset_dir is required")
	}
	if c.ExportDir == "" {
		return fmt.Errorf("export_dir is required")
	}
	if c.OutputFormat != "" && !slices.Contains(outputModes, c.OutputFormat) {
		return fmt.Errorf("invalid output format %q (expected one of %v)", c.OutputFormat, outputModes)
	}
	if c.LogFormat != "" && !slices.Contains(logFormats, c.LogFormat) {
		return fmt.Errorf("invalid log format %q (expected one of %v)", c.LogFormat, logFormats)
	}
	if len(c.Sources) > 0 {
		if err := intconfig.ValidateSources(c.Sources); err != nil {
			return err
		}
	}
	return intconfig.ValidateTarget(c.Target)
}

// ValidateDirectories checks that the dataset directory exists.
// Commands that only read results skip this check.
func (c *Config) ValidateDirectories() error {
	if _, err := os.Stat(c.DatasetDir); os.IsNotExist(err) {
		return fmt.Errorf("dataset directory does not exist: %s\nHint: Download the Olist CSV files into it or use --dataset-dir to specify a different path", c.DatasetDir)
	}
	return nil
}
