// Package config provides the shared pipeline configuration for olistflow.
// This package is decoupled from CLI concerns and is used by the pipeline,
// the dashboard and the CLI.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/leapstack-labs/olistflow/pkg/adapter"
	"github.com/leapstack-labs/olistflow/pkg/core"
)

// Source maps one CSV file in the dataset directory to a warehouse table.
type Source struct {
	File  string `koanf:"file" yaml:"file"`
	Table string `koanf:"table" yaml:"table"`
}

// HolidaysConfig configures the public holidays API.
type HolidaysConfig struct {
	URL     string        `koanf:"url" yaml:"url"`
	Country string        `koanf:"country" yaml:"country"`
	Year    int           `koanf:"year" yaml:"year"`
	Timeout time.Duration `koanf:"timeout" yaml:"timeout"`
}

// PipelineConfig holds everything the pipeline steps need.
type PipelineConfig struct {
	DatasetDir string             `koanf:"dataset_dir" yaml:"dataset_dir"`
	ExportDir  string             `koanf:"export_dir" yaml:"export_dir"`
	Sources    []Source           `koanf:"sources" yaml:"sources,omitempty"`
	Holidays   *HolidaysConfig    `koanf:"holidays" yaml:"holidays"`
	Target     *core.TargetConfig `koanf:"target" yaml:"target"`
}

// Mapping returns the file-to-table mapping in configuration order.
func (c *PipelineConfig) Mapping() []Source {
	if len(c.Sources) == 0 {
		return DefaultSources()
	}
	return c.Sources
}

// ValidateTarget checks if the target configuration is valid.
// It uses the adapter registry to determine which adapter types are available.
func ValidateTarget(t *core.TargetConfig) error {
	if t == nil {
		return fmt.Errorf("target is required")
	}
	if t.Type == "" {
		return fmt.Errorf("target type is required")
	}

	// Use adapter registry as single source of truth
	if !adapter.IsRegistered(strings.ToLower(t.Type)) {
		return &adapter.UnknownAdapterError{
			Type:      t.Type,
			Available: adapter.ListAdapters(),
		}
	}
	return nil
}

// ValidateSources checks the mapping for empty entries and duplicate tables.
func ValidateSources(sources []Source) error {
	seen := make(map[string]string, len(sources))
	for i, s := range sources {
		if s.File == "" || s.Table == "" {
			return fmt.Errorf("sources[%d]: file and table are required", i)
		}
		if s.Table == HolidaysTable {
			return fmt.Errorf("sources[%d]: table name %q is reserved", i, s.Table)
		}
		if prev, ok := seen[s.Table]; ok {
			return fmt.Errorf("sources[%d]: table %q already mapped from %s", i, s.Table, prev)
		}
		seen[s.Table] = s.File
	}
	return nil
}
