package duckdb

import (
	"fmt"

	"github.com/go-viper/mapstructure/v2"
)

// Params holds DuckDB-specific configuration.
// Parsed from adapter.Config.Options using mapstructure.
type Params struct {
	// Extensions to install and load, comma-separated in options (e.g. "json,icu").
	Extensions []string `mapstructure:"extensions"`

	// Threads sets the worker thread count.
	Threads int `mapstructure:"threads"`

	// MemoryLimit caps memory usage (e.g. "2GB").
	MemoryLimit string `mapstructure:"memory_limit"`
}

// ParseParams decodes adapter options into Params.
// Unknown keys are ignored.
func ParseParams(opts map[string]string) (*Params, error) {
	p := &Params{}
	if len(opts) == 0 {
		return p, nil
	}

	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook:       mapstructure.StringToSliceHookFunc(","),
		WeaklyTypedInput: true,
		Result:           p,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create params decoder: %w", err)
	}
	if err := dec.Decode(opts); err != nil {
		return nil, fmt.Errorf("invalid duckdb options: %w", err)
	}
	return p, nil
}

// setupStatements returns the SQL run after connecting.
func (p *Params) setupStatements() []string {
	var stmts []string
	for _, ext := range p.Extensions {
		if ext == "" {
			continue
		}
		stmts = append(stmts, fmt.Sprintf("INSTALL %s", ext), fmt.Sprintf("LOAD %s", ext))
	}
	if p.Threads > 0 {
		stmts = append(stmts, fmt.Sprintf("SET threads = %d", p.Threads))
	}
	if p.MemoryLimit != "" {
		stmts = append(stmts, fmt.Sprintf("SET memory_limit = '%s'", p.MemoryLimit))
	}
	return stmts
}
