package core

// TargetConfig holds warehouse target configuration.
type TargetConfig struct {
	Type string `koanf:"type" yaml:"type"` // sqlite, duckdb

	// Database is the warehouse file path (":memory:" for an in-memory database).
	Database string `koanf:"database" yaml:"database"`

	// Additional driver-specific options
	Options map[string]string `koanf:"options" yaml:"options,omitempty"`
}

// AdapterConfig converts the target into the adapter connection config.
func (t *TargetConfig) AdapterConfig() AdapterConfig {
	return AdapterConfig{
		Type:    t.Type,
		Path:    t.Database,
		Options: t.Options,
	}
}
