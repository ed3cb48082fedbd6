// Package core defines the shared language of the olistflow pipeline.
//
// This package contains:
//   - Domain entities (Table, Column, Run, StepRun)
//   - Service interfaces (Adapter, Store)
//   - Configuration types (TargetConfig, AdapterConfig, DialectConfig)
//
// The Golden Rule: pkg/core imports ONLY stdlib.
// All other packages depend on core, not the reverse.
package core
