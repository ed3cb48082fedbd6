// Package state records pipeline run history in SQLite.
package state

import (
	"github.com/leapstack-labs/olistflow/pkg/core"
)

// Type aliases so callers of this package need not import pkg/core.
type (
	// Store is an alias for core.Store.
	Store = core.Store

	// RunStatus is an alias for core.RunStatus.
	RunStatus = core.RunStatus

	// Run is an alias for core.Run.
	Run = core.Run

	// StepRunStatus is an alias for core.StepRunStatus.
	StepRunStatus = core.StepRunStatus

	// StepRun is an alias for core.StepRun.
	StepRun = core.StepRun
)

// Re-exported status constants.
const (
	RunStatusRunning   = core.RunStatusRunning
	RunStatusCompleted = core.RunStatusCompleted
	RunStatusFailed    = core.RunStatusFailed
	RunStatusCancelled = core.RunStatusCancelled

	StepRunStatusPending = core.StepRunStatusPending
	StepRunStatusRunning = core.StepRunStatusRunning
	StepRunStatusSuccess = core.StepRunStatusSuccess
	StepRunStatusFailed  = core.StepRunStatusFailed
	StepRunStatusSkipped = core.StepRunStatusSkipped
)

var _ Store = (*SQLiteStore)(nil)
