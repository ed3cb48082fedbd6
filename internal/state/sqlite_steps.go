package state

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/leapstack-labs/olistflow/pkg/core"
)

type stepRunRow struct {
	ID           string         `db:"id"`
	RunID        string         `db:"run_id"`
	Step         string         `db:"step"`
	Status       string         `db:"status"`
	RowsAffected int64          `db:"rows_affected"`
	StartedAt    time.Time      `db:"started_at"`
	CompletedAt  sql.NullTime   `db:"completed_at"`
	Error        sql.NullString `db:"error"`
	ExecutionMS  int64          `db:"execution_ms"`
}

// RecordStepRun records a new step execution. An empty ID is generated.
func (s *SQLiteStore) RecordStepRun(stepRun *core.StepRun) error {
	if s.db == nil {
		return errNotOpened
	}

	if stepRun.ID == "" {
		stepRun.ID = generateID()
	}
	stepRun.StartedAt = time.Now().UTC()

	_, err := s.db.ExecContext(ctx(),
		`INSERT INTO step_runs (id, run_id, step, status, rows_affected, started_at, error, execution_ms)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		stepRun.ID, stepRun.RunID, stepRun.Step, string(stepRun.Status), stepRun.RowsAffected,
		stepRun.StartedAt, nullString(stepRun.Error), stepRun.ExecutionMS,
	)
	if err != nil {
		return fmt.Errorf("failed to record step run: %w", err)
	}

	return nil
}

// UpdateStepRun sets the final status of a step run and its execution time.
func (s *SQLiteStore) UpdateStepRun(id string, status core.StepRunStatus, rowsAffected int64, errMsg string) error {
	if s.db == nil {
		return errNotOpened
	}

	var startedAt time.Time
	err := s.db.GetContext(ctx(), &startedAt, `SELECT started_at FROM step_runs WHERE id = ?`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("step run not found: %s", id)
	}
	if err != nil {
		return fmt.Errorf("failed to get step run start time: %w", err)
	}

	now := time.Now().UTC()
	_, err = s.db.ExecContext(ctx(),
		`UPDATE step_runs SET status = ?, rows_affected = ?, completed_at = ?, error = ?, execution_ms = ? WHERE id = ?`,
		string(status), rowsAffected, now, nullString(errMsg), now.Sub(startedAt).Milliseconds(), id,
	)
	if err != nil {
		return fmt.Errorf("failed to update step run: %w", err)
	}

	return nil
}

// GetStepRunsForRun retrieves the step runs of a run in start order.
func (s *SQLiteStore) GetStepRunsForRun(runID string) ([]*core.StepRun, error) {
	if s.db == nil {
		return nil, errNotOpened
	}

	var rows []stepRunRow
	if err := s.db.SelectContext(ctx(), &rows,
		`SELECT id, run_id, step, status, rows_affected, started_at, completed_at, error, execution_ms
		 FROM step_runs WHERE run_id = ? ORDER BY started_at, rowid`, runID); err != nil {
		return nil, fmt.Errorf("failed to get step runs: %w", err)
	}

	out := make([]*core.StepRun, len(rows))
	for i, row := range rows {
		sr := &core.StepRun{
			ID:           row.ID,
			RunID:        row.RunID,
			Step:         row.Step,
			Status:       core.StepRunStatus(row.Status),
			RowsAffected: row.RowsAffected,
			StartedAt:    row.StartedAt,
			Error:        row.Error.String,
			ExecutionMS:  row.ExecutionMS,
		}
		if row.CompletedAt.Valid {
			t := row.CompletedAt.Time
			sr.CompletedAt = &t
		}
		out[i] = sr
	}
	return out, nil
}
