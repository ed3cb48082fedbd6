package output

// RunEvent is one JSON line of `run --json`.
type RunEvent struct {
	Event     string   `json:"event"`
	Timestamp string   `json:"timestamp"`
	RunID     string   `json:"run_id,omitempty"`
	Steps     []string `json:"steps,omitempty"`
	Step      string   `json:"step,omitempty"`
	Status    string   `json:"status,omitempty"`
	Rows      int64    `json:"rows,omitempty"`
	ElapsedMS int64    `json:"elapsed_ms,omitempty"`
	Error     string   `json:"error,omitempty"`
}

// TableInfo is a warehouse table listed by `tables`.
type TableInfo struct {
	Name    string `json:"name"`
	Rows    int64  `json:"rows"`
	Columns int    `json:"columns"`
}

// RunInfo is a run listed by `runs`.
type RunInfo struct {
	ID          string `json:"id"`
	Environment string `json:"environment"`
	Status      string `json:"status"`
	StartedAt   string `json:"started_at"`
	DurationMS  int64  `json:"duration_ms"`
	Error       string `json:"error,omitempty"`
}

// CheckResult is one check of `doctor`.
type CheckResult struct {
	Name   string `json:"name"`
	Status string `json:"status"` // "pass", "warn", "error"
	Detail string `json:"detail,omitempty"`
	Hint   string `json:"hint,omitempty"`
}
