package runs

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/a-h/templ"
	"github.com/go-chi/chi/v5"
	"github.com/starfederation/datastar-go/datastar"

	"github.com/leapstack-labs/olistflow/internal/ui/features/common"
	"github.com/leapstack-labs/olistflow/internal/ui/notifier"
	"github.com/leapstack-labs/olistflow/pkg/core"
)

const defaultLimit = 50

// Handlers provides HTTP handlers for the runs history feature.
type Handlers struct {
	store    core.Store
	notifier *notifier.Notifier
}

// NewHandlers creates a new Handlers instance.
func NewHandlers(store core.Store, notify *notifier.Notifier) *Handlers {
	return &Handlers{store: store, notifier: notify}
}

// RunsPage renders the run history. ?limit= caps the number of runs.
func (h *Handlers) RunsPage(w http.ResponseWriter, r *http.Request) {
	limit := defaultLimit
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		if parsed, err := strconv.Atoi(limitStr); err == nil && parsed > 0 {
			limit = parsed
		}
	}
	common.Render(w, r, common.Page("Run History", "/runs", "/runs/updates", h.runsView(limit)))
}

// RunsPageUpdates pushes a refreshed run list whenever the notifier fires.
func (h *Handlers) RunsPageUpdates(w http.ResponseWriter, r *http.Request) {
	sse := datastar.NewSSE(w, r)

	updates := h.notifier.Subscribe()
	defer h.notifier.Unsubscribe(updates)

	ctx := r.Context()
	for {
		select {
		case <-ctx.Done():
			return
		case <-updates:
			if err := sse.PatchElementTempl(common.Content(h.runsView(defaultLimit))); err != nil {
				_ = sse.ConsoleError(err)
			}
		}
	}
}

// RunDetailPage renders one run with its step executions.
func (h *Handlers) RunDetailPage(w http.ResponseWriter, r *http.Request) {
	runID := chi.URLParam(r, "id")

	run, err := h.store.GetRun(runID)
	if err != nil {
		common.RenderStatus(w, r, http.StatusNotFound, common.Page("Run not found", "/runs", "", common.Alert("warning", fmt.Sprintf("Run %s not found.", runID))))
		return
	}
	steps, err := h.store.GetStepRunsForRun(runID)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	common.Render(w, r, common.Page("Run "+shortID(run.ID), "/runs", "", runDetail(run, steps)))
}

func (h *Handlers) runsView(limit int) templ.Component {
	runs, err := h.store.ListRuns(limit)
	if err != nil {
		return common.Alert("warning", fmt.Errorf("failed to list runs: %w", err).Error())
	}
	if len(runs) == 0 {
		return common.Alert("info", "No runs recorded yet.")
	}

	rows := make([][]string, len(runs))
	for i, run := range runs {
		rows[i] = []string{
			shortID(run.ID),
			run.Environment,
			string(run.Status),
			formatTimeAgo(run.StartedAt),
			formatRunDuration(run.StartedAt, run.CompletedAt),
			run.Error,
		}
	}
	return common.Group(
		common.Table([]string{"Run", "Environment", "Status", "Started", "Duration", "Error"}, rows),
		runLinks(runs),
	)
}

// runLinks lists links to the run detail pages.
func runLinks(runs []*core.Run) templ.Component {
	var b strings.Builder
	b.WriteString(`<ul class="run-links">`)
	for _, run := range runs {
		b.WriteString(`<li><a href="/runs/`)
		b.WriteString(templ.EscapeString(run.ID))
		b.WriteString(`">`)
		b.WriteString(templ.EscapeString(shortID(run.ID)))
		b.WriteString(`</a></li>`)
	}
	b.WriteString(`</ul>`)
	return templ.Raw(b.String())
}

func runDetail(run *core.Run, steps []*core.StepRun) templ.Component {
	metrics := []common.Metric{
		{Label: "Status", Value: string(run.Status)},
		{Label: "Environment", Value: run.Environment},
		{Label: "Started", Value: run.StartedAt.Local().Format(time.DateTime)},
		{Label: "Duration", Value: formatRunDuration(run.StartedAt, run.CompletedAt)},
	}

	rows := make([][]string, len(steps))
	for i, s := range steps {
		rows[i] = []string{
			s.Step,
			string(s.Status),
			common.Count(s.RowsAffected),
			formatStepDuration(s.ExecutionMS),
			s.Error,
		}
	}

	content := []templ.Component{common.Metrics(metrics...)}
	if run.Error != "" {
		content = append(content, common.Alert("warning", run.Error))
	}
	content = append(content, common.Section("Steps",
		common.Table([]string{"Step", "Status", "Rows", "Time", "Error"}, rows)))
	return common.Group(content...)
}

func shortID(id string) string {
	if i := strings.IndexByte(id, '-'); i > 0 {
		return id[:i]
	}
	return id
}

// formatTimeAgo formats a time as a human-readable relative time string.
func formatTimeAgo(t time.Time) string {
	diff := time.Since(t)

	if diff < time.Minute {
		return "just now"
	}
	if diff < time.Hour {
		mins := int(diff.Minutes())
		if mins == 1 {
			return "1 minute ago"
		}
		return fmt.Sprintf("%d minutes ago", mins)
	}
	if diff < 24*time.Hour {
		hours := int(diff.Hours())
		if hours == 1 {
			return "1 hour ago"
		}
		return fmt.Sprintf("%d hours ago", hours)
	}
	return t.Local().Format("Jan 2, 15:04")
}

// formatRunDuration formats the duration between start and end times.
func formatRunDuration(start time.Time, end *time.Time) string {
	var d time.Duration
	if end != nil {
		d = end.Sub(start)
	} else {
		d = time.Since(start)
	}
	return formatDuration(d)
}

func formatStepDuration(ms int64) string {
	return formatDuration(time.Duration(ms) * time.Millisecond)
}

func formatDuration(d time.Duration) string {
	if d < time.Second {
		return fmt.Sprintf("%dms", d.Milliseconds())
	}
	if d < time.Minute {
		return fmt.Sprintf("%.1fs", d.Seconds())
	}
	return d.Round(time.Second).String()
}
