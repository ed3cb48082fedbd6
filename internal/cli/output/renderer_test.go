package output

import (
	"bytes"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRenderer(tty bool, mode Mode) (*Renderer, *bytes.Buffer, *bytes.Buffer) {
	out, errOut := &bytes.Buffer{}, &bytes.Buffer{}
	return NewRendererWithTTY(out, errOut, tty, mode), out, errOut
}

func TestRenderer_EffectiveMode(t *testing.T) {
	tests := []struct {
		name string
		tty  bool
		mode Mode
		want Mode
	}{
		{"auto on terminal", true, ModeAuto, ModeText},
		{"auto piped", false, ModeAuto, ModeMarkdown},
		{"explicit json", true, ModeJSON, ModeJSON},
		{"explicit text piped", false, ModeText, ModeText},
		{"unknown falls back to auto", false, Mode("yaml"), ModeMarkdown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, _, _ := newTestRenderer(tt.tty, tt.mode)
			assert.Equal(t, tt.want, r.EffectiveMode())
		})
	}
}

func TestRenderer_Header(t *testing.T) {
	r, out, _ := newTestRenderer(false, ModeMarkdown)
	r.Header(1, "Tables")
	r.Header(2, "Steps")
	assert.Equal(t, "# Tables\n\n## Steps\n\n", out.String())

	r, out, _ = newTestRenderer(false, ModeText)
	r.Header(1, "Tables")
	assert.Equal(t, "Tables\n", out.String())
}

func TestRenderer_StatusLine(t *testing.T) {
	r, out, _ := newTestRenderer(false, ModeText)
	r.StatusLine("extract", "success", "1,234 rows")
	r.StatusLine("transform", "failed", "")
	r.StatusLine("load", "skipped", "")

	assert.Equal(t, "✓ extract  1,234 rows\n✗ transform\n- load\n", out.String())
}

func TestRenderer_WarningGoesToErrOut(t *testing.T) {
	r, out, errOut := newTestRenderer(false, ModeText)
	r.Warning("dataset dir missing")
	assert.Empty(t, out.String())
	assert.Equal(t, "! dataset dir missing\n", errOut.String())
}

func TestRenderer_JSON(t *testing.T) {
	r, out, _ := newTestRenderer(false, ModeJSON)
	require.NoError(t, r.JSONLine(RunEvent{Event: "run_start", RunID: "abc", Steps: []string{"extract"}}))

	var ev map[string]any
	require.NoError(t, json.Unmarshal(out.Bytes(), &ev))
	assert.Equal(t, "run_start", ev["event"])
	assert.NotContains(t, ev, "rows")
}

func TestRenderer_Table(t *testing.T) {
	rows := [][]string{{"olist_orders", "99,441"}}

	t.Run("markdown", func(t *testing.T) {
		r, out, _ := newTestRenderer(false, ModeMarkdown)
		r.Table([]string{"Table", "Rows"}, rows)
		assert.Contains(t, out.String(), "| Table | Rows |")
		assert.Contains(t, out.String(), "| olist_orders | 99,441 |")
	})

	t.Run("text", func(t *testing.T) {
		r, out, _ := newTestRenderer(true, ModeText)
		r.Table([]string{"Table", "Rows"}, rows)
		assert.Contains(t, out.String(), "┌")
		assert.Contains(t, out.String(), "olist_orders")
		assert.Contains(t, out.String(), "│ Table ")
		assert.NotContains(t, out.String(), "TABLE")
	})
}

func TestFormatters(t *testing.T) {
	assert.Equal(t, "1,234,567", FormatCount(1234567))
	assert.Equal(t, "250ms", FormatDuration(250*time.Millisecond))
	assert.Equal(t, "1.5s", FormatDuration(1500*time.Millisecond))
	assert.Equal(t, "2m5s", FormatDuration(125*time.Second))

	assert.Equal(t, "NULL", FormatValue(nil))
	assert.Equal(t, "1,234.50", FormatValue(1234.5))
	assert.Equal(t, "42", FormatValue(int64(42)))
	assert.Equal(t, "2017-01-01 10:00:00", FormatValue(time.Date(2017, 1, 1, 10, 0, 0, 0, time.UTC)))
}

func TestRenderer_NoColor(t *testing.T) {
	t.Setenv("NO_COLOR", "1")

	r, out, _ := newTestRenderer(true, ModeText)
	r.Success("done")
	assert.Equal(t, SymbolSuccess+" done\n", out.String())
	assert.NotContains(t, out.String(), "\x1b[")
}
