package commands

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/olistflow/internal/cli/config"
	"github.com/leapstack-labs/olistflow/internal/cli/output"
	clitest "github.com/leapstack-labs/olistflow/internal/cli/testutil"
	"github.com/leapstack-labs/olistflow/internal/pipeline"
	"github.com/leapstack-labs/olistflow/internal/testutil"
	"github.com/leapstack-labs/olistflow/internal/transform"
)

// setupProject writes a project and loads its configuration the way the
// root command does.
func setupProject(t *testing.T, extra string) *clitest.Project {
	t.Helper()
	p := clitest.SetupTestProject(t, extra)
	loadProject(t, p)
	return p
}

func loadProject(t *testing.T, p *clitest.Project) *config.Config {
	t.Helper()
	config.ResetConfig()
	t.Cleanup(config.ResetConfig)
	cfg, err := config.LoadConfig(p.ConfigPath, nil)
	require.NoError(t, err)
	return cfg
}

func execute(t *testing.T, cmd *cobra.Command, args ...string) (string, error) {
	t.Helper()
	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return buf.String(), err
}

func TestRunCommand(t *testing.T) {
	p := setupProject(t, "output: text\n")

	out, err := execute(t, NewRunCommand())
	require.NoError(t, err)

	for _, step := range pipeline.StepNames() {
		assert.Contains(t, out, "✓ "+step)
	}
	assert.Contains(t, out, "completed in")
	assert.Equal(t, int64(1), p.Holidays.Requests.Load())

	for _, name := range transform.Names() {
		assert.FileExists(t, filepath.Join(p.ExportDir, name+".json"))
	}
}

func TestRunCommand_JSON(t *testing.T) {
	setupProject(t, "")

	out, err := execute(t, NewRunCommand(), "--json")
	require.NoError(t, err)

	var events []output.RunEvent
	sc := bufio.NewScanner(strings.NewReader(out))
	for sc.Scan() {
		var ev output.RunEvent
		require.NoError(t, json.Unmarshal(sc.Bytes(), &ev), sc.Text())
		events = append(events, ev)
	}

	require.Len(t, events, 5)
	assert.Equal(t, "run_start", events[0].Event)
	assert.Equal(t, pipeline.StepNames(), events[0].Steps)
	assert.Equal(t, "step_complete", events[1].Event)
	assert.Equal(t, "extract", events[1].Step)
	assert.Equal(t, "success", events[1].Status)
	assert.Positive(t, events[1].Rows)
	assert.Equal(t, "run_complete", events[4].Event)
	assert.Equal(t, "completed", events[4].Status)
	assert.NotEmpty(t, events[4].RunID)
}

func TestRunCommand_FromTransformWithoutExtract(t *testing.T) {
	setupProject(t, "output: text\n")

	out, err := execute(t, NewRunCommand(), "--from", "transform")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed")
	assert.Contains(t, out, "✗ transform")
	assert.Contains(t, out, "- load")
	assert.NotContains(t, out, "extract")
}

func TestRunCommand_StepAndFromExclusive(t *testing.T) {
	setupProject(t, "")

	_, err := execute(t, NewRunCommand(), "--step", "load", "--from", "extract")
	require.Error(t, err)
}

func TestRunCommand_UnknownStep(t *testing.T) {
	setupProject(t, "")

	_, err := execute(t, NewRunCommand(), "--step", "publish")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown step")
}

func TestRunCommand_MissingDataset(t *testing.T) {
	p := clitest.SetupTestProject(t, "")
	t.Setenv("OLISTFLOW_DATASET_DIR", filepath.Join(p.Dir, "missing"))
	loadProject(t, p)

	_, err := execute(t, NewRunCommand())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "dataset directory does not exist")
	assert.Equal(t, int64(0), p.Holidays.Requests.Load())
}

func TestRunCommand_HolidayFailure(t *testing.T) {
	p := clitest.SetupTestProject(t, "output: text\n")
	broken := testutil.NewHolidayServer(t, http.StatusInternalServerError, "boom")
	t.Setenv("OLISTFLOW_HOLIDAYS__URL", broken.URL)
	loadProject(t, p)

	out, err := execute(t, NewRunCommand())
	require.Error(t, err)
	assert.Contains(t, out, "✗ extract")
	assert.Contains(t, out, "- transform")
	assert.NoDirExists(t, p.ExportDir)
}

func TestStepCommand(t *testing.T) {
	setupProject(t, "output: text\n")

	out, err := execute(t, NewStepCommand("extract", pipeline.StepExtract, "extract"))
	require.NoError(t, err)
	assert.Contains(t, out, "✓ extract")
	assert.NotContains(t, out, "transform")

	out, err = execute(t, NewStepCommand("transform", pipeline.StepTransform, "transform"))
	require.NoError(t, err)
	assert.Contains(t, out, "✓ transform")
}

func TestTablesCommand(t *testing.T) {
	setupProject(t, "output: json\n")
	_, err := execute(t, NewRunCommand())
	require.NoError(t, err)

	out, err := execute(t, NewTablesCommand(), "--prefix", "qry_")
	require.NoError(t, err)

	var tables []output.TableInfo
	require.NoError(t, json.Unmarshal([]byte(out), &tables))
	require.Len(t, tables, len(transform.Names()))
	for _, tbl := range tables {
		assert.True(t, strings.HasPrefix(tbl.Name, "qry_"), tbl.Name)
		assert.Positive(t, tbl.Columns)
	}

	out, err = execute(t, NewTablesCommand())
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal([]byte(out), &tables))
	names := make([]string, len(tables))
	for i, tbl := range tables {
		names[i] = tbl.Name
		if tbl.Name == "olist_orders" {
			assert.Equal(t, int64(3), tbl.Rows)
		}
	}
	assert.Contains(t, names, "public_holidays")
}

func TestTablesCommand_Empty(t *testing.T) {
	setupProject(t, "output: markdown\n")

	out, err := execute(t, NewTablesCommand())
	require.NoError(t, err)
	assert.Contains(t, out, "No tables found")
}

func TestQueryCommand(t *testing.T) {
	setupProject(t, "output: markdown\n")
	_, err := execute(t, NewStepCommand("extract", pipeline.StepExtract, "extract"))
	require.NoError(t, err)

	sqlStr := "SELECT order_id FROM olist_orders ORDER BY order_id"

	tests := []struct {
		name string
		args []string
		want string
	}{
		{"csv", []string{sqlStr, "--format", "csv"}, "order_id\no1\no2\no3\n"},
		{"json", []string{sqlStr, "--format", "json"}, `[{"order_id":"o1"},{"order_id":"o2"},{"order_id":"o3"}]` + "\n"},
		{"markdown by default when piped", []string{sqlStr}, "| order_id |"},
		{"table", []string{sqlStr, "--format", "table"}, "(3 rows)"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := execute(t, NewQueryCommand(), tt.args...)
			require.NoError(t, err)
			assert.Contains(t, out, tt.want)
		})
	}
}

func TestQueryCommand_Input(t *testing.T) {
	p := setupProject(t, "")
	_, err := execute(t, NewStepCommand("extract", pipeline.StepExtract, "extract"))
	require.NoError(t, err)

	sqlFile := filepath.Join(p.Dir, "count.sql")
	require.NoError(t, os.WriteFile(sqlFile, []byte("SELECT COUNT(*) AS n FROM olist_customers\n"), 0600))

	out, err := execute(t, NewQueryCommand(), "--input", sqlFile, "--format", "csv")
	require.NoError(t, err)
	assert.Equal(t, "n\n2\n", out)
}

func TestQueryCommand_Errors(t *testing.T) {
	setupProject(t, "")

	tests := []struct {
		name   string
		args   []string
		errMsg string
	}{
		{"no sql", nil, "no SQL given"},
		{"sql and input", []string{"SELECT 1", "--input", "x.sql"}, "not both"},
		{"missing input", []string{"--input", "/nonexistent/x.sql"}, "failed to read"},
		{"bad format", []string{"SELECT 1", "--format", "xml"}, "unknown format"},
		{"bad sql", []string{"SELECT * FROM no_such_table"}, "failed to execute query"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := execute(t, NewQueryCommand(), tt.args...)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}

func TestRunsCommand(t *testing.T) {
	setupProject(t, "output: json\n")

	out, err := execute(t, NewRunsCommand())
	require.NoError(t, err)
	assert.Equal(t, "[]\n", out)

	_, err = execute(t, NewRunCommand())
	require.NoError(t, err)
	_, err = execute(t, NewRunCommand(), "--step", "transform")
	require.NoError(t, err)

	out, err = execute(t, NewRunsCommand(), "--limit", "1")
	require.NoError(t, err)

	var runs []output.RunInfo
	require.NoError(t, json.Unmarshal([]byte(out), &runs))
	require.Len(t, runs, 1)
	assert.Equal(t, "completed", runs[0].Status)
	assert.Equal(t, config.DefaultEnv, runs[0].Environment)
}

func TestRunsCommand_Empty(t *testing.T) {
	setupProject(t, "output: text\n")

	out, err := execute(t, NewRunsCommand())
	require.NoError(t, err)
	assert.Contains(t, out, "No runs recorded yet.")
}

func TestCommandFlags(t *testing.T) {
	tests := []struct {
		cmd   *cobra.Command
		use   string
		flags []string
	}{
		{NewRunCommand(), "run", []string{"step", "from", "json"}},
		{NewTablesCommand(), "tables", []string{"prefix"}},
		{NewQueryCommand(), "query [SQL]", []string{"format", "input"}},
		{NewRunsCommand(), "runs", []string{"limit"}},
		{NewDashboardCommand(), "dashboard", []string{"port", "no-browser", "watch"}},
		{NewInitCommand(), "init [directory]", []string{"force"}},
		{NewDoctorCommand(), "doctor", nil},
	}

	for _, tt := range tests {
		t.Run(tt.use, func(t *testing.T) {
			assert.Equal(t, tt.use, tt.cmd.Use)
			assert.NotEmpty(t, tt.cmd.Short, "Short should not be empty")
			for _, flag := range tt.flags {
				assert.NotNil(t, tt.cmd.Flags().Lookup(flag), "flag %q should exist", flag)
			}
		})
	}
}
