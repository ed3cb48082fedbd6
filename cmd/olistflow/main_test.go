// Package main provides end-to-end tests for the olistflow CLI.
package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/olistflow/internal/cli"
	"github.com/leapstack-labs/olistflow/internal/cli/config"
	"github.com/leapstack-labs/olistflow/internal/cli/output"
	clitest "github.com/leapstack-labs/olistflow/internal/cli/testutil"
)

func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	config.ResetConfig()
	t.Cleanup(config.ResetConfig)

	cmd := cli.NewRootCmd()
	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return buf.String(), err
}

func TestVersionCommand(t *testing.T) {
	out, err := runCLI(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "olistflow v"+cli.Version)
}

func TestHelp(t *testing.T) {
	out, err := runCLI(t, "--help")
	require.NoError(t, err)
	for _, sub := range []string{"run", "extract", "transform", "export", "tables", "query", "runs", "dashboard", "doctor", "init", "completion"} {
		assert.Contains(t, out, sub)
	}
}

func TestCompletion(t *testing.T) {
	out, err := runCLI(t, "completion", "bash")
	require.NoError(t, err)
	assert.Contains(t, out, "olistflow")

	_, err = runCLI(t, "completion", "tcsh")
	assert.Error(t, err)
}

func TestUnknownCommand(t *testing.T) {
	_, err := runCLI(t, "publish")
	assert.Error(t, err)
}

func TestRunEndToEnd(t *testing.T) {
	p := clitest.SetupTestProject(t, "")

	_, err := runCLI(t, "--config", p.ConfigPath, "run", "--output", "json")
	require.NoError(t, err)

	for _, name := range []string{"revenue_by_month_year.json", "revenue_per_state.json", "orders_per_day_and_holidays.json"} {
		assert.FileExists(t, filepath.Join(p.ExportDir, name))
	}
	assert.FileExists(t, filepath.Join(p.Dir, "olist.db"))
	assert.FileExists(t, filepath.Join(p.Dir, ".olistflow", "state.db"))

	out, err := runCLI(t, "--config", p.ConfigPath, "--output", "json", "runs")
	require.NoError(t, err)
	var runs []output.RunInfo
	require.NoError(t, json.Unmarshal([]byte(out), &runs))
	require.Len(t, runs, 1)
	assert.Equal(t, "completed", runs[0].Status)
}

func TestRunEndToEnd_FlagOverrides(t *testing.T) {
	p := clitest.SetupTestProject(t, "")
	exportDir := filepath.Join(t.TempDir(), "elsewhere")

	_, err := runCLI(t, "--config", p.ConfigPath, "--export-dir", exportDir, "--env", "ci", "--output", "json", "run")
	require.NoError(t, err)
	assert.FileExists(t, filepath.Join(exportDir, "revenue_per_state.json"))
	assert.NoDirExists(t, p.ExportDir)

	out, err := runCLI(t, "--config", p.ConfigPath, "-o", "json", "runs")
	require.NoError(t, err)
	var runs []output.RunInfo
	require.NoError(t, json.Unmarshal([]byte(out), &runs))
	require.Len(t, runs, 1)
	assert.Equal(t, "ci", runs[0].Environment)
}

func TestInvalidConfig(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "olistflow.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("target:\n  type: oracle\n"), 0600))

	_, err := runCLI(t, "--config", cfgPath, "tables")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown adapter type")
}

func TestInitThenDoctor(t *testing.T) {
	dir := t.TempDir()

	_, err := runCLI(t, "init", dir)
	require.NoError(t, err)
	require.FileExists(t, filepath.Join(dir, "olistflow.yaml"))

	// The dataset directory is empty, so the dataset check fails.
	out, err := runCLI(t, "--config", filepath.Join(dir, "olistflow.yaml"), "-o", "json", "doctor")
	require.Error(t, err)
	assert.Contains(t, out, `"name": "dataset"`)
}
