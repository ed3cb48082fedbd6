package commands

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/olistflow/internal/cli/config"
	clitest "github.com/leapstack-labs/olistflow/internal/cli/testutil"
)

func TestRunInit(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "project")
	r := clitest.NewTestRendererMarkdown()

	require.NoError(t, runInit(r.Renderer, dir, false))
	assert.DirExists(t, filepath.Join(dir, "dataset"))
	assert.Contains(t, r.Output(), "olistflow project initialized!")

	configPath := filepath.Join(dir, "olistflow.yaml")
	content, err := os.ReadFile(configPath)
	require.NoError(t, err)
	assert.Contains(t, string(content), "# olistflow configuration.")
	assert.Contains(t, string(content), "timeout: 20s")
	assert.NotContains(t, string(content), "verbose")

	config.ResetConfig()
	t.Cleanup(config.ResetConfig)
	cfg, err := config.LoadConfig(configPath, nil)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "dataset"), cfg.DatasetDir)
	assert.Len(t, cfg.Sources, 9)
	assert.Equal(t, 20*time.Second, cfg.Holidays.Timeout)
	assert.Equal(t, "sqlite", cfg.Target.Type)
	assert.Equal(t, config.DefaultUIPort, cfg.GetUIConfig().Port)
}

func TestRunInit_Existing(t *testing.T) {
	dir := t.TempDir()
	r := clitest.NewTestRendererMarkdown()
	configPath := filepath.Join(dir, "olistflow.yaml")
	require.NoError(t, os.WriteFile(configPath, []byte("export_dir: mine\n"), 0600))

	err := runInit(r.Renderer, dir, false)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already exists")

	require.NoError(t, runInit(r.Renderer, dir, true))
	content, err := os.ReadFile(configPath)
	require.NoError(t, err)
	assert.NotContains(t, string(content), "mine")
}
