package commands

import (
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/olistflow/internal/cli/config"
	"github.com/leapstack-labs/olistflow/internal/cli/output"
	"github.com/leapstack-labs/olistflow/internal/pipeline"
)

// CommandContext bundles what a subcommand needs: the resolved config, the
// logger and renderer from the root command, and optionally a pipeline.
type CommandContext struct {
	Cfg      *config.Config
	Logger   *slog.Logger
	Renderer *output.Renderer

	// Engine is nil unless the context came from openPipeline.
	Engine *pipeline.Engine
}

func newCommandContext(cmd *cobra.Command) *CommandContext {
	cfg := config.GetCurrentConfig()
	if cfg == nil {
		// Subcommand executed on its own, as in tests.
		cfg = config.Default()
	}
	return &CommandContext{
		Cfg:      cfg,
		Logger:   config.GetLogger(cmd.Context()),
		Renderer: output.NewRenderer(cmd.OutOrStdout(), cmd.ErrOrStderr(), output.Mode(cfg.OutputFormat)),
	}
}

// openPipeline builds a CommandContext with an engine over the configured
// warehouse and state store. Callers must Close it.
func openPipeline(cmd *cobra.Command) (*CommandContext, error) {
	cc := newCommandContext(cmd)
	eng, err := pipeline.New(pipeline.Config{
		Pipeline:  cc.Cfg.Pipeline(),
		StatePath: cc.Cfg.StatePath,
		Logger:    cc.Logger,
	})
	if err != nil {
		return nil, err
	}
	cc.Engine = eng
	return cc, nil
}

// Close releases the engine, if any.
func (c *CommandContext) Close() {
	if c.Engine == nil {
		return
	}
	if err := c.Engine.Close(); err != nil {
		c.Logger.Warn("failed to close pipeline", slog.String("error", err.Error()))
	}
	c.Engine = nil
}
