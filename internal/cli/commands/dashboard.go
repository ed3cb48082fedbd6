package commands

import (
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/gorilla/securecookie"
	"github.com/pkg/browser"
	"github.com/spf13/cobra"

	"github.com/leapstack-labs/olistflow/internal/ui"
)

// DashboardOptions holds options for the dashboard command.
type DashboardOptions struct {
	Port      int
	NoBrowser bool
	Watch     bool
}

// NewDashboardCommand creates the dashboard command.
func NewDashboardCommand() *cobra.Command {
	opts := &DashboardOptions{}

	cmd := &cobra.Command{
		Use:     "dashboard",
		Aliases: []string{"ui"},
		Short:   "Start the analytics dashboard",
		Long: `Start a local web server showing the exported query results.

The dashboard reads only the export directory and the run history:
- Summary: yearly revenue, top categories and order status
- Revenue: best and worst categories
- Delivery: real versus estimated delivery times by year
- Geography: revenue concentration by state
- Runs: pipeline run history

With --watch the open pages refresh when "olistflow run" rewrites the exports.`,
		Example: `  # Start on the default port
  olistflow dashboard

  # Start on a custom port without opening a browser
  olistflow dashboard --port 3000 --no-browser`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runDashboard(cmd, opts)
		},
	}

	cmd.Flags().IntVar(&opts.Port, "port", 0, "Port to serve on (default: 8765)")
	cmd.Flags().BoolVar(&opts.NoBrowser, "no-browser", false, "Don't auto-open browser")
	cmd.Flags().BoolVar(&opts.Watch, "watch", true, "Refresh pages when exported results change")

	return cmd
}

func runDashboard(cmd *cobra.Command, opts *DashboardOptions) error {
	cmdCtx, err := openPipeline(cmd)
	if err != nil {
		return err
	}
	defer cmdCtx.Close()

	cfg := cmdCtx.Cfg
	uiCfg := cfg.GetUIConfig()

	// CLI flags override config file
	port := uiCfg.Port
	if opts.Port != 0 {
		port = opts.Port
	}
	autoOpen := uiCfg.AutoOpen && !opts.NoBrowser
	watch := uiCfg.Watch
	if cmd.Flags().Changed("watch") {
		watch = opts.Watch
	}

	if _, err := os.Stat(cfg.ExportDir); os.IsNotExist(err) {
		cmdCtx.Renderer.Warning(fmt.Sprintf("export directory %s does not exist yet; run `olistflow run` to fill it", cfg.ExportDir))
	}

	r := cmdCtx.Renderer
	server := ui.NewServer(ui.Config{
		ExportDir:     cfg.ExportDir,
		Store:         cmdCtx.Engine.Store(),
		Host:          uiCfg.Host,
		Port:          port,
		Watch:         watch,
		SessionSecret: sessionSecret(uiCfg.SessionSecret),
		Logger:        cmdCtx.Logger,
		OnReady: func(url string) {
			r.Printf("Dashboard running on %s\n", r.Styles().ID.Render(url))
			r.Muted("Press Ctrl+C to stop")
			if autoOpen {
				openBrowser(cmdCtx.Logger, url)
			}
		},
	})

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return server.Serve(ctx)
}

// sessionSecret returns the configured secret or a random one. A random
// secret invalidates dashboard cookies on restart.
func sessionSecret(configured string) string {
	if configured != "" {
		return configured
	}
	return string(securecookie.GenerateRandomKey(32))
}

func openBrowser(logger *slog.Logger, url string) {
	browser.Stdout = nil
	browser.Stderr = nil
	if err := browser.OpenURL(url); err != nil {
		logger.Debug("failed to open browser", slog.String("url", url), slog.String("error", err.Error()))
	}
}
