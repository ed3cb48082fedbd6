package commands

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/olistflow/internal/cli/config"
	"github.com/leapstack-labs/olistflow/internal/cli/output"
	"github.com/leapstack-labs/olistflow/internal/export"
	"github.com/leapstack-labs/olistflow/pkg/adapter"
)

// Check statuses.
const (
	checkPass  = "pass"
	checkWarn  = "warn"
	checkError = "error"
)

// DoctorOutput is the JSON output for the doctor command.
type DoctorOutput struct {
	ConfigFile string               `json:"config_file,omitempty"`
	Checks     []output.CheckResult `json:"checks"`
	Errors     int                  `json:"errors"`
	Warnings   int                  `json:"warnings"`
}

// NewDoctorCommand creates the doctor command.
func NewDoctorCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "doctor",
		Short: "Check the environment before a run",
		Long: `Check that a run can succeed: the warehouse adapter is available, the
dataset files are present and the database and export directories are
writable. Every failed check prints a hint.

Exits non-zero when any check fails.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmdCtx := newCommandContext(cmd)
			out := buildDoctorOutput(cmdCtx.Cfg, config.GetConfigFileUsed())

			r := cmdCtx.Renderer
			switch r.EffectiveMode() {
			case output.ModeJSON:
				if err := r.JSON(out); err != nil {
					return err
				}
			case output.ModeMarkdown:
				renderDoctorMarkdown(r, out)
			default:
				renderDoctorText(r, out)
			}

			if out.Errors > 0 {
				return fmt.Errorf("%d of %d checks failed", out.Errors, len(out.Checks))
			}
			return nil
		},
	}
}

func buildDoctorOutput(cfg *config.Config, configFile string) *DoctorOutput {
	out := &DoctorOutput{ConfigFile: configFile}

	if configFile == "" {
		out.Checks = append(out.Checks, output.CheckResult{
			Name:   "config",
			Status: checkWarn,
			Detail: "no olistflow.yaml found, using defaults",
			Hint:   "run `olistflow init` to write one",
		})
	} else {
		out.Checks = append(out.Checks, output.CheckResult{Name: "config", Status: checkPass, Detail: configFile})
	}

	out.Checks = append(out.Checks,
		checkAdapter(cfg),
		checkDataset(cfg),
		checkWritable("database dir", filepath.Dir(cfg.Target.Database), cfg.Target.Database == ":memory:"),
		checkWritable("state dir", filepath.Dir(cfg.StatePath), false),
		checkWritable("export dir", cfg.ExportDir, false),
		checkExports(cfg.ExportDir),
	)

	for _, c := range out.Checks {
		switch c.Status {
		case checkError:
			out.Errors++
		case checkWarn:
			out.Warnings++
		}
	}
	return out
}

func checkAdapter(cfg *config.Config) output.CheckResult {
	typ := strings.ToLower(cfg.Target.Type)
	if !adapter.IsRegistered(typ) {
		return output.CheckResult{
			Name:   "adapter",
			Status: checkError,
			Detail: fmt.Sprintf("unknown adapter %q", cfg.Target.Type),
			Hint:   fmt.Sprintf("set target.type to one of %v", adapter.ListAdapters()),
		}
	}
	return output.CheckResult{Name: "adapter", Status: checkPass, Detail: typ + " " + cfg.Target.Database}
}

func checkDataset(cfg *config.Config) output.CheckResult {
	res := output.CheckResult{Name: "dataset"}
	if _, err := os.Stat(cfg.DatasetDir); err != nil {
		res.Status = checkError
		res.Detail = fmt.Sprintf("dataset directory %s not found", cfg.DatasetDir)
		res.Hint = "download the Olist CSV files into it or set dataset_dir"
		return res
	}

	mapping := cfg.Pipeline().Mapping()
	var missing []string
	for _, s := range mapping {
		if _, err := os.Stat(filepath.Join(cfg.DatasetDir, s.File)); err != nil {
			missing = append(missing, s.File)
		}
	}
	if len(missing) > 0 {
		res.Status = checkError
		res.Detail = fmt.Sprintf("%d of %d files missing: %s", len(missing), len(mapping), strings.Join(missing, ", "))
		res.Hint = "check the file names under sources in olistflow.yaml"
		return res
	}

	res.Status = checkPass
	res.Detail = fmt.Sprintf("%d files in %s", len(mapping), cfg.DatasetDir)
	return res
}

// checkWritable verifies that dir, or its nearest existing parent, accepts
// new files.
func checkWritable(name, dir string, skip bool) output.CheckResult {
	if skip {
		return output.CheckResult{Name: name, Status: checkPass, Detail: "in-memory"}
	}

	existing := dir
	for {
		if _, err := os.Stat(existing); err == nil {
			break
		}
		parent := filepath.Dir(existing)
		if parent == existing {
			break
		}
		existing = parent
	}

	f, err := os.CreateTemp(existing, ".olistflow-doctor-*")
	if err != nil {
		return output.CheckResult{
			Name:   name,
			Status: checkError,
			Detail: fmt.Sprintf("%s is not writable", dir),
			Hint:   "fix the directory permissions or point the setting elsewhere",
		}
	}
	_ = f.Close()
	_ = os.Remove(f.Name())
	return output.CheckResult{Name: name, Status: checkPass, Detail: dir}
}

func checkExports(dir string) output.CheckResult {
	res := output.CheckResult{Name: "exports"}
	entries, err := os.ReadDir(dir)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		res.Status = checkError
		res.Detail = err.Error()
		return res
	}

	n := 0
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(e.Name(), export.Extension) {
			n++
		}
	}
	if n == 0 {
		res.Status = checkWarn
		res.Detail = "no exported results yet"
		res.Hint = "run `olistflow run` before opening the dashboard"
		return res
	}
	res.Status = checkPass
	res.Detail = fmt.Sprintf("%d result files", n)
	return res
}

func renderDoctorText(r *output.Renderer, out *DoctorOutput) {
	styles := r.Styles()
	r.Println("")
	r.Header(1, "olistflow doctor")
	r.Println("")

	for _, c := range out.Checks {
		r.StatusLine(c.Name, c.Status, c.Detail)
		if c.Hint != "" && c.Status != checkPass {
			r.Println(styles.Muted.Render("    Hint: " + c.Hint))
		}
	}
	r.Println("")

	summary := fmt.Sprintf("%d checks, %d errors, %d warnings", len(out.Checks), out.Errors, out.Warnings)
	switch {
	case out.Errors > 0:
		r.Println(styles.Error.Render(summary))
	case out.Warnings > 0:
		r.Println(styles.Warning.Render(summary))
	default:
		r.Println(styles.Success.Render(summary))
	}
}

func renderDoctorMarkdown(r *output.Renderer, out *DoctorOutput) {
	r.Header(1, "olistflow doctor")

	rows := make([][]string, len(out.Checks))
	for i, c := range out.Checks {
		rows[i] = []string{c.Name, c.Status, c.Detail, c.Hint}
	}
	r.Table([]string{"Check", "Status", "Detail", "Hint"}, rows)
	r.Println("")
	r.Printf("**%d errors, %d warnings**\n", out.Errors, out.Warnings)
}
