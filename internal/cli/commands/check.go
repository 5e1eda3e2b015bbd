package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/noodle-lang/noodlec/internal/cli/output"
	"github.com/noodle-lang/noodlec/internal/diag"
)

// CheckResult is the structured output for one checked file.
type CheckResult struct {
	File        string            `json:"file" yaml:"file"`
	Success     bool              `json:"success" yaml:"success"`
	Diagnostics []diag.Diagnostic `json:"diagnostics" yaml:"diagnostics"`
}

// NewCheckCommand creates the check command.
func NewCheckCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check [paths...]",
		Short: "Report diagnostics without writing artifacts",
		Long: `Compile source files and report their diagnostics.

No artifacts are written. The command fails when any file has errors;
warnings alone do not fail it.`,
		Example: `  # Check the current directory
  noodlec check

  # Check one file and print diagnostics as JSON
  noodlec check -o json main.nd`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheck(cmd, args)
		},
	}
	return cmd
}

func runCheck(cmd *cobra.Command, args []string) error {
	c := NewCommandContext(cmd)
	r := c.Renderer

	files, err := collectSources(args, c.Cfg.Watch.Extensions)
	if err != nil {
		return err
	}
	units, err := readUnits(files)
	if err != nil {
		return err
	}

	results, _, err := compileUnits(cmd.Context(), c, units)
	if err != nil {
		return fmt.Errorf("check failed: %w", err)
	}

	var all []diag.Diagnostic
	checks := make([]CheckResult, 0, len(results))
	for _, res := range results {
		all = append(all, res.Diagnostics...)
		checks = append(checks, CheckResult{File: res.Filename, Success: res.Success, Diagnostics: res.Diagnostics})
	}

	errs := diag.Count(all, diag.SeverityError)
	warnings := diag.Count(all, diag.SeverityWarning)

	if r.Mode() == output.ModeText {
		r.Diagnostics(sourcesOf(units), all)
		summary := fmt.Sprintf("%d error(s), %d warning(s) in %d file(s)", errs, warnings, len(results))
		switch {
		case errs > 0:
			r.Warn("%s", summary)
		default:
			r.Success("%s", summary)
		}
	} else if _, err := r.Structured(checks); err != nil {
		return err
	}

	if errs > 0 {
		return fmt.Errorf("%d file(s) have errors", failedCount(results))
	}
	return nil
}
