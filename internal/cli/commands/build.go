package commands

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/noodle-lang/noodlec/internal/cli/output"
	"github.com/noodle-lang/noodlec/internal/compiler"
	"github.com/noodle-lang/noodlec/internal/diag"
)

// ArtifactExt replaces the source extension to name a compiled artifact.
const ArtifactExt = ".nbc.json"

// FileReport summarizes one compiled file.
type FileReport struct {
	File         string  `json:"file" yaml:"file"`
	Artifact     string  `json:"artifact,omitempty" yaml:"artifact,omitempty"`
	Success      bool    `json:"success" yaml:"success"`
	Cached       bool    `json:"cached" yaml:"cached"`
	Instructions int     `json:"instructions" yaml:"instructions"`
	Constants    int     `json:"constants" yaml:"constants"`
	Errors       int     `json:"errors" yaml:"errors"`
	Warnings     int     `json:"warnings" yaml:"warnings"`
	Seconds      float64 `json:"compilation_time_seconds" yaml:"compilation_time_seconds"`
}

// BuildReport is the structured output of the build command.
type BuildReport struct {
	BuildID   string       `json:"build_id" yaml:"build_id"`
	OutDir    string       `json:"out_dir" yaml:"out_dir"`
	CacheHits int          `json:"cache_hits" yaml:"cache_hits"`
	Files     []FileReport `json:"files" yaml:"files"`
}

// NewBuildCommand creates the build command.
func NewBuildCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "build [paths...]",
		Short: "Compile source files to bytecode artifacts",
		Long: `Compile source files in parallel and write one artifact per file.

Directories are searched for files with the configured extensions.
Each artifact is the JSON compilation result, written to --out-dir
under the source path with its extension replaced by .nbc.json.
Results are served from the compilation cache unless --no-cache is set.
Files with errors produce no artifact and make the command fail.`,
		Example: `  # Build every .nd file under the current directory
  noodlec build

  # Build specific files with optimization
  noodlec build --optimize main.nd lib/util.nd

  # Machine-readable summary
  noodlec build -o json src/`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBuild(cmd, args)
		},
	}
	return cmd
}

func runBuild(cmd *cobra.Command, args []string) error {
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

	buildID := uuid.NewString()
	c.Logger.Debug("build started", "build_id", buildID, "files", len(units))

	results, cached, err := compileUnits(cmd.Context(), c, units)
	if err != nil {
		return fmt.Errorf("build failed: %w", err)
	}

	report := BuildReport{BuildID: buildID, OutDir: c.Cfg.OutDir}
	for i, res := range results {
		fr := newFileReport(res, cached[i])
		if cached[i] {
			report.CacheHits++
		}
		if !res.HasErrors() {
			path, err := writeArtifact(c.Cfg.OutDir, units[i].Filename, res)
			if err != nil {
				return err
			}
			fr.Artifact = path
		}
		report.Files = append(report.Files, fr)
	}

	if r.Mode() == output.ModeText {
		sources := sourcesOf(units)
		for _, res := range results {
			r.Diagnostics(sources, res.Diagnostics)
		}
		renderBuildTable(r, report)
	} else if _, err := r.Structured(report); err != nil {
		return err
	}

	failed := failedCount(results)
	c.Logger.Debug("build finished", "build_id", buildID, "failed", failed, "cache_hits", report.CacheHits)
	if failed > 0 {
		return fmt.Errorf("%d of %d file(s) failed to compile", failed, len(results))
	}
	if r.Mode() == output.ModeText {
		r.Success("Built %d file(s) into %s", len(results), c.Cfg.OutDir)
	}
	return nil
}

func newFileReport(res *compiler.Result, cached bool) FileReport {
	return FileReport{
		File:         res.Filename,
		Success:      res.Success,
		Cached:       cached,
		Instructions: res.Statistics.InstructionCount,
		Constants:    res.Statistics.ConstantCount,
		Errors:       diag.Count(res.Diagnostics, diag.SeverityError),
		Warnings:     diag.Count(res.Diagnostics, diag.SeverityWarning),
		Seconds:      res.CompilationTimeSeconds,
	}
}

// artifactPath maps a source path into outDir. Paths that escape the
// working directory keep only their base name.
func artifactPath(outDir, source string) string {
	rel := filepath.Clean(source)
	if filepath.IsAbs(rel) || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		rel = filepath.Base(rel)
	}
	return filepath.Join(outDir, strings.TrimSuffix(rel, filepath.Ext(rel))+ArtifactExt)
}

func writeArtifact(outDir, source string, res *compiler.Result) (string, error) {
	path := artifactPath(outDir, source)
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return "", fmt.Errorf("failed to create output directory: %w", err)
	}

	data, err := json.MarshalIndent(res, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to encode %s: %w", source, err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return "", fmt.Errorf("failed to write artifact: %w", err)
	}
	return path, nil
}

func renderBuildTable(r *output.Renderer, report BuildReport) {
	rows := make([]table.Row, 0, len(report.Files))
	for _, f := range report.Files {
		status := "ok"
		switch {
		case f.Errors > 0:
			status = "failed"
		case f.Cached:
			status = "cached"
		}
		rows = append(rows, table.Row{f.File, status, f.Instructions, f.Constants, f.Errors, f.Warnings, fmt.Sprintf("%.4fs", f.Seconds)})
	}
	r.Table(table.Row{"File", "Status", "Instructions", "Constants", "Errors", "Warnings", "Time"}, rows)
}
