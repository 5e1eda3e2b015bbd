// Package commands implements the noodlec subcommands.
package commands

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/noodle-lang/noodlec/internal/cache"
	"github.com/noodle-lang/noodlec/internal/cli/config"
	"github.com/noodle-lang/noodlec/internal/cli/output"
	"github.com/noodle-lang/noodlec/internal/compiler"
)

// CommandContext holds common dependencies for CLI commands.
type CommandContext struct {
	Cfg      *config.Config
	Logger   *slog.Logger
	Renderer *output.Renderer
}

// NewCommandContext creates a CommandContext from the config and logger
// stored by the root command.
func NewCommandContext(cmd *cobra.Command) *CommandContext {
	cfg := config.GetConfig(cmd.Context())
	logger := config.GetLogger(cmd.Context())
	r := output.NewRenderer(cmd.OutOrStdout(), cmd.ErrOrStderr(), output.Mode(cfg.Output), cfg.Color)

	return &CommandContext{
		Cfg:      cfg,
		Logger:   logger,
		Renderer: r,
	}
}

// CompileOptions returns the compiler options selected by the config.
func (c *CommandContext) CompileOptions() compiler.Options {
	return compiler.Options{
		Optimize: c.Cfg.Optimize,
		Debug:    c.Cfg.Debug,
		Logger:   c.Logger,
	}
}

// hasExtension reports whether path ends in one of exts.
func hasExtension(path string, exts []string) bool {
	return slices.Contains(exts, filepath.Ext(path))
}

// collectSources expands paths into source files. Directories are walked
// for files with one of exts, skipping hidden directories. Files named
// explicitly are kept whatever their extension. No paths means ".".
func collectSources(paths, exts []string) ([]string, error) {
	if len(paths) == 0 {
		paths = []string{"."}
	}

	var files []string
	seen := make(map[string]bool)
	add := func(path string) {
		path = filepath.Clean(path)
		if !seen[path] {
			seen[path] = true
			files = append(files, path)
		}
	}

	for _, root := range paths {
		info, err := os.Stat(root)
		if err != nil {
			return nil, fmt.Errorf("failed to stat %s: %w", root, err)
		}
		if !info.IsDir() {
			add(root)
			continue
		}

		err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				if path != root && strings.HasPrefix(d.Name(), ".") {
					return filepath.SkipDir
				}
				return nil
			}
			if hasExtension(path, exts) {
				add(path)
			}
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("failed to walk %s: %w", root, err)
		}
	}

	if len(files) == 0 {
		return nil, fmt.Errorf("no source files found (extensions: %s)", strings.Join(exts, ", "))
	}
	return files, nil
}

// readUnits reads every file into a compilation unit.
func readUnits(files []string) ([]compiler.Unit, error) {
	units := make([]compiler.Unit, 0, len(files))
	for _, file := range files {
		data, err := os.ReadFile(file)
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", file, err)
		}
		units = append(units, compiler.Unit{Filename: file, Source: string(data)})
	}
	return units, nil
}

// readSource reads a single source file.
func readSource(file string) (string, error) {
	data, err := os.ReadFile(file)
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", file, err)
	}
	return string(data), nil
}

// openCache opens the cache database named by the config, creating its
// directory and schema as needed.
func openCache(cfg *config.Config, logger *slog.Logger) (*cache.Store, error) {
	dir := filepath.Dir(cfg.CachePath)
	if dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return nil, fmt.Errorf("failed to create cache directory: %w", err)
		}
	}

	store := cache.NewStore(logger)
	if err := store.Open(cfg.CachePath); err != nil {
		return nil, err
	}
	if err := store.InitSchema(); err != nil {
		_ = store.Close()
		return nil, err
	}
	return store, nil
}

// compileUnits compiles units in parallel, through the cache unless it is
// disabled. Results keep unit order; cached[i] reports a cache hit for
// units[i].
func compileUnits(ctx context.Context, c *CommandContext, units []compiler.Unit) (results []*compiler.Result, cached []bool, err error) {
	opts := c.CompileOptions()
	cached = make([]bool, len(units))
	if c.Cfg.NoCache {
		results, err = compiler.CompileAll(ctx, units, opts, c.Cfg.Jobs)
		return results, cached, err
	}

	store, err := openCache(c.Cfg, c.Logger)
	if err != nil {
		return nil, nil, err
	}
	defer store.Close()

	results = make([]*compiler.Result, len(units))

	eg, egctx := errgroup.WithContext(ctx)
	if c.Cfg.Jobs > 0 {
		eg.SetLimit(c.Cfg.Jobs)
	}
	for i, unit := range units {
		eg.Go(func() error {
			if err := egctx.Err(); err != nil {
				return err
			}
			res, hit, err := store.Compile(unit.Source, unit.Filename, opts)
			if err != nil {
				return fmt.Errorf("%s: %w", unit.Filename, err)
			}
			results[i], cached[i] = res, hit
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, nil, err
	}
	return results, cached, nil
}

// sourcesOf maps unit filenames to their text for diagnostic snippets.
func sourcesOf(units []compiler.Unit) map[string]string {
	sources := make(map[string]string, len(units))
	for _, u := range units {
		sources[u.Filename] = u.Source
	}
	return sources
}

// failedCount counts results that carry errors.
func failedCount(results []*compiler.Result) int {
	n := 0
	for _, res := range results {
		if res != nil && res.HasErrors() {
			n++
		}
	}
	return n
}
