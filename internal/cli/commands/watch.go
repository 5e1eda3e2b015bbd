package commands

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/noodle-lang/noodlec/internal/cli/config"
	"github.com/noodle-lang/noodlec/internal/compiler"
)

// NewWatchCommand creates the watch command.
func NewWatchCommand() *cobra.Command {
	var emit bool
	cmd := &cobra.Command{
		Use:   "watch [dir]",
		Short: "Recompile source files when they change",
		Long: `Watch a directory tree and recompile changed source files.

Every matching file is compiled once at startup. Afterwards changes are
collected until none arrive for the debounce interval and the changed
files are recompiled together. Hidden directories are not watched.
Press Ctrl-C to stop.`,
		Example: `  # Watch the current directory
  noodlec watch

  # Watch src/ and write artifacts like build does
  noodlec watch --emit --debounce 500ms src`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			root := "."
			if len(args) == 1 {
				root = args[0]
			}
			return runWatch(cmd, root, emit)
		},
	}

	cmd.Flags().BoolVar(&emit, "emit", false, "Write artifacts to --out-dir after each successful compile")
	cmd.Flags().Duration("debounce", config.DefaultDebounce, "Quiet period before recompiling")
	cmd.Flags().StringSlice("ext", config.DefaultExtensions, "Source file extensions to watch")

	return cmd
}

func runWatch(cmd *cobra.Command, root string, emit bool) error {
	c := NewCommandContext(cmd)

	info, err := os.Stat(root)
	if err != nil {
		return fmt.Errorf("failed to stat %s: %w", root, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("%s is not a directory", root)
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	w, err := newWatcher(c, root, emit)
	if err != nil {
		return err
	}
	return w.Run(ctx)
}

// watcher recompiles changed source files under root.
type watcher struct {
	c        *CommandContext
	fs       *fsnotify.Watcher
	root     string
	emit     bool
	debounce time.Duration
	exts     []string

	mu      sync.Mutex
	pending map[string]struct{}
	timer   *time.Timer
	trigger chan struct{}
}

func newWatcher(c *CommandContext, root string, emit bool) (*watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}
	return &watcher{
		c:        c,
		fs:       fsw,
		root:     root,
		emit:     emit,
		debounce: c.Cfg.Watch.Debounce,
		exts:     c.Cfg.Watch.Extensions,
		pending:  make(map[string]struct{}),
		trigger:  make(chan struct{}, 1),
	}, nil
}

// Run compiles every source file, then recompiles on change until ctx is
// cancelled.
func (w *watcher) Run(ctx context.Context) error {
	defer w.fs.Close()

	if err := w.watchDirRecursive(w.root); err != nil {
		return fmt.Errorf("failed to watch %s: %w", w.root, err)
	}

	if files, err := collectSources([]string{w.root}, w.exts); err == nil {
		w.compile(ctx, files)
	} else {
		w.c.Logger.Debug("no sources yet", "root", w.root, "error", err)
	}
	w.c.Renderer.Info("Watching %s for changes (%s)", w.root, strings.Join(w.exts, ", "))

	eg, egctx := errgroup.WithContext(ctx)
	eg.Go(func() error { return w.eventLoop(egctx) })
	eg.Go(func() error { return w.compileLoop(egctx) })

	err := eg.Wait()
	w.stopTimer()
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

// watchDirRecursive adds a directory and its subdirectories to the watch list.
func (w *watcher) watchDirRecursive(root string) error {
	return filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return nil // Skip errors
		}
		if !d.IsDir() {
			return nil
		}
		if strings.HasPrefix(d.Name(), ".") && path != root {
			return filepath.SkipDir
		}
		return w.fs.Add(path)
	})
}

func (w *watcher) eventLoop(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case event, ok := <-w.fs.Events:
			if !ok {
				return nil
			}
			w.handleEvent(event)

		case err, ok := <-w.fs.Errors:
			if !ok {
				return nil
			}
			w.c.Logger.Warn("watcher error", "error", err)
		}
	}
}

func (w *watcher) handleEvent(event fsnotify.Event) {
	if event.Has(fsnotify.Create) {
		if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
			if err := w.watchDirRecursive(event.Name); err != nil {
				w.c.Logger.Warn("failed to watch new directory", "path", event.Name, "error", err)
			}
			return
		}
	}
	if event.Has(fsnotify.Chmod) && !event.Has(fsnotify.Write) {
		return
	}
	if !hasExtension(event.Name, w.exts) {
		return
	}
	w.c.Logger.Debug("file changed", "path", event.Name, "op", event.Op.String())
	w.schedule(event.Name)
}

// schedule records a changed path and restarts the debounce timer.
func (w *watcher) schedule(path string) {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.pending[filepath.Clean(path)] = struct{}{}
	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.debounce, func() {
		select {
		case w.trigger <- struct{}{}:
		default:
		}
	})
}

// drain returns the pending paths in sorted order and clears them.
func (w *watcher) drain() []string {
	w.mu.Lock()
	defer w.mu.Unlock()

	paths := make([]string, 0, len(w.pending))
	for path := range w.pending {
		paths = append(paths, path)
	}
	clear(w.pending)
	slices.Sort(paths)
	return paths
}

func (w *watcher) stopTimer() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.timer != nil {
		w.timer.Stop()
	}
}

func (w *watcher) compileLoop(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-w.trigger:
			var files []string
			for _, path := range w.drain() {
				if _, err := os.Stat(path); err != nil {
					w.c.Renderer.Info("%s: removed", path)
					continue
				}
				files = append(files, path)
			}
			if len(files) > 0 {
				w.compile(ctx, files)
			}
		}
	}
}

// compile recompiles files and reports the outcome per file. Failures are
// reported and never stop the watcher.
func (w *watcher) compile(ctx context.Context, files []string) {
	r := w.c.Renderer

	units, err := readUnits(files)
	if err != nil {
		r.Warn("%v", err)
		return
	}
	results, _, err := compileUnits(ctx, w.c, units)
	if err != nil {
		r.Warn("compile failed: %v", err)
		return
	}

	sources := sourcesOf(units)
	for i, res := range results {
		r.Diagnostics(sources, res.Diagnostics)
		if res.HasErrors() {
			r.Warn("%s: %s", res.Filename, summarize(res))
			continue
		}
		if w.emit {
			if _, err := writeArtifact(w.c.Cfg.OutDir, units[i].Filename, res); err != nil {
				r.Warn("%v", err)
				continue
			}
		}
		r.Success("%s: %s", res.Filename, summarize(res))
	}
}

func summarize(res *compiler.Result) string {
	s := res.Statistics
	if s.ErrorCount > 0 {
		return fmt.Sprintf("%d error(s), %d warning(s)", s.ErrorCount, s.WarningCount)
	}
	return fmt.Sprintf("ok, %d instruction(s), %d constant(s), %d warning(s)", s.InstructionCount, s.ConstantCount, s.WarningCount)
}
