package commands

import (
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/noodle-lang/noodlec/internal/cli/output"
)

// NewCacheCommand creates the cache command and its subcommands.
func NewCacheCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Inspect or clear the compilation cache",
		Long: `Inspect or clear the compilation cache.

Cached results are keyed by the source text and the options that shape
the output, so editing a file or toggling --optimize or --debug misses.`,
	}
	cmd.AddCommand(newCacheListCommand())
	cmd.AddCommand(newCachePurgeCommand())
	return cmd
}

func newCacheListCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Short:   "List cached compilation results",
		Example: `  noodlec cache list -o yaml`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runCacheList(cmd)
		},
	}
}

func newCachePurgeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "purge",
		Short: "Remove every cached result",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runCachePurge(cmd)
		},
	}
}

func runCacheList(cmd *cobra.Command) error {
	c := NewCommandContext(cmd)
	r := c.Renderer

	store, err := openCache(c.Cfg, c.Logger)
	if err != nil {
		return err
	}
	defer store.Close()

	entries, err := store.List()
	if err != nil {
		return err
	}

	if r.Mode() != output.ModeText {
		_, err := r.Structured(entries)
		return err
	}

	rows := make([]table.Row, 0, len(entries))
	for _, e := range entries {
		rows = append(rows, table.Row{e.ID[:8], e.Filename, e.Size, e.RawSize, e.Hits, e.AccessedAt.Format("2006-01-02 15:04:05")})
	}
	r.Table(table.Row{"ID", "File", "Size", "Raw", "Hits", "Last used"}, rows)
	r.Info("%d cached result(s) in %s", len(entries), c.Cfg.CachePath)
	return nil
}

func runCachePurge(cmd *cobra.Command) error {
	c := NewCommandContext(cmd)

	store, err := openCache(c.Cfg, c.Logger)
	if err != nil {
		return err
	}
	defer store.Close()

	n, err := store.Purge()
	if err != nil {
		return err
	}
	c.Renderer.Success("Removed %d cached result(s)", n)
	return nil
}
