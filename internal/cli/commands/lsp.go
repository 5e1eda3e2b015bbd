package commands

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/noodle-lang/noodlec/internal/lsp"
)

// NewLSPCommand creates the lsp command.
func NewLSPCommand(version string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "lsp",
		Short: "Start the Language Server Protocol server",
		Long: `Start the LSP server for editor integration.

The server communicates over stdin/stdout using JSON-RPC. Documents are
compiled on every change with the configured --optimize and --debug
settings and their diagnostics are published back to the editor.`,
		Example: `  # Start LSP server (usually called by an editor)
  noodlec lsp`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runLSP(cmd, version)
		},
	}
	return cmd
}

func runLSP(cmd *cobra.Command, version string) error {
	c := NewCommandContext(cmd)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	server := lsp.NewServer(cmd.InOrStdin(), cmd.OutOrStdout(), lsp.Config{
		Compile: c.CompileOptions(),
		Version: version,
		Logger:  c.Logger,
	})
	return server.Run(ctx)
}
