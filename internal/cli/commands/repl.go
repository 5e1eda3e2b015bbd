package commands

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/noodle-lang/noodlec/internal/repl"
)

// NewREPLCommand creates the repl command.
func NewREPLCommand(version string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "repl",
		Short: "Start an interactive compile loop",
		Long: `Compile snippets interactively and print their disassembly.

Input is buffered until brackets balance. Lines starting with ':' are
commands; :help lists them. When stdin is not a terminal the whole input
is compiled as one unit.`,
		Example: `  # Interactive session
  noodlec repl

  # Compile piped input
  echo 'let x = 1 + 2;' | noodlec repl --optimize`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runREPL(cmd, version)
		},
	}
	return cmd
}

func runREPL(cmd *cobra.Command, version string) error {
	c := NewCommandContext(cmd)
	cfg := repl.Config{
		Compile: c.CompileOptions(),
		Styles:  c.Renderer.Styles(),
		Version: version,
		Logger:  c.Logger,
	}

	if in, ok := cmd.InOrStdin().(*os.File); ok {
		return repl.Start(in, cmd.OutOrStdout(), cfg)
	}
	return repl.New(cmd.OutOrStdout(), cfg).RunBatch(cmd.InOrStdin())
}
