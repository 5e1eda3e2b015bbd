package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/noodle-lang/noodlec/internal/ast"
	"github.com/noodle-lang/noodlec/internal/diag"
	"github.com/noodle-lang/noodlec/internal/parser"
)

// NewASTCommand creates the ast command.
func NewASTCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ast <file>",
		Short: "Print the syntax tree of a file",
		Long: `Parse a file and print its syntax tree as an indented outline.

Parsing recovers from errors, so a partial tree is printed after the
diagnostics when the file does not parse cleanly.`,
		Example: `  noodlec ast main.nd`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAST(cmd, args[0])
		},
	}
	return cmd
}

func runAST(cmd *cobra.Command, file string) error {
	c := NewCommandContext(cmd)
	r := c.Renderer

	src, err := readSource(file)
	if err != nil {
		return err
	}

	p := parser.New(src, parser.WithFilename(file))
	prog := p.ParseProgram()

	var diags []diag.Diagnostic
	for _, e := range p.LexErrors() {
		diags = append(diags, e.ToDiagnostic())
	}
	for _, e := range p.Errors() {
		diags = append(diags, e.ToDiagnostic())
	}
	r.Diagnostics(map[string]string{file: src}, diags)

	if err := ast.Fprint(r.Writer(), prog); err != nil {
		return fmt.Errorf("failed to print tree: %w", err)
	}
	if len(diags) > 0 {
		return fmt.Errorf("%s: %d syntax error(s)", file, len(diags))
	}
	return nil
}
