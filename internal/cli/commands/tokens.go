package commands

import (
	"fmt"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/noodle-lang/noodlec/internal/cli/output"
	"github.com/noodle-lang/noodlec/internal/diag"
	"github.com/noodle-lang/noodlec/internal/lexer"
)

// TokenInfo is the structured form of one token.
type TokenInfo struct {
	Type   string `json:"type" yaml:"type"`
	Raw    string `json:"raw" yaml:"raw"`
	Value  string `json:"value" yaml:"value"`
	Line   int    `json:"line" yaml:"line"`
	Column int    `json:"column" yaml:"column"`
	Offset int    `json:"offset" yaml:"offset"`
}

// NewTokensCommand creates the tokens command.
func NewTokensCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tokens <file>",
		Short: "Print the token stream of a file",
		Long: `Lex a file and print every token with its position.

Lexer errors are reported as diagnostics; the stream always ends with EOF.`,
		Example: `  noodlec tokens main.nd
  noodlec tokens -o json main.nd`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTokens(cmd, args[0])
		},
	}
	return cmd
}

func runTokens(cmd *cobra.Command, file string) error {
	c := NewCommandContext(cmd)
	r := c.Renderer

	src, err := readSource(file)
	if err != nil {
		return err
	}
	toks, lexErrs := lexer.Tokenize(src, file)

	infos := make([]TokenInfo, 0, len(toks))
	for _, tok := range toks {
		infos = append(infos, TokenInfo{
			Type:   string(tok.Type),
			Raw:    tok.Raw,
			Value:  tok.Value,
			Line:   tok.Span.Line,
			Column: tok.Span.Column,
			Offset: tok.Span.Start,
		})
	}

	if r.Mode() == output.ModeText {
		diags := make([]diag.Diagnostic, 0, len(lexErrs))
		for _, e := range lexErrs {
			diags = append(diags, e.ToDiagnostic())
		}
		r.Diagnostics(map[string]string{file: src}, diags)

		rows := make([]table.Row, 0, len(infos))
		for i, t := range infos {
			rows = append(rows, table.Row{i, t.Type, t.Raw, fmt.Sprintf("%d:%d", t.Line, t.Column)})
		}
		r.Table(table.Row{"#", "Type", "Text", "Position"}, rows)
	} else if _, err := r.Structured(infos); err != nil {
		return err
	}

	if len(lexErrs) > 0 {
		return fmt.Errorf("%s: %d lexer error(s)", file, len(lexErrs))
	}
	return nil
}
