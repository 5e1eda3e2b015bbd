package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/noodle-lang/noodlec/internal/bytecode"
	"github.com/noodle-lang/noodlec/internal/cli/output"
	"github.com/noodle-lang/noodlec/internal/compiler"
)

// NewDisasmCommand creates the disasm command.
func NewDisasmCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "disasm <file>",
		Short: "Print the constant pool and instruction listing",
		Long: `Compile a file and print its constant pool and instructions.

Constant operands are annotated with the value they refer to. With
--debug each instruction also shows its source location. JSON and YAML
output print the full compilation result.`,
		Example: `  noodlec disasm main.nd
  noodlec disasm --optimize --debug main.nd`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDisasm(cmd, args[0])
		},
	}
	return cmd
}

func runDisasm(cmd *cobra.Command, file string) error {
	c := NewCommandContext(cmd)
	r := c.Renderer

	src, err := readSource(file)
	if err != nil {
		return err
	}
	res := compiler.Compile(src, file, c.CompileOptions())

	if r.Mode() != output.ModeText {
		_, err := r.Structured(res)
		return err
	}

	r.Diagnostics(map[string]string{file: src}, res.Diagnostics)
	if res.HasErrors() {
		return fmt.Errorf("%s has errors", file)
	}
	bytecode.Disassemble(r.Writer(), res.Instructions, res.Constants)
	return nil
}
