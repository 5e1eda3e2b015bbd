// Command noodlec compiles noodle source files to bytecode.
package main

import (
	"os"

	"github.com/noodle-lang/noodlec/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
