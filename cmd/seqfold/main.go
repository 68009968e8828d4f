// Command seqfold evaluates reduce and map over sparse sequences and runs
// conformance scenarios against them.
package main

import (
	"fmt"
	"os"

	"github.com/legendsbarber/seqfold/internal/cli"
)

func main() {
	if err := cli.NewRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(cli.GetExitCode(err))
	}
}
