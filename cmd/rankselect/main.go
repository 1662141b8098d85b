// Command rankselect answers rank/select queries, runs the regression and
// randomized checks, benchmarks the index kinds and manages snapshots.
package main

import (
	"fmt"
	"os"
)

func main() {
	cmd := newRootCommand(newCLI(os.Stdin, os.Stdout, os.Stderr))
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
