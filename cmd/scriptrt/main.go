// Command scriptrt is the CLI front-end for the runtime: init scaffolds a
// project, build runs the bundler once, run serves it and watches the
// filesystem for changes.
package main

import (
	"fmt"
	"os"

	"github.com/scriptrt/scriptrt/cmd/scriptrt/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
