// Package cmd holds scriptrt's cobra subcommands: init, build, and run —
// a tagged-variant-style dispatch over subcommands (§9), just implemented
// as a cobra.Command tree rather than a hand-rolled switch.
package cmd

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "scriptrt",
	Short: "scriptrt hosts small TypeScript/JavaScript functions behind an HTTP dispatcher",
}

// Execute runs the CLI's root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(buildCmd)
	rootCmd.AddCommand(runCmd)
}
