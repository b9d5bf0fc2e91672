package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
)

const scaffoldEntry = `export default function main(req) {
  return { status: 200, body: JSON.stringify({ ok: true }) };
}
`

const scaffoldManifest = `name: localhost
routes:
  - path: /
    method: GET
    handler: default
`

var initCmd = &cobra.Command{
	Use:   "init [dir]",
	Short: "Scaffold a new scriptrt project",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		dir := "."
		if len(args) == 1 {
			dir = args[0]
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
		if err := writeIfAbsent(filepath.Join(dir, "app.ts"), scaffoldEntry); err != nil {
			return err
		}
		if err := writeIfAbsent(filepath.Join(dir, "app.yml"), scaffoldManifest); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "scaffolded project in %s\n", dir)
		return nil
	},
}

func writeIfAbsent(path, content string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("scriptrt: %s already exists", path)
	}
	return os.WriteFile(path, []byte(content), 0o644)
}
