package cmd

import (
	"fmt"
	"os"

	"github.com/cespare/xxhash/v2"
	"github.com/spf13/cobra"

	"github.com/scriptrt/scriptrt"
	"github.com/scriptrt/scriptrt/bundler"
)

var (
	buildPrint  bool
	buildMinify bool
)

var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Bundle the current project",
	RunE: func(cmd *cobra.Command, args []string) error {
		out, path, err := buildProject(".", buildMinify)
		if err != nil {
			return err
		}
		if buildPrint {
			fmt.Fprintln(cmd.OutOrStdout(), out)
			fmt.Fprintf(cmd.ErrOrStderr(), "identity: %x\n", xxhash.Sum64String(out))
			return nil
		}
		fmt.Fprintln(cmd.OutOrStdout(), path)
		return nil
	},
}

func init() {
	buildCmd.Flags().BoolVar(&buildPrint, "print", false, "print the bundle to stdout instead of the output path")
	buildCmd.Flags().BoolVar(&buildMinify, "minify", false, "minify the emitted bundle")
}

// buildProject bundles the project rooted at dir, writes the "<base>.mjs"
// artifact next to its manifest, and returns the bundle source and the
// path it was written to.
func buildProject(dir string, minify bool) (string, string, error) {
	manifestPath, base, err := findManifest(dir)
	if err != nil {
		return "", "", err
	}
	entry, err := findEntry(dir, base)
	if err != nil {
		return "", "", err
	}

	loader, err := bundler.NewFSLoader(dir, 32<<20)
	if err != nil {
		return "", "", err
	}
	defer loader.Close()

	out, err := bundler.Bundle(entry, bundler.Options{Minify: minify}, loader)
	if err != nil {
		return "", "", err
	}

	f, err := os.Open(manifestPath)
	if err != nil {
		return "", "", err
	}
	m, err := scriptrt.LoadManifest(f)
	f.Close()
	if err != nil {
		return "", "", err
	}
	if err := checkManifestHandlers(m, out); err != nil {
		return "", "", err
	}

	outPath := dir + "/" + base + ".mjs"
	if err := os.WriteFile(outPath, []byte(out), 0o644); err != nil {
		return "", "", err
	}

	return out, outPath, nil
}
