package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// findManifest locates the single "*.yml" project manifest in dir and
// returns its path and basename (without extension) — the bundled
// artifact and its manifest share this basename, per §6.
func findManifest(dir string) (path, base string, err error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", "", err
	}
	var found string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if strings.HasSuffix(e.Name(), ".yml") {
			if found != "" {
				return "", "", fmt.Errorf("scriptrt: multiple project manifests found in %s", dir)
			}
			found = e.Name()
		}
	}
	if found == "" {
		return "", "", fmt.Errorf("scriptrt: no project manifest (*.yml) found in %s", dir)
	}
	base = strings.TrimSuffix(found, ".yml")
	return filepath.Join(dir, found), base, nil
}

// findEntry locates the base.ts or base.js entry module next to the
// manifest.
func findEntry(dir, base string) (string, error) {
	for _, ext := range []string{".ts", ".js"} {
		candidate := filepath.Join(dir, base+ext)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("scriptrt: no entry module %s.ts or %s.js found in %s", base, base, dir)
}
