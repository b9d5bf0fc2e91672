package scriptrt

import (
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/scriptrt/scriptrt/router"
)

// Manifest is a project's route table as authored in its YAML manifest
// (§3, §6): a virtual host name plus an ordered list of routes.
type Manifest struct {
	Name   string          `yaml:"name"`
	Routes []ManifestRoute `yaml:"routes"`
}

// ManifestRoute is one (path, method, handler) entry of a Manifest.
type ManifestRoute struct {
	Path    string `yaml:"path"`
	Method  string `yaml:"method"`
	Handler string `yaml:"handler"`
}

// LoadManifest parses a project manifest from r, rejecting unknown fields —
// the teacher framework's own YAML-adjacent config loading (air.go) is
// similarly strict about what it accepts.
func LoadManifest(r io.Reader) (*Manifest, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var m Manifest
	if err := dec.Decode(&m); err != nil {
		return nil, fmt.Errorf("scriptrt: parse manifest: %w", err)
	}
	if m.Name == "" {
		return nil, fmt.Errorf("scriptrt: manifest missing required field %q", "name")
	}
	return &m, nil
}

// RouterRoutes converts the manifest's routes into router.Route values.
func (m *Manifest) RouterRoutes() []router.Route {
	out := make([]router.Route, len(m.Routes))
	for i, r := range m.Routes {
		out[i] = router.Route{Method: r.Method, Pattern: r.Path, Handler: r.Handler}
	}
	return out
}

// HandlerNames returns every handler name referenced by the manifest's
// routes, used to validate a bundle's exported handlers object against
// §8 Invariant 1 before the route table is swapped in.
func (m *Manifest) HandlerNames() []string {
	seen := map[string]bool{}
	var names []string
	for _, r := range m.Routes {
		if !seen[r.Handler] {
			seen[r.Handler] = true
			names = append(names, r.Handler)
		}
	}
	return names
}
