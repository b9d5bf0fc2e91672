package scriptrt

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadManifest(t *testing.T) {
	src := `name: example.com
routes:
  - path: /hello/:name
    method: GET
    handler: greet
  - path: /
    method: POST
    handler: index
`
	m, err := LoadManifest(strings.NewReader(src))
	require.NoError(t, err)
	assert.Equal(t, "example.com", m.Name)
	require.Len(t, m.Routes, 2)
	assert.Equal(t, "greet", m.Routes[0].Handler)

	routes := m.RouterRoutes()
	require.Len(t, routes, 2)
	assert.Equal(t, "/hello/:name", routes[0].Pattern)

	assert.ElementsMatch(t, []string{"greet", "index"}, m.HandlerNames())
}

func TestLoadManifestRejectsUnknownFields(t *testing.T) {
	src := `name: example.com
bogus: true
routes: []
`
	_, err := LoadManifest(strings.NewReader(src))
	assert.Error(t, err)
}

func TestLoadManifestRequiresName(t *testing.T) {
	src := `routes: []`
	_, err := LoadManifest(strings.NewReader(src))
	assert.Error(t, err)
}
