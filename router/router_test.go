package router

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMatchSuccess(t *testing.T) {
	r, err := New("", []Route{{Method: "GET", Pattern: "/hello/:name", Handler: "greet"}})
	require.NoError(t, err)

	m, err := r.Match("GET", "/hello/world")
	require.NoError(t, err)
	assert.Equal(t, "greet", m.Handler)
	assert.Equal(t, map[string]string{"name": "world"}, m.Params)
}

func TestMethodNotAllowed(t *testing.T) {
	r, err := New("", []Route{{Method: "GET", Pattern: "/hello/:name", Handler: "greet"}})
	require.NoError(t, err)

	_, err = r.Match("POST", "/hello/world")
	require.Error(t, err)
	var mnae *MethodNotAllowedError
	require.ErrorAs(t, err, &mnae)
}

func TestPathNotFound(t *testing.T) {
	r, err := New("", []Route{{Method: "GET", Pattern: "/hello/:name", Handler: "greet"}})
	require.NoError(t, err)

	_, err = r.Match("GET", "/goodbye/world")
	require.Error(t, err)
	var pnfe *PathNotFoundError
	require.ErrorAs(t, err, &pnfe)
}

func TestLongestLiteralPrefixWins(t *testing.T) {
	r, err := New("", []Route{
		{Method: "GET", Pattern: "/users/:id", Handler: "getUser"},
		{Method: "GET", Pattern: "/users/me", Handler: "getMe"},
	})
	require.NoError(t, err)

	m, err := r.Match("GET", "/users/me")
	require.NoError(t, err)
	assert.Equal(t, "getMe", m.Handler)

	m, err = r.Match("GET", "/users/42")
	require.NoError(t, err)
	assert.Equal(t, "getUser", m.Handler)
	assert.Equal(t, "42", m.Params["id"])
}

func TestTrailingSlashSignificant(t *testing.T) {
	r, err := New("", []Route{{Method: "GET", Pattern: "/a", Handler: "a"}})
	require.NoError(t, err)

	_, err = r.Match("GET", "/a/")
	require.Error(t, err)
}

func TestCaseSensitivePathCaseInsensitiveMethod(t *testing.T) {
	r, err := New("", []Route{{Method: "GET", Pattern: "/Hello", Handler: "h"}})
	require.NoError(t, err)

	_, err = r.Match("GET", "/hello")
	require.Error(t, err)

	m, err := r.Match("get", "/Hello")
	require.NoError(t, err)
	assert.Equal(t, "h", m.Handler)
}

func TestWildcardCapturesRemainder(t *testing.T) {
	r, err := New("", []Route{{Method: "GET", Pattern: "/assets/*", Handler: "assets"}})
	require.NoError(t, err)

	m, err := r.Match("GET", "/assets/img/a.png")
	require.NoError(t, err)
	assert.Equal(t, "img/a.png", m.Params["*"])
}

func TestParamCaptureIsPercentDecoded(t *testing.T) {
	r, err := New("", []Route{{Method: "GET", Pattern: "/users/:name", Handler: "getUser"}})
	require.NoError(t, err)

	m, err := r.Match("GET", "/users/jane%20doe")
	require.NoError(t, err)
	assert.Equal(t, "jane doe", m.Params["name"])
}

func TestWildcardCaptureIsPercentDecoded(t *testing.T) {
	r, err := New("", []Route{{Method: "GET", Pattern: "/assets/*", Handler: "assets"}})
	require.NoError(t, err)

	m, err := r.Match("GET", "/assets/a%2Fb.png")
	require.NoError(t, err)
	assert.Equal(t, "a/b.png", m.Params["*"])
}

// TestSwapPreservesOutstandingSnapshots exercises §8 invariant 3 and
// scenario 5: a reader holding a snapshot observes a consistent
// (code, routes) pair even under arbitrarily many concurrent swaps.
func TestSwapPreservesOutstandingSnapshots(t *testing.T) {
	r, err := New("v1", []Route{{Method: "GET", Pattern: "/h", Handler: "h"}})
	require.NoError(t, err)

	snap := r.Load()
	assert.Equal(t, "v1", snap.Code)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = r.Swap("v2", []Route{{Method: "GET", Pattern: "/h", Handler: "h"}})
		}()
	}
	wg.Wait()

	// The pinned snapshot is untouched by any number of swaps.
	assert.Equal(t, "v1", snap.Code)
	// A fresh Load sees the latest swap.
	assert.Equal(t, "v2", r.Load().Code)
}

func TestSwapRejectsMalformedRoutesKeepsPrevious(t *testing.T) {
	r, err := New("v1", []Route{{Method: "GET", Pattern: "/h", Handler: "h"}})
	require.NoError(t, err)

	err = r.Swap("v2", []Route{{Method: "GET", Pattern: "no-leading-slash", Handler: "h"}})
	require.Error(t, err)
	assert.Equal(t, "v1", r.Load().Code)
}
