package scriptrt

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scriptrt/scriptrt/router"
)

type shutdownTrackingPool struct {
	shutdownCalled bool
}

func (p *shutdownTrackingPool) Submit(job Job)  { job.Reply <- Result{Res: Res{Status: 200}} }
func (p *shutdownTrackingPool) Shutdown()       { p.shutdownCalled = true }

func TestRuntimeAddHostAndLookup(t *testing.T) {
	rt := NewRuntime(NewConfig("test"), NewLogger("test", "${level} ${message}"), &shutdownTrackingPool{})

	r, err := router.New("(function(){return{};})();", nil)
	require.NoError(t, err)

	_, ok := rt.host("example.com")
	assert.False(t, ok)

	rt.AddHost("example.com", r)

	got, ok := rt.host("example.com")
	assert.True(t, ok)
	assert.Same(t, r, got)
}

func TestRuntimeShutdownStopsPoolEvenWithoutServer(t *testing.T) {
	pool := &shutdownTrackingPool{}
	rt := NewRuntime(NewConfig("test"), NewLogger("test", "${level} ${message}"), pool)

	err := rt.Shutdown(context.Background())

	require.NoError(t, err)
	assert.True(t, pool.shutdownCalled)
}
