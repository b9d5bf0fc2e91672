package jsworker

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scriptrt/scriptrt"
)

const fanOutBundle = `(function(){
	function echo(req) { return { status: 200, body: req.body }; }
	return { echo: echo };
})();`

func TestPoolFanOutOneReplyPerSubmitter(t *testing.T) {
	p := New(4)
	defer p.Shutdown()

	const n = 1000
	var wg sync.WaitGroup
	wg.Add(n)

	start := time.Now()
	for i := 0; i < n; i++ {
		go func(i int) {
			defer wg.Done()
			body := "x"
			reply := make(chan scriptrt.Result, 1)
			p.Submit(scriptrt.Job{
				Code:        fanOutBundle,
				HandlerName: "echo",
				Req:         scriptrt.Req{Body: &body},
				Reply:       reply,
			})
			res := <-reply
			assert.NoError(t, res.Err)
			require.NotNil(t, res.Res.Body)
			assert.Equal(t, "x", *res.Res.Body)
		}(i)
	}
	wg.Wait()
	assert.Less(t, time.Since(start), 30*time.Second)
}

func TestPoolSharesCachedInterpreterForSameCode(t *testing.T) {
	p := New(1)
	defer p.Shutdown()

	counterBundle := `(function(){
		var n = 0;
		function inc(req) { n++; return { status: 200, body: String(n) }; }
		return { inc: inc };
	})();`

	var last string
	for i := 0; i < 3; i++ {
		reply := make(chan scriptrt.Result, 1)
		p.Submit(scriptrt.Job{Code: counterBundle, HandlerName: "inc", Reply: reply})
		res := <-reply
		require.NoError(t, res.Err)
		require.NotNil(t, res.Res.Body)
		last = *res.Res.Body
	}
	assert.Equal(t, "3", last)
}

func TestPoolSubmitAfterShutdownReturnsChannelClosedError(t *testing.T) {
	p := New(1)
	p.Shutdown()

	reply := make(chan scriptrt.Result, 1)
	p.Submit(scriptrt.Job{Code: fanOutBundle, HandlerName: "echo", Reply: reply})

	res := <-reply
	require.Error(t, res.Err)
	var closed *scriptrt.ChannelClosedError
	require.ErrorAs(t, res.Err, &closed)
}
