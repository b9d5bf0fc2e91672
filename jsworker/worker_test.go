package jsworker

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scriptrt/scriptrt"
)

func TestWorkerRunSyncHandler(t *testing.T) {
	w, err := New(`(function(){
		function echo(req) {
			return { status: 200, headers: { "X-Handler": "echo" }, body: req.body };
		}
		return { echo: echo };
	})();`)
	require.NoError(t, err)
	defer w.Close()

	body := "hello"
	res, err := w.Run(context.Background(), "echo", scriptrt.Req{Method: "GET", URL: "/echo", Body: &body})
	require.NoError(t, err)
	assert.Equal(t, 200, res.Status)
	assert.Equal(t, "echo", res.Headers["X-Handler"])
	require.NotNil(t, res.Body)
	assert.Equal(t, "hello", *res.Body)
}

func TestWorkerRunAsyncHandler(t *testing.T) {
	w, err := New(`(function(){
		async function main(req) {
			return { status: 201, body: "created" };
		}
		return { default: main };
	})();`)
	require.NoError(t, err)
	defer w.Close()

	res, err := w.Run(context.Background(), "default", scriptrt.Req{Method: "POST", URL: "/"})
	require.NoError(t, err)
	assert.Equal(t, 201, res.Status)
	require.NotNil(t, res.Body)
	assert.Equal(t, "created", *res.Body)
}

func TestWorkerDefaultsStatusTo200(t *testing.T) {
	w, err := New(`(function(){
		function noStatus(req) { return { body: "ok" }; }
		return { noStatus: noStatus };
	})();`)
	require.NoError(t, err)
	defer w.Close()

	res, err := w.Run(context.Background(), "noStatus", scriptrt.Req{})
	require.NoError(t, err)
	assert.Equal(t, 200, res.Status)
}

func TestWorkerHandlerMissing(t *testing.T) {
	w, err := New(`(function(){ return {}; })();`)
	require.NoError(t, err)
	defer w.Close()

	_, err = w.Run(context.Background(), "nope", scriptrt.Req{})
	require.Error(t, err)
	var missing *HandlerMissingError
	require.ErrorAs(t, err, &missing)
}

func TestWorkerHandlerNotCallable(t *testing.T) {
	w, err := New(`(function(){ return { notAFunction: 42 }; })();`)
	require.NoError(t, err)
	defer w.Close()

	_, err = w.Run(context.Background(), "notAFunction", scriptrt.Req{})
	require.Error(t, err)
	var notCallable *HandlerNotCallableError
	require.ErrorAs(t, err, &notCallable)
}

func TestWorkerHandlerThrew(t *testing.T) {
	w, err := New(`(function(){
		function boom(req) { throw new Error("kaboom"); }
		return { boom: boom };
	})();`)
	require.NoError(t, err)
	defer w.Close()

	_, err = w.Run(context.Background(), "boom", scriptrt.Req{})
	require.Error(t, err)
	var threw *HandlerThrewError
	require.ErrorAs(t, err, &threw)
	assert.Contains(t, threw.Message, "kaboom")
}

func TestWorkerRejectedPromise(t *testing.T) {
	w, err := New(`(function(){
		async function rejects(req) { throw new Error("nope"); }
		return { rejects: rejects };
	})();`)
	require.NoError(t, err)
	defer w.Close()

	_, err = w.Run(context.Background(), "rejects", scriptrt.Req{})
	require.Error(t, err)
	var threw *HandlerThrewError
	require.ErrorAs(t, err, &threw)
}

func TestWorkerInvalidResponseShape(t *testing.T) {
	w, err := New(`(function(){
		function bad(req) { return 42; }
		return { bad: bad };
	})();`)
	require.NoError(t, err)
	defer w.Close()

	_, err = w.Run(context.Background(), "bad", scriptrt.Req{})
	require.Error(t, err)
	var shape *InvalidResponseShapeError
	require.ErrorAs(t, err, &shape)
}

func TestWorkerScriptEvalFailed(t *testing.T) {
	_, err := New(`this is not valid javascript {{{`)
	require.Error(t, err)
	var evalErr *ScriptEvalFailedError
	require.ErrorAs(t, err, &evalErr)
}

func TestCheckHandlersAllPresent(t *testing.T) {
	err := CheckHandlers(`(function(){
		function a(req) { return req; }
		function b(req) { return req; }
		return { a: a, b: b };
	})();`, []string{"a", "b"})
	require.NoError(t, err)
}

func TestCheckHandlersReportsMissing(t *testing.T) {
	err := CheckHandlers(`(function(){
		function a(req) { return req; }
		return { a: a };
	})();`, []string{"a", "b"})
	require.Error(t, err)
	var missing *HandlerMissingError
	require.ErrorAs(t, err, &missing)
	assert.Equal(t, "b", missing.Name)
}

func TestCheckHandlersReportsNotCallable(t *testing.T) {
	err := CheckHandlers(`(function(){ return { a: 42 }; })();`, []string{"a"})
	require.Error(t, err)
	var notCallable *HandlerNotCallableError
	require.ErrorAs(t, err, &notCallable)
}

func TestWorkerRunIsReusableAcrossCalls(t *testing.T) {
	w, err := New(`(function(){
		var count = 0;
		function increment(req) { count++; return { status: 200, body: String(count) }; }
		return { increment: increment };
	})();`)
	require.NoError(t, err)
	defer w.Close()

	for i := 1; i <= 3; i++ {
		res, err := w.Run(context.Background(), "increment", scriptrt.Req{})
		require.NoError(t, err)
		require.NotNil(t, res.Body)
		assert.Equal(t, string(rune('0'+i)), *res.Body)
	}
}
