package jsworker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/dop251/goja"
	"github.com/dop251/goja_nodejs/console"
	"github.com/dop251/goja_nodejs/eventloop"
	"github.com/dop251/goja_nodejs/require"

	"github.com/scriptrt/scriptrt"
)

// Worker owns one goja interpreter, evaluated from a single bundled script
// exactly once. Run may be called many times against the same Worker; each
// call looks up and invokes one exported handler, driving the event loop's
// microtask queue to quiescence before returning.
//
// Run holds the Worker's mutex for the whole call, so concurrent Run calls
// on one Worker are serialized; the Pool (§4.5) additionally never shares a
// cached interpreter between its goroutines.
type Worker struct {
	mu       sync.Mutex
	loop     *eventloop.EventLoop
	handlers *goja.Object
}

// New evaluates code — the single IIFE a bundler run produces — in a fresh
// goja runtime and returns a Worker bound to the object of handlers it
// returns.
func New(code string) (*Worker, error) {
	loop := eventloop.NewEventLoop()
	w := &Worker{loop: loop}

	var setupErr error
	loop.Run(func(vm *goja.Runtime) {
		registry := new(require.Registry)
		registry.Enable(vm)
		console.Enable(vm)

		prog, err := goja.Compile("bundle.js", code, true)
		if err != nil {
			setupErr = &ScriptEvalFailedError{Err: err}
			return
		}

		result, err := vm.RunProgram(prog)
		if err != nil {
			setupErr = &ScriptEvalFailedError{Err: err}
			return
		}

		obj, ok := result.(*goja.Object)
		if !ok {
			setupErr = &ScriptEvalFailedError{
				Err: fmt.Errorf("bundle evaluated to %s, want an object of handlers", result.ExportType()),
			}
			return
		}
		w.handlers = obj
	})
	if setupErr != nil {
		return nil, setupErr
	}
	return w, nil
}

// Close releases the Worker's goja runtime and event loop.
func (w *Worker) Close() {
	w.loop.Stop()
}

// CheckHandlers evaluates code once and confirms every name in names is a
// callable property of the bundle's exported object, per §8 Invariant 1
// ("bundling succeeds ⇒ the bundled script's returned object has a function
// property named h"). It is meant for build-time and startup validation, not
// the request path: a fresh Worker is built and discarded for the check.
func CheckHandlers(code string, names []string) error {
	w, err := New(code)
	if err != nil {
		return err
	}
	defer w.Close()

	for _, name := range names {
		fnVal := w.handlers.Get(name)
		if fnVal == nil || goja.IsUndefined(fnVal) {
			return &HandlerMissingError{Name: name}
		}
		if _, ok := goja.AssertFunction(fnVal); !ok {
			return &HandlerNotCallableError{Name: name}
		}
	}
	return nil
}

// Run decodes req to JSON, calls the handler named handlerName with the
// parsed value as its sole argument, awaits the result if it is a promise,
// and decodes the settled value back into a Res. ctx is checked before and
// after the call; goja gives no way to preempt a running handler, so a
// cancellation mid-call is only observed once the handler itself returns.
func (w *Worker) Run(ctx context.Context, handlerName string, req scriptrt.Req) (scriptrt.Res, error) {
	if err := ctx.Err(); err != nil {
		return scriptrt.Res{}, err
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	var res scriptrt.Res
	var runErr error
	w.loop.Run(func(vm *goja.Runtime) {
		dispatch(vm, w.handlers, handlerName, req, &res, &runErr)
	})
	if runErr != nil {
		return scriptrt.Res{}, runErr
	}
	return res, ctx.Err()
}

func dispatch(vm *goja.Runtime, handlers *goja.Object, handlerName string, req scriptrt.Req, res *scriptrt.Res, runErr *error) {
	fnVal := handlers.Get(handlerName)
	if fnVal == nil || goja.IsUndefined(fnVal) {
		*runErr = &HandlerMissingError{Name: handlerName}
		return
	}
	fn, ok := goja.AssertFunction(fnVal)
	if !ok {
		*runErr = &HandlerNotCallableError{Name: handlerName}
		return
	}

	argVal, err := encodeRequest(vm, req)
	if err != nil {
		*runErr = err
		return
	}

	result, err := safeCall(fn, argVal)
	if err != nil {
		*runErr = err
		return
	}

	settle := func(v goja.Value, thrown error) {
		if thrown != nil {
			*runErr = thrown
			return
		}
		out, err := decodeResponse(vm, v)
		if err != nil {
			*runErr = err
			return
		}
		*res = out
	}

	then, ok := thenable(result)
	if !ok {
		settle(result, nil)
		return
	}

	onFulfilled := vm.ToValue(func(call goja.FunctionCall) goja.Value {
		var v goja.Value = goja.Undefined()
		if len(call.Arguments) > 0 {
			v = call.Arguments[0]
		}
		settle(v, nil)
		return goja.Undefined()
	})
	onRejected := vm.ToValue(func(call goja.FunctionCall) goja.Value {
		msg := "promise rejected with no reason"
		if len(call.Arguments) > 0 {
			msg = call.Arguments[0].String()
		}
		settle(nil, &HandlerThrewError{Message: msg})
		return goja.Undefined()
	})
	if _, err := then(result, onFulfilled, onRejected); err != nil {
		*runErr = &HandlerThrewError{Message: err.Error()}
	}
}

func thenable(v goja.Value) (goja.Callable, bool) {
	obj, ok := v.(*goja.Object)
	if !ok {
		return nil, false
	}
	thenVal := obj.Get("then")
	if thenVal == nil || goja.IsUndefined(thenVal) {
		return nil, false
	}
	fn, ok := goja.AssertFunction(thenVal)
	return fn, ok
}

func safeCall(fn goja.Callable, argVal goja.Value) (result goja.Value, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = &HandlerThrewError{Message: fmt.Sprintf("%v", r)}
		}
	}()

	v, callErr := fn(goja.Undefined(), argVal)
	if callErr != nil {
		var ex *goja.Exception
		if errors.As(callErr, &ex) {
			return nil, &HandlerThrewError{Message: ex.Value().String()}
		}
		return nil, &HandlerThrewError{Message: callErr.Error()}
	}
	return v, nil
}

func encodeRequest(vm *goja.Runtime, req scriptrt.Req) (goja.Value, error) {
	b, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("jsworker: marshal request: %w", err)
	}
	parse, ok := goja.AssertFunction(vm.Get("JSON").ToObject(vm).Get("parse"))
	if !ok {
		return nil, fmt.Errorf("jsworker: JSON.parse is unavailable")
	}
	v, err := parse(goja.Undefined(), vm.ToValue(string(b)))
	if err != nil {
		return nil, fmt.Errorf("jsworker: decode request: %w", err)
	}
	return v, nil
}

func decodeResponse(vm *goja.Runtime, v goja.Value) (scriptrt.Res, error) {
	if v == nil || goja.IsUndefined(v) || goja.IsNull(v) {
		return scriptrt.Res{}, &InvalidResponseShapeError{Reason: "handler returned no value"}
	}

	stringify, ok := goja.AssertFunction(vm.Get("JSON").ToObject(vm).Get("stringify"))
	if !ok {
		return scriptrt.Res{}, fmt.Errorf("jsworker: JSON.stringify is unavailable")
	}
	jsonVal, err := stringify(goja.Undefined(), v)
	if err != nil {
		return scriptrt.Res{}, &InvalidResponseShapeError{Reason: "response is not JSON-serializable: " + err.Error()}
	}
	if jsonVal == nil || goja.IsUndefined(jsonVal) {
		return scriptrt.Res{}, &InvalidResponseShapeError{Reason: "response serialized to undefined"}
	}

	var res scriptrt.Res
	if err := json.Unmarshal([]byte(jsonVal.String()), &res); err != nil {
		return scriptrt.Res{}, &InvalidResponseShapeError{Reason: "response is not a JSON object: " + err.Error()}
	}
	if res.Status == 0 {
		res.Status = 200
	}
	if err := res.ValidateStatus(); err != nil {
		return scriptrt.Res{}, &InvalidResponseShapeError{Reason: err.Error()}
	}
	return res, nil
}
