// Package jsworker embeds goja to evaluate a bundled script once and run
// its exported handlers against decoded requests, the way the teacher
// framework's dispatcher hands a Request to the next stage of its
// pipeline — except here the next stage is untrusted JavaScript rather
// than a Go handler func.
package jsworker

import (
	"fmt"
	"net/http"
)

// ScriptEvalFailedError means the bundled script itself failed to parse or
// threw during its top-level evaluation (before any handler ran).
type ScriptEvalFailedError struct {
	Err error
}

func (e *ScriptEvalFailedError) Error() string {
	return fmt.Sprintf("jsworker: script evaluation failed: %v", e.Err)
}

func (e *ScriptEvalFailedError) Unwrap() error { return e.Err }

// StatusCode implements scriptrt's statusCoder.
func (e *ScriptEvalFailedError) StatusCode() int { return http.StatusInternalServerError }

// HandlerMissingError means the bundle's exported handlers object has no
// property named Name.
type HandlerMissingError struct {
	Name string
}

func (e *HandlerMissingError) Error() string {
	return fmt.Sprintf("jsworker: no handler named %q", e.Name)
}

func (e *HandlerMissingError) StatusCode() int { return http.StatusInternalServerError }

// HandlerNotCallableError means the named export exists but is not a
// function.
type HandlerNotCallableError struct {
	Name string
}

func (e *HandlerNotCallableError) Error() string {
	return fmt.Sprintf("jsworker: handler %q is not a function", e.Name)
}

func (e *HandlerNotCallableError) StatusCode() int { return http.StatusInternalServerError }

// HandlerThrewError means the handler raised an exception, returned a
// rejected promise, or panicked during execution.
type HandlerThrewError struct {
	Message string
}

func (e *HandlerThrewError) Error() string {
	return fmt.Sprintf("jsworker: handler threw: %s", e.Message)
}

func (e *HandlerThrewError) StatusCode() int { return http.StatusInternalServerError }

// InvalidResponseShapeError means the handler's return value could not be
// decoded into a Res: not JSON-serializable, not an object, or carrying a
// status outside [100, 599] (a missing status defaults to 200).
type InvalidResponseShapeError struct {
	Reason string
}

func (e *InvalidResponseShapeError) Error() string {
	return fmt.Sprintf("jsworker: invalid response: %s", e.Reason)
}

func (e *InvalidResponseShapeError) StatusCode() int { return http.StatusInternalServerError }
