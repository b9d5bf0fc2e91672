/*
Package scriptrt implements a multi-tenant function-as-a-service runtime
for small JavaScript/TypeScript programs.

A user authors a project: source files plus a route manifest. The
runtime bundles the project into a single self-contained script exposing
named handler entry points (see package bundler), resolves incoming HTTP
requests to a handler by virtual host and route (see package router),
executes the handler inside an embedded JavaScript engine (see package
jsworker), and returns the handler's structured response to the client.
A file watcher hot-swaps the compiled code and route table when source
files change, without dropping in-flight traffic or restarting the
server.

Runtime

The Runtime type is the top-level struct of this framework, analogous
in shape to a conventional single-binary Go web framework: it owns a
Config, a Logger, a registry of per-host Routers, and a WorkerPool. Its
ServeHTTP method is the Dispatcher described by the design.
*/
package scriptrt
