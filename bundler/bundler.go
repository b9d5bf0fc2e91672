// Package bundler collapses a multi-file JavaScript/TypeScript module graph
// rooted at an entry file into a single self-contained script: an
// immediately-invoked function expression whose body declares every
// module's top-level bindings in a shared scope and whose return value is
// an object mapping exported names to functions.
//
// The graph walk, cycle detection, and the bespoke IIFE emission shape are
// this package's own logic (no general-purpose bundler produces this
// shape); per-module syntax lowering — stripping TypeScript types and
// downleveling to the requested Options.Target — is delegated to esbuild's
// single-file Transform API, the way a Please build rule hands a file to
// esbuild for transpilation without letting esbuild's own resolver see the
// rest of the graph.
package bundler

import (
	"fmt"
	"path/filepath"
	"strings"

	"golang.org/x/sync/errgroup"
)

// Options configures a Bundle call.
type Options struct {
	// Minify additionally minifies the final emitted script beyond the
	// baseline whitespace collapsing every module already receives.
	Minify bool

	// Target is the source feature level the emitted code must run
	// under (e.g. "es2020"). Empty means esbuild's default.
	Target string

	// SourceMap, if set, has esbuild produce an external source map for
	// each module's transform. That map text is discarded: Bundle returns
	// only the script, and no source map is emitted.
	SourceMap bool
}

// ResolveFailedError means a loader could not resolve an import specifier.
type ResolveFailedError struct {
	Specifier string
	Base      string
}

func (e *ResolveFailedError) Error() string {
	return fmt.Sprintf("bundler: failed to resolve %q from %q", e.Specifier, e.Base)
}

// LoadFailedError means a loader could not load a resolved path.
type LoadFailedError struct {
	Path string
	Err  error
}

func (e *LoadFailedError) Error() string {
	return fmt.Sprintf("bundler: failed to load %q: %v", e.Path, e.Err)
}

func (e *LoadFailedError) Unwrap() error { return e.Err }

// ParseFailedError means a module's source could not be parsed into its
// import/export structure, or esbuild rejected its syntax.
type ParseFailedError struct {
	Path       string
	Diagnostic string
}

func (e *ParseFailedError) Error() string {
	return fmt.Sprintf("bundler: failed to parse %q: %s", e.Path, e.Diagnostic)
}

// CyclicImportError means the module graph rooted at the entry contains a
// cycle. The core's emission requires a linearizable (DAG) post-order, so
// cycles — though the surface language admits them — are rejected.
type CyclicImportError struct {
	Path string
}

func (e *CyclicImportError) Error() string {
	return fmt.Sprintf("bundler: cyclic import involving %q", e.Path)
}

// Loader is the capability the bundler is polymorphic over. The default
// loader (NewFSLoader) reads the local filesystem through a source cache;
// tests inject an in-memory loader (NewMemLoader).
type Loader interface {
	Resolve(base, specifier string) (string, error)
	Load(path string) (string, error)
}

// Bundle resolves the module graph rooted at entry and emits a single
// script string that, when evaluated, yields an object mapping exported
// names to functions.
func Bundle(entry string, opts Options, loader Loader) (string, error) {
	b := &builder{opts: opts, loader: loader, modules: map[string]*parsedModule{}}
	if err := b.load(entry, nil); err != nil {
		return "", err
	}
	return b.emit(entry)
}

// builder walks the dependency graph starting from the entry, parsing
// each module once (memoized in modules) and tracking the DFS stack to
// detect cycles.
type builder struct {
	opts    Options
	loader  Loader
	modules map[string]*parsedModule
	order   []string // post-order module paths, populated by load
}

func (b *builder) load(path string, stack []string) error {
	if _, ok := b.modules[path]; ok {
		return nil
	}
	for _, p := range stack {
		if p == path {
			return &CyclicImportError{Path: path}
		}
	}

	src, err := b.loader.Load(path)
	if err != nil {
		return &LoadFailedError{Path: path, Err: err}
	}

	pm, err := parseModule(path, src)
	if err != nil {
		return &ParseFailedError{Path: path, Diagnostic: err.Error()}
	}

	stack = append(stack, path)

	// Resolve siblings concurrently: independent imports of the same
	// module have no ordering dependency on each other. The resolved
	// modules are then loaded one at a time, in import order, before this
	// module is considered "ready".
	resolved := make([]string, len(pm.imports))
	var g errgroup.Group
	for i, imp := range pm.imports {
		i, imp := i, imp
		g.Go(func() error {
			abs, err := b.loader.Resolve(path, imp.specifier)
			if err != nil {
				return &ResolveFailedError{Specifier: imp.specifier, Base: path}
			}
			resolved[i] = abs
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	for i, imp := range pm.imports {
		imp.resolved = resolved[i]
		pm.imports[i] = imp
		if err := b.load(resolved[i], stack); err != nil {
			return err
		}
	}

	body, err := transform(path, pm.body, b.opts)
	if err != nil {
		return &ParseFailedError{Path: path, Diagnostic: err.Error()}
	}
	pm.body = body

	b.modules[path] = pm
	b.order = append(b.order, path)
	return nil
}

// emit concatenates every module's transformed body in dependency-first
// order (the DFS post-order, i.e. the order load() finished them in), then
// returns the entry module's exports as the IIFE's return value.
func (b *builder) emit(entry string) (string, error) {
	var body strings.Builder
	for _, path := range b.order {
		pm := b.modules[path]
		for _, alias := range pm.aliases {
			body.WriteString("const ")
			body.WriteString(alias.local)
			body.WriteString("=")
			body.WriteString(alias.target)
			body.WriteString(";")
		}
		body.WriteString(pm.body)
	}

	entryModule := b.modules[entry]
	var props strings.Builder
	first := true
	writeProp := func(name, binding string) {
		if !first {
			props.WriteString(",")
		}
		first = false
		props.WriteString(name)
		props.WriteString(":")
		props.WriteString(binding)
	}
	if entryModule.defaultBinding != "" {
		writeProp("default", entryModule.defaultBinding)
	}
	for _, exp := range entryModule.namedExports {
		writeProp(exp.exportedName, exp.localBinding)
	}

	script := fmt.Sprintf("(function(){%sreturn{%s};})();", body.String(), props.String())

	if b.opts.Minify {
		minified, err := minifyJS(script)
		if err != nil {
			return "", &ParseFailedError{Path: entry, Diagnostic: err.Error()}
		}
		script = minified
	}
	return script, nil
}

func baseDir(path string) string {
	return filepath.Dir(path)
}
