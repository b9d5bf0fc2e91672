package bundler

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/evanw/esbuild/pkg/api"
)

// transform lowers one module's body (TypeScript or JavaScript, with
// import/export statements already stripped by parseModule) to JavaScript
// at the requested target, collapsing insensitive whitespace so that
// modules concatenate into a deterministic, compact script regardless of
// the caller's Options.Minify (which controls an additional pass over the
// final emitted script, not this baseline normalization).
func transform(path, body string, opts Options) (string, error) {
	loader := api.LoaderJS
	switch strings.ToLower(filepath.Ext(path)) {
	case ".ts":
		loader = api.LoaderTS
	case ".tsx":
		loader = api.LoaderTSX
	case ".jsx":
		loader = api.LoaderJSX
	}

	target := api.ESNext
	switch strings.ToLower(opts.Target) {
	case "es2015", "es6":
		target = api.ES2015
	case "es2017":
		target = api.ES2017
	case "es2018":
		target = api.ES2018
	case "es2019":
		target = api.ES2019
	case "es2020":
		target = api.ES2020
	case "es2021":
		target = api.ES2021
	case "es2022":
		target = api.ES2022
	case "":
		// keep ESNext
	}

	result := api.Transform(body, api.TransformOptions{
		Loader:            loader,
		Target:            target,
		MinifyWhitespace:  true,
		Sourcemap:         sourceMapSetting(opts),
		Sourcefile:        path,
	})
	if len(result.Errors) > 0 {
		msgs := make([]string, len(result.Errors))
		for i, m := range result.Errors {
			msgs[i] = m.Text
		}
		return "", fmt.Errorf("%s", strings.Join(msgs, "; "))
	}
	return string(result.Code), nil
}

func sourceMapSetting(opts Options) api.SourceMap {
	if opts.SourceMap {
		return api.SourceMapExternal
	}
	return api.SourceMapNone
}
