package bundler

import (
	"fmt"
	"regexp"
	"strings"
)

type importSpec struct {
	specifier string
	resolved  string
}

type aliasDecl struct {
	local  string
	target string
}

type namedExportDecl struct {
	exportedName string
	localBinding string
}

// parsedModule is one module's import/export structure plus its body with
// every import and export statement stripped or rewritten into plain local
// declarations that share the IIFE's top-level scope.
type parsedModule struct {
	path           string
	body           string
	imports        []importSpec
	aliases        []aliasDecl
	defaultBinding string
	namedExports   []namedExportDecl
}

var (
	reImportNamespace = regexp.MustCompile(`(?m)^[ \t]*import\s*\*\s*as\s+([A-Za-z_$][\w$]*)\s*from\s*["']([^"']+)["']\s*;?[ \t]*\n?`)
	reImportMixed     = regexp.MustCompile(`(?m)^[ \t]*import\s+([A-Za-z_$][\w$]*)\s*,\s*\{([^}]*)\}\s*from\s*["']([^"']+)["']\s*;?[ \t]*\n?`)
	reImportNamed     = regexp.MustCompile(`(?m)^[ \t]*import\s*\{([^}]*)\}\s*from\s*["']([^"']+)["']\s*;?[ \t]*\n?`)
	reImportDefault   = regexp.MustCompile(`(?m)^[ \t]*import\s+([A-Za-z_$][\w$]*)\s+from\s*["']([^"']+)["']\s*;?[ \t]*\n?`)
	reImportSideEffect = regexp.MustCompile(`(?m)^[ \t]*import\s*["']([^"']+)["']\s*;?[ \t]*\n?`)

	reExportFrom       = regexp.MustCompile(`(?m)^[ \t]*export\s*(?:\*|\{[^}]*\})\s*from\s*["'][^"']+["']\s*;?`)
	reExportDefaultDecl = regexp.MustCompile(`(?m)^[ \t]*export\s+default\s+((?:async\s+)?(?:function|class))(\*?)\s+([A-Za-z_$][\w$]*)`)
	reExportDefaultIdent = regexp.MustCompile(`(?m)^[ \t]*export\s+default\s+([A-Za-z_$][\w$]*)\s*;[ \t]*\n?`)
	reExportDefaultExpr = regexp.MustCompile(`(?ms)^[ \t]*export\s+default\s+(.*?);[ \t]*\n?`)
	reExportDecl        = regexp.MustCompile(`(?m)^[ \t]*export\s+((?:async\s+)?(?:function\*?|class|const|let|var))\s+([A-Za-z_$][\w$]*)`)
	reExportList         = regexp.MustCompile(`(?m)^[ \t]*export\s*\{([^}]*)\}\s*;?[ \t]*\n?`)
)

// parseModule extracts the import/export structure of src and returns the
// remaining body with those statements stripped or rewritten into plain
// local declarations.
func parseModule(path, src string) (*parsedModule, error) {
	pm := &parsedModule{path: path}

	if reExportFrom.MatchString(src) {
		return nil, fmt.Errorf("re-export with a specifier (export ... from \"...\") is not supported")
	}

	body := src
	body, imports, aliases := stripImports(body)
	pm.imports = imports
	pm.aliases = aliases

	body, defaultBinding, namedExports, err := stripExports(path, body)
	if err != nil {
		return nil, err
	}
	pm.defaultBinding = defaultBinding
	pm.namedExports = namedExports
	pm.body = body
	return pm, nil
}

func stripImports(src string) (string, []importSpec, []aliasDecl) {
	var imports []importSpec
	var aliases []aliasDecl

	src = reImportNamespace.ReplaceAllStringFunc(src, func(m string) string {
		sub := reImportNamespace.FindStringSubmatch(m)
		local, spec := sub[1], sub[2]
		imports = append(imports, importSpec{specifier: spec})
		aliases = append(aliases, aliasDecl{local: local, target: "(" + spec + ")"})
		return ""
	})

	src = reImportMixed.ReplaceAllStringFunc(src, func(m string) string {
		sub := reImportMixed.FindStringSubmatch(m)
		def, named, spec := sub[1], sub[2], sub[3]
		imports = append(imports, importSpec{specifier: spec})
		aliases = append(aliases, aliasDecl{local: def, target: def})
		aliases = append(aliases, namedAliases(named)...)
		return ""
	})

	src = reImportNamed.ReplaceAllStringFunc(src, func(m string) string {
		sub := reImportNamed.FindStringSubmatch(m)
		named, spec := sub[1], sub[2]
		imports = append(imports, importSpec{specifier: spec})
		aliases = append(aliases, namedAliases(named)...)
		return ""
	})

	src = reImportDefault.ReplaceAllStringFunc(src, func(m string) string {
		sub := reImportDefault.FindStringSubmatch(m)
		def, spec := sub[1], sub[2]
		imports = append(imports, importSpec{specifier: spec})
		aliases = append(aliases, aliasDecl{local: def, target: def})
		return ""
	})

	src = reImportSideEffect.ReplaceAllStringFunc(src, func(m string) string {
		sub := reImportSideEffect.FindStringSubmatch(m)
		imports = append(imports, importSpec{specifier: sub[1]})
		return ""
	})

	// A plain named import ("import { a }") would otherwise emit
	// "const a=a;"; drop self-aliases, they are a no-op since the shared
	// scope already binds the original name.
	filtered := aliases[:0]
	for _, a := range aliases {
		if a.local != a.target {
			filtered = append(filtered, a)
		}
	}
	return src, imports, filtered
}

func namedAliases(named string) []aliasDecl {
	var out []aliasDecl
	for _, part := range strings.Split(named, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		if idx := strings.Index(part, " as "); idx >= 0 {
			orig := strings.TrimSpace(part[:idx])
			local := strings.TrimSpace(part[idx+4:])
			out = append(out, aliasDecl{local: local, target: orig})
		} else {
			out = append(out, aliasDecl{local: part, target: part})
		}
	}
	return out
}

var syntheticDefaultCounter int

func stripExports(path, src string) (string, string, []namedExportDecl, error) {
	var defaultBinding string
	var namedExports []namedExportDecl

	if reExportDefaultDecl.MatchString(src) {
		sub := reExportDefaultDecl.FindStringSubmatch(src)
		defaultBinding = sub[3]
		src = reExportDefaultDecl.ReplaceAllString(src, "$1$2 $3")
	} else if reExportDefaultIdent.MatchString(src) {
		sub := reExportDefaultIdent.FindStringSubmatch(src)
		defaultBinding = sub[1]
		src = reExportDefaultIdent.ReplaceAllString(src, "")
	} else if reExportDefaultExpr.MatchString(src) {
		sub := reExportDefaultExpr.FindStringSubmatch(src)
		syntheticDefaultCounter++
		name := fmt.Sprintf("__default%d", syntheticDefaultCounter)
		defaultBinding = name
		src = reExportDefaultExpr.ReplaceAllString(src, "const "+name+"=($1);")
	}

	src = reExportDecl.ReplaceAllStringFunc(src, func(m string) string {
		sub := reExportDecl.FindStringSubmatch(m)
		name := sub[2]
		namedExports = append(namedExports, namedExportDecl{exportedName: name, localBinding: name})
		return sub[1] + " " + sub[2]
	})

	src = reExportList.ReplaceAllStringFunc(src, func(m string) string {
		sub := reExportList.FindStringSubmatch(m)
		for _, part := range strings.Split(sub[1], ",") {
			part = strings.TrimSpace(part)
			if part == "" {
				continue
			}
			local, exported := part, part
			if idx := strings.Index(part, " as "); idx >= 0 {
				local = strings.TrimSpace(part[:idx])
				exported = strings.TrimSpace(part[idx+4:])
			}
			namedExports = append(namedExports, namedExportDecl{exportedName: exported, localBinding: local})
		}
		return ""
	})

	return src, defaultBinding, namedExports, nil
}
