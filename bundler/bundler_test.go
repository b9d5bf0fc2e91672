package bundler

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestBundleTwoFileProject reproduces §8 Scenario 1: entry main.ts imports
// execute from lib.ts.
func TestBundleTwoFileProject(t *testing.T) {
	loader := NewMemLoader(map[string]string{
		"main.ts": `import { execute } from "./lib";

async function main() {
  console.log("Executing main.ts");
  console.log(await execute("world"));
}

export default main;
`,
		"lib.ts": `export async function execute(name) {
  console.log("Executing lib.ts");
  return ` + "`Hello ${name}!`" + `;
}
`,
	})

	out, err := Bundle("main.ts", Options{}, loader)
	require.NoError(t, err)

	want := "(function(){async function execute(name){console.log(\"Executing lib.ts\");" +
		"return`Hello ${name}!`;}async function main(){console.log(\"Executing main.ts\");" +
		"console.log(await execute(\"world\"));}return{default:main};})();"
	assert.Equal(t, want, out)
}

func TestBundleNamedExports(t *testing.T) {
	loader := NewMemLoader(map[string]string{
		"main.ts": `export function health(req) { return req; }
export function echo(req) { return req; }
`,
	})

	out, err := Bundle("main.ts", Options{}, loader)
	require.NoError(t, err)
	assert.Contains(t, out, "function health(req)")
	assert.Contains(t, out, "health:health")
	assert.Contains(t, out, "echo:echo")
}

func TestBundleResolveFailed(t *testing.T) {
	loader := NewMemLoader(map[string]string{
		"main.ts": `import { x } from "./missing";
export default function main() {}
`,
	})

	_, err := Bundle("main.ts", Options{}, loader)
	require.Error(t, err)
	var rfe *ResolveFailedError
	require.ErrorAs(t, err, &rfe)
}

func TestBundleCyclicImport(t *testing.T) {
	loader := NewMemLoader(map[string]string{
		"a.ts": `import { b } from "./b";
export function a() { return b(); }
`,
		"b.ts": `import { a } from "./a";
export function b() { return a(); }
`,
	})

	_, err := Bundle("a.ts", Options{}, loader)
	require.Error(t, err)
	var cie *CyclicImportError
	require.ErrorAs(t, err, &cie)
}

func TestBundleMinifyOption(t *testing.T) {
	loader := NewMemLoader(map[string]string{
		"main.ts": `export default function main() { return 1; }`,
	})

	out, err := Bundle("main.ts", Options{Minify: true}, loader)
	require.NoError(t, err)
	assert.NotContains(t, out, "\n")
	assert.Contains(t, out, "main")
}
