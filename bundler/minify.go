package bundler

import (
	"bytes"

	"github.com/tdewolff/minify/v2"
	"github.com/tdewolff/minify/v2/js"
)

// minifyJS runs the final emitted IIFE through tdewolff/minify's JS
// minifier, the same library the teacher framework uses to minify
// response bodies by MIME type.
func minifyJS(script string) (string, error) {
	m := minify.New()
	m.AddFunc("text/javascript", js.Minify)

	var buf bytes.Buffer
	if err := m.Minify("text/javascript", &buf, bytes.NewBufferString(script)); err != nil {
		return "", err
	}
	return buf.String(), nil
}
