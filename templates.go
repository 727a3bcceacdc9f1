package todolist

import (
	"io/fs"

	htmlrenderer "github.com/goliatone/go-todolist/pkg/renderers/html"
)

// EmbeddedTemplates exposes the built-in page templates so callers can reuse
// or extend them without importing the renderer package directly.
func EmbeddedTemplates() fs.FS {
	return htmlrenderer.TemplatesFS()
}

// EmbeddedStyles exposes the default stylesheet.
func EmbeddedStyles() fs.FS {
	return htmlrenderer.AssetsFS()
}
