// Package runtime embeds the browser script that forwards widget events to
// the HTTP server.
package runtime

import (
	"embed"
	"io/fs"
)

//go:embed assets/*.js
var embeddedAssets embed.FS

// ScriptName is the runtime bundle inside AssetsFS.
const ScriptName = "todolist-runtime.js"

// AssetsFS exposes the runtime scripts rooted at the assets directory.
func AssetsFS() fs.FS {
	sub, err := fs.Sub(embeddedAssets, "assets")
	if err != nil {
		return embeddedAssets
	}
	return sub
}
