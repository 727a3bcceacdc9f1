package todolist

import (
	"io/fs"

	"github.com/goliatone/go-todolist/pkg/runtime"
)

// RuntimeAssetsFS exposes the browser runtime that forwards widget events to
// the server.
//
// Typical mount:
//
//	mux.Handle("/runtime/",
//	  http.StripPrefix("/runtime/",
//	    http.FileServerFS(todolist.RuntimeAssetsFS()),
//	  ),
//	)
func RuntimeAssetsFS() fs.FS {
	return runtime.AssetsFS()
}
