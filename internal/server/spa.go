package server

import (
	"io/fs"
	"net/http"
	"os"
	"path"
	"strings"
)

// handleSPA serves the built web client from dir. Unknown paths such as
// /challenge/<token> fall back to index.html so the client router can
// handle them; unknown /api paths stay 404.
func handleSPA(dir string) http.HandlerFunc {
	root := os.DirFS(dir)
	fileServer := http.FileServerFS(root)

	return func(w http.ResponseWriter, r *http.Request) {
		if strings.HasPrefix(r.URL.Path, "/api/") {
			writeError(w, http.StatusNotFound, "not found")
			return
		}

		name := strings.TrimPrefix(path.Clean(r.URL.Path), "/")
		if info, err := fs.Stat(root, name); err == nil && !info.IsDir() {
			fileServer.ServeHTTP(w, r)
			return
		}

		http.ServeFileFS(w, r, root, "index.html")
	}
}
