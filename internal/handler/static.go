package handler

import (
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"
)

// fallbackHandler answers every request no other route matched. Unknown
// /api/ paths get a JSON 404. When dir is set, other GET and HEAD requests
// serve the built UI with index.html as the single-page-app fallback.
type fallbackHandler struct {
	dir   string
	files http.Handler
}

func newFallbackHandler(dir string) *fallbackHandler {
	h := &fallbackHandler{dir: dir}
	if dir != "" {
		h.files = http.FileServer(http.Dir(dir))
	}
	return h
}

func (h *fallbackHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if strings.HasPrefix(r.URL.Path, "/api/") || r.URL.Path == "/api" || h.files == nil {
		writeError(w, http.StatusNotFound, "Not found")
		return
	}
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	clean := path.Clean("/" + r.URL.Path)
	info, err := os.Stat(filepath.Join(h.dir, filepath.FromSlash(clean)))
	if err != nil || info.IsDir() {
		http.ServeFile(w, r, filepath.Join(h.dir, "index.html"))
		return
	}
	h.files.ServeHTTP(w, r)
}
