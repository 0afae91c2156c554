// Package web serves the single-page front end.
//
// Files under the public directory are served as-is. Any other path redirects to
// "/#<original URL>" so the client-side router can take over.
package web

import (
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"
)

// SPAHandler serves static assets with a hash-route fallback.
type SPAHandler struct {
	root  string
	files http.Handler
}

// NewSPAHandler creates a handler rooted at publicDir.
func NewSPAHandler(publicDir string) *SPAHandler {
	return &SPAHandler{
		root:  publicDir,
		files: http.FileServer(http.Dir(publicDir)),
	}
}

// Routes returns the catch-all pattern.
func (h *SPAHandler) Routes() []string {
	return []string{"/*"}
}

func (h *SPAHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		w.Header().Set("Allow", "GET, HEAD")
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	if h.exists(r.URL.Path) {
		h.files.ServeHTTP(w, r)
		return
	}

	// "/" without an index would redirect to itself forever.
	if r.URL.Path == "/" {
		http.NotFound(w, r)
		return
	}

	http.Redirect(w, r, "/#"+r.URL.RequestURI(), http.StatusFound)
}

func (h *SPAHandler) exists(urlPath string) bool {
	if h.root == "" {
		return false
	}

	clean := path.Clean("/" + urlPath)
	name := filepath.Join(h.root, filepath.FromSlash(strings.TrimPrefix(clean, "/")))

	info, err := os.Stat(name)
	if err != nil {
		return false
	}
	if info.IsDir() {
		_, err := os.Stat(filepath.Join(name, "index.html"))
		return err == nil
	}
	return true
}
