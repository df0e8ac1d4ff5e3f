package rest

import (
	"net/http"
	"os"
	"path/filepath"
	"strings"
)

type FrontendHandler struct {
	dir   string
	index string
	files http.Handler
}

// NewFrontendHandler serves static files from dir, falling back to index for
// unknown paths so client side routing keeps working.
func NewFrontendHandler(dir, index string) *FrontendHandler {
	return &FrontendHandler{
		dir:   dir,
		index: index,
		files: http.FileServer(http.Dir(dir)),
	}
}

func (h *FrontendHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if strings.HasPrefix(r.URL.Path, "/api/") {
		http.NotFound(w, r)
		return
	}
	path := filepath.Join(h.dir, filepath.Clean("/"+r.URL.Path))
	if info, err := os.Stat(path); err != nil || info.IsDir() {
		http.ServeFile(w, r, filepath.Join(h.dir, h.index))
		return
	}
	h.files.ServeHTTP(w, r)
}
