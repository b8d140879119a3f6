package server

import (
	"net/http"
	"os"
	"path"
	"strings"
)

// noListingFS hides dotfiles and directories that have no index.html, so the
// file server answers 404 instead of exposing .env or a directory listing.
type noListingFS struct {
	fs http.FileSystem
}

func (n noListingFS) Open(name string) (http.File, error) {
	if hasDotSegment(name) {
		return nil, os.ErrNotExist
	}

	f, err := n.fs.Open(name)
	if err != nil {
		return nil, err
	}

	info, err := f.Stat()
	if err != nil {
		_ = f.Close()
		return nil, err
	}

	if info.IsDir() {
		index, err := n.fs.Open(path.Join(name, "index.html"))
		if err != nil {
			_ = f.Close()
			return nil, os.ErrNotExist
		}
		_ = index.Close()
	}

	return f, nil
}

// hasDotSegment reports whether any element of the cleaned path is hidden.
func hasDotSegment(name string) bool {
	for _, seg := range strings.Split(path.Clean("/"+name), "/") {
		if strings.HasPrefix(seg, ".") {
			return true
		}
	}
	return false
}

// staticHandler serves files under the static root for GET and HEAD.
func (s *Server) staticHandler() http.Handler {
	files := http.FileServer(noListingFS{fs: http.Dir(s.cfg.StaticRoot)})

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet && r.Method != http.MethodHead {
			w.Header().Set("Allow", "GET, HEAD")
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		files.ServeHTTP(w, r)
	})
}
