package server

import (
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
)

// imageExtensions are matched case-insensitively against entry names.
var imageExtensions = []string{".jpg", ".jpeg", ".png", ".gif", ".webp"}

// ImageEntry describes one stored image.
type ImageEntry struct {
	Filename string `json:"filename"`
	URL      string `json:"url"`
	FullPath string `json:"fullPath"`
}

type listingResp struct {
	Total   int          `json:"total"`
	Imagens []ImageEntry `json:"imagens"`
}

type listingErrorResp struct {
	Error string `json:"error"`
}

func isImageName(name string) bool {
	lower := strings.ToLower(name)
	for _, ext := range imageExtensions {
		if strings.HasSuffix(lower, ext) {
			return true
		}
	}
	return false
}

// ListImages returns the image files in dir sorted by filename. URLs are
// built under urlPrefix; FullPath is absolute. Subdirectories are skipped
// even when their names look like images.
func ListImages(dir, urlPrefix string) ([]ImageEntry, error) {
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDirectoryUnreadable, err)
	}

	entries, err := os.ReadDir(absDir)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDirectoryUnreadable, err)
	}

	images := make([]ImageEntry, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() || !isImageName(e.Name()) {
			continue
		}
		images = append(images, ImageEntry{
			Filename: e.Name(),
			URL:      urlPrefix + "/" + e.Name(),
			FullPath: filepath.Join(absDir, e.Name()),
		})
	}
	return images, nil
}

// handleListFotos answers GET /fotos.
func (s *Server) handleListFotos(w http.ResponseWriter, r *http.Request) {
	images, err := ListImages(s.cfg.StorageDir, s.cfg.URLPrefix)
	if err != nil {
		s.log.Error("listing failed",
			zap.String("rid", RequestIDFromContext(r.Context())),
			zap.String("dir", s.cfg.StorageDir),
			zap.Error(err),
		)
		s.metrics.RecordListingError()
		writeJSON(w, http.StatusInternalServerError, listingErrorResp{Error: "Erro ao ler pasta fotos"})
		return
	}

	s.metrics.RecordListing(len(images))
	writeJSON(w, http.StatusOK, listingResp{Total: len(images), Imagens: images})
}
