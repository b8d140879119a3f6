package server

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"go.uber.org/zap"
)

// uploadField is the multipart field that carries the image.
const uploadField = "imagem"

// multipartOverhead is the headroom allowed on the request body beyond the
// file limit for boundaries, part headers and ordinary form fields.
const multipartOverhead int64 = 1 << 20

// uploadResp is the JSON response returned after a successful upload.
type uploadResp struct {
	Success  bool   `json:"success"`
	Message  string `json:"message"`
	Filename string `json:"filename"`
	ImageURL string `json:"imageUrl"`
	Path     string `json:"path"`
}

// handleUpload handles POST /upload. The request must be multipart with the
// image in the "imagem" field. The declared MIME type is checked before the
// destination file is opened, and the size ceiling is enforced while the
// part is copied, so a rejected upload never leaves a file behind.
func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	log := s.log.With(zap.String("rid", RequestIDFromContext(r.Context())))

	stored, written, err := s.receiveUpload(w, r)
	if err != nil {
		status, msg := uploadErrorResponse(err, s.cfg.MaxUploadBytes)
		if status >= http.StatusInternalServerError {
			log.Error("upload failed", zap.Error(err))
			s.metrics.RecordUploadError()
		} else {
			log.Info("upload rejected", zap.Int("status", status), zap.Error(err))
			s.metrics.RecordUploadRejected(err)
		}
		writeJSON(w, status, errorResp{Success: false, Error: msg})
		return
	}

	log.Info("image saved",
		zap.String("path", stored.Path),
		zap.Int64("bytes", written),
	)
	s.metrics.RecordUpload(written, time.Since(start))

	writeJSON(w, http.StatusOK, uploadResp{
		Success:  true,
		Message:  "Imagem salva na pasta fotos!",
		Filename: stored.Filename,
		ImageURL: s.cfg.URLPrefix + "/" + stored.Filename,
		Path:     stored.Path,
	})
}

// receiveUpload walks the multipart stream up to the first file part and
// stores it. Plain form fields are skipped.
func (s *Server) receiveUpload(w http.ResponseWriter, r *http.Request) (StoredImage, int64, error) {
	limit := s.cfg.MaxUploadBytes

	if r.ContentLength > limit+multipartOverhead {
		return StoredImage{}, 0, fmt.Errorf("%w: content length %d", ErrPayloadTooLarge, r.ContentLength)
	}
	r.Body = http.MaxBytesReader(w, r.Body, limit+multipartOverhead)

	mr, err := r.MultipartReader()
	if err != nil {
		return StoredImage{}, 0, fmt.Errorf("%w: %w", ErrMissingFile, err)
	}

	for {
		part, err := mr.NextPart()
		if err == io.EOF {
			return StoredImage{}, 0, ErrMissingFile
		}
		if err != nil {
			if isMaxBytesError(err) {
				return StoredImage{}, 0, fmt.Errorf("%w: %w", ErrPayloadTooLarge, err)
			}
			return StoredImage{}, 0, fmt.Errorf("%w: bad multipart: %w", ErrMissingFile, err)
		}

		if part.FileName() == "" {
			_ = part.Close()
			continue
		}
		if part.FormName() != uploadField {
			_ = part.Close()
			return StoredImage{}, 0, fmt.Errorf("%w: %q", ErrUnexpectedField, part.FormName())
		}

		defer func() { _ = part.Close() }()

		file := UploadedFile{
			Filename:    part.FileName(),
			ContentType: part.Header.Get("Content-Type"),
			Size:        -1,
		}
		return s.storeFile(file, part)
	}
}

// storeFile validates f and streams body to its resolved destination,
// removing the file again if anything goes wrong.
func (s *Server) storeFile(f UploadedFile, body io.Reader) (StoredImage, int64, error) {
	limit := s.cfg.MaxUploadBytes

	verdict := ValidateUpload(f, limit)
	if !verdict.Accepted() {
		return StoredImage{}, 0, fmt.Errorf("%w: %s", verdict.Err(), verdict.MediaType)
	}

	dest := s.resolver.Resolve(f.Filename)

	out, err := os.OpenFile(dest.Path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return StoredImage{}, 0, fmt.Errorf("%w: %w", ErrInternalStorage, err)
	}

	// Copy at most one byte past the limit so an oversize part is detected
	// without reading the rest of it.
	n, copyErr := io.Copy(out, io.LimitReader(body, limit+1))
	closeErr := out.Close()

	switch {
	case copyErr != nil:
		s.discard(dest.Path)
		if isMaxBytesError(copyErr) {
			return StoredImage{}, 0, fmt.Errorf("%w: %w", ErrPayloadTooLarge, copyErr)
		}
		return StoredImage{}, 0, fmt.Errorf("%w: write %s: %w", ErrInternalStorage, dest.Path, copyErr)
	case n > limit:
		s.discard(dest.Path)
		return StoredImage{}, 0, fmt.Errorf("%w: more than %d bytes", ErrPayloadTooLarge, limit)
	case closeErr != nil:
		s.discard(dest.Path)
		return StoredImage{}, 0, fmt.Errorf("%w: close %s: %w", ErrInternalStorage, dest.Path, closeErr)
	}

	return dest, n, nil
}

func (s *Server) discard(path string) {
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		s.log.Warn("failed to remove partial upload", zap.String("path", path), zap.Error(err))
	}
}

func isMaxBytesError(err error) bool {
	var mbe *http.MaxBytesError
	return errors.As(err, &mbe)
}

// uploadErrorResponse maps an upload error onto a status code and the
// message shown to the client. Unknown errors never leak detail.
func uploadErrorResponse(err error, limit int64) (int, string) {
	switch {
	case errors.Is(err, ErrMissingFile):
		return http.StatusBadRequest, "Nenhum arquivo foi enviado"
	case errors.Is(err, ErrUnexpectedField):
		return http.StatusBadRequest, "Campo de arquivo inesperado"
	case errors.Is(err, ErrUnsupportedMediaType):
		return http.StatusUnsupportedMediaType, "Apenas arquivos de imagem são permitidos!"
	case errors.Is(err, ErrPayloadTooLarge):
		return http.StatusRequestEntityTooLarge, "Arquivo excede o limite de " + humanLimit(limit)
	default:
		return http.StatusInternalServerError, "Erro interno do servidor"
	}
}

// humanLimit renders whole mebibytes as "5MB" and anything else in bytes.
func humanLimit(n int64) string {
	const mib = 1024 * 1024
	if n >= mib && n%mib == 0 {
		return fmt.Sprintf("%dMB", n/mib)
	}
	return fmt.Sprintf("%d bytes", n)
}
