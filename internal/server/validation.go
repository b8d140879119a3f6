// validation.go - Upload acceptance rules
package server

import (
	"strings"
)

// imageMimePrefix is the only accepted family of declared content types.
const imageMimePrefix = "image/"

// UploadedFile is what the client declared about a file part before any of
// its bytes are read.
type UploadedFile struct {
	Filename    string
	ContentType string
	// Size is the declared byte count, or -1 when unknown. Multipart parts
	// carry no size, so the streaming write enforces the limit regardless.
	Size int64
}

// RejectReason classifies a Verdict.
type RejectReason int

const (
	Accept RejectReason = iota
	RejectUnsupportedMediaType
	RejectPayloadTooLarge
)

func (r RejectReason) String() string {
	switch r {
	case Accept:
		return "accepted"
	case RejectUnsupportedMediaType:
		return "unsupported_media_type"
	case RejectPayloadTooLarge:
		return "payload_too_large"
	default:
		return "unknown"
	}
}

// Verdict is the outcome of ValidateUpload.
type Verdict struct {
	Reason    RejectReason
	MediaType string // normalized declared type
}

// Accepted reports whether the upload may be written.
func (v Verdict) Accepted() bool {
	return v.Reason == Accept
}

// Err maps a rejection onto the package's sentinel errors; nil when accepted.
func (v Verdict) Err() error {
	switch v.Reason {
	case RejectUnsupportedMediaType:
		return ErrUnsupportedMediaType
	case RejectPayloadTooLarge:
		return ErrPayloadTooLarge
	default:
		return nil
	}
}

// ValidateUpload decides whether f may be stored. It performs no I/O.
func ValidateUpload(f UploadedFile, maxBytes int64) Verdict {
	mediaType := normalizeMediaType(f.ContentType)

	if !strings.HasPrefix(mediaType, imageMimePrefix) {
		return Verdict{Reason: RejectUnsupportedMediaType, MediaType: mediaType}
	}

	if maxBytes > 0 && f.Size > maxBytes {
		return Verdict{Reason: RejectPayloadTooLarge, MediaType: mediaType}
	}

	return Verdict{Reason: Accept, MediaType: mediaType}
}

// normalizeMediaType lowercases the type and drops parameters such as charset.
func normalizeMediaType(contentType string) string {
	mediaType := strings.TrimSpace(strings.ToLower(contentType))
	if idx := strings.Index(mediaType, ";"); idx >= 0 {
		mediaType = mediaType[:idx]
	}
	return strings.TrimSpace(mediaType)
}
