package server

import "errors"

var (
	// ErrMissingFile means the request carried no "imagem" file part.
	ErrMissingFile = errors.New("no file uploaded")
	// ErrUnexpectedField means a file part arrived under another field name.
	ErrUnexpectedField = errors.New("unexpected file field")
	// ErrUnsupportedMediaType means the declared MIME type is not image/*.
	ErrUnsupportedMediaType = errors.New("only image files are allowed")
	// ErrPayloadTooLarge means the file exceeded the configured ceiling.
	ErrPayloadTooLarge = errors.New("file too large")
	// ErrDirectoryUnreadable means the storage directory could not be listed.
	ErrDirectoryUnreadable = errors.New("storage directory unreadable")
	// ErrInternalStorage covers every other failure while persisting a file.
	ErrInternalStorage = errors.New("internal storage failure")
	// ErrStartupBind means the listen address could not be bound.
	ErrStartupBind = errors.New("cannot bind listen address")
)
