package server

import (
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// storedNamePrefix starts every generated filename.
const storedNamePrefix = "img-"

// StoredImage is where an accepted upload lands on disk.
type StoredImage struct {
	Filename string // img-<unix millis><ext>
	Path     string // Dir joined with Filename
}

// Resolver maps an uploaded file's original name to a destination inside
// Dir. It never touches the filesystem: Dir must already exist.
//
// Names are unique only at millisecond resolution. Two uploads with the same
// extension in the same millisecond resolve to the same path and the later
// write replaces the earlier one.
type Resolver struct {
	Dir string
	Now func() time.Time
}

// NewResolver returns a Resolver for dir using the wall clock.
func NewResolver(dir string) Resolver {
	return Resolver{Dir: dir, Now: time.Now}
}

// Resolve computes the destination for originalName.
func (r Resolver) Resolve(originalName string) StoredImage {
	now := time.Now
	if r.Now != nil {
		now = r.Now
	}
	name := StoredName(originalName, now())
	return StoredImage{
		Filename: name,
		Path:     filepath.Join(r.Dir, name),
	}
}

// StoredName builds "img-<millis><ext>" where ext is the original name's
// extension including the dot, or empty when it has none.
func StoredName(originalName string, t time.Time) string {
	return storedNamePrefix + strconv.FormatInt(t.UnixMilli(), 10) + originalExt(originalName)
}

// originalExt returns the last dot-suffix of the base name. A single leading
// dot marks a hidden name, so ".bashrc" and ".." have no extension while
// "..png" keeps ".png".
func originalExt(name string) string {
	base := name
	if i := strings.LastIndexAny(base, `/\`); i >= 0 {
		base = base[i+1:]
	}
	base = strings.ReplaceAll(base, "\x00", "")

	if base == ".." {
		return ""
	}
	trimmed := strings.TrimPrefix(base, ".")
	i := strings.LastIndexByte(trimmed, '.')
	if i < 0 {
		return ""
	}
	return trimmed[i:]
}
