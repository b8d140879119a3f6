package server

import (
	"fmt"
	"path/filepath"
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

var fixedTime = time.UnixMilli(1700000000000)

func fixedClock() time.Time { return fixedTime }

func TestStoredName(t *testing.T) {
	tests := []struct {
		name     string
		original string
		want     string
	}{
		{"png", "test.png", "img-1700000000000.png"},
		{"keeps case", "FOTO.JPG", "img-1700000000000.JPG"},
		{"last suffix only", "archive.tar.gz", "img-1700000000000.gz"},
		{"no extension", "README", "img-1700000000000"},
		{"empty", "", "img-1700000000000"},
		{"dotfile", ".bashrc", "img-1700000000000"},
		{"dotfile with ext", ".hidden.webp", "img-1700000000000.webp"},
		{"trailing dot", "photo.", "img-1700000000000."},
		{"double leading dot", "..png", "img-1700000000000.png"},
		{"parent dir", "..", "img-1700000000000"},
		{"unix path", "../../etc/passwd", "img-1700000000000"},
		{"windows path", `C:\Users\me\pic.gif`, "img-1700000000000.gif"},
		{"dot in directory", "dir.v2/pic", "img-1700000000000"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, StoredName(tt.original, fixedTime))
		})
	}
}

func TestResolver_Resolve(t *testing.T) {
	r := Resolver{Dir: "fotos", Now: fixedClock}

	got := r.Resolve("test.png")

	assert.Equal(t, "img-1700000000000.png", got.Filename)
	assert.Equal(t, filepath.Join("fotos", "img-1700000000000.png"), got.Path)
}

func TestResolver_WallClock(t *testing.T) {
	r := NewResolver("fotos")
	pattern := regexp.MustCompile(`^img-\d{13,}\.jpeg$`)

	before := time.Now().UnixMilli()
	got := r.Resolve("a.jpeg")
	after := time.Now().UnixMilli()

	assert.Regexp(t, pattern, got.Filename)

	var ms int64
	_, err := fmt.Sscanf(got.Filename, "img-%d.jpeg", &ms)
	assert.NoError(t, err)
	assert.GreaterOrEqual(t, ms, before)
	assert.LessOrEqual(t, ms, after)
}

// Same-millisecond uploads with the same extension collide. This is a known
// limitation of timestamp naming, not an error.
func TestResolver_SameMillisecondCollides(t *testing.T) {
	r := Resolver{Dir: "fotos", Now: fixedClock}

	a := r.Resolve("one.png")
	b := r.Resolve("two.png")
	c := r.Resolve("three.jpg")

	assert.Equal(t, a, b)
	assert.NotEqual(t, a.Filename, c.Filename)
}
