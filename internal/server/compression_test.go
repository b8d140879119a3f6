package server

import (
	"compress/gzip"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompression_JSONRoutes(t *testing.T) {
	env := newTestEnv(t)

	for _, path := range []string{"/", "/fotos"} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		req.Header.Set("Accept-Encoding", "gzip, deflate")
		rr := env.do(req)

		require.Equal(t, http.StatusOK, rr.Code, path)
		assert.Equal(t, "gzip", rr.Header().Get("Content-Encoding"), path)

		gz, err := gzip.NewReader(rr.Body)
		require.NoError(t, err, path)
		plain, err := io.ReadAll(gz)
		require.NoError(t, err, path)
		assert.Contains(t, string(plain), "{", path)
	}
}

func TestCompression_NotRequested(t *testing.T) {
	env := newTestEnv(t)

	rr := env.do(httptest.NewRequest(http.MethodGet, "/fotos", nil))

	assert.Empty(t, rr.Header().Get("Content-Encoding"))
	assert.JSONEq(t, `{"total":0,"imagens":[]}`, rr.Body.String())
}

func TestCompression_SkipsStaticFiles(t *testing.T) {
	env := newTestEnv(t)
	require.NoError(t, os.WriteFile(filepath.Join(env.storageDir, "img-1.png"), []byte("png-bytes"), 0o644))

	req := httptest.NewRequest(http.MethodGet, "/fotos/img-1.png", nil)
	req.Header.Set("Accept-Encoding", "gzip")
	rr := env.do(req)

	require.Equal(t, http.StatusOK, rr.Code)
	assert.Empty(t, rr.Header().Get("Content-Encoding"))
	assert.Equal(t, "png-bytes", rr.Body.String())
}

func TestAcceptsCompression(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	assert.False(t, acceptsCompression(req))

	req.Header.Set("Accept-Encoding", "br, gzip")
	assert.True(t, acceptsCompression(req))
}
