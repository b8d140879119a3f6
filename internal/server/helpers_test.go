package server

import (
	"bytes"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// formPart is one multipart part. An empty filename makes it a plain field.
type formPart struct {
	field       string
	filename    string
	contentType string
	content     []byte
}

func multipartBody(t *testing.T, parts ...formPart) (*bytes.Buffer, string) {
	t.Helper()

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	for _, p := range parts {
		if p.filename == "" {
			require.NoError(t, writer.WriteField(p.field, string(p.content)))
			continue
		}

		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="%s"; filename="%s"`, p.field, p.filename))
		if p.contentType != "" {
			h.Set("Content-Type", p.contentType)
		}
		part, err := writer.CreatePart(h)
		require.NoError(t, err)
		_, err = part.Write(p.content)
		require.NoError(t, err)
	}

	require.NoError(t, writer.Close())
	return body, writer.FormDataContentType()
}

func imagePart(filename, contentType string, content []byte) formPart {
	return formPart{field: uploadField, filename: filename, contentType: contentType, content: content}
}

// testEnv lays out a static root with the storage directory inside it, the
// way the service runs in production.
type testEnv struct {
	srv        *Server
	staticRoot string
	storageDir string
}

func newTestEnv(t *testing.T, mutate ...func(*Config)) testEnv {
	t.Helper()

	root := t.TempDir()
	storage := filepath.Join(root, "fotos")
	require.NoError(t, os.Mkdir(storage, 0o755))

	cfg := Config{
		Addr:       "127.0.0.1:0",
		StorageDir: storage,
		URLPrefix:  "fotos",
		StaticRoot: root,
		Now:        fixedClock,
	}
	for _, m := range mutate {
		m(&cfg)
	}

	return testEnv{srv: New(cfg), staticRoot: root, storageDir: storage}
}

func (e testEnv) do(req *http.Request) *httptest.ResponseRecorder {
	rr := httptest.NewRecorder()
	e.srv.Handler().ServeHTTP(rr, req)
	return rr
}

func (e testEnv) upload(t *testing.T, parts ...formPart) *httptest.ResponseRecorder {
	t.Helper()
	body, contentType := multipartBody(t, parts...)
	req := httptest.NewRequest(http.MethodPost, "/upload", body)
	req.Header.Set("Content-Type", contentType)
	return e.do(req)
}

func (e testEnv) storedFiles(t *testing.T) []string {
	t.Helper()
	entries, err := os.ReadDir(e.storageDir)
	require.NoError(t, err)
	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		names = append(names, entry.Name())
	}
	return names
}

func decodeJSON(t *testing.T, rr *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &out), "body: %s", rr.Body.String())
	return out
}
