package server

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type listingBody struct {
	Total   int          `json:"total"`
	Imagens []ImageEntry `json:"imagens"`
}

// TestUploadThenList drives the service over a real listener: upload an
// image, find it in the listing, then fetch it through the static server.
func TestUploadThenList(t *testing.T) {
	env := newTestEnv(t, func(c *Config) { c.Now = time.Now })
	ts := httptest.NewServer(env.srv.Handler())
	defer ts.Close()

	client := &http.Client{Timeout: 10 * time.Second}
	payload := []byte("\x89PNG\r\n\x1a\n\x00\x00")

	body, ct := multipartBody(t, imagePart("test.png", "image/png", payload))
	resp, err := client.Post(ts.URL+"/upload", ct, body)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var uploaded uploadResp
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&uploaded))
	assert.True(t, uploaded.Success)
	assert.Regexp(t, regexp.MustCompile(`^img-\d+\.png$`), uploaded.Filename)
	assert.Equal(t, "fotos/"+uploaded.Filename, uploaded.ImageURL)

	listResp, err := client.Get(ts.URL + "/fotos")
	require.NoError(t, err)
	defer listResp.Body.Close()
	require.Equal(t, http.StatusOK, listResp.StatusCode)

	var listing listingBody
	require.NoError(t, json.NewDecoder(listResp.Body).Decode(&listing))
	require.Equal(t, 1, listing.Total)
	require.Len(t, listing.Imagens, 1)
	assert.Equal(t, uploaded.Filename, listing.Imagens[0].Filename)
	assert.Equal(t, uploaded.ImageURL, listing.Imagens[0].URL)

	imgResp, err := client.Get(ts.URL + "/" + uploaded.ImageURL)
	require.NoError(t, err)
	defer imgResp.Body.Close()
	require.Equal(t, http.StatusOK, imgResp.StatusCode)
	got, err := io.ReadAll(imgResp.Body)
	require.NoError(t, err)
	assert.True(t, bytes.Equal(payload, got))
}

func TestRejectedUploadsLeaveNoFiles(t *testing.T) {
	env := newTestEnv(t, func(c *Config) { c.MaxUploadBytes = 64 })
	ts := httptest.NewServer(env.srv.Handler())
	defer ts.Close()

	cases := [][]formPart{
		{{field: "descricao", content: []byte("sem arquivo")}},
		{imagePart("notes.txt", "text/plain", []byte("hello"))},
		{imagePart("big.jpg", "image/jpeg", bytes.Repeat([]byte("j"), 65))},
	}

	for _, parts := range cases {
		body, ct := multipartBody(t, parts...)
		resp, err := http.Post(ts.URL+"/upload", ct, body)
		require.NoError(t, err)
		_, _ = io.Copy(io.Discard, resp.Body)
		resp.Body.Close()
		assert.GreaterOrEqual(t, resp.StatusCode, 400)
	}

	listResp, err := http.Get(ts.URL + "/fotos")
	require.NoError(t, err)
	defer listResp.Body.Close()

	var listing listingBody
	require.NoError(t, json.NewDecoder(listResp.Body).Decode(&listing))
	assert.Equal(t, 0, listing.Total)
	assert.Empty(t, env.storedFiles(t))
}
