package handler

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/banzai-team/spoon-rebalancing/internal/attachment"
	"github.com/banzai-team/spoon-rebalancing/pkg/storage"
)

func newUploadRouter(t *testing.T) (*gin.Engine, string) {
	t.Helper()
	dir := t.TempDir()
	store, err := storage.NewLocalStorage(storage.LocalConfig{BasePath: dir})
	require.NoError(t, err)

	gin.SetMode(gin.TestMode)
	r := gin.New()
	NewUploadHandler(attachment.NewService(store, "uploads")).RegisterRoutes(r)
	return r, dir
}

func multipartBody(t *testing.T, files map[string]string) (*bytes.Buffer, string) {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	for name, content := range files {
		part, err := mw.CreateFormFile("files", name)
		require.NoError(t, err)
		_, err = part.Write([]byte(content))
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())
	return &body, mw.FormDataContentType()
}

func TestUploadStoresBatch(t *testing.T) {
	r, dir := newUploadRouter(t)

	body, contentType := multipartBody(t, map[string]string{
		"portfolio.csv": "BTC,0.5\nETH,2.0",
		"notes.txt":     "rebalance quarterly",
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/upload", body)
	req.Header.Set("Content-Type", contentType)
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		URLs []string `json:"urls"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.URLs, 2)

	// Every URL resolves to a stored file named millis-original.
	for _, u := range resp.URLs {
		assert.Regexp(t, `^/uploads/\d+-[A-Za-z0-9.\-_]+$`, u)
		assert.FileExists(t, filepath.Join(dir, u))
	}
}

func TestUploadSanitisesNames(t *testing.T) {
	r, dir := newUploadRouter(t)

	body, contentType := multipartBody(t, map[string]string{
		"my report (final).pdf": "data",
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/upload", body)
	req.Header.Set("Content-Type", contentType)
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	entries, err := os.ReadDir(filepath.Join(dir, "uploads"))
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Contains(t, entries[0].Name(), "my_report__final_.pdf")

	assert.Regexp(t, `^\d{13}-`, entries[0].Name())
}

func TestUploadedFileIsServedBack(t *testing.T) {
	dir := t.TempDir()
	store, err := storage.NewLocalStorage(storage.LocalConfig{BasePath: dir})
	require.NoError(t, err)

	gin.SetMode(gin.TestMode)
	r := gin.New()
	NewUploadHandler(attachment.NewService(store, "uploads")).RegisterRoutes(r)
	// Same wiring as the server entrypoint: the static route is rooted at
	// the uploads subdirectory the attachment service writes into.
	r.Static("/uploads", filepath.Join(store.BasePath(), "uploads"))

	body, contentType := multipartBody(t, map[string]string{"a.png": "png-bytes"})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/upload", body)
	req.Header.Set("Content-Type", contentType)
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		URLs []string `json:"urls"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.URLs, 1)

	// The returned URL must resolve through the router, not just on disk.
	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, resp.URLs[0], nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "png-bytes", w.Body.String())
}

func TestUploadNoFiles(t *testing.T) {
	r, _ := newUploadRouter(t)

	body, contentType := multipartBody(t, nil)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/upload", body)
	req.Header.Set("Content-Type", contentType)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}
