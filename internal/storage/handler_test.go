package storage

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
)

func newStorageServer(t *testing.T, signer *Signer) (string, http.Handler) {
	root := t.TempDir()
	dir := filepath.Join(root, "photos")
	assert.NoError(t, os.MkdirAll(dir, 0o755))
	assert.NoError(t, os.WriteFile(filepath.Join(dir, "worker-1.jpg"), []byte("jpeg bytes"), 0o644))

	router := chi.NewRouter()
	router.Get("/storage/*", NewHandler(signer, root).Serve)
	return root, router
}

func TestHandlerServe(t *testing.T) {
	signer := NewSigner("test-secret", 15*time.Minute)
	_, router := newStorageServer(t, signer)

	t.Run("Signed url streams the object", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, signer.SignedURL("photos/worker-1.jpg"), nil)
		resp := httptest.NewRecorder()
		router.ServeHTTP(resp, req)

		assert.Equal(t, http.StatusOK, resp.Code)
		assert.Equal(t, "jpeg bytes", resp.Body.String())
	})

	t.Run("Tampered signature rejected", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/storage/photos/worker-1.jpg?exp=9999999999&sig=deadbeef", nil)
		resp := httptest.NewRecorder()
		router.ServeHTTP(resp, req)

		assert.Equal(t, http.StatusForbidden, resp.Code)
	})

	t.Run("Expired url rejected", func(t *testing.T) {
		expired := NewSigner("test-secret", -time.Minute)
		req := httptest.NewRequest(http.MethodGet, expired.SignedURL("photos/worker-1.jpg"), nil)
		resp := httptest.NewRecorder()
		router.ServeHTTP(resp, req)

		assert.Equal(t, http.StatusForbidden, resp.Code)
	})

	t.Run("Malformed expiry rejected", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/storage/photos/worker-1.jpg?exp=soon&sig=deadbeef", nil)
		resp := httptest.NewRecorder()
		router.ServeHTTP(resp, req)

		assert.Equal(t, http.StatusBadRequest, resp.Code)
	})

	t.Run("Traversal stays inside the root", func(t *testing.T) {
		key := "../secret.txt"
		req := httptest.NewRequest(http.MethodGet, signer.SignedURL(key), nil)
		resp := httptest.NewRecorder()
		router.ServeHTTP(resp, req)

		assert.NotEqual(t, http.StatusOK, resp.Code)
	})
}
