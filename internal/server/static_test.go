package server

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func artifactDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "index.html"), []byte("<html>map</html>"), 0o644))
	return dir
}

func TestNewStatic_MissingDir(t *testing.T) {
	_, err := NewStatic(Config{Dir: filepath.Join(t.TempDir(), "absent")}, nil)
	require.Error(t, err)
}

func TestNewStatic_NotADir(t *testing.T) {
	dir := artifactDir(t)
	_, err := NewStatic(Config{Dir: filepath.Join(dir, "index.html")}, nil)
	require.Error(t, err)
}

func TestHandler_ServesArtifact(t *testing.T) {
	srv, err := NewStatic(Config{Dir: artifactDir(t)}, nil)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/index.html", nil)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "<html>map</html>", rec.Body.String())
	require.Equal(t, "no-cache", rec.Header().Get("Cache-Control"))
}

func TestHandler_CustomCacheControl(t *testing.T) {
	srv, err := NewStatic(Config{Dir: artifactDir(t), CacheControl: "max-age=60"}, nil)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	require.Equal(t, "max-age=60", rec.Header().Get("Cache-Control"))
}

func TestHandler_NotFound(t *testing.T) {
	srv, err := NewStatic(Config{Dir: artifactDir(t)}, nil)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/missing.png", nil)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	require.Equal(t, http.StatusNotFound, rec.Code)
}
