package net

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDownload(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("model bytes"))
	}))
	defer srv.Close()

	dest := filepath.Join(t.TempDir(), "model.xgb")
	require.NoError(t, Download(srv.URL+"/model.xgb", dest))

	b, err := os.ReadFile(dest)
	require.NoError(t, err)
	assert.Equal(t, "model bytes", string(b))
}

func TestDownload_NotFound(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	defer srv.Close()

	dest := filepath.Join(t.TempDir(), "missing.csv")
	err := Download(srv.URL+"/missing.csv", dest)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrorURLNotFound)
}

func TestDownload_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	dest := filepath.Join(t.TempDir(), "model.xgb")
	assert.Error(t, Download(srv.URL+"/model.xgb", dest))
}
