package main

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stevemurr/simple-blog-server/config"
	"github.com/stevemurr/simple-blog-server/logging"
)

func TestVersionCommand(t *testing.T) {
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"version"})

	require.NoError(t, cmd.Execute())
	assert.Contains(t, out.String(), "blog-server "+Version)
}

func TestServeRejectsMissingConfig(t *testing.T) {
	cmd := newRootCmd()
	cmd.SetArgs([]string{"serve", "--config", filepath.Join(t.TempDir(), "nope.toml")})
	assert.Error(t, cmd.Execute())
}

func TestNewServerStack(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
[store]
backend = "sqlite"

[cors]
origins = ["https://app.test"]
`), 0o644))
	t.Setenv("STORE_BACKEND", "")
	t.Setenv("ALLOWED_ORIGINS", "")
	t.Setenv("REQUIRED_FIELDS", "title,content")

	cfg, err := loadConfig(path)
	require.NoError(t, err)

	srv, s, policy, err := newServer(cfg, logging.Nop())
	require.NoError(t, err)
	defer s.Close()
	assert.Equal(t, []string{"title", "content"}, policy.Fields())

	ts := httptest.NewServer(srv.Handler)
	defer ts.Close()

	req, err := http.NewRequest(http.MethodPost, ts.URL+"/blogs", strings.NewReader(`{"title":"a","content":"b"}`))
	require.NoError(t, err)
	req.Header.Set("Origin", "https://app.test")
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Equal(t, "https://app.test", resp.Header.Get("Access-Control-Allow-Origin"))
	assert.NotEmpty(t, resp.Header.Get("X-Request-ID"))

	var body map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, float64(1), body["data"].(map[string]any)["id"])

	n, err := s.Len(req.Context())
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestNewServerOptions(t *testing.T) {
	t.Setenv("STORE_BACKEND", "")
	t.Setenv("ALLOWED_ORIGINS", "")

	cfg := &config.Config{}
	require.NoError(t, cfg.Finalize())

	srv, s, _, err := newServer(cfg, logging.Nop())
	require.NoError(t, err)
	defer s.Close()

	ts := httptest.NewServer(srv.Handler)
	defer ts.Close()

	options := func(path string, preflight bool) *http.Response {
		req, err := http.NewRequest(http.MethodOptions, ts.URL+path, nil)
		require.NoError(t, err)
		if preflight {
			req.Header.Set("Origin", "https://app.test")
			req.Header.Set("Access-Control-Request-Method", http.MethodPost)
		}
		resp, err := http.DefaultClient.Do(req)
		require.NoError(t, err)
		resp.Body.Close()
		return resp
	}

	for _, path := range []string{"/", "/blogs", "/blogs/1", "/health"} {
		assert.Equal(t, http.StatusMethodNotAllowed, options(path, false).StatusCode, path)
	}
	assert.Equal(t, http.StatusNoContent, options("/blogs", true).StatusCode)
}
