package server

import (
	"context"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func freePort(t *testing.T) int {
	t.Helper()
	l, err := net.Listen("tcp", ":0")
	require.NoError(t, err)
	port := l.Addr().(*net.TCPAddr).Port
	require.NoError(t, l.Close())
	return port
}

func startTestServer(t *testing.T, opts Options) *Server {
	t.Helper()
	if opts.Port == 0 {
		opts.Port = freePort(t)
	}
	s, err := Start(context.Background(), opts)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close(context.Background()) })
	return s
}

func get(t *testing.T, s *Server, path string) *http.Response {
	t.Helper()
	resp, err := http.Get(fmt.Sprintf("http://%s%s", s.Addr(), path))
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func TestServeStaticFiles(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "index.html"), []byte("<html>hi</html>"), 0o644))

	s := startTestServer(t, Options{Root: root})

	resp := get(t, s, "/index.html")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, "<html>hi</html>", string(body))
}

func TestPermissiveCORSOnEveryResponse(t *testing.T) {
	root := t.TempDir()
	s := startTestServer(t, Options{Root: root, CORS: true})

	resp := get(t, s, "/missing.js")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "*", resp.Header.Get("Access-Control-Allow-Origin"))
}

func TestPathRewrites(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "lib"), 0o755))
	require.NoError(t, os.MkdirAll(filepath.Join(root, "lib", "addons"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "lib", "library.js"), []byte("lib"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "lib", "addons", "sound.js"), []byte("sound"), 0o644))

	s := startTestServer(t, Options{
		Root: root,
		Rewrites: map[string]string{
			"/assets/sound/": "/lib/addons/",
			"/assets/":       "/lib/",
		},
	})

	resp := get(t, s, "/assets/library.js")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	body, _ := io.ReadAll(resp.Body)
	assert.Equal(t, "lib", string(body))

	// The longer prefix wins over the shorter one.
	resp = get(t, s, "/assets/sound/sound.js")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	body, _ = io.ReadAll(resp.Body)
	assert.Equal(t, "sound", string(body))
}

func TestPortReleasedAfterClose(t *testing.T) {
	port := freePort(t)
	s, err := Start(context.Background(), Options{Root: t.TempDir(), Port: port})
	require.NoError(t, err)
	require.NoError(t, s.Close(context.Background()))

	// The port must be bindable again immediately after Close.
	l, err := net.Listen("tcp", fmt.Sprintf(":%d", port))
	require.NoError(t, err)
	require.NoError(t, l.Close())
}

func TestImmediateCloseReleasesPort(t *testing.T) {
	// Close can run before the serve goroutine is scheduled at all; the
	// port must still be free the moment Close returns. Cycling quickly
	// on one port catches a listener left behind by that ordering.
	port := freePort(t)
	root := t.TempDir()
	for i := 0; i < 20; i++ {
		s, err := Start(context.Background(), Options{Root: root, Port: port})
		require.NoError(t, err, "iteration %d", i)
		require.NoError(t, s.Close(context.Background()), "iteration %d", i)
	}

	l, err := net.Listen("tcp", fmt.Sprintf(":%d", port))
	require.NoError(t, err)
	require.NoError(t, l.Close())
}

func TestPortAlreadyBoundIsFatal(t *testing.T) {
	port := freePort(t)
	l, err := net.Listen("tcp", fmt.Sprintf(":%d", port))
	require.NoError(t, err)
	defer l.Close()

	_, err = Start(context.Background(), Options{Root: t.TempDir(), Port: port})
	assert.Error(t, err)
}
