// Package server implements the local static file server used by the test
// and documentation pipelines: it serves the project root with configurable
// path rewrites and unconditionally permissive CORS headers.
package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/vk/pipewright/internal/ctxlog"
)

// Options configures a static server instance.
type Options struct {
	// Root is the directory served as /.
	Root string
	// Port is the fixed local port to bind.
	Port int
	// Rewrites maps request path prefixes to replacement prefixes,
	// applied before the file lookup (longest prefix wins).
	Rewrites map[string]string
	// CORS enables permissive cross-origin headers on every response.
	CORS bool
}

// Server is a running static file server. It is created by Start, which
// binds the port synchronously so a port-already-bound error is reported to
// the step that asked for the server, not logged from a goroutine later.
type Server struct {
	opts     Options
	listener net.Listener
	httpSrv  *http.Server
	// rewrite prefixes sorted longest-first so the most specific wins.
	prefixes []string
}

// Start binds the configured port and begins serving. The returned Server
// must be closed by the caller; the runner does this on every pipeline exit
// path so the port does not leak across invocations.
func Start(ctx context.Context, opts Options) (*Server, error) {
	logger := ctxlog.FromContext(ctx)

	listener, err := net.Listen("tcp", fmt.Sprintf(":%d", opts.Port))
	if err != nil {
		return nil, fmt.Errorf("failed to bind static server port %d: %w", opts.Port, err)
	}

	s := &Server{opts: opts, listener: listener}
	for prefix := range opts.Rewrites {
		s.prefixes = append(s.prefixes, prefix)
	}
	sort.Slice(s.prefixes, func(i, j int) bool { return len(s.prefixes[i]) > len(s.prefixes[j]) })

	mux := http.NewServeMux()
	mux.Handle("/", s.middleware(http.FileServer(http.Dir(opts.Root))))
	s.httpSrv = &http.Server{Handler: mux}

	go func() {
		logger.Info("🌐 Static server starting", "address", fmt.Sprintf("http://localhost:%d/", opts.Port), "root", opts.Root)
		if err := s.httpSrv.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("Static server failed unexpectedly", "error", err)
		}
	}()

	return s, nil
}

// Addr returns the bound listen address.
func (s *Server) Addr() string {
	return s.listener.Addr().String()
}

// middleware applies the path rewrites and CORS headers around the file
// server.
func (s *Server) middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.opts.CORS {
			w.Header().Set("Access-Control-Allow-Origin", "*")
			w.Header().Set("Access-Control-Allow-Methods", "GET, HEAD, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "*")
			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusNoContent)
				return
			}
		}

		for _, prefix := range s.prefixes {
			if strings.HasPrefix(r.URL.Path, prefix) {
				r.URL.Path = s.opts.Rewrites[prefix] + strings.TrimPrefix(r.URL.Path, prefix)
				break
			}
		}

		next.ServeHTTP(w, r)
	})
}

// Close shuts the server down gracefully and releases the port.
func (s *Server) Close(ctx context.Context) error {
	logger := ctxlog.FromContext(ctx)
	logger.Info("🌐 Shutting down static server...", "address", s.Addr())

	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
	defer cancel()

	if err := s.httpSrv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Static server shutdown failed", "error", err)
		return err
	}

	// Shutdown only closes listeners Serve has registered. If Close ran
	// before the serve goroutine reached Serve, the listener is still
	// bound, so close it directly; the port must be free on return.
	if err := s.listener.Close(); err != nil && !errors.Is(err, net.ErrClosed) {
		return err
	}

	logger.Debug("Static server shut down gracefully.")
	return nil
}
