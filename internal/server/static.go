// Package server serves a generated map artifact directory for local preview.
package server

import (
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"
)

// Config configures the preview server.
type Config struct {
	Dir          string // artifact directory (index.html, images/)
	CacheControl string
}

// Static serves the artifact directory.
type Static struct {
	cfg    Config
	logger *slog.Logger
	fs     http.Handler
}

// NewStatic creates a preview server over an existing artifact directory.
func NewStatic(cfg Config, logger *slog.Logger) (*Static, error) {
	info, err := os.Stat(cfg.Dir)
	if err != nil {
		return nil, fmt.Errorf("failed to stat artifact dir: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("artifact path %q is not a directory", cfg.Dir)
	}

	if cfg.CacheControl == "" {
		cfg.CacheControl = "no-cache"
	}

	return &Static{
		cfg:    cfg,
		logger: logger,
		fs:     http.FileServer(http.Dir(cfg.Dir)),
	}, nil
}

// Handler returns the HTTP handler.
func (s *Static) Handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		w.Header().Set("Cache-Control", s.cfg.CacheControl)
		s.fs.ServeHTTP(w, r)
		s.log().Debug("Request served", "path", r.URL.Path, "elapsed", time.Since(start))
	})
}

// ListenAndServe blocks serving the artifact on addr.
func (s *Static) ListenAndServe(addr string) error {
	s.log().Info("Serving artifact", "addr", addr, "dir", s.cfg.Dir)

	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	return srv.ListenAndServe()
}

func (s *Static) log() *slog.Logger {
	if s.logger != nil {
		return s.logger
	}
	return slog.Default()
}
