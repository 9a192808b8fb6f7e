// Package server serves the generated page over HTTP.
package server

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"

	"go.uber.org/zap"
)

// DefaultAddr is where `mojes serve` listens unless configured otherwise.
const DefaultAddr = "localhost:3000"

// Config describes what the server serves.
type Config struct {
	Addr string
	// Page renders the HTML document; it runs on every request to "/".
	Page func(w io.Writer) error
	// Script returns the program served at /program.js.
	Script func() string
}

// Server is the page server.
type Server struct {
	cfg  Config
	mux  *http.ServeMux
	http *http.Server
}

// New creates a server; call ListenAndServe to start it.
func New(cfg Config) *Server {
	if cfg.Addr == "" {
		cfg.Addr = DefaultAddr
	}
	s := &Server{cfg: cfg, mux: http.NewServeMux()}
	s.mux.HandleFunc("/", s.handlePage)
	s.mux.HandleFunc("/program.js", s.handleScript)
	s.http = &http.Server{
		Addr:              cfg.Addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s
}

// Handler returns the routes wrapped in the timing middleware.
func (s *Server) Handler() http.Handler {
	return Timing(s.mux)
}

// Addr returns the configured listen address.
func (s *Server) Addr() string { return s.cfg.Addr }

// ListenAndServe serves until ctx is cancelled, then shuts down gracefully.
// ready, when non-nil, receives the bound address once listening.
func (s *Server) ListenAndServe(ctx context.Context, ready func(addr string)) error {
	ln, err := net.Listen("tcp", s.cfg.Addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", s.cfg.Addr, err)
	}
	if ready != nil {
		ready(ln.Addr().String())
	}
	Logger().Info("server started", zap.String("addr", ln.Addr().String()))

	errc := make(chan error, 1)
	go func() { errc <- s.http.Serve(ln) }()

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := s.http.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
		Logger().Info("server stopped")
		return nil
	}
}

func (s *Server) handlePage(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	if s.cfg.Page == nil {
		http.Error(w, "no page configured", http.StatusServiceUnavailable)
		return
	}
	// рендерим в буфер, чтобы ошибка не оставила полстраницы
	var buf bytes.Buffer
	if err := s.cfg.Page(&buf); err != nil {
		Logger().Error("page render failed", zap.Error(err))
		http.Error(w, "page render failed", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(buf.Bytes())
}

func (s *Server) handleScript(w http.ResponseWriter, r *http.Request) {
	if s.cfg.Script == nil {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "application/javascript; charset=utf-8")
	_, _ = io.WriteString(w, s.cfg.Script())
}
