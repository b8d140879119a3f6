package server

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"path/filepath"
	"time"

	"go.uber.org/zap"
)

// DefaultMaxUploadBytes is the 5 MiB ceiling applied when Config leaves it unset.
const DefaultMaxUploadBytes int64 = 5 * 1024 * 1024

type BuildInfo struct {
	Version string
	Commit  string
}

type Config struct {
	Addr           string // e.g. ":3000"
	StorageDir     string // must already exist; never created
	URLPrefix      string // public path of StorageDir under StaticRoot, e.g. "fotos"
	StaticRoot     string
	MaxUploadBytes int64
	Build          BuildInfo
	Logger         *zap.Logger
	Now            func() time.Time // clock for generated filenames
}

type Server struct {
	httpServer *http.Server
	cfg        Config
	log        *zap.Logger
	resolver   Resolver
	metrics    *Metrics
	startedAt  time.Time
}

func New(cfg Config) *Server {
	if cfg.StorageDir == "" {
		cfg.StorageDir = "fotos"
	}
	if cfg.URLPrefix == "" {
		cfg.URLPrefix = "fotos"
	}
	if cfg.StaticRoot == "" {
		cfg.StaticRoot = "."
	}
	if cfg.MaxUploadBytes <= 0 {
		cfg.MaxUploadBytes = DefaultMaxUploadBytes
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}

	s := &Server{
		cfg:       cfg,
		log:       cfg.Logger,
		resolver:  Resolver{Dir: cfg.StorageDir, Now: cfg.Now},
		metrics:   NewMetrics(),
		startedAt: time.Now(),
	}

	mux := http.NewServeMux()
	mux.Handle("GET /{$}", CompressionMiddleware(http.HandlerFunc(s.handleStatus)))
	mux.HandleFunc("POST /upload", s.handleUpload)
	mux.Handle("GET /fotos", CompressionMiddleware(http.HandlerFunc(s.handleListFotos)))
	mux.HandleFunc("GET /health", s.HandleHealth)
	mux.Handle("GET /metrics", s.metrics.Handler(s.startedAt, cfg.Build))
	mux.Handle("/", s.staticHandler())

	// Wrap middleware: requestID -> logging -> cors -> security headers -> mux
	var handler http.Handler = mux
	handler = securityHeadersMiddleware(handler)
	handler = corsMiddleware(handler)
	handler = loggingMiddleware(s.log, s.metrics)(handler)
	handler = requestIDMiddleware(handler)

	s.httpServer = &http.Server{
		Addr:              cfg.Addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
	}

	return s
}

// Handler exposes the fully wrapped handler, mainly for httptest.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// Metrics returns the server's counters.
func (s *Server) Metrics() *Metrics {
	return s.metrics
}

// Listen binds the configured address. Failures wrap ErrStartupBind.
func (s *Server) Listen() (net.Listener, error) {
	ln, err := net.Listen("tcp", s.httpServer.Addr)
	if err != nil {
		return nil, fmt.Errorf("%w %q: %w", ErrStartupBind, s.httpServer.Addr, err)
	}
	return ln, nil
}

// Serve handles connections on ln until Shutdown.
func (s *Server) Serve(ln net.Listener) error {
	storageDir, err := filepath.Abs(s.cfg.StorageDir)
	if err != nil {
		storageDir = s.cfg.StorageDir
	}
	s.log.Info("server listening",
		zap.String("addr", ln.Addr().String()),
		zap.String("storage_dir", storageDir),
		zap.String("static_root", s.cfg.StaticRoot),
		zap.Int64("max_upload_bytes", s.cfg.MaxUploadBytes),
		zap.String("version", s.cfg.Build.Version),
	)
	return s.httpServer.Serve(ln)
}

func (s *Server) Start() error {
	ln, err := s.Listen()
	if err != nil {
		return err
	}
	return s.Serve(ln)
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}
