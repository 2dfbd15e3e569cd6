package server

import (
	"context"
	"encoding/json"
	"net"
	"net/http"
	"slices"
	"strings"
	"time"

	"rdrive-upload/internal/store"
)

// Server holds the HTTP handler chain and its dependencies.
type Server struct {
	cfg        Config
	store      store.Store
	log        *Logger
	metrics    *Metrics
	handler    http.Handler
	httpServer *http.Server
}

// New wires routes and middleware around st. cfg is copied and not read
// from anywhere else afterwards.
func New(cfg Config, st store.Store, logger *Logger) *Server {
	if logger == nil {
		logger = NewLogger(nil, cfg.Log)
	}
	s := &Server{
		cfg:     cfg,
		store:   st,
		log:     logger,
		metrics: newMetrics(cfg.AppName, cfg.Version),
	}

	mux := http.NewServeMux()
	mux.Handle("/health", allowMethods(http.HandlerFunc(s.handleHealth), http.MethodGet))
	mux.Handle("/ready", allowMethods(http.HandlerFunc(s.handleReady), http.MethodGet))
	mux.Handle("/metrics", allowMethods(s.metrics.Handler(), http.MethodGet))
	mux.Handle("/upload", allowMethods(s.requireAPIKey(s.limitBody(http.HandlerFunc(s.handleUpload))), http.MethodPost))
	mux.Handle("/upload-multiple", allowMethods(s.requireAPIKey(s.limitBody(http.HandlerFunc(s.handleUploadMultiple))), http.MethodPost))
	mux.Handle("/files", allowMethods(s.requireAPIKey(http.HandlerFunc(s.handleListFiles)), http.MethodGet))

	// Wrap middleware: requestID -> logging -> cors -> app name -> headers -> gzip -> mux
	var handler http.Handler = mux
	handler = compressionMiddleware(handler)
	handler = securityHeadersMiddleware(handler)
	handler = s.appNameMiddleware(handler)
	handler = corsMiddleware(cfg.AllowedOrigins, handler)
	handler = s.loggingMiddleware(handler)
	handler = requestIDMiddleware(handler)
	s.handler = handler

	s.httpServer = &http.Server{
		Addr:              cfg.Addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
	}
	return s
}

// Handler exposes the full middleware chain, mainly for httptest.
func (s *Server) Handler() http.Handler {
	return s.handler
}

// Start listens on cfg.Addr and serves until Shutdown.
func (s *Server) Start() error {
	ln, err := net.Listen("tcp", s.httpServer.Addr)
	if err != nil {
		return err
	}
	return s.httpServer.Serve(ln)
}

// Shutdown stops accepting connections and waits for in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// allowMethods answers 405 for anything outside methods. GET also admits HEAD.
func allowMethods(next http.Handler, methods ...string) http.Handler {
	accepted := make([]string, 0, len(methods)+1)
	for _, m := range methods {
		accepted = append(accepted, m)
		if m == http.MethodGet && !slices.Contains(methods, http.MethodHead) {
			accepted = append(accepted, http.MethodHead)
		}
	}
	allow := strings.Join(accepted, ", ")

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if slices.Contains(accepted, r.Method) {
			next.ServeHTTP(w, r)
			return
		}
		w.Header().Set("Allow", allow)
		writeError(w, http.StatusMethodNotAllowed, "Method Not Allowed")
	})
}

func (s *Server) appNameMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-App-Name", s.cfg.AppName)
		next.ServeHTTP(w, r)
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError uses the {"detail": ...} body API clients already parse.
func writeError(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, map[string]string{"detail": detail})
}
