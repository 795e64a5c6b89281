package service

import (
	"context"
	"log"
	"net/http"
	"strings"
	"time"
)

// Server is the HTTP+WebSocket API for remote deci evaluation, adapted
// from the ARM emulator's api.Server: same mux-plus-CORS-middleware shape,
// trimmed to the handful of routes a stateless decimal calculator needs.
type Server struct {
	sessions    *SessionManager
	broadcaster *Broadcaster
	mux         *http.ServeMux
	server      *http.Server
	addr        string
	maxBatch    int
	maxLog      int
}

// NewServer creates a server listening on addr, broadcasting through a
// fresh Broadcaster, with batch requests capped at maxBatch expressions
// and each session's result log capped at maxLog entries.
func NewServer(addr string, maxBatch, maxLog int) *Server {
	broadcaster := NewBroadcaster()

	s := &Server{
		sessions:    NewSessionManager(broadcaster, maxLog),
		broadcaster: broadcaster,
		mux:         http.NewServeMux(),
		addr:        addr,
		maxBatch:    maxBatch,
		maxLog:      maxLog,
	}

	s.registerRoutes()
	return s
}

func (s *Server) registerRoutes() {
	s.mux.HandleFunc("/health", s.handleHealth)
	s.mux.HandleFunc("/api/v1/eval", s.handleEval)
	s.mux.HandleFunc("/api/v1/eval/batch", s.handleBatchEval)
	s.mux.HandleFunc("/api/v1/session/", s.handleSessionRoute)
	s.mux.HandleFunc("/api/v1/ws", s.handleWebSocket)
}

// Handler returns the HTTP handler with CORS middleware applied.
func (s *Server) Handler() http.Handler {
	return s.corsMiddleware(s.mux)
}

// Start begins serving and blocks until Shutdown is called or the
// listener fails.
func (s *Server) Start() error {
	s.server = &http.Server{
		Addr:         s.addr,
		Handler:      s.Handler(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	log.Printf("deci API server listening on %s", s.addr)
	return s.server.ListenAndServe()
}

// Shutdown closes the broadcaster, which ends every WebSocket subscription,
// and gracefully stops the HTTP server. Upgraded WebSocket connections are
// not closed by this call.
func (s *Server) Shutdown(ctx context.Context) error {
	s.broadcaster.Close()

	if s.server == nil {
		return nil
	}
	return s.server.Shutdown(ctx)
}

// corsMiddleware restricts cross-origin access to localhost origins, same
// policy as the teacher's api.Server (this service is meant for a local
// companion UI, not public exposure).
func (s *Server) corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		if isAllowedOrigin(origin) {
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Access-Control-Allow-Credentials", "true")
		}
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func isAllowedOrigin(origin string) bool {
	if origin == "" {
		return true
	}
	if strings.HasPrefix(origin, "file://") {
		return true
	}
	for _, prefix := range []string{
		"http://localhost", "https://localhost",
		"http://127.0.0.1", "https://127.0.0.1",
	} {
		if strings.HasPrefix(origin, prefix) {
			return true
		}
	}
	return false
}
