// Package api exposes a machine's running state over HTTP for a
// front end to visualize, grounded in the teacher's own api/server.go
// and api/websocket.go. It has no session model: one server watches
// one *vm.Machine for the process's lifetime.
package api

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/lookbusy1344/rv64-emulator/vm"
)

// Server serves hart-state snapshots of a single machine.
type Server struct {
	machine *vm.Machine
	mux     *http.ServeMux
	server  *http.Server
	port    int
	hub     *hub
}

// NewServer creates a server that reports on machine's state.
func NewServer(port int, machine *vm.Machine) *Server {
	s := &Server{
		machine: machine,
		mux:     http.NewServeMux(),
		port:    port,
		hub:     newHub(),
	}
	s.registerRoutes()
	return s
}

func (s *Server) registerRoutes() {
	s.mux.HandleFunc("/health", s.handleHealth)
	s.mux.HandleFunc("/state", s.handleState)
	s.mux.HandleFunc("/stream", s.handleStream)
}

// Handler returns the HTTP handler with CORS applied, restricted to
// localhost, 127.0.0.1 and file:// origins (a request without an Origin
// header is also allowed) since this surface is meant for a front end
// running on the operator's own machine.
func (s *Server) Handler() http.Handler {
	return s.corsMiddleware(s.mux)
}

// Start runs the HTTP server and blocks until it stops.
func (s *Server) Start() error {
	s.server = &http.Server{
		Addr:         fmt.Sprintf("127.0.0.1:%d", s.port),
		Handler:      s.Handler(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	log.Printf("state API listening on http://127.0.0.1:%d", s.port)
	return s.server.ListenAndServe()
}

// Shutdown stops the server and disconnects any stream clients.
func (s *Server) Shutdown(ctx context.Context) error {
	s.hub.close()
	if s.server == nil {
		return nil
	}
	return s.server.Shutdown(ctx)
}

// Broadcast pushes the machine's current state to every connected stream
// client. The CLI run loop calls this once per Machine.Step.
func (s *Server) Broadcast() {
	s.hub.broadcast(snapshotOf(s.machine))
}

func (s *Server) corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		if isAllowedOrigin(origin) {
			w.Header().Set("Access-Control-Allow-Origin", origin)
		}
		w.Header().Set("Access-Control-Allow-Methods", "GET, OPTIONS")
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
	return strings.HasPrefix(origin, "http://localhost") ||
		strings.HasPrefix(origin, "https://localhost") ||
		strings.HasPrefix(origin, "http://127.0.0.1") ||
		strings.HasPrefix(origin, "https://127.0.0.1")
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleState serves a single JSON snapshot of the machine's current state.
func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	writeJSON(w, http.StatusOK, snapshotOf(s.machine))
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Printf("error encoding JSON: %v", err)
	}
}
