// Package server exposes the gosolve tools over HTTP for agent frameworks.
//
//	POST /tool    execute a tool call
//	GET  /schema  tool schema for agent registration
//	GET  /health  liveness check
package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"runtime/debug"
	"time"

	"github.com/google/uuid"
	"github.com/hashicorp/go-hclog"

	"github.com/njchilds90/gosolve"
)

const maxBodyBytes = 1 << 20 // 1 MiB

const (
	readHeaderTimeout = 5 * time.Second
	readTimeout       = 15 * time.Second
	writeTimeout      = 15 * time.Second
	idleTimeout       = 60 * time.Second
)

// Handler returns the HTTP routes.
func Handler(logger hclog.Logger) http.Handler {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	s := &server{logger: logger, now: time.Now}

	mux := http.NewServeMux()
	mux.HandleFunc("/tool", s.handleTool)
	mux.HandleFunc("/schema", s.handleSchema)
	mux.HandleFunc("/health", s.handleHealth)
	return mux
}

// New returns an http.Server for addr with the package's timeouts.
func New(addr string, logger hclog.Logger) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           Handler(logger),
		ReadHeaderTimeout: readHeaderTimeout,
		ReadTimeout:       readTimeout,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       idleTimeout,
	}
}

// ListenAndServe runs the server until it fails. A closed server is not
// an error.
func ListenAndServe(port int, logger hclog.Logger) error {
	addr := fmt.Sprintf(":%d", port)
	logger.Info("gosolve tool server listening", "addr", addr,
		"routes", []string{"POST /tool", "GET /schema", "GET /health"})

	if err := New(addr, logger).ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

type server struct {
	logger hclog.Logger
	now    func() time.Time
}

func (s *server) handleTool(w http.ResponseWriter, r *http.Request) {
	log := s.logger.With("request_id", uuid.NewString())
	defer func() {
		if rec := recover(); rec != nil {
			log.Error("panic in /tool", "panic", rec, "stack", string(debug.Stack()))
			http.Error(w, "internal server error", http.StatusInternalServerError)
		}
	}()

	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	defer r.Body.Close()

	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	dec.UseNumber()

	var req gosolve.ToolRequest
	if err := dec.Decode(&req); err != nil {
		log.Debug("bad request", "error", err)
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	// Ensure there's no trailing junk.
	if dec.More() {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: trailing data"})
		return
	}

	start := s.now()
	resp := (&gosolve.Toolbox{Logger: log}).Handle(req)
	log.Info("tool call", "tool", req.Tool, "ok", resp.Error == "", "duration", s.now().Sub(start))
	writeJSON(w, http.StatusOK, resp)
}

func (s *server) handleSchema(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	fmt.Fprint(w, gosolve.MCPToolSpec())
}

func (s *server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status": "ok",
		"time":   s.now().UTC().Format(time.RFC3339),
	})
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
