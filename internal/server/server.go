// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package server serves the web surface: a single-page goal form, a
// websocket stream of pipeline progress, and per-candidate structure
// viewer pages suitable for embedding in iframes.
package server

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"

	"github.com/gorilla/websocket"
	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/predictlab/matpredict/internal/matproj"
	"github.com/predictlab/matpredict/internal/pipeline"
	"github.com/predictlab/matpredict/pkg/types"
)

// Server runs the web surface over one pipeline runner. The runner's
// providers, database, and defaults are fixed at startup; each request
// runs with its own event sink.
type Server struct {
	base     pipeline.Runner
	stats    func() matproj.Stats
	viewers  *lru.Cache[string, []byte]
	upgrader websocket.Upgrader
}

// New builds a server around runner. stats feeds the health endpoint and
// may be nil. viewerCacheSize bounds the viewer-page cache; values below 1
// fall back to the default.
func New(runner pipeline.Runner, stats func() matproj.Stats, viewerCacheSize int) (*Server, error) {
	if viewerCacheSize <= 0 {
		viewerCacheSize = defaultViewerCacheSize
	}
	viewers, err := lru.New[string, []byte](viewerCacheSize)
	if err != nil {
		return nil, fmt.Errorf("creating viewer cache: %w", err)
	}
	return &Server{
		base:    runner,
		stats:   stats,
		viewers: viewers,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
	}, nil
}

// Handler returns the route table.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/", s.handleIndex)
	mux.HandleFunc("/api/discover", s.handleDiscover)
	mux.HandleFunc("/api/health", s.handleHealth)
	mux.HandleFunc("/ws/run", s.handleRunWS)
	mux.HandleFunc("/viewer/", s.handleViewer)
	return mux
}

// runRequest is the body of a discovery request, over HTTP or websocket.
type runRequest struct {
	Goal string `json:"goal"`
	TopN int    `json:"top_n,omitempty"`
}

// run executes one pipeline run with the request's overrides applied and
// refreshes the viewer cache from the outcome.
func (s *Server) run(ctx context.Context, req runRequest, events func(types.Event)) (*types.Report, error) {
	runner := s.base
	if req.TopN > 0 {
		runner.TopN = req.TopN
	}
	runner.Events = events

	report, err := runner.Run(ctx, req.Goal)
	if err != nil {
		return nil, err
	}
	s.cacheViewers(report)
	return report, nil
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	fmt.Fprint(w, indexHTML)
}

func (s *Server) handleDiscover(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "POST required", http.StatusMethodNotAllowed)
		return
	}

	var req runRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSONError(w, http.StatusBadRequest, fmt.Sprintf("decoding request: %v", err))
		return
	}

	report, err := s.run(r.Context(), req, nil)
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, report)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	payload := map[string]any{
		"status":       "ok",
		"viewer_cache": s.viewers.Len(),
	}
	if s.stats != nil {
		payload["lookup_cache"] = s.stats()
	}
	writeJSON(w, http.StatusOK, payload)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("writing response: %v", err)
	}
}

func writeJSONError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
