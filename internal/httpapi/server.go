// Package httpapi is the ingress surface: media upload, health, start
// signals, and the per-session SSE event stream.
package httpapi

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/ASHUTOSH-A-49/live-video-caption-generator/internal/events"
	"github.com/ASHUTOSH-A-49/live-video-caption-generator/internal/janitor"
	"github.com/ASHUTOSH-A-49/live-video-caption-generator/internal/pipeline"
)

// Dispatcher launches background pipeline executions for start signals.
type Dispatcher interface {
	Dispatch(job pipeline.Job)
}

type Server struct {
	uploadDir  string
	hub        *events.Hub
	dispatcher Dispatcher
	janitor    *janitor.Janitor

	mux    *http.ServeMux
	server *http.Server
}

type Option func(*Server)

// WithJanitor exposes sweep schedule info on the health endpoint.
func WithJanitor(j *janitor.Janitor) Option {
	return func(s *Server) {
		s.janitor = j
	}
}

func NewServer(uploadDir string, hub *events.Hub, dispatcher Dispatcher, opts ...Option) *Server {
	s := &Server{
		uploadDir:  uploadDir,
		hub:        hub,
		dispatcher: dispatcher,
		mux:        http.NewServeMux(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.routes()
	return s
}

func (s *Server) Handler() http.Handler {
	return s.mux
}

func (s *Server) ListenAndServe(addr string) error {
	s.server = &http.Server{
		Addr:              addr,
		Handler:           s.mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	return s.server.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	if s.server == nil {
		return nil
	}
	return s.server.Shutdown(ctx)
}

func (s *Server) routes() {
	s.mux.HandleFunc("/upload", s.handleUpload)
	s.mux.HandleFunc("/health", s.handleHealth)
	s.mux.HandleFunc("/api/languages", s.handleLanguages)
	s.mux.HandleFunc("/api/transcribe", s.handleTranscribe)
	s.mux.HandleFunc("/api/youtube", s.handleYouTube)
	s.mux.HandleFunc("/api/events", s.handleEventStream)
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]any{
		"error": msg,
	})
}
