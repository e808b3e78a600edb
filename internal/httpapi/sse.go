package httpapi

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/ASHUTOSH-A-49/live-video-caption-generator/internal/events"
)

// keepaliveInterval spaces SSE comment lines so idle proxies keep the
// stream open.
const keepaliveInterval = 15 * time.Second

func (s *Server) handleEventStream(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	sessionID := r.URL.Query().Get("session")
	if sessionID == "" {
		writeError(w, http.StatusBadRequest, "session is required")
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		writeError(w, http.StatusInternalServerError, "streaming not supported")
		return
	}

	session := s.hub.Register(sessionID)
	defer s.hub.Unregister(session)

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	send := func(ev events.Event) bool {
		payload, err := json.Marshal(ev.Payload)
		if err != nil {
			return false
		}
		if _, err := fmt.Fprintf(w, "event: %s\ndata: %s\n\n", ev.Name, payload); err != nil {
			return false
		}
		flusher.Flush()
		return true
	}

	if !send(events.Connected()) {
		return
	}

	ticker := time.NewTicker(keepaliveInterval)
	defer ticker.Stop()

	for {
		select {
		case <-r.Context().Done():
			return
		case <-ticker.C:
			if _, err := fmt.Fprint(w, ": keepalive\n\n"); err != nil {
				return
			}
			flusher.Flush()
		case ev, open := <-session.Events():
			// A closed channel means this session was replaced by a new
			// connection with the same id.
			if !open {
				return
			}
			if !send(ev) {
				return
			}
		}
	}
}
