package events

import (
	"context"
	"sync"

	"github.com/ASHUTOSH-A-49/live-video-caption-generator/pkg/log"
)

// sessionBuffer bounds the per-session event queue. A slow consumer drops
// its newest events rather than blocking a pipeline.
const sessionBuffer = 256

// Session is one attached client. Events arrive on Events() in publish
// order; Context() is cancelled when the session detaches.
type Session struct {
	id     string
	ch     chan Event
	ctx    context.Context
	cancel context.CancelFunc
}

func (s *Session) ID() string {
	return s.id
}

func (s *Session) Events() <-chan Event {
	return s.ch
}

// Context is cancelled when the session is removed from the hub. Jobs tie
// their lifetime to it so a disconnected client cancels its pipelines.
func (s *Session) Context() context.Context {
	return s.ctx
}

// Hub routes events to sessions by id. Publishing to an unknown session is
// a silent no-op: jobs may outlive the client they were started for.
type Hub struct {
	mu       sync.RWMutex
	sessions map[string]*Session
}

func NewHub() *Hub {
	return &Hub{
		sessions: make(map[string]*Session),
	}
}

// Register attaches a session, replacing (and detaching) any previous
// session with the same id.
func (h *Hub) Register(sessionID string) *Session {
	ctx, cancel := context.WithCancel(context.Background())
	s := &Session{
		id:     sessionID,
		ch:     make(chan Event, sessionBuffer),
		ctx:    ctx,
		cancel: cancel,
	}

	// Closing under the write lock keeps Publish, which sends under the
	// read lock, from racing a close.
	h.mu.Lock()
	old := h.sessions[sessionID]
	h.sessions[sessionID] = s
	if old != nil {
		old.cancel()
		close(old.ch)
	}
	h.mu.Unlock()

	return s
}

// Unregister detaches a session; a no-op for ids the hub does not hold or
// sessions already replaced.
func (h *Hub) Unregister(s *Session) {
	h.mu.Lock()
	if current, ok := h.sessions[s.id]; ok && current == s {
		delete(h.sessions, s.id)
		s.cancel()
		close(s.ch)
	}
	h.mu.Unlock()
}

// Publish delivers one event to the session, preserving per-publisher
// order. A full session buffer evicts its oldest queued event, never the
// incoming one, so a slow consumer still sees the terminal events of each
// job.
func (h *Hub) Publish(sessionID string, event Event) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	s, ok := h.sessions[sessionID]
	if !ok {
		log.Debug("Dropping %s event for unknown session %s", event.Name, sessionID)
		return
	}

	select {
	case s.ch <- event:
		return
	default:
	}

	select {
	case dropped := <-s.ch:
		log.Warn("Session %s buffer full, evicting %s event", sessionID, dropped.Name)
	default:
	}

	select {
	case s.ch <- event:
	default:
		log.Warn("Session %s buffer full, dropping %s event", sessionID, event.Name)
	}
}

// Context returns the session's context, or a background context for
// unknown sessions so callers can still run detached jobs.
func (h *Hub) Context(sessionID string) context.Context {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if s, ok := h.sessions[sessionID]; ok {
		return s.ctx
	}
	return context.Background()
}

// Len reports the number of attached sessions.
func (h *Hub) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.sessions)
}
