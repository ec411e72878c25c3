package app

import (
	"context"
	"sync"

	"github.com/dkeye/Relay/internal/core"
	"github.com/dkeye/Relay/internal/domain"
	"github.com/rs/zerolog/log"
)

// Session records which room and identity a connection currently occupies.
// It is the only source of truth for what a connection may act on.
type Session struct {
	RoomName domain.RoomName
	Member   domain.Member
}

func (s Session) Joined() bool { return s.RoomName != "" }

type connEntry struct {
	Signal  core.SignalConnection
	Cancel  context.CancelFunc
	Client  string
	Session Session
}

// Registry maps live connections to their transport endpoint and session.
type Registry struct {
	mu    sync.RWMutex
	conns map[domain.ConnID]*connEntry
}

func NewRegistry() *Registry {
	return &Registry{conns: make(map[domain.ConnID]*connEntry)}
}

// Bind registers a live connection. client is the browser token, kept for logs.
func (r *Registry) Bind(id domain.ConnID, sig core.SignalConnection, cancel context.CancelFunc, client string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.conns[id] = &connEntry{Signal: sig, Cancel: cancel, Client: client}
	log.Info().Str("module", "app.registry").Str("sid", string(id)).Str("client", client).Msg("bound signal")
}

func (r *Registry) Unbind(id domain.ConnID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.conns[id]; !ok {
		return
	}
	delete(r.conns, id)
	log.Info().Str("module", "app.registry").Str("sid", string(id)).Msg("unbind signal")
}

func (r *Registry) Signal(id domain.ConnID) (core.SignalConnection, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if e, ok := r.conns[id]; ok && e.Signal != nil {
		return e.Signal, true
	}
	return nil, false
}

// Session returns the connection's session; the zero Session means unjoined.
func (r *Registry) Session(id domain.ConnID) Session {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if e, ok := r.conns[id]; ok {
		return e.Session
	}
	return Session{}
}

func (r *Registry) SetSession(id domain.ConnID, s Session) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.conns[id]
	if !ok {
		return false
	}
	e.Session = s
	log.Debug().Str("module", "app.registry").Str("sid", string(id)).Str("room", string(s.RoomName)).Msg("updated session")
	return true
}

func (r *Registry) ClearSession(id domain.ConnID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if e, ok := r.conns[id]; ok {
		e.Session = Session{}
	}
}

func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.conns)
}

// Cancel stops the connection's pumps. The transport then reports a disconnect.
func (r *Registry) Cancel(id domain.ConnID) bool {
	r.mu.RLock()
	e, ok := r.conns[id]
	r.mu.RUnlock()
	if !ok {
		return false
	}
	if e.Cancel != nil {
		e.Cancel()
	}
	log.Info().Str("module", "app.registry").Str("sid", string(id)).Msg("canceled connection")
	return true
}
