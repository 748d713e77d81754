package handler

import (
	"sync"

	"flowcanvas/internal/codec"
	"flowcanvas/internal/service"
)

// Session serialises access to a DiagramService. HTTP handlers, websocket
// readers and the file watcher all mutate the diagram through Do.
type Session struct {
	mu  sync.Mutex
	svc *service.DiagramService
}

// NewSession wraps svc.
func NewSession(svc *service.DiagramService) *Session {
	return &Session{svc: svc}
}

// Do runs fn while holding the session lock.
func (s *Session) Do(fn func(*service.DiagramService) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn(s.svc)
}

// Capture takes a snapshot of the current diagram.
func (s *Session) Capture() *codec.Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return codec.Capture(s.svc.Diagram())
}

// Restore replaces the diagram with snap.
func (s *Session) Restore(snap *codec.Snapshot) error {
	return s.Do(func(svc *service.DiagramService) error {
		return codec.Restore(snap, svc)
	})
}

// Publish sends ev on the bus under the session lock.
func (s *Session) Publish(ev any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.svc.Publish(ev)
}

// Subscribe registers ch for service events. Sends never block, so a
// subscriber that falls behind misses events.
func (s *Session) Subscribe(ch chan<- service.Event) { s.svc.Subscribe(ch) }

// Unsubscribe removes ch.
func (s *Session) Unsubscribe(ch chan<- service.Event) { s.svc.Unsubscribe(ch) }
