package mealie

import (
	"sync"
	"time"
)

// Status is the shared connectivity signal. Every completed network
// call writes it (success marks connected, transport failure marks
// disconnected) and any view may read it to degrade its input
// affordances while the backend is unreachable.
type Status struct {
	mu         sync.Mutex
	connected  bool
	lastChange time.Time
}

// NewStatus returns a Status that starts out connected so the UI does
// not flash a warning before the first request completes.
func NewStatus() *Status {
	return &Status{connected: true}
}

// SetConnected marks the backend reachable.
func (s *Status) SetConnected() { s.set(true) }

// SetDisconnected marks the backend unreachable.
func (s *Status) SetDisconnected() { s.set(false) }

func (s *Status) set(connected bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.connected != connected {
		s.lastChange = time.Now()
	}
	s.connected = connected
}

// Connected reports the most recent network call's outcome.
func (s *Status) Connected() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.connected
}

// LastChange returns when the signal last flipped.
func (s *Status) LastChange() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastChange
}
