package services

import (
	"sync"
)

// Session holds per-session operator context. It replaces what the dashboard
// used to keep in ambient globals: the currently selected SIM and the SIM a
// manual action was last dispatched for.
type Session struct {
	mu              sync.Mutex
	selectedSimID   string
	lastActionSimID string
}

// NewSession creates an empty session
func NewSession() *Session {
	return &Session{}
}

// Select records the currently selected SIM
func (s *Session) Select(simID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.selectedSimID = simID
}

// SelectedSimID returns the currently selected SIM, or ""
func (s *Session) SelectedSimID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.selectedSimID
}

// RecordAction remembers the SIM a manual action was dispatched for, so the
// eventual bulk action confirmation can be associated with it
func (s *Session) RecordAction(simID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastActionSimID = simID
}

// ClearLastAction forgets the last actioned SIM, called once its bulk action
// confirmation has arrived
func (s *Session) ClearLastAction() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastActionSimID = ""
}

// BestEffortSimID returns the last actioned SIM if tracked, else the
// currently selected SIM, else ""
func (s *Session) BestEffortSimID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.lastActionSimID != "" {
		return s.lastActionSimID
	}
	return s.selectedSimID
}
