package reservation

import (
	"sync"

	appointmentRepo "maitred/database/repository/appointment"
	guestRepo "maitred/database/repository/guest"
	"maitred/services/events"
)

// Engine bundles the reservation components with their storage collaborators.
// One Engine serves the whole process; it hands out one Session per call.
type Engine struct {
	Identity IdentityResolver
	Oracle   AvailabilityOracle
	Ledger   AppointmentLedger
	Events   events.Publisher
}

// NewEngine wires the resolver, oracle and ledger over the given repositories.
func NewEngine(guests guestRepo.GuestRepository, appointments appointmentRepo.AppointmentRepository, openingHour, closingHour int, publisher events.Publisher) *Engine {
	oracle := &DefaultAvailabilityOracle{
		Repo:        appointments,
		OpeningHour: openingHour,
		ClosingHour: closingHour,
	}
	return &Engine{
		Identity: &DefaultIdentityResolver{Repo: guests},
		Oracle:   oracle,
		Ledger:   &DefaultAppointmentLedger{Repo: appointments, Oracle: oracle},
		Events:   publisher,
	}
}

// NewSession creates the per-call session aggregate.
func (e *Engine) NewSession(callID string) *Session {
	return NewSession(callID, e.Identity, e.Oracle, e.Ledger, e.Events)
}

// SessionManager tracks the live session per call. Tool operations within one
// call arrive sequentially, but different calls hit the manager concurrently.
type SessionManager struct {
	mu       sync.RWMutex
	sessions map[string]*Session
	engine   *Engine
}

// NewSessionManager creates a manager backed by the given engine.
func NewSessionManager(engine *Engine) *SessionManager {
	return &SessionManager{
		sessions: make(map[string]*Session),
		engine:   engine,
	}
}

// GetOrCreate returns the call's session, creating it on first contact.
func (m *SessionManager) GetOrCreate(callID string) *Session {
	m.mu.Lock()
	defer m.mu.Unlock()
	if s, ok := m.sessions[callID]; ok {
		return s
	}
	s := m.engine.NewSession(callID)
	m.sessions[callID] = s
	return s
}

// Get returns the call's session if one exists.
func (m *SessionManager) Get(callID string) (*Session, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.sessions[callID]
	return s, ok
}

// Remove discards a session once its summary has been handed off.
func (m *SessionManager) Remove(callID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, callID)
}

// ActiveCount returns the number of live sessions.
func (m *SessionManager) ActiveCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}
