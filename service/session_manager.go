package service

import (
	"fmt"
	"sync"

	"github.com/lookbusy1344/deci/console"
)

// Session is one client's evaluator state: its value history and a bounded
// log of what it has evaluated. deci sessions carry no VM to isolate, so
// this is considerably smaller than the ARM debugger's per-session state.
type Session struct {
	ID         string
	mu         sync.Mutex
	ev         *console.Evaluator
	log        []BatchEvalResult
	transcript *EventEmittingWriter
}

// SessionManager owns every live session, mutex-guarded exactly like the
// ARM debugger's SessionManager.
type SessionManager struct {
	mu          sync.RWMutex
	sessions    map[string]*Session
	broadcaster *Broadcaster
	nextID      int
	maxLog      int
}

// NewSessionManager creates a session manager that broadcasts evaluation
// events through b, keeping at most maxLog result-log entries per session.
func NewSessionManager(b *Broadcaster, maxLog int) *SessionManager {
	if maxLog <= 0 {
		maxLog = 100
	}
	return &SessionManager{
		sessions:    make(map[string]*Session),
		broadcaster: b,
		maxLog:      maxLog,
	}
}

// Create allocates a new session and returns its ID.
func (m *SessionManager) Create() string {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.nextID++
	id := fmt.Sprintf("session-%d", m.nextID)
	m.sessions[id] = &Session{ID: id, ev: console.NewEvaluator(), transcript: NewEventEmittingWriter(m.broadcaster, id)}
	return id
}

// GetOrCreate returns the session for id, creating it (and registering it
// under id) if it doesn't exist yet. Lets callers address ad hoc session
// IDs from a stateless HTTP client without a prior create call.
func (m *SessionManager) GetOrCreate(id string) *Session {
	m.mu.Lock()
	defer m.mu.Unlock()

	if s, ok := m.sessions[id]; ok {
		return s
	}
	s := &Session{ID: id, ev: console.NewEvaluator(), transcript: NewEventEmittingWriter(m.broadcaster, id)}
	m.sessions[id] = s
	return s
}

// Destroy removes a session.
func (m *SessionManager) Destroy(id string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.sessions[id]; !ok {
		return false
	}
	delete(m.sessions, id)
	return true
}

// Count returns the number of live sessions.
func (m *SessionManager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

// Evaluate evaluates expr against s's value history, records it in the
// session log, and broadcasts the outcome.
func (s *Session) Evaluate(expr string, b *Broadcaster, maxLog int) BatchEvalResult {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := s.ev.ValueNumber()
	result, err := s.ev.Evaluate(expr)

	var entry BatchEvalResult
	if err != nil {
		entry = BatchEvalResult{Expression: expr, Error: err.Error()}
		b.BroadcastError(s.ID, expr, err.Error())
		fmt.Fprintf(s.transcript, "%s\n  error: %s\n", expr, err.Error())
	} else {
		ref := fmt.Sprintf("$%d", n)
		entry = BatchEvalResult{Expression: expr, Result: resultText(result), ResultBinary: resultBinaryHex(result), ValueRef: ref}
		b.BroadcastEval(s.ID, expr, ref, entry.Result, entry.ResultBinary)
		fmt.Fprintf(s.transcript, "%s\n  %s = %s\n", expr, ref, entry.Result)
	}

	s.log = append(s.log, entry)
	if len(s.log) > maxLog {
		s.log = s.log[len(s.log)-maxLog:]
	}
	return entry
}

// Log returns the session's buffered transcript (each expression followed
// by an indented "$N = result" or "error: ..." line, written since the last
// call) and clears the buffer.
func (s *Session) Log() string {
	return s.transcript.GetBufferAndClear()
}

// History returns the rendered text of every value this session has
// computed so far.
func (s *Session) History() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	values := s.ev.History()
	out := make([]string, len(values))
	for i, v := range values {
		out[i] = resultText(v)
	}
	return out
}
