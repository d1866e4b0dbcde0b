package chat

import (
	"sync"

	"github.com/google/uuid"

	"github.com/mvfreire/finsights/internal/domain"
)

// maxHistoryMessages bounds how much conversation is replayed into the
// prompt.
const maxHistoryMessages = 10

// Message is one conversation turn.
type Message struct {
	Role    string `json:"role"` // "user" or "assistant"
	Content string `json:"content"`
}

// Session holds one caller's conversation history and optional financial
// context. Sessions are created on first message and cleared on explicit
// request; there is no process-wide singleton. The store hands the same
// *Session to every request carrying the same ID, so all state behind mu is
// only touched through the methods below.
type Session struct {
	ID string

	mu      sync.Mutex
	history []Message
	summary *domain.Summary
}

// Store is an in-memory session registry keyed by caller-supplied IDs.
type Store struct {
	mu       sync.Mutex
	sessions map[string]*Session
}

// NewStore creates an empty session store.
func NewStore() *Store {
	return &Store{sessions: make(map[string]*Session)}
}

// Get returns the session for id, creating it if needed. An empty id gets a
// fresh generated one.
func (s *Store) Get(id string) *Session {
	s.mu.Lock()
	defer s.mu.Unlock()

	if id == "" {
		id = uuid.NewString()
	}
	session, ok := s.sessions[id]
	if !ok {
		session = &Session{ID: id}
		s.sessions[id] = session
	}
	return session
}

// Clear removes a session. Reports whether it existed.
func (s *Store) Clear(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, ok := s.sessions[id]
	delete(s.sessions, id)
	return ok
}

// History returns a copy of the conversation so far.
func (sess *Session) History() []Message {
	sess.mu.Lock()
	defer sess.mu.Unlock()

	history := make([]Message, len(sess.history))
	copy(history, sess.history)
	return history
}

// snapshot returns the history copy and summary in one locked read, so the
// prompt is built from a consistent view.
func (sess *Session) snapshot() ([]Message, *domain.Summary) {
	sess.mu.Lock()
	defer sess.mu.Unlock()

	history := make([]Message, len(sess.history))
	copy(history, sess.history)
	return history, sess.summary
}

// appendTurn records one user message and the assistant's reply, trimming
// the history to the replay window.
func (sess *Session) appendTurn(userMessage, reply string) {
	sess.mu.Lock()
	defer sess.mu.Unlock()

	sess.history = append(sess.history,
		Message{Role: "user", Content: userMessage},
		Message{Role: "assistant", Content: reply},
	)
	if len(sess.history) > maxHistoryMessages {
		sess.history = sess.history[len(sess.history)-maxHistoryMessages:]
	}
}

func (sess *Session) setSummary(summary *domain.Summary) {
	sess.mu.Lock()
	defer sess.mu.Unlock()

	sess.summary = summary
}
