package session

import (
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// Turn roles as stored in session history.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// ErrNotFound is returned when a session ID does not exist in the store.
var ErrNotFound = errors.New("session not found")

// Turn represents a single conversation turn.
type Turn struct {
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}

// Session ties a generated identifier to one source file and its history.
type Session struct {
	ID         string    `json:"id"`
	FileName   string    `json:"fileName"`
	FullFile   string    `json:"fullFile"`
	History    []Turn    `json:"history"`
	CreatedAt  time.Time `json:"createdAt"`
	LastActive time.Time `json:"lastActive"`
}

// Store is the process-wide in-memory session store. It is safe for
// concurrent use; appends to the same session are serialized by the
// store's lock.
type Store struct {
	mu       sync.RWMutex
	sessions map[string]*Session
	onCount  func(int)
}

// New creates an empty session store.
func New() *Store {
	return &Store{
		sessions: make(map[string]*Session),
	}
}

// SetCountObserver registers a callback invoked with the session count
// whenever it changes. Used to keep the active-sessions gauge current.
func (s *Store) SetCountObserver(fn func(int)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onCount = fn
}

func (s *Store) notifyCountLocked() {
	if s.onCount != nil {
		s.onCount(len(s.sessions))
	}
}

// Create stores a new session with an empty history and returns its ID.
func (s *Store) Create(fileName, fullFile string) string {
	now := time.Now()
	sess := &Session{
		ID:         uuid.New().String(),
		FileName:   fileName,
		FullFile:   fullFile,
		History:    []Turn{},
		CreatedAt:  now,
		LastActive: now,
	}

	s.mu.Lock()
	s.sessions[sess.ID] = sess
	s.notifyCountLocked()
	s.mu.Unlock()

	log.Info().
		Str("session_id", sess.ID).
		Str("file_name", fileName).
		Msg("Session started")

	return sess.ID
}

// Get returns a copy of the session with the given ID. The copy's
// history slice is detached so callers cannot mutate stored state.
func (s *Store) Get(id string) (*Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, ok := s.sessions[id]
	if !ok {
		return nil, ErrNotFound
	}

	cp := *sess
	cp.History = make([]Turn, len(sess.History))
	copy(cp.History, sess.History)
	return &cp, nil
}

// AppendTurn appends a turn to the session's history and bumps its
// last-active time.
func (s *Store) AppendTurn(id, role, content string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[id]
	if !ok {
		return ErrNotFound
	}

	now := time.Now()
	sess.History = append(sess.History, Turn{
		Role:      role,
		Content:   content,
		Timestamp: now,
	})
	sess.LastActive = now

	log.Debug().
		Str("session_id", id).
		Str("role", role).
		Int("turns", len(sess.History)).
		Msg("Turn appended")

	return nil
}

// AssistantTranscript returns all assistant-role contents recorded so
// far, in order, separated by a blank line.
func (s *Store) AssistantTranscript(id string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, ok := s.sessions[id]
	if !ok {
		return "", ErrNotFound
	}

	var parts []string
	for _, turn := range sess.History {
		if turn.Role == RoleAssistant {
			parts = append(parts, turn.Content)
		}
	}
	return strings.Join(parts, "\n\n"), nil
}

// Delete removes a session. Deleting an unknown ID is a no-op.
func (s *Store) Delete(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.sessions[id]; !ok {
		return
	}
	delete(s.sessions, id)
	s.notifyCountLocked()

	log.Debug().Str("session_id", id).Msg("Session deleted")
}

// Len returns the number of stored sessions.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

// List returns the IDs of all stored sessions.
func (s *Store) List() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := make([]string, 0, len(s.sessions))
	for id := range s.sessions {
		ids = append(ids, id)
	}
	return ids
}

// idleSince returns the last-active time for a session, reported as a
// zero time when the session no longer exists.
func (s *Store) idleSince(id string) time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, ok := s.sessions[id]
	if !ok {
		return time.Time{}
	}
	return sess.LastActive
}

// pruneHistory trims the session's history to the most recent maxTurns
// entries. Returns the number of turns dropped.
func (s *Store) pruneHistory(id string, maxTurns int) int {
	if maxTurns <= 0 {
		return 0
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[id]
	if !ok || len(sess.History) <= maxTurns {
		return 0
	}

	dropped := len(sess.History) - maxTurns
	pruned := make([]Turn, maxTurns)
	copy(pruned, sess.History[dropped:])
	sess.History = pruned
	return dropped
}
