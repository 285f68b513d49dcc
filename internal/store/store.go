// Package store keeps parsed files in memory for the lifetime of the server
// process. Nothing is persisted; restarting clears every session.
package store

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"sync"
	"time"

	"github.com/mikedotJS/loggy/internal/model"
)

// Session is one uploaded and parsed file.
type Session struct {
	ID       string            `json:"id"`
	Uploaded time.Time         `json:"uploaded"`
	Result   model.ParseResult `json:"result"`
}

// Store is an in-memory session registry, safe for concurrent use.
type Store struct {
	mu       sync.RWMutex
	sessions map[string]*Session
	order    []string
}

// New returns an empty Store.
func New() *Store {
	return &Store{sessions: make(map[string]*Session)}
}

// Put registers a parse result under a fresh session id and returns the
// session.
func (s *Store) Put(result model.ParseResult) *Session {
	sess := &Session{
		ID:       newID(),
		Uploaded: time.Now(),
		Result:   result,
	}

	s.mu.Lock()
	s.sessions[sess.ID] = sess
	s.order = append(s.order, sess.ID)
	s.mu.Unlock()

	return sess
}

// Get returns the session with the given id.
func (s *Store) Get(id string) (*Session, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sess, ok := s.sessions[id]
	return sess, ok
}

// List returns all sessions in upload order.
func (s *Store) List() []*Session {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*Session, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.sessions[id])
	}
	return out
}

// Delete removes a session and reports whether it existed.
func (s *Store) Delete(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.sessions[id]; !ok {
		return false
	}
	delete(s.sessions, id)
	for i, existing := range s.order {
		if existing == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return true
}

// Len reports the number of live sessions.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

func newID() string {
	var b [8]byte
	if _, err := rand.Read(b[:]); err != nil {
		// rand.Read practically cannot fail; fall back to a timestamp id.
		return fmt.Sprintf("s-%d", time.Now().UnixNano())
	}
	return hex.EncodeToString(b[:])
}
