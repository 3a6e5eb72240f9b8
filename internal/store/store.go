// Package store provides session storage for BookForge.
//
// Sessions live only for the duration of a survey and are never persisted;
// the store is an in-memory map keyed by user ID. The map itself is guarded
// by a mutex so interleaved events for different users are safe, but nothing
// serializes two rapid events for the same user; see the dispatcher's
// single-flight guard for the one place that matters (double Apply).
package store

import (
	"log/slog"
	"sync"

	"github.com/bookforge/BookForge/internal/models"
)

// Store defines the session storage contract used by the survey flow and
// the dispatcher.
type Store interface {
	// Set stores the session for its user, replacing any existing one.
	Set(s *models.SurveySession)

	// Get retrieves the session for the given user. The second return value
	// is false when no session exists; callers treat absence as "survey not
	// begun".
	Get(userID string) (*models.SurveySession, bool)

	// Delete removes the session for the given user, if any.
	Delete(userID string)
}

// InMemoryStore is the only Store implementation: a mutex-guarded map of
// user ID to session.
type InMemoryStore struct {
	mu       sync.RWMutex
	sessions map[string]*models.SurveySession
}

// NewInMemoryStore creates an empty in-memory session store.
func NewInMemoryStore() *InMemoryStore {
	slog.Debug("Creating InMemoryStore for survey sessions")
	return &InMemoryStore{sessions: make(map[string]*models.SurveySession)}
}

// Set stores the session keyed by its user ID.
func (st *InMemoryStore) Set(s *models.SurveySession) {
	st.mu.Lock()
	defer st.mu.Unlock()
	st.sessions[s.UserID] = s
}

// Get retrieves the session for the given user.
func (st *InMemoryStore) Get(userID string) (*models.SurveySession, bool) {
	st.mu.RLock()
	defer st.mu.RUnlock()
	s, ok := st.sessions[userID]
	return s, ok
}

// Delete removes the session for the given user.
func (st *InMemoryStore) Delete(userID string) {
	st.mu.Lock()
	defer st.mu.Unlock()
	delete(st.sessions, userID)
}
