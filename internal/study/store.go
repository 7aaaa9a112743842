package study

import "sync"

// Store holds at most one live session per user. Starting a new session
// replaces any in-flight one; the latest start wins.
type Store struct {
	mu       sync.RWMutex
	sessions map[int64]*Session
}

// NewStore creates an empty session store.
func NewStore() *Store {
	return &Store{sessions: make(map[int64]*Session)}
}

// Put installs a session for its user, discarding any previous one.
func (st *Store) Put(s *Session) {
	st.mu.Lock()
	defer st.mu.Unlock()
	st.sessions[s.UserID] = s
}

// Get returns the user's live session, or nil.
func (st *Store) Get(userID int64) *Session {
	st.mu.RLock()
	defer st.mu.RUnlock()
	return st.sessions[userID]
}

// GetByHandle returns the user's live session only if its handle matches;
// a stale handle yields nil.
func (st *Store) GetByHandle(userID int64, id string) *Session {
	st.mu.RLock()
	defer st.mu.RUnlock()
	s := st.sessions[userID]
	if s == nil || s.ID != id {
		return nil
	}
	return s
}

// Remove discards the user's live session, if any.
func (st *Store) Remove(userID int64) {
	st.mu.Lock()
	defer st.mu.Unlock()
	delete(st.sessions, userID)
}
