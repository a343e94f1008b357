// Package session holds applicant sessions in memory only. Extracted fields
// and evaluation results never persist beyond a session's lifetime.
package session

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"rinsetu/internal/domain"
)

// entry pairs a stored session with its own lock. The store map lock only
// guards the map; all reads and writes of a session go through the entry lock
// so concurrent requests on the same session serialize.
type entry struct {
	mu   sync.Mutex
	sess *domain.Session
}

// Store is a TTL-bounded in-memory session store. Each session is owned by
// exactly one applicant evaluation; sessions are independent and the store
// copies nothing between them. Accessors hand out snapshots, never the stored
// struct itself.
type Store struct {
	mu       sync.RWMutex
	sessions map[uuid.UUID]*entry
	ttl      time.Duration
}

// NewStore creates a Store with the given session TTL.
func NewStore(ttl time.Duration) *Store {
	return &Store{
		sessions: make(map[uuid.UUID]*entry),
		ttl:      ttl,
	}
}

// snapshot copies a session so callers never share the stored struct.
// Documents and Results get fresh slices; the evaluation report pointers are
// replaced wholesale on every run and never mutated in place, so sharing them
// is safe.
func snapshot(s *domain.Session) *domain.Session {
	cp := *s
	cp.Documents = append([]domain.ExtractedDocument(nil), s.Documents...)
	if s.Results != nil {
		cp.Results = append([]domain.ValidationResult(nil), s.Results...)
	}
	return &cp
}

// Create registers a new session for a user.
func (s *Store) Create(userID uuid.UUID, name string) *domain.Session {
	now := time.Now().UTC()
	sess := &domain.Session{
		ID:        uuid.New(),
		UserID:    userID,
		Name:      name,
		CreatedAt: now,
		ExpiresAt: now.Add(s.ttl),
	}
	s.mu.Lock()
	s.sessions[sess.ID] = &entry{sess: sess}
	s.mu.Unlock()
	return snapshot(sess)
}

func (s *Store) entry(sessionID uuid.UUID) (*entry, error) {
	s.mu.RLock()
	e, ok := s.sessions[sessionID]
	s.mu.RUnlock()
	if !ok {
		return nil, domain.ErrSessionNotFound
	}
	return e, nil
}

// checkAccess must be called with e.mu held.
func (e *entry) checkAccess(userID uuid.UUID) error {
	if time.Now().UTC().After(e.sess.ExpiresAt) {
		return domain.ErrSessionNotFound
	}
	if e.sess.UserID != userID {
		return domain.ErrForbidden
	}
	return nil
}

// Get returns a snapshot of a live session owned by userID.
func (s *Store) Get(sessionID, userID uuid.UUID) (*domain.Session, error) {
	e, err := s.entry(sessionID)
	if err != nil {
		return nil, err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	if err := e.checkAccess(userID); err != nil {
		return nil, err
	}
	return snapshot(e.sess), nil
}

// Mutate runs fn on the live session under its lock and returns a snapshot of
// the result. fn sees a session no other request can read or write
// concurrently; an error from fn leaves the session unchanged only if fn
// itself did not modify it.
func (s *Store) Mutate(sessionID, userID uuid.UUID, fn func(*domain.Session) error) (*domain.Session, error) {
	e, err := s.entry(sessionID)
	if err != nil {
		return nil, err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	if err := e.checkAccess(userID); err != nil {
		return nil, err
	}
	if err := fn(e.sess); err != nil {
		return nil, err
	}
	return snapshot(e.sess), nil
}

// Update replaces a session's contents wholesale. The stored copy is a
// snapshot of the argument, so the caller keeps no alias into the store.
func (s *Store) Update(sess *domain.Session) {
	stored := snapshot(sess)
	s.mu.Lock()
	e, ok := s.sessions[sess.ID]
	if !ok {
		s.sessions[sess.ID] = &entry{sess: stored}
		s.mu.Unlock()
		return
	}
	s.mu.Unlock()

	e.mu.Lock()
	e.sess = stored
	e.mu.Unlock()
}

// Delete removes a session and all its entities.
func (s *Store) Delete(sessionID uuid.UUID) {
	s.mu.Lock()
	delete(s.sessions, sessionID)
	s.mu.Unlock()
}

// Len reports the number of sessions currently held, expired or not.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

// sweep drops expired sessions.
func (s *Store) sweep(now time.Time) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	removed := 0
	for id, e := range s.sessions {
		e.mu.Lock()
		expired := now.After(e.sess.ExpiresAt)
		e.mu.Unlock()
		if expired {
			delete(s.sessions, id)
			removed++
		}
	}
	return removed
}

// StartJanitor evicts expired sessions on an interval until ctx is canceled.
func (s *Store) StartJanitor(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	log.Printf("session.Store: janitor started (ttl=%s, sweep=%s)", s.ttl, interval)
	for {
		select {
		case <-ctx.Done():
			log.Printf("session.Store: janitor stopped")
			return
		case <-ticker.C:
			if n := s.sweep(time.Now().UTC()); n > 0 {
				log.Printf("session.Store: evicted %d expired sessions", n)
			}
		}
	}
}
