package repository

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/protekweb/support-chatbot/internal/domain"
)

// ErrSessionNotFound is returned by Get when no session exists for the caller.
var ErrSessionNotFound = errors.New("session not found")

// SessionStore holds per-caller conversation state. Update serializes writers
// per caller identifier: overlapping messages from one caller (duplicate
// webhook deliveries included) are applied one at a time, while different
// callers proceed in parallel.
type SessionStore interface {
	Get(ctx context.Context, callerID string) (*domain.Session, error)
	// Update runs fn under the caller's lock. fn receives the current session
	// (a fresh one when none exists) and returns the session to commit, which
	// may be a brand-new record on reset.
	Update(ctx context.Context, callerID string, fn func(*domain.Session) (*domain.Session, error)) (*domain.Session, error)
	Delete(ctx context.Context, callerID string) error
}

// keyedMutex hands out one mutex per key. Entries live for the process
// lifetime, matching the bounded caller population of a support line.
type keyedMutex struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func newKeyedMutex() *keyedMutex {
	return &keyedMutex{locks: make(map[string]*sync.Mutex)}
}

func (k *keyedMutex) lock(key string) *sync.Mutex {
	k.mu.Lock()
	m, ok := k.locks[key]
	if !ok {
		m = &sync.Mutex{}
		k.locks[key] = m
	}
	k.mu.Unlock()
	m.Lock()
	return m
}

// MemorySessionStore is the default in-process session backend.
type MemorySessionStore struct {
	mu       sync.RWMutex
	sessions map[string]*domain.Session
	locks    *keyedMutex
}

// NewMemorySessionStore creates an empty store.
func NewMemorySessionStore() *MemorySessionStore {
	return &MemorySessionStore{
		sessions: make(map[string]*domain.Session),
		locks:    newKeyedMutex(),
	}
}

// Get returns a copy of the caller's session.
func (s *MemorySessionStore) Get(ctx context.Context, callerID string) (*domain.Session, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	session, ok := s.sessions[callerID]
	if !ok {
		return nil, ErrSessionNotFound
	}
	copied := *session
	return &copied, nil
}

// Update applies fn under the caller's lock and commits the result.
func (s *MemorySessionStore) Update(ctx context.Context, callerID string, fn func(*domain.Session) (*domain.Session, error)) (*domain.Session, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	lock := s.locks.lock(callerID)
	defer lock.Unlock()

	s.mu.RLock()
	current, ok := s.sessions[callerID]
	s.mu.RUnlock()

	var working *domain.Session
	if ok {
		copied := *current
		working = &copied
	} else {
		working = domain.NewSession(callerID)
	}

	updated, err := fn(working)
	if err != nil {
		return nil, err
	}
	if updated == nil {
		return nil, errors.New("session update returned nil")
	}
	updated.UpdatedAt = time.Now()

	s.mu.Lock()
	s.sessions[callerID] = updated
	s.mu.Unlock()
	return updated, nil
}

// Delete removes the caller's session.
func (s *MemorySessionStore) Delete(ctx context.Context, callerID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	lock := s.locks.lock(callerID)
	defer lock.Unlock()

	s.mu.Lock()
	delete(s.sessions, callerID)
	s.mu.Unlock()
	return nil
}
