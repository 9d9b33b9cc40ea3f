package session

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/revijouer/core/internal/domain/entities"
	"github.com/revijouer/core/internal/ports"
)

type memoryEntry struct {
	session   entities.Session
	expiresAt time.Time
}

// MemoryStore keeps sessions in process memory. Sessions are lost on restart,
// which only drops the score cache and the Anki flag.
type MemoryStore struct {
	mu        sync.RWMutex
	sessions  map[string]memoryEntry
	ttl       time.Duration
	now       func() time.Time
	lastSweep time.Time
}

// NewMemoryStore creates an in-memory session store. A zero ttl keeps
// sessions until they are deleted.
func NewMemoryStore(ttl time.Duration) *MemoryStore {
	return &MemoryStore{
		sessions: make(map[string]memoryEntry),
		ttl:      ttl,
		now:      time.Now,
	}
}

var _ ports.SessionStore = (*MemoryStore)(nil)

func (s *MemoryStore) Get(ctx context.Context, id string) (*entities.Session, error) {
	s.mu.RLock()
	entry, ok := s.sessions[id]
	s.mu.RUnlock()

	if !ok {
		return &entities.Session{}, nil
	}
	if entry.expired(s.now()) {
		s.mu.Lock()
		if current, ok := s.sessions[id]; ok && current.expired(s.now()) {
			delete(s.sessions, id)
		}
		s.mu.Unlock()
		return &entities.Session{}, nil
	}

	return copySession(&entry.session), nil
}

func (s *MemoryStore) Save(ctx context.Context, id string, session *entities.Session) error {
	now := s.now()
	entry := memoryEntry{session: *copySession(session)}
	if s.ttl > 0 {
		entry.expiresAt = now.Add(s.ttl)
	}

	s.mu.Lock()
	s.sessions[id] = entry
	if s.ttl > 0 && now.Sub(s.lastSweep) >= s.ttl {
		s.sweep(now)
	}
	s.mu.Unlock()
	return nil
}

// sweep drops expired sessions. Callers hold the write lock.
func (s *MemoryStore) sweep(now time.Time) {
	for id, entry := range s.sessions {
		if entry.expired(now) {
			delete(s.sessions, id)
		}
	}
	s.lastSweep = now
}

func (e memoryEntry) expired(now time.Time) bool {
	return !e.expiresAt.IsZero() && now.After(e.expiresAt)
}

func (s *MemoryStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	delete(s.sessions, id)
	s.mu.Unlock()
	return nil
}

// NewID returns a fresh random session identifier
func NewID() string {
	return uuid.NewString()
}

// IsValidID reports whether id looks like an identifier minted by NewID
func IsValidID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}

func copySession(s *entities.Session) *entities.Session {
	c := &entities.Session{AnkiAuthenticated: s.AnkiAuthenticated}
	if s.Scores != nil {
		c.Scores = s.Scores.Clone()
	}
	return c
}
