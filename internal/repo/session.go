package repo

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/pkordes/tripsearch/backend/internal/domain"
)

// SessionStore holds live search sessions.
type SessionStore interface {
	// Create stores a new session.
	Create(ctx context.Context, s domain.Session) (domain.Session, error)

	// Get returns a copy of the session. Returns domain.ErrNotFound if it
	// does not exist or has been idle longer than the store's TTL.
	Get(ctx context.Context, id uuid.UUID) (domain.Session, error)

	// Update runs fn on a copy of the session and stores the copy only if fn
	// returns nil. It returns the stored session (changed or not) and fn's error.
	// Updates of one session are serialized.
	Update(ctx context.Context, id uuid.UUID, fn func(*domain.Session) error) (domain.Session, error)

	// Delete removes a session. Returns domain.ErrNotFound if it does not exist.
	Delete(ctx context.Context, id uuid.UUID) error

	// Len reports the number of live sessions.
	Len() int
}

type sessionEntry struct {
	session domain.Session
	expiry  time.Time
}

type memorySessionStore struct {
	mu      sync.Mutex
	entries map[uuid.UUID]sessionEntry
	ttl     time.Duration
	now     func() time.Time
}

// NewMemorySessionStore returns a SessionStore that keeps sessions in memory
// and forgets them after ttl without access. now defaults to time.Now.
func NewMemorySessionStore(ttl time.Duration, now func() time.Time) SessionStore {
	if now == nil {
		now = time.Now
	}
	return &memorySessionStore{
		entries: make(map[uuid.UUID]sessionEntry),
		ttl:     ttl,
		now:     now,
	}
}

func (m *memorySessionStore) Create(_ context.Context, s domain.Session) (domain.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.live(s.ID); ok {
		return domain.Session{}, fmt.Errorf("repo.SessionStore.Create: session %s already exists", s.ID)
	}
	m.entries[s.ID] = sessionEntry{session: s.Clone(), expiry: m.now().Add(m.ttl)}
	return s.Clone(), nil
}

func (m *memorySessionStore) Get(_ context.Context, id uuid.UUID) (domain.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.live(id)
	if !ok {
		return domain.Session{}, fmt.Errorf("repo.SessionStore.Get: %w", domain.ErrNotFound)
	}
	e.expiry = m.now().Add(m.ttl)
	m.entries[id] = e
	return e.session.Clone(), nil
}

func (m *memorySessionStore) Update(_ context.Context, id uuid.UUID, fn func(*domain.Session) error) (domain.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.live(id)
	if !ok {
		return domain.Session{}, fmt.Errorf("repo.SessionStore.Update: %w", domain.ErrNotFound)
	}
	e.expiry = m.now().Add(m.ttl)

	draft := e.session.Clone()
	if err := fn(&draft); err != nil {
		m.entries[id] = e
		return e.session.Clone(), err
	}
	e.session = draft
	m.entries[id] = e
	return draft.Clone(), nil
}

func (m *memorySessionStore) Delete(_ context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.live(id); !ok {
		return fmt.Errorf("repo.SessionStore.Delete: %w", domain.ErrNotFound)
	}
	delete(m.entries, id)
	return nil
}

func (m *memorySessionStore) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.sweep()
	return len(m.entries)
}

// live returns the entry for id, dropping it if expired. Callers hold mu.
func (m *memorySessionStore) live(id uuid.UUID) (sessionEntry, bool) {
	e, ok := m.entries[id]
	if !ok {
		return sessionEntry{}, false
	}
	if m.now().After(e.expiry) {
		delete(m.entries, id)
		return sessionEntry{}, false
	}
	return e, true
}

// sweep drops every expired entry. Callers hold mu.
func (m *memorySessionStore) sweep() {
	now := m.now()
	for id, e := range m.entries {
		if now.After(e.expiry) {
			delete(m.entries, id)
		}
	}
}
