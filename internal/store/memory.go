// internal/store/memory.go
//
// In-memory session store.
//
// Characteristics:
//   - Stores *game.Session objects keyed by ID in a map.
//   - Every event runs inside Update under one mutex, so a session sees one
//     event at a time, fully processed (validate → mutate → snapshot).
//   - State is lost when the process restarts (sessions are play-throughs,
//     not records).
//   - Sweep drops sessions older than a cutoff.

package store

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/robalobadob/mystere-theatre/internal/game"
)

// ErrNotFound is returned for unknown or swept session IDs.
var ErrNotFound = errors.New("session not found")

// Store defines the session registry used by the HTTP layer.
type Store interface {
	// Save adds or replaces a session.
	Save(ctx context.Context, s *game.Session) error

	// Update runs fn against the session with exclusive access.
	// The error from fn is returned as-is.
	Update(ctx context.Context, id string, fn func(*game.Session) error) error

	// Sweep removes sessions created before cutoff and returns how many went.
	Sweep(ctx context.Context, cutoff time.Time) int

	// Len returns the number of live sessions.
	Len() int
}

// memory is an in-memory map-based Store implementation.
type memory struct {
	mu       sync.Mutex               // guards sessions and every event turn
	sessions map[string]*game.Session // keyed by Session.ID
}

// NewMemoryStore constructs a new in-memory Store.
func NewMemoryStore() Store {
	return &memory{sessions: make(map[string]*game.Session)}
}

func (m *memory) Save(ctx context.Context, s *game.Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[s.ID] = s
	return nil
}

func (m *memory) Update(ctx context.Context, id string, fn func(*game.Session) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[id]
	if !ok {
		return ErrNotFound
	}
	return fn(s)
}

func (m *memory) Sweep(ctx context.Context, cutoff time.Time) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for id, s := range m.sessions {
		if s.CreatedAt.Before(cutoff) {
			delete(m.sessions, id)
			n++
		}
	}
	return n
}

func (m *memory) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}
