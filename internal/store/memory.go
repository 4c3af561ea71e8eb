// internal/store/memory.go
//
// In-memory session store: the single authoritative holder of live match
// state, keyed by online game code or local match id.
//
// Characteristics:
//   - A RWMutex guards the map; each entry carries its own mutex so a move
//     is a single critical section per session. The turn check alone is only
//     a cooperative guard: without per-session locking, two near-simultaneous
//     requests could both read current_turn before either writes.
//   - State is lost when the process restarts; only scores and accounts
//     persist (SQLite).
//   - Sentinel errors for missing / duplicate / full sessions.

package store

import (
	"context"
	"errors"
	"sync"

	"github.com/google/uuid"

	"github.com/era91k/puissance4-go/internal/game"
)

var (
	ErrSessionNotFound = errors.New("game not found")
	ErrSessionExists   = errors.New("game code already exists")
	ErrSessionFull     = errors.New("game already has two players")
)

// Store is the persistence interface for match sessions. Implementations
// may be backed by memory (this package), Redis, SQL, etc.
type Store interface {
	// CreateMatch creates a local two-player match, immediately active.
	CreateMatch(ctx context.Context, player1, player2 string) (game.Session, error)

	// CreateOnline creates an online session under a human-chosen code.
	// Fails with ErrSessionExists if the code is taken.
	CreateOnline(ctx context.Context, code, playerName string) (game.Session, error)

	// Join fills the second slot of an online session.
	// Fails with ErrSessionNotFound or ErrSessionFull.
	Join(ctx context.Context, code, playerName string) (game.Session, error)

	// Get returns a snapshot of the session (the poll endpoint's payload).
	Get(ctx context.Context, code string) (game.Session, error)

	// Play applies one move atomically and returns the resulting diff.
	Play(ctx context.Context, code string, column, playerID int) (game.MoveResult, error)

	// Reset blanks the session back to active with turn 1.
	Reset(ctx context.Context, code string) (game.Session, error)
}

// entry pairs a session with its mutex. The mutex outlives any single
// request; snapshots handed out are copies, never aliased pointers.
type entry struct {
	mu   sync.Mutex
	sess *game.Session
}

// memory is the map-based Store implementation.
type memory struct {
	mu       sync.RWMutex
	sessions map[string]*entry
}

// NewMemoryStore constructs an empty in-memory Store.
func NewMemoryStore() Store {
	return &memory{sessions: make(map[string]*entry)}
}

func (m *memory) CreateMatch(ctx context.Context, player1, player2 string) (game.Session, error) {
	s := game.NewMatch(uuid.NewString(), player1, player2)
	m.mu.Lock()
	m.sessions[s.ID] = &entry{sess: s}
	m.mu.Unlock()
	return *s, nil
}

func (m *memory) CreateOnline(ctx context.Context, code, playerName string) (game.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.sessions[code]; ok {
		return game.Session{}, ErrSessionExists
	}
	s := game.NewSession(code, playerName)
	m.sessions[code] = &entry{sess: s}
	return *s, nil
}

func (m *memory) Join(ctx context.Context, code, playerName string) (game.Session, error) {
	e, err := m.lookup(code)
	if err != nil {
		return game.Session{}, err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	if err := e.sess.Join(playerName); err != nil {
		return game.Session{}, ErrSessionFull
	}
	return *e.sess, nil
}

func (m *memory) Get(ctx context.Context, code string) (game.Session, error) {
	e, err := m.lookup(code)
	if err != nil {
		return game.Session{}, err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	return *e.sess, nil
}

func (m *memory) Play(ctx context.Context, code string, column, playerID int) (game.MoveResult, error) {
	e, err := m.lookup(code)
	if err != nil {
		return game.MoveResult{}, err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.sess.ApplyMove(column, playerID)
}

func (m *memory) Reset(ctx context.Context, code string) (game.Session, error) {
	e, err := m.lookup(code)
	if err != nil {
		return game.Session{}, err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	e.sess.Reset()
	return *e.sess, nil
}

func (m *memory) lookup(code string) (*entry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if e, ok := m.sessions[code]; ok {
		return e, nil
	}
	return nil, ErrSessionNotFound
}
