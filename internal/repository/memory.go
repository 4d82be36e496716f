package repository

import (
	"context"
	"sync"
	"time"

	"github.com/rocketscienceinc/tictactoe-history/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-history/internal/entity"
	"github.com/rocketscienceinc/tictactoe-history/internal/tictactoe"
)

type memorySession struct {
	state     tictactoe.SessionState
	expiresAt time.Time
}

type memSession struct {
	mu       sync.RWMutex
	sessions map[string]memorySession
	ttl      time.Duration
	now      func() time.Time
}

// NewMemorySessionRepository keeps sessions in process memory. Expired entries
// are dropped when they are next looked up.
func NewMemorySessionRepository(ttl time.Duration) SessionRepository {
	return newMemorySessionRepository(ttl, time.Now)
}

func newMemorySessionRepository(ttl time.Duration, now func() time.Time) *memSession {
	return &memSession{
		sessions: make(map[string]memorySession),
		ttl:      ttl,
		now:      now,
	}
}

func (that *memSession) Save(_ context.Context, id string, state tictactoe.SessionState) error {
	that.mu.Lock()
	defer that.mu.Unlock()

	that.sessions[sessionKey(id)] = memorySession{
		state:     copyState(state),
		expiresAt: that.now().Add(that.ttl),
	}

	return nil
}

func (that *memSession) GetByID(_ context.Context, id string) (tictactoe.SessionState, error) {
	key := sessionKey(id)

	that.mu.RLock()
	stored, ok := that.sessions[key]
	that.mu.RUnlock()

	if !ok {
		return tictactoe.SessionState{}, apperror.ErrSessionNotFound
	}

	if that.expired(stored) {
		that.mu.Lock()
		delete(that.sessions, key)
		that.mu.Unlock()

		return tictactoe.SessionState{}, apperror.ErrSessionNotFound
	}

	return copyState(stored.state), nil
}

func (that *memSession) DeleteByID(_ context.Context, id string) error {
	key := sessionKey(id)

	that.mu.Lock()
	defer that.mu.Unlock()

	stored, ok := that.sessions[key]
	if !ok || that.expired(stored) {
		delete(that.sessions, key)
		return apperror.ErrSessionNotFound
	}

	delete(that.sessions, key)

	return nil
}

// expired - a zero ttl keeps sessions forever.
func (that *memSession) expired(stored memorySession) bool {
	return that.ttl > 0 && !that.now().Before(stored.expiresAt)
}

func copyState(state tictactoe.SessionState) tictactoe.SessionState {
	history := make([]entity.Board, len(state.History))
	copy(history, state.History)

	return tictactoe.SessionState{
		History:    history,
		CurrentPly: state.CurrentPly,
	}
}
