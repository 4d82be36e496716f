package usecase

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/rocketscienceinc/tictactoe-history/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-history/internal/entity"
	"github.com/rocketscienceinc/tictactoe-history/internal/repository"
	"github.com/rocketscienceinc/tictactoe-history/internal/tictactoe"
)

var errRedisDown = errors.New("redis down")

type mockSessionRepo struct {
	mock.Mock
}

func (that *mockSessionRepo) Save(ctx context.Context, id string, state tictactoe.SessionState) error {
	args := that.Called(ctx, id, state)
	return args.Error(0)
}

func (that *mockSessionRepo) GetByID(ctx context.Context, id string) (tictactoe.SessionState, error) {
	args := that.Called(ctx, id)
	return args.Get(0).(tictactoe.SessionState), args.Error(1)
}

func (that *mockSessionRepo) DeleteByID(ctx context.Context, id string) error {
	args := that.Called(ctx, id)
	return args.Error(0)
}

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, nil))
}

func newMemoryManager() *GameManager {
	return NewGameManager(newTestLogger(), repository.NewMemorySessionRepository(time.Hour))
}

func TestGameManager_NewSession(t *testing.T) {
	ctx := context.Background()

	t.Run("Creates an empty session", func(t *testing.T) {
		// Given: a manager backed by memory
		manager := newMemoryManager()

		// When: creating a session
		view, err := manager.NewSession(ctx)

		// Then: an id is assigned and the board is empty
		require.NoError(t, err)
		assert.NotEmpty(t, view.ID)
		assert.Equal(t, entity.Board{}, view.Game.Board)
		assert.Equal(t, "Next player: X", view.Game.Status)
		assert.Len(t, view.Game.Moves, 1)
	})

	t.Run("Every session gets its own id", func(t *testing.T) {
		manager := newMemoryManager()

		first, err := manager.NewSession(ctx)
		require.NoError(t, err)
		second, err := manager.NewSession(ctx)
		require.NoError(t, err)

		assert.NotEqual(t, first.ID, second.ID)
	})

	t.Run("Returns error when the repository fails", func(t *testing.T) {
		// Given: a repository that cannot save
		repo := &mockSessionRepo{}
		repo.On("Save", mock.Anything, mock.AnythingOfType("string"), mock.Anything).
			Return(errRedisDown).
			Once()

		manager := NewGameManager(newTestLogger(), repo)

		// When: creating a session
		view, err := manager.NewSession(ctx)

		// Then: the error is returned
		require.ErrorIs(t, err, errRedisDown)
		assert.Nil(t, view)
		repo.AssertExpectations(t)
	})
}

func TestGameManager_MakeMove(t *testing.T) {
	ctx := context.Background()

	t.Run("Applies the move", func(t *testing.T) {
		// Given: a new session
		manager := newMemoryManager()
		created, err := manager.NewSession(ctx)
		require.NoError(t, err)

		// When: X plays the centre
		view, err := manager.MakeMove(ctx, created.ID, 4)

		// Then: the move is stored
		require.NoError(t, err)
		assert.Equal(t, entity.PlayerX, view.Game.Board[4])
		assert.Equal(t, "Go to move #1: X -> (1, 1)", view.Game.Moves[1].Description)

		stored, err := manager.GetSession(ctx, created.ID)
		require.NoError(t, err)
		assert.Equal(t, view, stored)
	})

	t.Run("Rejects cells outside the board", func(t *testing.T) {
		manager := newMemoryManager()
		created, err := manager.NewSession(ctx)
		require.NoError(t, err)

		_, err = manager.MakeMove(ctx, created.ID, 9)

		require.ErrorIs(t, err, apperror.ErrInvalidCell)
	})

	t.Run("Occupied cell returns the unchanged view without saving", func(t *testing.T) {
		// Given: a stored session where X took cell 0
		session := tictactoe.NewGameSession()
		require.True(t, session.ApplyMove(0))

		repo := &mockSessionRepo{}
		repo.On("GetByID", mock.Anything, "abc").Return(session.State(), nil).Once()

		manager := NewGameManager(newTestLogger(), repo)

		// When: cell 0 is clicked again
		view, err := manager.MakeMove(ctx, "abc", 0)

		// Then: the view is unchanged and nothing is saved
		require.NoError(t, err)
		assert.Equal(t, session.View(), view.Game)
		repo.AssertExpectations(t)
		repo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Unknown session", func(t *testing.T) {
		manager := newMemoryManager()

		_, err := manager.MakeMove(ctx, "missing", 0)

		require.ErrorIs(t, err, apperror.ErrSessionNotFound)
	})

	t.Run("Corrupted session", func(t *testing.T) {
		// Given: a repository returning an impossible state
		repo := &mockSessionRepo{}
		repo.On("GetByID", mock.Anything, "abc").Return(tictactoe.SessionState{}, nil).Once()

		manager := NewGameManager(newTestLogger(), repo)

		// When: making a move
		_, err := manager.MakeMove(ctx, "abc", 0)

		// Then: ErrCorruptedSession is returned
		require.ErrorIs(t, err, apperror.ErrCorruptedSession)
		repo.AssertExpectations(t)
	})

	t.Run("Returns error when saving fails", func(t *testing.T) {
		repo := &mockSessionRepo{}
		repo.On("GetByID", mock.Anything, "abc").
			Return(tictactoe.NewGameSession().State(), nil).
			Once()
		repo.On("Save", mock.Anything, "abc", mock.AnythingOfType("tictactoe.SessionState")).
			Return(errRedisDown).
			Once()

		manager := NewGameManager(newTestLogger(), repo)

		_, err := manager.MakeMove(ctx, "abc", 0)

		require.ErrorIs(t, err, errRedisDown)
		repo.AssertExpectations(t)
	})
}

func TestGameManager_JumpTo(t *testing.T) {
	ctx := context.Background()

	t.Run("Jump then move discards the old future", func(t *testing.T) {
		// Given: X played cell 0
		manager := newMemoryManager()
		created, err := manager.NewSession(ctx)
		require.NoError(t, err)
		_, err = manager.MakeMove(ctx, created.ID, 0)
		require.NoError(t, err)

		// When: jumping to the start and playing cell 1
		jumped, err := manager.JumpTo(ctx, created.ID, 0)
		require.NoError(t, err)
		assert.Equal(t, entity.Board{}, jumped.Game.Board)
		assert.Len(t, jumped.Game.Moves, 2)

		view, err := manager.MakeMove(ctx, created.ID, 1)
		require.NoError(t, err)

		// Then: only the new ply 1 remains
		assert.Len(t, view.Game.Moves, 2)
		assert.Equal(t, entity.Board{1: entity.PlayerX}, view.Game.Board)
	})

	t.Run("Rejects plies outside history", func(t *testing.T) {
		manager := newMemoryManager()
		created, err := manager.NewSession(ctx)
		require.NoError(t, err)

		_, err = manager.JumpTo(ctx, created.ID, 1)

		require.ErrorIs(t, err, apperror.ErrInvalidPly)
	})

	t.Run("Restart shows the empty board", func(t *testing.T) {
		manager := newMemoryManager()
		created, err := manager.NewSession(ctx)
		require.NoError(t, err)
		_, err = manager.MakeMove(ctx, created.ID, 0)
		require.NoError(t, err)

		view, err := manager.Restart(ctx, created.ID)

		require.NoError(t, err)
		assert.Equal(t, 0, view.Game.CurrentPly)
		assert.Equal(t, "Next player: X", view.Game.Status)
	})
}

func TestGameManager_EndSession(t *testing.T) {
	ctx := context.Background()

	t.Run("Deletes the session", func(t *testing.T) {
		manager := newMemoryManager()
		created, err := manager.NewSession(ctx)
		require.NoError(t, err)

		require.NoError(t, manager.EndSession(ctx, created.ID))

		_, err = manager.GetSession(ctx, created.ID)
		require.ErrorIs(t, err, apperror.ErrSessionNotFound)
	})

	t.Run("Unknown session", func(t *testing.T) {
		manager := newMemoryManager()

		err := manager.EndSession(ctx, "missing")

		require.ErrorIs(t, err, apperror.ErrSessionNotFound)
	})
}

func TestGameManager_WinScenario(t *testing.T) {
	ctx := context.Background()

	// Given: a new session
	manager := newMemoryManager()
	created, err := manager.NewSession(ctx)
	require.NoError(t, err)

	// When: X completes the main diagonal
	var view *SessionView
	for _, cell := range []int{0, 1, 4, 3, 8} {
		view, err = manager.MakeMove(ctx, created.ID, cell)
		require.NoError(t, err)
	}

	// Then: the winner is reported and further clicks are inert
	require.NotNil(t, view.Game.Winner)
	assert.Equal(t, [3]int{0, 4, 8}, view.Game.Winner.Line)
	assert.Equal(t, "Winner: X", view.Game.Status)
	assert.Len(t, view.Game.Moves, 6)

	after, err := manager.MakeMove(ctx, created.ID, 2)
	require.NoError(t, err)
	assert.Equal(t, view, after)
}
