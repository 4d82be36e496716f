package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"github.com/rocketscienceinc/tictactoe-history/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-history/internal/entity"
	"github.com/rocketscienceinc/tictactoe-history/internal/tictactoe"
)

type sessionRepo interface {
	Save(ctx context.Context, id string, state tictactoe.SessionState) error
	GetByID(ctx context.Context, id string) (tictactoe.SessionState, error)
	DeleteByID(ctx context.Context, id string) error
}

// SessionView - the rendered state of one session.
type SessionView struct {
	ID   string         `json:"id"`
	Game tictactoe.View `json:"game"`
}

// GameManager runs game sessions stored in a repository. Mutations are
// serialised so every click is handled to completion before the next one.
type GameManager struct {
	logger      *slog.Logger
	sessionRepo sessionRepo

	mu sync.Mutex
}

func NewGameManager(logger *slog.Logger, sessionRepo sessionRepo) *GameManager {
	return &GameManager{
		logger:      logger.With("component", "game_manager"),
		sessionRepo: sessionRepo,
	}
}

func (that *GameManager) NewSession(ctx context.Context) (*SessionView, error) {
	id := uuid.NewString()
	session := tictactoe.NewGameSession()

	if err := that.sessionRepo.Save(ctx, id, session.State()); err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	that.logger.Debug("session created", "sessionID", id)

	return newSessionView(id, session), nil
}

func (that *GameManager) GetSession(ctx context.Context, id string) (*SessionView, error) {
	session, err := that.loadSession(ctx, id)
	if err != nil {
		return nil, err
	}

	return newSessionView(id, session), nil
}

// MakeMove applies a click on cell. A click on a taken cell or on a won board
// is not an error: the unchanged view is returned.
func (that *GameManager) MakeMove(ctx context.Context, id string, cell int) (*SessionView, error) {
	if !entity.IsValidCell(cell) {
		return nil, fmt.Errorf("%w: cell %d", apperror.ErrInvalidCell, cell)
	}

	return that.mutate(ctx, id, "MakeMove", func(session *tictactoe.GameSession) (bool, error) {
		return session.ApplyMove(cell), nil
	})
}

func (that *GameManager) JumpTo(ctx context.Context, id string, ply int) (*SessionView, error) {
	return that.mutate(ctx, id, "JumpTo", func(session *tictactoe.GameSession) (bool, error) {
		if ply == session.CurrentPly() {
			return false, nil
		}

		if !session.JumpTo(ply) {
			return false, fmt.Errorf("%w: ply %d of %d", apperror.ErrInvalidPly, ply, session.Len())
		}

		return true, nil
	})
}

// Restart shows the empty board again; the history stays until the next move.
func (that *GameManager) Restart(ctx context.Context, id string) (*SessionView, error) {
	return that.JumpTo(ctx, id, 0)
}

func (that *GameManager) EndSession(ctx context.Context, id string) error {
	that.mu.Lock()
	defer that.mu.Unlock()

	if err := that.sessionRepo.DeleteByID(ctx, id); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}

	that.logger.Debug("session ended", "sessionID", id)

	return nil
}

// mutate loads the session, applies op and saves it back when op changed it.
func (that *GameManager) mutate(
	ctx context.Context,
	id, method string,
	op func(session *tictactoe.GameSession) (bool, error),
) (*SessionView, error) {
	log := that.logger.With("method", method, "sessionID", id)

	that.mu.Lock()
	defer that.mu.Unlock()

	session, err := that.loadSession(ctx, id)
	if err != nil {
		return nil, err
	}

	changed, err := op(session)
	if err != nil {
		return nil, err
	}

	if !changed {
		log.Debug("nothing to change", "ply", session.CurrentPly())
		return newSessionView(id, session), nil
	}

	if err = that.sessionRepo.Save(ctx, id, session.State()); err != nil {
		return nil, fmt.Errorf("failed to save session: %w", err)
	}

	log.Debug("session updated", "ply", session.CurrentPly(), "status", session.Status())

	return newSessionView(id, session), nil
}

func (that *GameManager) loadSession(ctx context.Context, id string) (*tictactoe.GameSession, error) {
	state, err := that.sessionRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get session: %w", err)
	}

	session, err := tictactoe.RestoreGameSession(state)
	if err != nil {
		return nil, fmt.Errorf("failed to restore session %s: %w", id, err)
	}

	return session, nil
}

func newSessionView(id string, session *tictactoe.GameSession) *SessionView {
	return &SessionView{
		ID:   id,
		Game: session.View(),
	}
}
