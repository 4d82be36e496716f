package websocket

import (
	"context"
	"fmt"

	"github.com/rocketscienceinc/tictactoe-history/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-history/internal/usecase"
)

func (that *Server) handleMove(ctx context.Context, sessionID string, msg *Message) (*usecase.SessionView, error) {
	payload, err := decodePayload(msg)
	if err != nil {
		return nil, err
	}

	if payload.Cell == nil {
		return nil, fmt.Errorf("%w: cell is required", apperror.ErrInvalidPayload)
	}

	return that.gameUseCase.MakeMove(ctx, sessionID, *payload.Cell)
}

func (that *Server) handleJump(ctx context.Context, sessionID string, msg *Message) (*usecase.SessionView, error) {
	payload, err := decodePayload(msg)
	if err != nil {
		return nil, err
	}

	if payload.Ply == nil {
		return nil, fmt.Errorf("%w: ply is required", apperror.ErrInvalidPayload)
	}

	return that.gameUseCase.JumpTo(ctx, sessionID, *payload.Ply)
}

func (that *Server) handleRestart(ctx context.Context, sessionID string, _ *Message) (*usecase.SessionView, error) {
	return that.gameUseCase.Restart(ctx, sessionID)
}
