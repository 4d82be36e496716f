package repository

import (
	"context"

	"github.com/rocketscienceinc/tictactoe-history/internal/tictactoe"
)

type SessionRepository interface {
	Save(ctx context.Context, id string, state tictactoe.SessionState) error
	GetByID(ctx context.Context, id string) (tictactoe.SessionState, error)
	DeleteByID(ctx context.Context, id string) error
}

const sessionKeyPrefix = "session:"

func sessionKey(id string) string {
	return sessionKeyPrefix + id
}
