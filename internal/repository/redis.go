package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/rocketscienceinc/tictactoe-history/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-history/internal/tictactoe"
)

type dbSession struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisSessionRepository stores sessions as JSON; every Save refreshes the TTL.
func NewRedisSessionRepository(client *redis.Client, ttl time.Duration) SessionRepository {
	return &dbSession{
		client: client,
		ttl:    ttl,
	}
}

func (that *dbSession) Save(ctx context.Context, id string, state tictactoe.SessionState) error {
	stateJSON, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("could not marshal session: %w", err)
	}

	if err = that.client.Set(ctx, sessionKey(id), stateJSON, that.ttl).Err(); err != nil {
		return fmt.Errorf("failed to set session: %w", err)
	}

	return nil
}

func (that *dbSession) GetByID(ctx context.Context, id string) (tictactoe.SessionState, error) {
	response, err := that.client.Get(ctx, sessionKey(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return tictactoe.SessionState{}, apperror.ErrSessionNotFound
	}

	if err != nil {
		return tictactoe.SessionState{}, fmt.Errorf("failed to get session by id: %w", err)
	}

	var state tictactoe.SessionState
	if err = json.Unmarshal(response, &state); err != nil {
		return tictactoe.SessionState{}, fmt.Errorf("failed to unmarshal session: %w", err)
	}

	return state, nil
}

func (that *dbSession) DeleteByID(ctx context.Context, id string) error {
	deleted, err := that.client.Del(ctx, sessionKey(id)).Result()
	if err != nil {
		return fmt.Errorf("failed to delete session by id: %w", err)
	}

	if deleted == 0 {
		return apperror.ErrSessionNotFound
	}

	return nil
}
