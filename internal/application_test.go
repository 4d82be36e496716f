package application

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rocketscienceinc/tictactoe-history/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-history/internal/config"
	"github.com/rocketscienceinc/tictactoe-history/internal/tictactoe"
)

func TestNewSessionRepository(t *testing.T) {
	ctx := context.Background()

	t.Run("Memory store", func(t *testing.T) {
		// Given: a config asking for the memory store
		conf := &config.Config{SessionStore: config.StoreMemory, SessionTTL: time.Hour}

		// When: building the repository
		repo, closeRepo, err := newSessionRepository(ctx, conf)

		// Then: it stores sessions and closes cleanly
		require.NoError(t, err)
		require.NoError(t, repo.Save(ctx, "abc", tictactoe.NewGameSession().State()))

		state, err := repo.GetByID(ctx, "abc")
		require.NoError(t, err)
		assert.Len(t, state.History, 1)
		assert.NoError(t, closeRepo())
	})

	t.Run("Unknown store", func(t *testing.T) {
		conf := &config.Config{SessionStore: "etcd"}

		_, _, err := newSessionRepository(ctx, conf)

		require.ErrorIs(t, err, apperror.ErrUnknownStoreType)
	})

	t.Run("Redis without a host", func(t *testing.T) {
		conf := &config.Config{SessionStore: config.StoreRedis}

		_, _, err := newSessionRepository(ctx, conf)

		require.ErrorIs(t, err, ErrAddrNotFound)
	})
}
