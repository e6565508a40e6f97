package storage

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Jeevanbnj/F-Glu/internal/domain/entity"
)

func TestMemoryUserRepository_GetCreatesUser(t *testing.T) {
	repo := NewMemoryUserRepository()
	ctx := context.Background()

	user, err := repo.Get(ctx, 1, 10)
	require.NoError(t, err)
	require.Equal(t, entity.StateMainMenu, user.State)

	user.SetState(entity.StateAwaitingFundus)
	got, err := repo.Get(ctx, 1, 10)
	require.NoError(t, err)
	require.Equal(t, entity.StateMainMenu, got.State, "changes are visible only after Save")

	require.NoError(t, repo.Save(ctx, user))
	got, err = repo.Get(ctx, 1, 10)
	require.NoError(t, err)
	require.Equal(t, entity.StateAwaitingFundus, got.State)
}

func TestMemoryUserRepository_UpdateState(t *testing.T) {
	repo := NewMemoryUserRepository()
	ctx := context.Background()

	require.NoError(t, repo.UpdateState(ctx, 5, entity.StateProcessing))
	_, err := repo.Get(ctx, 5, 50)
	require.NoError(t, err)

	require.NoError(t, repo.UpdateState(ctx, 5, entity.StateProcessing))
	got, err := repo.Get(ctx, 5, 50)
	require.NoError(t, err)
	require.Equal(t, entity.StateProcessing, got.State)
}
