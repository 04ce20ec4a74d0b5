package folders

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"educreate/internal/domain/models"
	"educreate/internal/domain/repositories"
)

// afterList runs hook each time ListByUser has returned its rows.
type afterList struct {
	repositories.FolderRepository
	hook func()
}

func (a afterList) ListByUser(ctx context.Context, userID string, folderType *models.FolderType) ([]models.Folder, error) {
	folders, err := a.FolderRepository.ListByUser(ctx, userID, folderType)
	a.hook()
	return folders, err
}

func TestGetTree_MoveDuringReadIsNotCached(t *testing.T) {
	ctx := context.Background()
	fx := newFixture(t)
	a := fx.create(t, alice, "A", nil)
	b := fx.create(t, alice, "B", nil)

	moved := false
	fx.svc.folderRepo = afterList{FolderRepository: fx.repo, hook: func() {
		if moved {
			return
		}
		moved = true
		_, err := fx.svc.MoveFolder(ctx, alice, b.ID, &a.ID)
		require.NoError(t, err)
	}}

	stale, err := fx.svc.GetTree(ctx, alice, models.FolderTypeActivities)
	require.NoError(t, err)
	assert.Len(t, stale, 2, "the first read predates the move")

	tree, err := fx.svc.GetTree(ctx, alice, models.FolderTypeActivities)
	require.NoError(t, err)
	require.Len(t, tree, 1)
	assert.Equal(t, a.ID, tree[0].ID)
	require.Len(t, tree[0].Folders, 1)
	assert.Equal(t, b.ID, tree[0].Folders[0].ID)
}

func TestGetTree_CachedUntilInvalidated(t *testing.T) {
	ctx := context.Background()
	fx := newFixture(t)
	fx.create(t, alice, "A", nil)

	_, err := fx.svc.GetTree(ctx, alice, models.FolderTypeActivities)
	require.NoError(t, err)
	cached, ok := fx.cache.Get(ctx, alice, models.FolderTypeActivities)
	require.True(t, ok)
	assert.Len(t, cached, 1)

	fx.create(t, alice, "B", nil)
	_, ok = fx.cache.Get(ctx, alice, models.FolderTypeActivities)
	assert.False(t, ok, "create invalidates the cached tree")
}
