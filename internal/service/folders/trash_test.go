package folders

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"educreate/internal/domain"
	"educreate/internal/domain/models"
)

func TestDeleteFolder_SoftDeletesSubtree(t *testing.T) {
	ctx := context.Background()
	fx := newFixture(t)
	a := fx.create(t, alice, "A", nil)
	b := fx.create(t, alice, "B", a)
	c := fx.create(t, alice, "C", b)
	keep := fx.create(t, alice, "Keep", a)

	n, err := fx.svc.DeleteFolder(ctx, alice, b.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	assert.True(t, fx.get(t, b.ID).IsDeleted())
	assert.True(t, fx.get(t, c.ID).IsDeleted())
	assert.False(t, fx.get(t, keep.ID).IsDeleted())
	assert.Equal(t, *fx.get(t, b.ID).DeletedAt, *fx.get(t, c.ID).DeletedAt)

	bin, err := fx.svc.ListDeleted(ctx, alice, models.FolderTypeActivities)
	require.NoError(t, err)
	require.Len(t, bin, 1, "descendants deleted with B are not listed separately")
	assert.Equal(t, b.ID, bin[0].ID)

	_, err = fx.svc.GetFolder(ctx, alice, b.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = fx.svc.DeleteFolder(ctx, bob, a.ID)
	assert.ErrorIs(t, err, domain.ErrForbidden)

	fx.requireConsistent(t, alice)
}

func TestRestoreFolder_UnderOriginalParent(t *testing.T) {
	ctx := context.Background()
	fx := newFixture(t)
	a := fx.create(t, alice, "A", nil)
	b := fx.create(t, alice, "B", a)
	c := fx.create(t, alice, "C", b)

	_, err := fx.svc.DeleteFolder(ctx, alice, b.ID)
	require.NoError(t, err)

	detail, err := fx.svc.RestoreFolder(ctx, alice, b.ID)
	require.NoError(t, err)
	require.NotNil(t, detail.Parent)
	assert.Equal(t, a.ID, detail.Parent.ID)
	require.Len(t, detail.Children, 1)
	assert.Equal(t, c.ID, detail.Children[0].ID)
	assert.False(t, fx.get(t, c.ID).IsDeleted())

	fx.requireConsistent(t, alice)
}

func TestRestoreFolder_ParentGoneRestoresAtRoot(t *testing.T) {
	ctx := context.Background()
	fx := newFixture(t)
	a := fx.create(t, alice, "A", nil)
	b := fx.create(t, alice, "B", a)
	c := fx.create(t, alice, "C", b)

	_, err := fx.svc.DeleteFolder(ctx, alice, b.ID)
	require.NoError(t, err)
	_, err = fx.svc.DeleteFolder(ctx, alice, a.ID)
	require.NoError(t, err)

	detail, err := fx.svc.RestoreFolder(ctx, alice, b.ID)
	require.NoError(t, err)
	assert.Nil(t, detail.ParentID)
	assert.Equal(t, 0, detail.Depth)
	assert.Equal(t, pathOf(b.ID), detail.Path)

	gotC := fx.get(t, c.ID)
	assert.Equal(t, 1, gotC.Depth)
	assert.Equal(t, pathOf(b.ID, c.ID), gotC.Path)
	assert.True(t, fx.get(t, a.ID).IsDeleted())

	fx.requireConsistent(t, alice)
}

func TestRestoreFolder_PathsFollowMovedParent(t *testing.T) {
	ctx := context.Background()
	fx := newFixture(t)
	top := fx.create(t, alice, "Top", nil)
	a := fx.create(t, alice, "A", nil)
	b := fx.create(t, alice, "B", a)

	_, err := fx.svc.DeleteFolder(ctx, alice, b.ID)
	require.NoError(t, err)
	_, err = fx.svc.MoveFolder(ctx, alice, a.ID, &top.ID)
	require.NoError(t, err)

	detail, err := fx.svc.RestoreFolder(ctx, alice, b.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, detail.Depth)
	assert.Equal(t, pathOf(top.ID, a.ID, b.ID), detail.Path)
	fx.requireConsistent(t, alice)
}

func TestRestoreFolder_Errors(t *testing.T) {
	ctx := context.Background()
	fx := newFixture(t)
	a := fx.create(t, alice, "Notes", nil)

	_, err := fx.svc.RestoreFolder(ctx, alice, a.ID)
	assert.ErrorIs(t, err, domain.ErrValidation, "live folder cannot be restored")

	_, err = fx.svc.DeleteFolder(ctx, alice, a.ID)
	require.NoError(t, err)

	_, err = fx.svc.RestoreFolder(ctx, bob, a.ID)
	assert.ErrorIs(t, err, domain.ErrForbidden)

	fx.create(t, alice, "Notes", nil)
	_, err = fx.svc.RestoreFolder(ctx, alice, a.ID)
	assert.ErrorIs(t, err, domain.ErrConflict)
	assert.True(t, fx.get(t, a.ID).IsDeleted(), "failed restore leaves the folder in the bin")

	_, err = fx.svc.RestoreFolder(ctx, alice, "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestListDeleted_UnknownType(t *testing.T) {
	fx := newFixture(t)
	_, err := fx.svc.ListDeleted(context.Background(), alice, "bogus")
	assert.ErrorIs(t, err, domain.ErrValidation)
}
