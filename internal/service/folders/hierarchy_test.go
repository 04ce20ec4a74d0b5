package folders

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"educreate/internal/domain/repositories"
	"educreate/internal/hierarchy"
)

func TestVerifyAndRepairHierarchy(t *testing.T) {
	ctx := context.Background()
	fx := newFixture(t)
	a := fx.create(t, alice, "A", nil)
	b := fx.create(t, alice, "B", a)
	c := fx.create(t, alice, "C", b)
	fx.create(t, bob, "Untouched", nil)

	// Corrupt B and C directly in the store, as a crashed writer might.
	require.NoError(t, fx.repo.ApplyHierarchy(ctx, []hierarchy.Change{
		{ID: b.ID, Depth: 5, Path: "/stale"},
		{ID: c.ID, Depth: 0, Path: "/stale/c"},
	}))

	violations, err := fx.svc.VerifyHierarchy(ctx, alice)
	require.NoError(t, err)
	kinds := map[hierarchy.ViolationKind]int{}
	for _, v := range violations {
		kinds[v.Kind]++
	}
	assert.Equal(t, 2, kinds[hierarchy.ViolationDepth])
	assert.Equal(t, 2, kinds[hierarchy.ViolationPath])

	n, err := fx.svc.RepairHierarchy(ctx, alice)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	fx.requireConsistent(t, alice)

	assert.Equal(t, pathOf(a.ID, b.ID, c.ID), fx.get(t, c.ID).Path)

	n, err = fx.svc.RepairHierarchy(ctx, alice)
	require.NoError(t, err)
	assert.Zero(t, n, "repair is idempotent")

	users, err := fx.svc.ListUserIDs(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{alice, bob}, users)
}

func TestRepairHierarchy_DetachedOrphanKeepsRootNamesUnique(t *testing.T) {
	ctx := context.Background()
	fx := newFixture(t)
	dup := fx.create(t, alice, "Dup", nil)
	p := fx.create(t, alice, "P", nil)
	child := fx.create(t, alice, "Dup", p)

	// The child's stored path no longer sits under P, so deleting P's
	// subtree leaves the child live with a deleted parent.
	require.NoError(t, fx.repo.ApplyHierarchy(ctx, []hierarchy.Change{
		{ID: child.ID, Depth: 1, Path: "/elsewhere/" + child.ID},
	}))
	_, err := fx.repo.SoftDeleteSubtree(ctx, alice, p.Path, now())
	require.NoError(t, err)

	n, err := fx.svc.RepairHierarchy(ctx, alice)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	fx.requireConsistent(t, alice)

	repaired := fx.get(t, child.ID)
	assert.Nil(t, repaired.ParentID)
	assert.Equal(t, "Dup (2)", repaired.Name)
	assert.Equal(t, "Dup", fx.get(t, dup.ID).Name)
}

func TestMoveFolder_RollsBackWhenPropagationFails(t *testing.T) {
	ctx := context.Background()
	fx := newFixture(t)
	a := fx.create(t, alice, "A", nil)
	b := fx.create(t, alice, "B", nil)
	fx.create(t, alice, "C", b)
	before := fx.snapshot(t, alice)

	boom := errors.New("store unavailable")
	fx.svc.folderRepo = failingApply{FolderRepository: fx.repo, err: boom}

	_, err := fx.svc.MoveFolder(ctx, alice, b.ID, &a.ID)
	require.ErrorIs(t, err, boom)
	assert.Equal(t, before, fx.snapshot(t, alice), "SetParent must be rolled back with the batch")
}

// failingApply lets every call through except the batch hierarchy write.
type failingApply struct {
	repositories.FolderRepository
	err error
}

func (f failingApply) ApplyHierarchy(context.Context, []hierarchy.Change) error {
	return f.err
}
