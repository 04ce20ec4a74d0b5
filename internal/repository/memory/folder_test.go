package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"educreate/internal/domain"
	"educreate/internal/domain/models"
	"educreate/internal/domain/repositories"
	"educreate/internal/hierarchy"
)

func newFolder(id string, parent *models.Folder, name string) *models.Folder {
	f := &models.Folder{
		ID:        id,
		UserID:    "u1",
		Name:      name,
		Type:      models.FolderTypeActivities,
		Path:      hierarchy.RootPath(id),
		CreatedAt: time.Now().UTC(),
		UpdatedAt: time.Now().UTC(),
	}
	if parent != nil {
		f.ParentID = &parent.ID
		f.Depth = parent.Depth + 1
		f.Path = hierarchy.ChildPath(parent.Path, id)
	}
	return f
}

func seed(t *testing.T, repo repositories.FolderRepository, folders ...*models.Folder) {
	t.Helper()
	for _, f := range folders {
		require.NoError(t, repo.Create(context.Background(), f))
	}
}

func TestCreate_Constraints(t *testing.T) {
	ctx := context.Background()
	repo := NewFolderRepository(NewStore())
	a := newFolder("a", nil, "Maths")
	seed(t, repo, a)

	t.Run("duplicate live sibling name", func(t *testing.T) {
		err := repo.Create(ctx, newFolder("b", nil, "Maths"))
		var conflict *domain.ConflictError
		require.ErrorAs(t, err, &conflict)
		assert.Equal(t, "a", conflict.ResourceID)
	})

	t.Run("same name under another parent", func(t *testing.T) {
		assert.NoError(t, repo.Create(ctx, newFolder("c", a, "Maths")))
	})

	t.Run("missing parent", func(t *testing.T) {
		f := newFolder("d", nil, "Orphan")
		f.ParentID = strPtr("nope")
		assert.ErrorIs(t, repo.Create(ctx, f), domain.ErrNotFound)
	})

	t.Run("depth out of range", func(t *testing.T) {
		f := newFolder("e", nil, "Deep")
		f.Depth = models.MaxDepth + 1
		assert.ErrorIs(t, repo.Create(ctx, f), domain.ErrValidation)
	})
}

func TestReturnedFoldersAreCopies(t *testing.T) {
	ctx := context.Background()
	repo := NewFolderRepository(NewStore())
	seed(t, repo, newFolder("a", nil, "A"))

	got, err := repo.GetByID(ctx, "a")
	require.NoError(t, err)
	got.Name = "mutated"

	again, err := repo.GetByID(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, "A", again.Name)
}

func TestExecTx_RollsBackOnError(t *testing.T) {
	ctx := context.Background()
	store := NewStore()
	repo := NewFolderRepository(store)
	tm := NewTransactionManager(store)
	a := newFolder("a", nil, "A")
	seed(t, repo, a)

	boom := errors.New("boom")
	err := tm.ExecTx(ctx, func(ctx context.Context) error {
		require.NoError(t, repo.Create(ctx, newFolder("b", a, "B")))
		require.NoError(t, repo.ApplyHierarchy(ctx, []hierarchy.Change{{ID: "a", Depth: 0, Path: "/changed"}}))
		return boom
	})
	require.ErrorIs(t, err, boom)

	_, err = repo.GetByID(ctx, "b")
	assert.ErrorIs(t, err, domain.ErrNotFound)
	got, err := repo.GetByID(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, "/a", got.Path)
}

func TestApplyHierarchy_AllOrNothing(t *testing.T) {
	ctx := context.Background()
	repo := NewFolderRepository(NewStore())
	a := newFolder("a", nil, "A")
	seed(t, repo, a, newFolder("b", a, "B"))

	err := repo.ApplyHierarchy(ctx, []hierarchy.Change{
		{ID: "a", Depth: 0, Path: "/x"},
		{ID: "b", Depth: models.MaxDepth + 1, Path: "/x/b"},
	})
	require.ErrorIs(t, err, domain.ErrDepthLimitExceeded)

	got, _ := repo.GetByID(ctx, "a")
	assert.Equal(t, "/a", got.Path)

	// Detaching b next to a root of the same name breaks sibling uniqueness.
	seed(t, repo, newFolder("r", nil, "B"))
	err = repo.ApplyHierarchy(ctx, []hierarchy.Change{
		{ID: "a", Depth: 0, Path: "/y"},
		{ID: "b", Depth: 0, Path: "/b", ClearParent: true},
	})
	var conflict *domain.ConflictError
	require.ErrorAs(t, err, &conflict)
	assert.Equal(t, "r", conflict.ResourceID)

	got, _ = repo.GetByID(ctx, "a")
	assert.Equal(t, "/a", got.Path)
	gotB, _ := repo.GetByID(ctx, "b")
	require.NotNil(t, gotB.ParentID)
	assert.Equal(t, "a", *gotB.ParentID)

	// Renamed in the same batch, the detach goes through.
	require.NoError(t, repo.ApplyHierarchy(ctx, []hierarchy.Change{
		{ID: "b", Depth: 0, Path: "/b", ClearParent: true, Name: "B (2)"},
	}))
	gotB, _ = repo.GetByID(ctx, "b")
	assert.Nil(t, gotB.ParentID)
	assert.Equal(t, "B (2)", gotB.Name)
}

func TestSoftDeleteAndRestore(t *testing.T) {
	ctx := context.Background()
	repo := NewFolderRepository(NewStore())
	a := newFolder("a", nil, "A")
	b := newFolder("b", a, "B")
	c := newFolder("c", b, "C")
	seed(t, repo, a, b, c, newFolder("z", nil, "Z"))

	// C goes to the bin first, then its ancestor B.
	first := time.Date(2026, 1, 1, 10, 0, 0, 0, time.UTC)
	second := first.Add(time.Minute)
	n, err := repo.SoftDeleteSubtree(ctx, "u1", c.Path, first)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	n, err = repo.SoftDeleteSubtree(ctx, "u1", b.Path, second)
	require.NoError(t, err)
	assert.Equal(t, 1, n, "already deleted descendants keep their own timestamp")

	deleted, err := repo.ListDeleted(ctx, "u1", models.FolderTypeActivities)
	require.NoError(t, err)
	require.Len(t, deleted, 2)
	assert.Equal(t, "b", deleted[0].ID)
	assert.Equal(t, "c", deleted[1].ID)

	live, err := repo.ListByUser(ctx, "u1", nil)
	require.NoError(t, err)
	assert.Len(t, live, 2)

	n, err = repo.RestoreSubtree(ctx, "u1", b.Path, second)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	_, err = repo.GetByID(ctx, "c")
	assert.ErrorIs(t, err, domain.ErrNotFound, "C was deleted separately and stays in the bin")
}

func TestRestoreSubtree_NameTaken(t *testing.T) {
	ctx := context.Background()
	repo := NewFolderRepository(NewStore())
	a := newFolder("a", nil, "A")
	seed(t, repo, a)

	at := time.Now().UTC()
	_, err := repo.SoftDeleteSubtree(ctx, "u1", a.Path, at)
	require.NoError(t, err)
	seed(t, repo, newFolder("a2", nil, "A"))

	_, err = repo.RestoreSubtree(ctx, "u1", a.Path, at)
	assert.ErrorIs(t, err, domain.ErrConflict)

	got, err := repo.GetByIDIncludingDeleted(ctx, "a")
	require.NoError(t, err)
	assert.True(t, got.IsDeleted())
}

func TestListChildrenAndFindSibling(t *testing.T) {
	ctx := context.Background()
	repo := NewFolderRepository(NewStore())
	a := newFolder("a", nil, "A")
	seed(t, repo, a, newFolder("c", a, "Zeta"), newFolder("b", a, "Alpha"), newFolder("r", nil, "Root"))

	kids, err := repo.ListChildren(ctx, "u1", &a.ID, models.FolderTypeActivities)
	require.NoError(t, err)
	require.Len(t, kids, 2)
	assert.Equal(t, "Alpha", kids[0].Name)

	roots, err := repo.ListChildren(ctx, "u1", nil, models.FolderTypeActivities)
	require.NoError(t, err)
	assert.Len(t, roots, 2)

	sib, err := repo.FindSibling(ctx, repositories.SiblingQuery{UserID: "u1", ParentID: &a.ID, Type: models.FolderTypeActivities, Name: "Zeta"})
	require.NoError(t, err)
	require.NotNil(t, sib)
	assert.Equal(t, "c", sib.ID)

	sib, err = repo.FindSibling(ctx, repositories.SiblingQuery{UserID: "u1", ParentID: &a.ID, Type: models.FolderTypeActivities, Name: "Zeta", ExcludeID: "c"})
	require.NoError(t, err)
	assert.Nil(t, sib)
}

func strPtr(s string) *string { return &s }
