package folders

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"

	"educreate/internal/domain/models"
	"educreate/internal/domain/repositories"
	"educreate/internal/domain/services"
	"educreate/internal/foldertypes"
	"educreate/internal/hierarchy"
	"educreate/internal/repository/memory"
	"educreate/internal/service/auth"
)

const (
	alice = "user-alice"
	bob   = "user-bob"
)

type fixture struct {
	svc   *Service
	repo  repositories.FolderRepository
	cache *recordingCache
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	types, err := foldertypes.NewRegistry()
	require.NoError(t, err)

	store := memory.NewStore()
	repo := memory.NewFolderRepository(store)
	cache := newRecordingCache()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	svc := NewService(repo, memory.NewTransactionManager(store), auth.NewOwnerBasedAuthorizer(repo), types, cache, logger)
	return &fixture{svc: svc, repo: repo, cache: cache}
}

// create adds an activities folder named name under parent (nil = root).
func (f *fixture) create(t *testing.T, userID, name string, parent *models.Folder) *models.Folder {
	t.Helper()
	req := &services.CreateFolderRequest{Name: name, Type: models.FolderTypeActivities}
	if parent != nil {
		req.ParentID = &parent.ID
	}
	folder, err := f.svc.CreateFolder(context.Background(), userID, req)
	require.NoError(t, err)
	return folder
}

// chain creates n nested folders L0 > L1 > ... and returns them top-down.
func (f *fixture) chain(t *testing.T, userID string, n int) []*models.Folder {
	t.Helper()
	var out []*models.Folder
	var parent *models.Folder
	for i := 0; i < n; i++ {
		parent = f.create(t, userID, fmt.Sprintf("L%d", i), parent)
		out = append(out, parent)
	}
	return out
}

func (f *fixture) get(t *testing.T, id string) *models.Folder {
	t.Helper()
	folder, err := f.repo.GetByIDIncludingDeleted(context.Background(), id)
	require.NoError(t, err)
	return folder
}

// requireConsistent asserts that the user's stored hierarchy has no violations.
func (f *fixture) requireConsistent(t *testing.T, userID string) {
	t.Helper()
	violations, err := f.svc.VerifyHierarchy(context.Background(), userID)
	require.NoError(t, err)
	require.Empty(t, violations)
}

func (f *fixture) snapshot(t *testing.T, userID string) []models.Folder {
	t.Helper()
	folders, err := f.repo.ListByUser(context.Background(), userID, nil)
	require.NoError(t, err)
	return folders
}

// recordingCache is an in-memory TreeCache that counts invalidations.
type recordingCache struct {
	trees         map[string][]*models.FolderTreeNode
	generations   map[string]int64
	invalidations int
}

func newRecordingCache() *recordingCache {
	return &recordingCache{
		trees:       map[string][]*models.FolderTreeNode{},
		generations: map[string]int64{},
	}
}

func (c *recordingCache) Generation(_ context.Context, userID string) (int64, bool) {
	return c.generations[userID], true
}

func (c *recordingCache) Get(_ context.Context, userID string, t models.FolderType) ([]*models.FolderTreeNode, bool) {
	tree, ok := c.trees[userID+"/"+string(t)]
	return tree, ok
}

func (c *recordingCache) Set(_ context.Context, userID string, t models.FolderType, generation int64, tree []*models.FolderTreeNode) {
	if c.generations[userID] != generation {
		return
	}
	c.trees[userID+"/"+string(t)] = tree
}

func (c *recordingCache) Invalidate(_ context.Context, userID string) {
	c.invalidations++
	c.generations[userID]++
	for _, t := range []models.FolderType{models.FolderTypeActivities, models.FolderTypeResults} {
		delete(c.trees, userID+"/"+string(t))
	}
}

func pathOf(ids ...string) string {
	p := ""
	for _, id := range ids {
		p = hierarchy.ChildPath(p, id)
	}
	return p
}
