package main

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"educreate/internal/domain/models"
	"educreate/internal/domain/services"
	"educreate/internal/foldertypes"
	"educreate/internal/repository/memory"
	"educreate/internal/service/auth"
	"educreate/internal/service/folders"
)

func newMemoryService(t *testing.T) *folders.Service {
	t.Helper()
	store := memory.NewStore()
	repo := memory.NewFolderRepository(store)
	types, err := foldertypes.NewRegistry()
	require.NoError(t, err)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return folders.NewService(repo, memory.NewTransactionManager(store), auth.NewOwnerBasedAuthorizer(repo), types, nil, logger)
}

func TestVerifyUsers(t *testing.T) {
	ctx := context.Background()
	svc := newMemoryService(t)

	for _, user := range []string{"user-a", "user-b", "user-c"} {
		root, err := svc.CreateFolder(ctx, user, &services.CreateFolderRequest{Name: "Root", Type: models.FolderTypeActivities})
		require.NoError(t, err)
		_, err = svc.CreateFolder(ctx, user, &services.CreateFolderRequest{Name: "Child", Type: models.FolderTypeActivities, ParentID: &root.ID})
		require.NoError(t, err)
	}

	users, err := svc.ListUserIDs(ctx)
	require.NoError(t, err)
	reports, err := verifyUsers(ctx, svc, users, 2)
	require.NoError(t, err)

	require.Len(t, reports, 3)
	assert.Equal(t, "user-a", reports[0].UserID)
	assert.Equal(t, "user-c", reports[2].UserID)
	assert.Zero(t, countViolations(reports))

	var buf bytes.Buffer
	require.NoError(t, printReports(&buf, reports, true))
	var decoded []userReport
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Len(t, decoded, 3)
	assert.NotNil(t, decoded[0].Violations)

	buf.Reset()
	require.NoError(t, printReports(&buf, reports, false))
	assert.Contains(t, buf.String(), "user-b: ok")
}

func TestPrintTree(t *testing.T) {
	tree := []*models.FolderTreeNode{{
		ID: "r", Name: "Root", Depth: 0,
		Folders: []*models.FolderTreeNode{{ID: "c", Name: "Child", Depth: 1}},
	}}
	var buf bytes.Buffer
	printTree(&buf, tree)
	assert.Equal(t, "Root  (r)\n  Child  (c)\n", buf.String())
}

func TestRootCmdFlags(t *testing.T) {
	root := newRootCmd()
	verify, _, err := root.Find([]string{"verify"})
	require.NoError(t, err)
	assert.NotNil(t, verify.Flags().Lookup("all"))
	assert.NotNil(t, verify.Flags().Lookup("json"))

	for _, name := range []string{"repair", "tree", "schema"} {
		_, _, err := root.Find([]string{name})
		assert.NoError(t, err, name)
	}
}
