package cache

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"educreate/internal/domain/models"
)

// unreachableClient points at a port nothing listens on.
func unreachableClient(t *testing.T) *redis.Client {
	t.Helper()
	cli := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 50 * time.Millisecond,
		MaxRetries:  -1,
	})
	t.Cleanup(func() { _ = cli.Close() })
	return cli
}

func TestRedisTreeCache_BackendDownIsAMiss(t *testing.T) {
	ctx := context.Background()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	c := NewRedisTreeCache(unreachableClient(t), time.Minute, logger)

	tree := []*models.FolderTreeNode{{ID: "a", Name: "A", Folders: []*models.FolderTreeNode{}}}
	c.Set(ctx, "u1", models.FolderTypeActivities, 0, tree)

	got, ok := c.Get(ctx, "u1", models.FolderTypeActivities)
	assert.False(t, ok)
	assert.Nil(t, got)

	_, ok = c.Generation(ctx, "u1")
	assert.False(t, ok, "unknown generation must disable caching")

	assert.NotPanics(t, func() { c.Invalidate(ctx, "u1") })
}

func TestNewRedisClient_BadURL(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	_, cleanup, err := NewRedisClient(context.Background(), "not-a-url", logger)
	require.Error(t, err)
	cleanup()
}

func TestTreeKey(t *testing.T) {
	assert.Equal(t, "educreate:folders:tree:user-1", treeKey("user-1"))
	assert.Equal(t, "educreate:folders:gen:user-1", generationKey("user-1"))
}
