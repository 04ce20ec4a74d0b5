package folders

import (
	"context"

	"educreate/internal/domain/models"
)

// NoopTreeCache never stores anything
type NoopTreeCache struct{}

func (NoopTreeCache) Get(context.Context, string, models.FolderType) ([]*models.FolderTreeNode, bool) {
	return nil, false
}

func (NoopTreeCache) Generation(context.Context, string) (int64, bool) {
	return 0, false
}

func (NoopTreeCache) Set(context.Context, string, models.FolderType, int64, []*models.FolderTreeNode) {}

func (NoopTreeCache) Invalidate(context.Context, string) {}
