// Package folders implements folder management on top of the hierarchy
// algorithms: creation, moves, renames, the recycle bin and repair.
package folders

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"educreate/internal/domain"
	"educreate/internal/domain/models"
	"educreate/internal/domain/repositories"
	"educreate/internal/domain/services"
	"educreate/internal/foldertypes"
	"educreate/internal/hierarchy"
)

// TreeCache stores built folder trees per user and type. Implementations
// treat backend failures as cache misses.
//
// Every Invalidate advances the user's generation. A tree built from reads
// taken at generation g is stored by Set only while the generation is still
// g, so a tree read before a concurrent mutation never outlives it.
type TreeCache interface {
	Get(ctx context.Context, userID string, folderType models.FolderType) ([]*models.FolderTreeNode, bool)
	// Generation reports the user's current generation; false means it is
	// unknown and the tree must not be cached.
	Generation(ctx context.Context, userID string) (int64, bool)
	Set(ctx context.Context, userID string, folderType models.FolderType, generation int64, tree []*models.FolderTreeNode)
	Invalidate(ctx context.Context, userID string)
}

// Service implements services.FolderService and services.HierarchyService
type Service struct {
	folderRepo repositories.FolderRepository
	txManager  repositories.TransactionManager
	authorizer services.ResourceAuthorizer
	types      *foldertypes.Registry
	cache      TreeCache
	logger     *slog.Logger
}

var (
	_ services.FolderService    = (*Service)(nil)
	_ services.HierarchyService = (*Service)(nil)
)

// NewService creates a new folder service
func NewService(
	folderRepo repositories.FolderRepository,
	txManager repositories.TransactionManager,
	authorizer services.ResourceAuthorizer,
	types *foldertypes.Registry,
	cache TreeCache,
	logger *slog.Logger,
) *Service {
	if cache == nil {
		cache = NoopTreeCache{}
	}
	return &Service{
		folderRepo: folderRepo,
		txManager:  txManager,
		authorizer: authorizer,
		types:      types,
		cache:      cache,
		logger:     logger,
	}
}

// now is truncated to the precision Postgres stores, so a deleted_at value
// read back compares equal to the one written.
func now() time.Time {
	return time.Now().UTC().Truncate(time.Microsecond)
}

// withHierarchyLock runs fn in a transaction holding the user's hierarchy lock.
func (s *Service) withHierarchyLock(ctx context.Context, userID string, fn repositories.TxFn) error {
	return s.txManager.ExecTx(ctx, func(ctx context.Context) error {
		if err := s.folderRepo.LockHierarchy(ctx, userID); err != nil {
			return err
		}
		return fn(ctx)
	})
}

// loadOwned returns a live folder owned by userID
func (s *Service) loadOwned(ctx context.Context, userID, folderID string) (*models.Folder, error) {
	folder, err := s.folderRepo.GetByID(ctx, folderID)
	if err != nil {
		return nil, err
	}
	if err := s.authorizer.CheckOwner(userID, folder); err != nil {
		return nil, err
	}
	return folder, nil
}

// loadForest indexes the user's live folders of one type
func (s *Service) loadForest(ctx context.Context, userID string, folderType models.FolderType) (*hierarchy.Forest, error) {
	folders, err := s.folderRepo.ListByUser(ctx, userID, &folderType)
	if err != nil {
		return nil, fmt.Errorf("load folders: %w", err)
	}
	return hierarchy.NewForest(folders), nil
}

// checkSiblingName returns a ConflictError when a live sibling already uses name.
func (s *Service) checkSiblingName(ctx context.Context, folder *models.Folder, parentID *string, name string) error {
	sibling, err := s.folderRepo.FindSibling(ctx, repositories.SiblingQuery{
		UserID:    folder.UserID,
		ParentID:  parentID,
		Type:      folder.Type,
		Name:      name,
		ExcludeID: folder.ID,
	})
	if err != nil {
		return fmt.Errorf("failed to check for duplicate names: %w", err)
	}
	if sibling != nil {
		return &domain.ConflictError{
			Message:      fmt.Sprintf("a folder named %q already exists in this location", name),
			ResourceType: "folder",
			ResourceID:   sibling.ID,
		}
	}
	return nil
}

// detail loads a live folder with its parent and children summaries
func (s *Service) detail(ctx context.Context, folder *models.Folder) (*models.FolderDetail, error) {
	d := &models.FolderDetail{Folder: *folder, Children: []models.FolderSummary{}}

	if folder.ParentID != nil {
		parent, err := s.folderRepo.GetByID(ctx, *folder.ParentID)
		switch {
		case err == nil:
			summary := parent.Summary()
			d.Parent = &summary
		case !errors.Is(err, domain.ErrNotFound):
			return nil, err
		}
	}

	children, err := s.folderRepo.ListChildren(ctx, folder.UserID, &folder.ID, folder.Type)
	if err != nil {
		return nil, fmt.Errorf("failed to list child folders: %w", err)
	}
	for i := range children {
		d.Children = append(d.Children, children[i].Summary())
	}
	return d, nil
}

func normalizeParent(parentID *string) *string {
	if parentID != nil && *parentID == "" {
		return nil
	}
	return parentID
}

func sameParent(a, b *string) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}
