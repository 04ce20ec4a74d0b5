package folders

import (
	"context"
	"errors"
	"fmt"

	"educreate/internal/domain"
	"educreate/internal/domain/models"
	"educreate/internal/hierarchy"
)

// DeleteFolder moves a folder and all live descendants to the recycle bin.
// Every folder in the subtree gets the same deleted_at, which is what
// RestoreFolder later uses to bring the subtree back as a unit.
func (s *Service) DeleteFolder(ctx context.Context, userID, folderID string) (int, error) {
	var deleted int
	err := s.withHierarchyLock(ctx, userID, func(ctx context.Context) error {
		folder, err := s.loadOwned(ctx, userID, folderID)
		if err != nil {
			return err
		}
		deleted, err = s.folderRepo.SoftDeleteSubtree(ctx, userID, folder.Path, now())
		return err
	})
	recordOperation("delete", err)
	if err != nil {
		return 0, err
	}

	s.cache.Invalidate(ctx, userID)
	s.logger.Info("folder deleted", "id", folderID, "deleted_count", deleted)

	return deleted, nil
}

// ListDeleted lists the recycle bin: each entry is the top of a deleted subtree
func (s *Service) ListDeleted(ctx context.Context, userID string, folderType models.FolderType) ([]models.Folder, error) {
	if err := s.validateType(folderType); err != nil {
		return nil, err
	}
	return s.folderRepo.ListDeleted(ctx, userID, folderType)
}

// RestoreFolder brings back a deleted folder together with the descendants
// deleted in the same operation. The folder returns under its old parent
// when that parent is still live, otherwise at root level. Depth and path
// are recomputed for the whole restored subtree.
func (s *Service) RestoreFolder(ctx context.Context, userID, folderID string) (*models.FolderDetail, error) {
	var (
		result   *models.FolderDetail
		restored int
	)
	err := s.withHierarchyLock(ctx, userID, func(ctx context.Context) error {
		folder, err := s.authorizer.CanAccessFolder(ctx, userID, folderID)
		if err != nil {
			return err
		}
		if !folder.IsDeleted() {
			return fmt.Errorf("%w: folder %s is not in the recycle bin", domain.ErrValidation, folderID)
		}

		var destParent *models.Folder
		if folder.ParentID != nil {
			parent, err := s.folderRepo.GetByID(ctx, *folder.ParentID)
			switch {
			case err == nil:
				destParent = parent
			case !errors.Is(err, domain.ErrNotFound):
				return err
			}
		}

		var destParentID *string
		newDepth, newPath := 0, hierarchy.RootPath(folder.ID)
		if destParent != nil {
			destParentID = &destParent.ID
			newDepth = destParent.Depth + 1
			newPath = hierarchy.ChildPath(destParent.Path, folder.ID)
		}

		if err := s.checkSiblingName(ctx, folder, destParentID, folder.Name); err != nil {
			return err
		}

		restored, err = s.folderRepo.RestoreSubtree(ctx, userID, folder.Path, *folder.DeletedAt)
		if err != nil {
			return err
		}
		if !sameParent(folder.ParentID, destParentID) {
			if err := s.folderRepo.SetParent(ctx, folder.ID, destParentID); err != nil {
				return err
			}
		}

		forest, err := s.loadForest(ctx, userID, folder.Type)
		if err != nil {
			return err
		}
		if height := forest.SubtreeHeight(folder.ID); newDepth+height > models.MaxDepth {
			return fmt.Errorf("restored subfolders would reach depth %d: %w", newDepth+height, domain.ErrDepthLimitExceeded)
		}
		if err := s.folderRepo.ApplyHierarchy(ctx, forest.Propagate(folder.ID, newDepth, newPath)); err != nil {
			return err
		}

		live, err := s.folderRepo.GetByID(ctx, folder.ID)
		if err != nil {
			return err
		}
		result, err = s.detail(ctx, live)
		return err
	})
	recordOperation("restore", err)
	if err != nil {
		return nil, err
	}

	s.cache.Invalidate(ctx, userID)
	s.logger.Info("folder restored",
		"id", folderID,
		"parent_id", result.ParentID,
		"restored_count", restored,
	)

	return result, nil
}
