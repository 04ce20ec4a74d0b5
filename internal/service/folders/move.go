package folders

import (
	"context"
	"fmt"
	"time"

	"educreate/internal/domain"
	"educreate/internal/domain/models"
	"educreate/internal/hierarchy"
)

// MoveFolder places folderID under targetParentID (nil or "" = root level)
// and rewrites depth and path for the folder and every descendant.
//
// Checks run in a fixed order so the first failing one decides the error:
// folder exists, caller owns it, no cycle, target exists, caller owns the
// target, types match, target has room, subtree still fits, name is free.
// All reads and writes share one transaction under the user's hierarchy
// lock; a failure at any step leaves the stored hierarchy untouched.
// Moving a folder to its current parent validates and then succeeds
// without writing.
func (s *Service) MoveFolder(ctx context.Context, userID, folderID string, targetParentID *string) (*models.FolderDetail, error) {
	targetParentID = normalizeParent(targetParentID)
	start := time.Now()

	var (
		result  *models.FolderDetail
		changes []hierarchy.Change
	)
	err := s.withHierarchyLock(ctx, userID, func(ctx context.Context) error {
		folder, err := s.folderRepo.GetByID(ctx, folderID)
		if err != nil {
			return err
		}
		if err := s.authorizer.CheckOwner(userID, folder); err != nil {
			return err
		}

		forest, err := s.loadForest(ctx, userID, folder.Type)
		if err != nil {
			return err
		}
		if forest.WouldCreateCycle(folder.ID, targetParentID) {
			return fmt.Errorf("cannot move a folder into itself or one of its subfolders: %w", domain.ErrInvalidMove)
		}

		newDepth, newPath := 0, hierarchy.RootPath(folder.ID)
		if targetParentID != nil {
			target, err := s.folderRepo.GetByID(ctx, *targetParentID)
			if err != nil {
				return fmt.Errorf("target folder: %w", err)
			}
			if err := s.authorizer.CheckOwner(userID, target); err != nil {
				return err
			}
			if target.Type != folder.Type {
				return fmt.Errorf("cannot move a %s folder into a %s folder: %w", folder.Type, target.Type, domain.ErrInvalidMove)
			}
			if target.Depth >= models.MaxDepth {
				return fmt.Errorf("target folder is at depth %d: %w", target.Depth, domain.ErrDepthLimitExceeded)
			}
			newDepth = target.Depth + 1
			newPath = hierarchy.ChildPath(target.Path, folder.ID)
		}

		if height := forest.SubtreeHeight(folder.ID); newDepth+height > models.MaxDepth {
			return fmt.Errorf("subfolders would reach depth %d: %w", newDepth+height, domain.ErrDepthLimitExceeded)
		}

		if sameParent(folder.ParentID, targetParentID) {
			result, err = s.detail(ctx, folder)
			return err
		}

		if err := s.checkSiblingName(ctx, folder, targetParentID, folder.Name); err != nil {
			return err
		}

		if err := s.folderRepo.SetParent(ctx, folder.ID, targetParentID); err != nil {
			return err
		}
		forest.SetParent(folder.ID, targetParentID)
		changes = forest.Propagate(folder.ID, newDepth, newPath)
		if err := s.folderRepo.ApplyHierarchy(ctx, changes); err != nil {
			return err
		}

		moved, err := s.folderRepo.GetByID(ctx, folder.ID)
		if err != nil {
			return err
		}
		result, err = s.detail(ctx, moved)
		return err
	})

	observeMove(start, len(changes), err)
	if err != nil {
		s.logger.Debug("folder move rejected",
			"id", folderID,
			"target_parent_id", targetParentID,
			"code", domain.Code(err),
			"error", err,
		)
		return nil, err
	}

	if len(changes) > 0 {
		s.cache.Invalidate(ctx, userID)
	}
	s.logger.Info("folder moved",
		"id", folderID,
		"target_parent_id", targetParentID,
		"depth", result.Depth,
		"updated_folders", len(changes),
	)

	return result, nil
}
