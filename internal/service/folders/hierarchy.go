package folders

import (
	"context"
	"fmt"

	"educreate/internal/hierarchy"
)

// VerifyHierarchy checks all of the user's live folders, across types,
// against the stored-hierarchy invariants
func (s *Service) VerifyHierarchy(ctx context.Context, userID string) ([]hierarchy.Violation, error) {
	folders, err := s.folderRepo.ListByUser(ctx, userID, nil)
	if err != nil {
		return nil, fmt.Errorf("load folders: %w", err)
	}

	violations := hierarchy.NewForest(folders).Verify()
	if len(violations) > 0 {
		s.logger.Warn("folder hierarchy inconsistent",
			"user_id", userID,
			"violations", len(violations),
		)
	}
	return violations, nil
}

// RepairHierarchy recomputes depth and path for every live folder of the
// user and writes the differences in one transaction. Orphans, cycle
// members and folders past the depth limit are detached to root level.
func (s *Service) RepairHierarchy(ctx context.Context, userID string) (int, error) {
	var changes []hierarchy.Change
	err := s.withHierarchyLock(ctx, userID, func(ctx context.Context) error {
		folders, err := s.folderRepo.ListByUser(ctx, userID, nil)
		if err != nil {
			return fmt.Errorf("load folders: %w", err)
		}
		changes = hierarchy.NewForest(folders).Recompute()
		return s.folderRepo.ApplyHierarchy(ctx, changes)
	})
	recordOperation("repair", err)
	if err != nil {
		return 0, err
	}

	if len(changes) > 0 {
		repairedFolders.Add(float64(len(changes)))
		s.cache.Invalidate(ctx, userID)
		s.logger.Info("folder hierarchy repaired", "user_id", userID, "updated_folders", len(changes))
	}
	return len(changes), nil
}

// ListUserIDs returns every user that owns live folders
func (s *Service) ListUserIDs(ctx context.Context) ([]string, error) {
	return s.folderRepo.ListUserIDs(ctx)
}
