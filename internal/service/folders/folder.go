package folders

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"educreate/internal/domain"
	"educreate/internal/domain/models"
	"educreate/internal/domain/services"
	"educreate/internal/hierarchy"
)

// CreateFolder creates a folder at root level or under a live parent of the
// same type. Depth and path are derived from the parent.
func (s *Service) CreateFolder(ctx context.Context, userID string, req *services.CreateFolderRequest) (*models.Folder, error) {
	if err := s.validateCreateRequest(req); err != nil {
		return nil, err
	}
	req.ParentID = normalizeParent(req.ParentID)

	info, _ := s.types.Get(req.Type)
	createdAt := now()
	folder := &models.Folder{
		ID:          uuid.NewString(),
		UserID:      userID,
		ParentID:    req.ParentID,
		Name:        req.Name,
		Type:        req.Type,
		Color:       req.Color,
		Icon:        req.Icon,
		Description: emptyToNil(req.Description),
		CreatedAt:   createdAt,
		UpdatedAt:   createdAt,
	}
	if folder.Color == "" {
		folder.Color = info.DefaultColor
	}
	if folder.Icon == "" {
		folder.Icon = info.DefaultIcon
	}

	err := s.withHierarchyLock(ctx, userID, func(ctx context.Context) error {
		folder.Depth = 0
		folder.Path = hierarchy.RootPath(folder.ID)

		if folder.ParentID != nil {
			parent, err := s.loadOwned(ctx, userID, *folder.ParentID)
			if err != nil {
				return fmt.Errorf("parent folder: %w", err)
			}
			if parent.Type != folder.Type {
				return fmt.Errorf("%w: parent folder holds %s, not %s", domain.ErrValidation, parent.Type, folder.Type)
			}
			if parent.Depth >= models.MaxDepth {
				return fmt.Errorf("parent folder is at depth %d: %w", parent.Depth, domain.ErrDepthLimitExceeded)
			}
			folder.Depth = parent.Depth + 1
			folder.Path = hierarchy.ChildPath(parent.Path, folder.ID)
		}

		if err := s.checkSiblingName(ctx, folder, folder.ParentID, folder.Name); err != nil {
			return err
		}
		return s.folderRepo.Create(ctx, folder)
	})
	recordOperation("create", err)
	if err != nil {
		return nil, err
	}

	s.cache.Invalidate(ctx, userID)
	s.logger.Info("folder created",
		"id", folder.ID,
		"name", folder.Name,
		"type", folder.Type,
		"parent_id", folder.ParentID,
		"depth", folder.Depth,
	)

	return folder, nil
}

// GetFolder retrieves a live folder with its parent and children
func (s *Service) GetFolder(ctx context.Context, userID, folderID string) (*models.FolderDetail, error) {
	folder, err := s.loadOwned(ctx, userID, folderID)
	if err != nil {
		return nil, err
	}
	return s.detail(ctx, folder)
}

// ListFolders returns live folders of one type, ordered by depth then name,
// or the direct children of one parent when req.ParentSet is true
func (s *Service) ListFolders(ctx context.Context, userID string, req *services.ListFoldersRequest) ([]models.Folder, error) {
	if err := s.validateType(req.Type); err != nil {
		return nil, err
	}

	if !req.ParentSet {
		return s.folderRepo.ListByUser(ctx, userID, &req.Type)
	}

	parentID := normalizeParent(req.ParentID)
	if parentID != nil {
		if _, err := s.loadOwned(ctx, userID, *parentID); err != nil {
			return nil, err
		}
	}
	return s.folderRepo.ListChildren(ctx, userID, parentID, req.Type)
}

// UpdateFolder renames or restyles a folder. A rename is checked against the
// live siblings; the hierarchy itself is untouched.
func (s *Service) UpdateFolder(ctx context.Context, userID, folderID string, req *services.UpdateFolderRequest) (*models.Folder, error) {
	if err := s.validateUpdateRequest(req); err != nil {
		return nil, err
	}

	var folder *models.Folder
	err := s.withHierarchyLock(ctx, userID, func(ctx context.Context) error {
		var err error
		folder, err = s.loadOwned(ctx, userID, folderID)
		if err != nil {
			return err
		}

		if req.Name != nil && *req.Name != folder.Name {
			if err := s.checkSiblingName(ctx, folder, folder.ParentID, *req.Name); err != nil {
				return err
			}
			folder.Name = *req.Name
		}
		if req.Color != nil {
			folder.Color = *req.Color
		}
		if req.Icon != nil {
			folder.Icon = *req.Icon
		}
		if req.DescriptionSet {
			folder.Description = emptyToNil(req.Description)
		}
		folder.UpdatedAt = now()

		return s.folderRepo.Update(ctx, folder)
	})
	recordOperation("update", err)
	if err != nil {
		return nil, err
	}

	s.cache.Invalidate(ctx, userID)
	s.logger.Info("folder updated", "id", folder.ID, "name", folder.Name)

	return folder, nil
}

func emptyToNil(s *string) *string {
	if s == nil || *s == "" {
		return nil
	}
	return s
}
