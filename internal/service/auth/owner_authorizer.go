package auth

import (
	"context"
	"fmt"

	"educreate/internal/domain"
	"educreate/internal/domain/models"
	"educreate/internal/domain/repositories"
)

// OwnerBasedAuthorizer implements ResourceAuthorizer using ownership checks.
// A user can access a folder if they created it.
type OwnerBasedAuthorizer struct {
	folderRepo repositories.FolderRepository
}

// NewOwnerBasedAuthorizer creates a new ownership-based authorizer
func NewOwnerBasedAuthorizer(folderRepo repositories.FolderRepository) *OwnerBasedAuthorizer {
	return &OwnerBasedAuthorizer{folderRepo: folderRepo}
}

// CanAccessFolder returns the folder if userID owns it.
// A missing folder stays ErrNotFound; a foreign one is ErrForbidden.
func (a *OwnerBasedAuthorizer) CanAccessFolder(ctx context.Context, userID, folderID string) (*models.Folder, error) {
	folder, err := a.folderRepo.GetByIDIncludingDeleted(ctx, folderID)
	if err != nil {
		return nil, err
	}
	if err := a.CheckOwner(userID, folder); err != nil {
		return nil, err
	}
	return folder, nil
}

// CheckOwner returns ErrForbidden unless userID owns folder
func (a *OwnerBasedAuthorizer) CheckOwner(userID string, folder *models.Folder) error {
	if folder.UserID != userID {
		return fmt.Errorf("access denied to folder %s: %w", folder.ID, domain.ErrForbidden)
	}
	return nil
}
