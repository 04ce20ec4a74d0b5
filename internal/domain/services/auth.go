package services

import (
	"context"

	"educreate/internal/domain/models"
)

// ResourceAuthorizer checks if a user can act on a folder.
// Services call it before operating on a resource, keeping "who may
// access" apart from "which resource".
type ResourceAuthorizer interface {
	// CanAccessFolder loads the folder (live or deleted) and checks ownership
	CanAccessFolder(ctx context.Context, userID, folderID string) (*models.Folder, error)

	// CheckOwner checks ownership of an already loaded folder
	CheckOwner(userID string, folder *models.Folder) error
}
