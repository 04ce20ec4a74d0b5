package services

import (
	"context"

	"educreate/internal/domain/models"
	"educreate/internal/hierarchy"
)

// FolderService handles folder business logic. Every method acts on behalf
// of userID and refuses folders owned by someone else.
type FolderService interface {
	// CreateFolder creates a folder at root level or under a parent of the same type
	CreateFolder(ctx context.Context, userID string, req *CreateFolderRequest) (*models.Folder, error)

	// GetFolder retrieves a folder with its parent and children
	GetFolder(ctx context.Context, userID, folderID string) (*models.FolderDetail, error)

	// ListFolders returns a flat list of live folders of one type
	ListFolders(ctx context.Context, userID string, req *ListFoldersRequest) ([]models.Folder, error)

	// GetTree returns the nested folder tree of one type
	GetTree(ctx context.Context, userID string, folderType models.FolderType) ([]*models.FolderTreeNode, error)

	// UpdateFolder renames or restyles a folder
	UpdateFolder(ctx context.Context, userID, folderID string, req *UpdateFolderRequest) (*models.Folder, error)

	// MoveFolder re-parents a folder (nil target = root) and rewrites depth
	// and path for its whole subtree atomically
	MoveFolder(ctx context.Context, userID, folderID string, targetParentID *string) (*models.FolderDetail, error)

	// DeleteFolder moves a folder and its subtree to the recycle bin and
	// returns how many folders were deleted
	DeleteFolder(ctx context.Context, userID, folderID string) (int, error)

	// ListDeleted lists recycle bin entries of one type
	ListDeleted(ctx context.Context, userID string, folderType models.FolderType) ([]models.Folder, error)

	// RestoreFolder brings a folder and the subtree deleted with it back
	RestoreFolder(ctx context.Context, userID, folderID string) (*models.FolderDetail, error)
}

// HierarchyService checks and repairs the stored depth/path invariants
type HierarchyService interface {
	// VerifyHierarchy reports every invariant violation in the user's folders
	VerifyHierarchy(ctx context.Context, userID string) ([]hierarchy.Violation, error)

	// RepairHierarchy rewrites inconsistent folders and returns how many changed
	RepairHierarchy(ctx context.Context, userID string) (int, error)

	// ListUserIDs returns every user that owns folders
	ListUserIDs(ctx context.Context) ([]string, error)
}

// CreateFolderRequest represents a folder creation request
type CreateFolderRequest struct {
	Name        string            `json:"name"`
	Type        models.FolderType `json:"type"`
	ParentID    *string           `json:"parentId,omitempty"` // null for root folders
	Color       string            `json:"color,omitempty"`
	Icon        string            `json:"icon,omitempty"`
	Description *string           `json:"description,omitempty"`
}

// UpdateFolderRequest represents a rename/restyle request. Nil fields are
// left unchanged. Description is tri-state: DescriptionSet with a nil value
// clears it. Transport-agnostic; the handler maps from httputil.OptionalString.
type UpdateFolderRequest struct {
	Name           *string
	Color          *string
	Icon           *string
	DescriptionSet bool
	Description    *string
}

// ListFoldersRequest filters ListFolders. When ParentSet is true only the
// direct children of ParentID are returned (nil = root level).
type ListFoldersRequest struct {
	Type      models.FolderType
	ParentSet bool
	ParentID  *string
}
