package repositories

import (
	"context"
	"time"

	"educreate/internal/domain/models"
	"educreate/internal/hierarchy"
)

// SiblingQuery selects a live folder by name among the children of ParentID.
type SiblingQuery struct {
	UserID    string
	ParentID  *string // nil = root level
	Type      models.FolderType
	Name      string
	ExcludeID string // the folder being renamed or moved, if any
}

// FolderRepository defines data access operations for folders.
// Unless stated otherwise, methods only see folders that are not soft-deleted.
type FolderRepository interface {
	// Create inserts a folder. ID, Depth and Path are assigned by the caller.
	Create(ctx context.Context, folder *models.Folder) error

	// GetByID retrieves a live folder by ID
	GetByID(ctx context.Context, id string) (*models.Folder, error)

	// GetByIDIncludingDeleted retrieves a folder even if it sits in the recycle bin
	GetByIDIncludingDeleted(ctx context.Context, id string) (*models.Folder, error)

	// ListByUser returns the user's live folders, optionally of one type
	ListByUser(ctx context.Context, userID string, folderType *models.FolderType) ([]models.Folder, error)

	// ListChildren lists immediate live children of parentID (nil = roots)
	ListChildren(ctx context.Context, userID string, parentID *string, folderType models.FolderType) ([]models.Folder, error)

	// FindSibling returns the live sibling matching q, or nil when there is none
	FindSibling(ctx context.Context, q SiblingQuery) (*models.Folder, error)

	// Update writes name, color, icon, description and updated_at
	Update(ctx context.Context, folder *models.Folder) error

	// SetParent reparents a folder without touching depth or path
	SetParent(ctx context.Context, id string, parentID *string) error

	// ApplyHierarchy writes depth/path changes in a single batch
	ApplyHierarchy(ctx context.Context, changes []hierarchy.Change) error

	// SoftDeleteSubtree marks the folder at path and all live descendants deleted
	SoftDeleteSubtree(ctx context.Context, userID, path string, at time.Time) (int, error)

	// ListDeleted returns recycle bin entries: deleted folders that were not
	// removed as part of an ancestor's deletion
	ListDeleted(ctx context.Context, userID string, folderType models.FolderType) ([]models.Folder, error)

	// RestoreSubtree clears deleted_at on the folder at path and on the
	// descendants deleted at the same instant
	RestoreSubtree(ctx context.Context, userID, path string, deletedAt time.Time) (int, error)

	// ListUserIDs returns every user owning at least one live folder
	ListUserIDs(ctx context.Context) ([]string, error)

	// LockHierarchy serializes hierarchy mutations for userID until the
	// surrounding transaction ends
	LockHierarchy(ctx context.Context, userID string) error
}
