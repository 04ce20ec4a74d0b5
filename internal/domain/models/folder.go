package models

import (
	"time"
)

// FolderType partitions a user's folders into independent forests.
type FolderType string

const (
	FolderTypeActivities FolderType = "activities"
	FolderTypeResults    FolderType = "results"
)

// MaxDepth is the deepest allowed level; roots sit at depth 0, so ten levels in total.
const MaxDepth = 9

type Folder struct {
	ID          string     `json:"id" db:"id"`
	UserID      string     `json:"userId" db:"user_id"`
	ParentID    *string    `json:"parentId" db:"parent_id"` // NULL = root level
	Name        string     `json:"name" db:"name"`
	Type        FolderType `json:"type" db:"type"`
	Depth       int        `json:"depth" db:"depth"`
	Path        string     `json:"path" db:"path"` // "/rootID/.../selfID"
	Color       string     `json:"color" db:"color"`
	Icon        string     `json:"icon" db:"icon"`
	Description *string    `json:"description,omitempty" db:"description"`
	CreatedAt   time.Time  `json:"createdAt" db:"created_at"`
	UpdatedAt   time.Time  `json:"updatedAt" db:"updated_at"`
	DeletedAt   *time.Time `json:"deletedAt,omitempty" db:"deleted_at"`
}

// IsRoot reports whether the folder has no parent.
func (f *Folder) IsRoot() bool {
	return f.ParentID == nil
}

// IsDeleted reports whether the folder sits in the recycle bin.
func (f *Folder) IsDeleted() bool {
	return f.DeletedAt != nil
}

// Summary returns the compact representation used for parent/children references.
func (f *Folder) Summary() FolderSummary {
	return FolderSummary{
		ID:    f.ID,
		Name:  f.Name,
		Type:  f.Type,
		Depth: f.Depth,
		Path:  f.Path,
		Color: f.Color,
	}
}

// FolderSummary is a folder reference without timestamps or ownership data.
type FolderSummary struct {
	ID    string     `json:"id"`
	Name  string     `json:"name"`
	Type  FolderType `json:"type"`
	Depth int        `json:"depth"`
	Path  string     `json:"path"`
	Color string     `json:"color"`
}

// FolderDetail is a folder together with its immediate neighbours.
type FolderDetail struct {
	Folder
	Parent   *FolderSummary  `json:"parent"`
	Children []FolderSummary `json:"children"`
}

// FolderTreeNode represents a folder in the tree with nested children
type FolderTreeNode struct {
	ID       string            `json:"id"`
	Name     string            `json:"name"`
	ParentID *string           `json:"parentId"`
	Depth    int               `json:"depth"`
	Color    string            `json:"color"`
	Icon     string            `json:"icon"`
	Folders  []*FolderTreeNode `json:"folders"` // Pointers for proper nesting
}
