package memory

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"educreate/internal/domain"
	"educreate/internal/domain/models"
	"educreate/internal/domain/repositories"
	"educreate/internal/hierarchy"
)

// FolderRepository implements repositories.FolderRepository on a Store
type FolderRepository struct {
	store *Store
}

// NewFolderRepository creates a folder repository backed by s
func NewFolderRepository(s *Store) repositories.FolderRepository {
	return &FolderRepository{store: s}
}

// Create inserts a folder
func (r *FolderRepository) Create(ctx context.Context, folder *models.Folder) error {
	return r.store.write(ctx, func() error {
		if _, exists := r.store.folders[folder.ID]; exists {
			return fmt.Errorf("folder id %s: %w", folder.ID, domain.ErrConflict)
		}
		if err := r.checkParent(folder.ParentID); err != nil {
			return err
		}
		if folder.Depth < 0 || folder.Depth > models.MaxDepth {
			return fmt.Errorf("folder '%s': %w", folder.Name, domain.ErrValidation)
		}
		if err := r.checkUniqueName(*folder); err != nil {
			return err
		}
		r.store.folders[folder.ID] = cloneFolder(*folder)
		return nil
	})
}

// GetByID retrieves a live folder by ID
func (r *FolderRepository) GetByID(ctx context.Context, id string) (*models.Folder, error) {
	f, err := r.GetByIDIncludingDeleted(ctx, id)
	if err != nil {
		return nil, err
	}
	if f.IsDeleted() {
		return nil, fmt.Errorf("folder %s: %w", id, domain.ErrNotFound)
	}
	return f, nil
}

// GetByIDIncludingDeleted retrieves a folder whether or not it is deleted
func (r *FolderRepository) GetByIDIncludingDeleted(ctx context.Context, id string) (*models.Folder, error) {
	var (
		f  models.Folder
		ok bool
	)
	r.store.read(func() {
		f, ok = r.store.folders[id]
		f = cloneFolder(f)
	})
	if !ok {
		return nil, fmt.Errorf("folder %s: %w", id, domain.ErrNotFound)
	}
	return &f, nil
}

// ListByUser returns the user's live folders ordered by depth then name
func (r *FolderRepository) ListByUser(ctx context.Context, userID string, folderType *models.FolderType) ([]models.Folder, error) {
	out := r.filter(func(f models.Folder) bool {
		return f.UserID == userID && !f.IsDeleted() && (folderType == nil || f.Type == *folderType)
	})
	sort.Slice(out, func(i, j int) bool {
		if out[i].Depth != out[j].Depth {
			return out[i].Depth < out[j].Depth
		}
		return out[i].Name < out[j].Name
	})
	return out, nil
}

// ListChildren lists immediate live children of parentID
func (r *FolderRepository) ListChildren(ctx context.Context, userID string, parentID *string, folderType models.FolderType) ([]models.Folder, error) {
	out := r.filter(func(f models.Folder) bool {
		return f.UserID == userID && f.Type == folderType && !f.IsDeleted() && sameParent(f.ParentID, parentID)
	})
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

// FindSibling returns the live sibling matching q, or nil
func (r *FolderRepository) FindSibling(ctx context.Context, q repositories.SiblingQuery) (*models.Folder, error) {
	var found *models.Folder
	r.store.read(func() {
		found = r.findSibling(q)
	})
	return found, nil
}

// Update writes the editable attributes of a live folder
func (r *FolderRepository) Update(ctx context.Context, folder *models.Folder) error {
	return r.store.write(ctx, func() error {
		current, ok := r.store.folders[folder.ID]
		if !ok || current.IsDeleted() {
			return fmt.Errorf("folder %s: %w", folder.ID, domain.ErrNotFound)
		}
		current.Name = folder.Name
		current.Color = folder.Color
		current.Icon = folder.Icon
		current.Description = folder.Description
		current.UpdatedAt = folder.UpdatedAt
		if err := r.checkUniqueName(current); err != nil {
			return err
		}
		r.store.folders[folder.ID] = cloneFolder(current)
		return nil
	})
}

// SetParent reparents a live folder
func (r *FolderRepository) SetParent(ctx context.Context, id string, parentID *string) error {
	return r.store.write(ctx, func() error {
		current, ok := r.store.folders[id]
		if !ok || current.IsDeleted() {
			return fmt.Errorf("folder %s: %w", id, domain.ErrNotFound)
		}
		if err := r.checkParent(parentID); err != nil {
			return err
		}
		current.ParentID = parentID
		current.UpdatedAt = time.Now().UTC()
		if err := r.checkUniqueName(current); err != nil {
			return err
		}
		r.store.folders[id] = cloneFolder(current)
		return nil
	})
}

// ApplyHierarchy writes depth/path changes, plus the detaches and renames of
// a repair; either all apply or none do
func (r *FolderRepository) ApplyHierarchy(ctx context.Context, changes []hierarchy.Change) error {
	if len(changes) == 0 {
		return nil
	}
	return r.store.write(ctx, func() error {
		for _, c := range changes {
			if _, ok := r.store.folders[c.ID]; !ok {
				return fmt.Errorf("apply hierarchy: folder %s: %w", c.ID, domain.ErrNotFound)
			}
			if c.Depth < 0 || c.Depth > models.MaxDepth {
				return fmt.Errorf("apply hierarchy: folder %s: %w", c.ID, domain.ErrDepthLimitExceeded)
			}
		}
		now := time.Now().UTC()
		prior := make(map[string]models.Folder, len(changes))
		for _, c := range changes {
			f := r.store.folders[c.ID]
			prior[c.ID] = f
			f.Depth = c.Depth
			f.Path = c.Path
			if c.ClearParent {
				f.ParentID = nil
			}
			if c.Name != "" {
				f.Name = c.Name
			}
			f.UpdatedAt = now
			r.store.folders[c.ID] = f
		}
		for _, c := range changes {
			if !c.ClearParent && c.Name == "" {
				continue
			}
			if err := r.checkUniqueName(r.store.folders[c.ID]); err != nil {
				// Undo: the unique index would have rejected the whole statement.
				for id, f := range prior {
					r.store.folders[id] = f
				}
				return err
			}
		}
		return nil
	})
}

// SoftDeleteSubtree marks the folder at path and its live descendants deleted
func (r *FolderRepository) SoftDeleteSubtree(ctx context.Context, userID, path string, at time.Time) (int, error) {
	var n int
	err := r.store.write(ctx, func() error {
		for id, f := range r.store.folders {
			if f.UserID != userID || f.IsDeleted() || !inSubtree(f.Path, path) {
				continue
			}
			deletedAt := at
			f.DeletedAt = &deletedAt
			f.UpdatedAt = at
			r.store.folders[id] = f
			n++
		}
		return nil
	})
	return n, err
}

// ListDeleted returns the roots of deleted subtrees
func (r *FolderRepository) ListDeleted(ctx context.Context, userID string, folderType models.FolderType) ([]models.Folder, error) {
	var out []models.Folder
	r.store.read(func() {
		out = []models.Folder{}
		for _, f := range r.store.folders {
			if f.UserID != userID || f.Type != folderType || !f.IsDeleted() {
				continue
			}
			if f.ParentID != nil {
				parent, ok := r.store.folders[*f.ParentID]
				if ok && parent.IsDeleted() && parent.DeletedAt.Equal(*f.DeletedAt) {
					continue
				}
			}
			out = append(out, cloneFolder(f))
		}
	})
	sort.Slice(out, func(i, j int) bool {
		if !out[i].DeletedAt.Equal(*out[j].DeletedAt) {
			return out[i].DeletedAt.After(*out[j].DeletedAt)
		}
		return out[i].Name < out[j].Name
	})
	return out, nil
}

// RestoreSubtree clears deleted_at on the subtree deleted at deletedAt
func (r *FolderRepository) RestoreSubtree(ctx context.Context, userID, path string, deletedAt time.Time) (int, error) {
	var n int
	err := r.store.write(ctx, func() error {
		now := time.Now().UTC()
		restored := map[string]models.Folder{}
		for id, f := range r.store.folders {
			if f.UserID != userID || !f.IsDeleted() || !f.DeletedAt.Equal(deletedAt) || !inSubtree(f.Path, path) {
				continue
			}
			f.DeletedAt = nil
			f.UpdatedAt = now
			restored[id] = f
		}
		for id, f := range restored {
			r.store.folders[id] = f
		}
		for _, f := range restored {
			if err := r.checkUniqueName(f); err != nil {
				// Undo: the unique index would have rejected the whole statement.
				for id := range restored {
					g := r.store.folders[id]
					at := deletedAt
					g.DeletedAt = &at
					r.store.folders[id] = g
				}
				return err
			}
		}
		n = len(restored)
		return nil
	})
	return n, err
}

// ListUserIDs returns every user owning at least one live folder
func (r *FolderRepository) ListUserIDs(ctx context.Context) ([]string, error) {
	seen := map[string]bool{}
	r.store.read(func() {
		for _, f := range r.store.folders {
			if !f.IsDeleted() {
				seen[f.UserID] = true
			}
		}
	})
	ids := make([]string, 0, len(seen))
	for id := range seen {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids, nil
}

// LockHierarchy is a no-op: ExecTx already serializes every transaction.
func (r *FolderRepository) LockHierarchy(ctx context.Context, userID string) error {
	return nil
}

func (r *FolderRepository) filter(keep func(models.Folder) bool) []models.Folder {
	out := []models.Folder{}
	r.store.read(func() {
		for _, f := range r.store.folders {
			if keep(f) {
				out = append(out, cloneFolder(f))
			}
		}
	})
	return out
}

// checkParent mirrors the parent_id foreign key. Callers hold the write lock.
func (r *FolderRepository) checkParent(parentID *string) error {
	if parentID == nil {
		return nil
	}
	if _, ok := r.store.folders[*parentID]; !ok {
		return fmt.Errorf("parent folder: %w", domain.ErrNotFound)
	}
	return nil
}

// checkUniqueName mirrors the live sibling name index. Callers hold a lock.
func (r *FolderRepository) checkUniqueName(f models.Folder) error {
	if f.IsDeleted() {
		return nil
	}
	existing := r.findSibling(repositories.SiblingQuery{
		UserID:    f.UserID,
		ParentID:  f.ParentID,
		Type:      f.Type,
		Name:      f.Name,
		ExcludeID: f.ID,
	})
	if existing != nil {
		return &domain.ConflictError{
			Message:      fmt.Sprintf("folder '%s' already exists in this location", f.Name),
			ResourceType: "folder",
			ResourceID:   existing.ID,
		}
	}
	return nil
}

func (r *FolderRepository) findSibling(q repositories.SiblingQuery) *models.Folder {
	for _, f := range r.store.folders {
		if f.UserID == q.UserID && f.Type == q.Type && f.Name == q.Name &&
			f.ID != q.ExcludeID && !f.IsDeleted() && sameParent(f.ParentID, q.ParentID) {
			c := cloneFolder(f)
			return &c
		}
	}
	return nil
}

func sameParent(a, b *string) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

func inSubtree(path, root string) bool {
	return path == root || strings.HasPrefix(path, root+"/")
}
