package folders

import (
	"context"

	"educreate/internal/domain/models"
)

// GetTree returns the nested folder tree of one type, served from the tree
// cache when possible
func (s *Service) GetTree(ctx context.Context, userID string, folderType models.FolderType) ([]*models.FolderTreeNode, error) {
	if err := s.validateType(folderType); err != nil {
		return nil, err
	}

	if tree, ok := s.cache.Get(ctx, userID, folderType); ok {
		return tree, nil
	}

	// Read the generation before the folders; see TreeCache.
	generation, cacheable := s.cache.Generation(ctx, userID)

	folders, err := s.folderRepo.ListByUser(ctx, userID, &folderType)
	if err != nil {
		return nil, err
	}
	tree := buildTree(folders)

	if cacheable {
		s.cache.Set(ctx, userID, folderType, generation, tree)
	}
	s.logger.Debug("folder tree built",
		"user_id", userID,
		"type", folderType,
		"folder_count", len(folders),
	)

	return tree, nil
}

// buildTree nests folders by parent. Input order is kept among siblings, so
// callers pass folders sorted by name. Folders whose parent is missing are
// dropped.
func buildTree(folders []models.Folder) []*models.FolderTreeNode {
	nodes := make(map[string]*models.FolderTreeNode, len(folders))

	// First pass: create all nodes
	for _, f := range folders {
		nodes[f.ID] = &models.FolderTreeNode{
			ID:       f.ID,
			Name:     f.Name,
			ParentID: f.ParentID,
			Depth:    f.Depth,
			Color:    f.Color,
			Icon:     f.Icon,
			Folders:  []*models.FolderTreeNode{},
		}
	}

	// Second pass: attach children to parents
	roots := make([]*models.FolderTreeNode, 0)
	for _, f := range folders {
		node := nodes[f.ID]
		if f.ParentID == nil {
			roots = append(roots, node)
			continue
		}
		if parent, exists := nodes[*f.ParentID]; exists {
			parent.Folders = append(parent.Folders, node)
		}
	}

	return roots
}
