package hierarchy

// WouldCreateCycle reports whether placing folderID under targetParentID
// would make the folder its own ancestor.
//
// Moving to root (nil) never cycles. Otherwise the ancestor chain of the
// target is walked upward; meeting folderID means the target lives inside
// the folder's subtree. An unknown target ends the walk without a match, so
// callers must check the target's existence separately.
func (f *Forest) WouldCreateCycle(folderID string, targetParentID *string) bool {
	if targetParentID == nil {
		return false
	}
	if *targetParentID == folderID {
		return true
	}

	current := *targetParentID
	// A well-formed chain is never longer than the forest.
	for steps := 0; steps <= len(f.nodes); steps++ {
		node, ok := f.nodes[current]
		if !ok {
			return false
		}
		if node.ID == folderID {
			return true
		}
		if node.ParentID == nil {
			return false
		}
		current = *node.ParentID
	}

	// The stored chain already loops; refuse to add to it.
	return true
}

// Propagate assigns newDepth and newPath to folderID and cascades the
// recomputation through its whole subtree. The forest is updated in place
// and one Change per folder in the subtree is returned, ready to be written
// in a single batch.
func (f *Forest) Propagate(folderID string, newDepth int, newPath string) []Change {
	var changes []Change
	visited := make(map[string]bool)
	f.propagate(folderID, newDepth, newPath, visited, &changes)
	return changes
}

func (f *Forest) propagate(id string, depth int, path string, visited map[string]bool, changes *[]Change) {
	node, ok := f.nodes[id]
	if !ok || visited[id] {
		return
	}
	visited[id] = true

	node.Depth = depth
	node.Path = path
	*changes = append(*changes, Change{ID: id, Depth: depth, Path: path})

	for _, child := range f.children[id] {
		f.propagate(child.ID, depth+1, ChildPath(path, child.ID), visited, changes)
	}
}
