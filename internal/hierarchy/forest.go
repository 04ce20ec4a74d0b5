// Package hierarchy keeps one user's folder forest in memory and implements
// the tree algorithms that preserve its invariants: cycle detection,
// depth/path propagation, verification and repair.
//
// A Forest is not safe for concurrent use. Callers build one per request
// from the store, inside the transaction that will persist its changes.
package hierarchy

import (
	"sort"

	"educreate/internal/domain/models"
)

// rootKey indexes root-level folders in the children map.
const rootKey = ""

// Change is a depth/path rewrite produced by propagation or repair.
type Change struct {
	ID    string
	Depth int
	Path  string
	// ClearParent detaches the folder to root level (repair only).
	ClearParent bool
	// Name, when set, renames the folder (repair only).
	Name string
}

// Forest is an in-memory index of live folders.
type Forest struct {
	nodes    map[string]*models.Folder
	children map[string][]*models.Folder
}

// NewForest indexes the given folders. Soft-deleted folders are skipped so
// they never take part in ancestor walks or sibling checks.
func NewForest(folders []models.Folder) *Forest {
	f := &Forest{
		nodes:    make(map[string]*models.Folder, len(folders)),
		children: make(map[string][]*models.Folder),
	}
	for i := range folders {
		if folders[i].IsDeleted() {
			continue
		}
		node := folders[i]
		f.nodes[node.ID] = &node
	}
	for _, node := range f.nodes {
		key := parentKey(node.ParentID)
		f.children[key] = append(f.children[key], node)
	}
	for key := range f.children {
		sortByName(f.children[key])
	}
	return f
}

// Len returns the number of live folders in the forest.
func (f *Forest) Len() int {
	return len(f.nodes)
}

// Get returns the folder with the given id.
func (f *Forest) Get(id string) (*models.Folder, bool) {
	node, ok := f.nodes[id]
	return node, ok
}

// Children returns the immediate children of parentID (nil for roots), sorted by name.
func (f *Forest) Children(parentID *string) []*models.Folder {
	return f.children[parentKey(parentID)]
}

// Roots returns the root-level folders.
func (f *Forest) Roots() []*models.Folder {
	return f.children[rootKey]
}

// Descendants returns every folder below id in depth-first order.
func (f *Forest) Descendants(id string) []*models.Folder {
	var out []*models.Folder
	visited := map[string]bool{id: true}
	var walk func(string)
	walk = func(parentID string) {
		for _, child := range f.children[parentID] {
			if visited[child.ID] {
				continue
			}
			visited[child.ID] = true
			out = append(out, child)
			walk(child.ID)
		}
	}
	walk(id)
	return out
}

// SubtreeHeight returns the length of the longest downward chain below id.
// A leaf has height 0.
func (f *Forest) SubtreeHeight(id string) int {
	visited := map[string]bool{}
	var height func(string) int
	height = func(nodeID string) int {
		visited[nodeID] = true
		best := 0
		for _, child := range f.children[nodeID] {
			if visited[child.ID] {
				continue
			}
			if h := height(child.ID) + 1; h > best {
				best = h
			}
		}
		return best
	}
	return height(id)
}

// SetParent reparents a folder in the in-memory index only.
func (f *Forest) SetParent(id string, parentID *string) {
	node, ok := f.nodes[id]
	if !ok {
		return
	}
	oldKey := parentKey(node.ParentID)
	siblings := f.children[oldKey]
	for i, s := range siblings {
		if s.ID == id {
			f.children[oldKey] = append(siblings[:i:i], siblings[i+1:]...)
			break
		}
	}
	if parentID == nil {
		node.ParentID = nil
	} else {
		p := *parentID
		node.ParentID = &p
	}
	newKey := parentKey(node.ParentID)
	f.children[newKey] = append(f.children[newKey], node)
	sortByName(f.children[newKey])
}

// RootPath is the path of a root-level folder.
func RootPath(id string) string {
	return "/" + id
}

// ChildPath is the path of a folder placed under a parent with parentPath.
func ChildPath(parentPath, id string) string {
	return parentPath + "/" + id
}

func parentKey(parentID *string) string {
	if parentID == nil {
		return rootKey
	}
	return *parentID
}

func sortByName(folders []*models.Folder) {
	sort.SliceStable(folders, func(i, j int) bool {
		if folders[i].Name == folders[j].Name {
			return folders[i].ID < folders[j].ID
		}
		return folders[i].Name < folders[j].Name
	})
}
