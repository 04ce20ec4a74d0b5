package hierarchy

import (
	"fmt"
	"sort"
	"strings"
	"unicode/utf8"

	"educreate/internal/config"
	"educreate/internal/domain/models"
)

// ViolationKind names a broken hierarchy invariant.
type ViolationKind string

const (
	ViolationOrphan        ViolationKind = "orphan"
	ViolationCycle         ViolationKind = "cycle"
	ViolationDepth         ViolationKind = "depth"
	ViolationPath          ViolationKind = "path"
	ViolationDepthLimit    ViolationKind = "depth_limit"
	ViolationDuplicateName ViolationKind = "duplicate_name"
	ViolationTypeMismatch  ViolationKind = "type_mismatch"
)

// Violation describes one folder breaking one invariant.
type Violation struct {
	FolderID string        `json:"folderId"`
	Kind     ViolationKind `json:"kind"`
	Detail   string        `json:"detail"`
}

// Verify checks every live folder against the hierarchy invariants and
// returns the violations found, ordered by folder id.
func (f *Forest) Verify() []Violation {
	var out []Violation

	for _, id := range f.sortedIDs() {
		node := f.nodes[id]

		chain, status := f.ancestorChain(id)
		switch status {
		case chainOrphan:
			detail := "ancestor chain does not reach a root"
			if _, ok := f.nodes[*node.ParentID]; !ok {
				detail = fmt.Sprintf("parent %s is missing or deleted", *node.ParentID)
			}
			out = append(out, Violation{id, ViolationOrphan, detail})
			continue
		case chainCycle:
			out = append(out, Violation{id, ViolationCycle, "ancestor chain loops"})
			continue
		}

		if node.ParentID != nil {
			if parent := f.nodes[*node.ParentID]; parent.Type != node.Type {
				out = append(out, Violation{id, ViolationTypeMismatch, fmt.Sprintf("type %s under parent of type %s", node.Type, parent.Type)})
			}
		}

		wantDepth := len(chain) - 1
		wantPath := "/" + strings.Join(chain, "/")
		if node.Depth != wantDepth {
			out = append(out, Violation{id, ViolationDepth, fmt.Sprintf("depth %d, want %d", node.Depth, wantDepth)})
		}
		if node.Path != wantPath {
			out = append(out, Violation{id, ViolationPath, fmt.Sprintf("path %q, want %q", node.Path, wantPath)})
		}
		if wantDepth > models.MaxDepth {
			out = append(out, Violation{id, ViolationDepthLimit, fmt.Sprintf("depth %d exceeds %d", wantDepth, models.MaxDepth)})
		}
	}

	out = append(out, f.duplicateNames()...)
	sort.SliceStable(out, func(i, j int) bool { return out[i].FolderID < out[j].FolderID })
	return out
}

// Recompute rebuilds depth and path for the whole forest from its parent
// links and returns the folders whose stored values differ. Orphans, cycle
// members and folders that would sit deeper than MaxDepth are detached to
// root level; a detached folder whose name is already used by a root of its
// type is renamed with a numeric suffix. Other duplicate sibling names are
// reported by Verify but not fixed.
func (f *Forest) Recompute() []Change {
	var changes []Change
	visited := make(map[string]bool, len(f.nodes))

	var walk func(id string, depth int, path string, detach bool)
	walk = func(id string, depth int, path string, detach bool) {
		node := f.nodes[id]
		visited[id] = true

		if depth > models.MaxDepth {
			depth, path, detach = 0, RootPath(id), true
		}
		rename := ""
		if detach {
			if name := f.freeRootName(node); name != node.Name {
				rename = name
				node.Name = name
			}
		}
		if detach || node.Depth != depth || node.Path != path {
			changes = append(changes, Change{ID: id, Depth: depth, Path: path, ClearParent: detach, Name: rename})
		}
		if detach {
			f.SetParent(id, nil)
		}
		node.Depth = depth
		node.Path = path

		// Copy: SetParent during recursion may rewrite this slice.
		kids := append([]*models.Folder(nil), f.children[id]...)
		for _, child := range kids {
			if !visited[child.ID] {
				walk(child.ID, depth+1, ChildPath(path, child.ID), false)
			}
		}
	}

	for _, root := range append([]*models.Folder(nil), f.Roots()...) {
		walk(root.ID, 0, RootPath(root.ID), false)
	}

	for _, id := range f.sortedIDs() {
		if visited[id] {
			continue
		}
		node := f.nodes[id]
		if _, ok := f.nodes[*node.ParentID]; !ok {
			walk(id, 0, RootPath(id), true)
		}
	}

	// Whatever remains hangs off a cycle: cut each loop at the first member found.
	for _, id := range f.sortedIDs() {
		if visited[id] {
			continue
		}
		member := f.cycleMember(id)
		walk(member, 0, RootPath(member), true)
	}

	return changes
}

// freeRootName returns node's name if no other root of its type uses it,
// otherwise "name (n)" with the smallest free n >= 2.
func (f *Forest) freeRootName(node *models.Folder) string {
	taken := make(map[string]bool)
	for _, root := range f.children[rootKey] {
		if root.ID != node.ID && root.Type == node.Type {
			taken[root.Name] = true
		}
	}
	if !taken[node.Name] {
		return node.Name
	}

	base := []rune(node.Name)
	for n := 2; ; n++ {
		suffix := fmt.Sprintf(" (%d)", n)
		if limit := config.MaxFolderNameLength - utf8.RuneCountInString(suffix); len(base) > limit {
			base = base[:limit]
		}
		if name := string(base) + suffix; !taken[name] {
			return name
		}
	}
}

type chainStatus int

const (
	chainOK chainStatus = iota
	chainOrphan
	chainCycle
)

// ancestorChain returns the ids from the root down to id.
func (f *Forest) ancestorChain(id string) ([]string, chainStatus) {
	var chain []string
	seen := make(map[string]bool)
	current := id
	for {
		if seen[current] {
			return nil, chainCycle
		}
		seen[current] = true
		node, ok := f.nodes[current]
		if !ok {
			return nil, chainOrphan
		}
		chain = append(chain, current)
		if node.ParentID == nil {
			break
		}
		current = *node.ParentID
	}
	for i, j := 0, len(chain)-1; i < j; i, j = i+1, j-1 {
		chain[i], chain[j] = chain[j], chain[i]
	}
	return chain, chainOK
}

// cycleMember walks upward from id until a folder repeats and returns it.
func (f *Forest) cycleMember(id string) string {
	seen := make(map[string]bool)
	current := id
	for !seen[current] {
		seen[current] = true
		current = *f.nodes[current].ParentID
	}
	return current
}

func (f *Forest) duplicateNames() []Violation {
	var out []Violation
	for key, siblings := range f.children {
		seen := make(map[string]string)
		for _, s := range siblings {
			nameKey := string(s.Type) + "\x00" + s.Name
			if firstID, dup := seen[nameKey]; dup {
				out = append(out, Violation{s.ID, ViolationDuplicateName, fmt.Sprintf("name %q already used by %s under %q", s.Name, firstID, key)})
				continue
			}
			seen[nameKey] = s.ID
		}
	}
	return out
}

func (f *Forest) sortedIDs() []string {
	ids := make([]string, 0, len(f.nodes))
	for id := range f.nodes {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
