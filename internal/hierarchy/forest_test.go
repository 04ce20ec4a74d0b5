package hierarchy

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"educreate/internal/domain/models"
)

// buildFolders takes defs of the form "id" or "parent/id"; depth and path are derived
// from the order given, so parents must come first.
func buildFolders(t *testing.T, defs ...string) []models.Folder {
	t.Helper()
	byID := map[string]*models.Folder{}
	var out []models.Folder
	for _, def := range defs {
		f := models.Folder{UserID: "u1", Type: models.FolderTypeActivities}
		if parent, id, ok := strings.Cut(def, "/"); ok {
			p, exists := byID[parent]
			if !exists {
				t.Fatalf("parent %q of %q not declared yet", parent, id)
			}
			f.ID = id
			f.ParentID = &p.ID
			f.Depth = p.Depth + 1
			f.Path = ChildPath(p.Path, id)
		} else {
			f.ID = def
			f.Path = RootPath(def)
		}
		f.Name = "name-" + f.ID
		out = append(out, f)
		byID[f.ID] = &out[len(out)-1]
	}
	return out
}

func strPtr(s string) *string { return &s }

// chain builds a straight line root->...->leaf of n folders named c00..c(n-1).
func chain(t *testing.T, n int) []models.Folder {
	t.Helper()
	defs := []string{"c00"}
	for i := 1; i < n; i++ {
		defs = append(defs, fmt.Sprintf("c%02d/c%02d", i-1, i))
	}
	return buildFolders(t, defs...)
}

func TestWouldCreateCycle(t *testing.T) {
	forest := NewForest(buildFolders(t, "A", "A/B", "B/C", "D"))

	tests := []struct {
		name     string
		folderID string
		target   *string
		want     bool
	}{
		{name: "moving to root never cycles", folderID: "A", target: nil, want: false},
		{name: "folder cannot parent itself", folderID: "A", target: strPtr("A"), want: true},
		{name: "into direct child", folderID: "A", target: strPtr("B"), want: true},
		{name: "into grandchild", folderID: "A", target: strPtr("C"), want: true},
		{name: "into ancestor", folderID: "C", target: strPtr("A"), want: false},
		{name: "into unrelated tree", folderID: "B", target: strPtr("D"), want: false},
		{name: "unknown target ends walk", folderID: "A", target: strPtr("missing"), want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := forest.WouldCreateCycle(tt.folderID, tt.target); got != tt.want {
				t.Errorf("WouldCreateCycle(%s) = %v, want %v", tt.folderID, got, tt.want)
			}
		})
	}
}

func TestWouldCreateCycle_EverySubtreeMember(t *testing.T) {
	forest := NewForest(buildFolders(t, "A", "A/B", "A/C", "B/D", "D/E", "C/F"))

	for _, folderID := range []string{"A", "B", "C", "D"} {
		targets := append([]*models.Folder{}, forest.Descendants(folderID)...)
		self, _ := forest.Get(folderID)
		targets = append(targets, self)
		for _, target := range targets {
			if !forest.WouldCreateCycle(folderID, &target.ID) {
				t.Errorf("WouldCreateCycle(%s, %s) = false, want true", folderID, target.ID)
			}
		}
		if forest.WouldCreateCycle(folderID, nil) {
			t.Errorf("WouldCreateCycle(%s, nil) = true, want false", folderID)
		}
	}
}

func TestWouldCreateCycle_CorruptLoopTerminates(t *testing.T) {
	folders := buildFolders(t, "A", "A/B")
	// Corrupt: A points at B, B points at A.
	folders[0].ParentID = strPtr("B")
	forest := NewForest(folders)

	if !forest.WouldCreateCycle("X", strPtr("A")) {
		t.Errorf("expected a looping chain to be treated as cyclic")
	}
}

func TestPropagate_MoveScenario(t *testing.T) {
	// A(0,/A) -> B(1,/A/B) -> C(2,/A/B/C); move C under A.
	forest := NewForest(buildFolders(t, "A", "A/B", "B/C", "C/D"))

	forest.SetParent("C", strPtr("A"))
	a, _ := forest.Get("A")
	changes := forest.Propagate("C", a.Depth+1, ChildPath(a.Path, "C"))

	if len(changes) != 2 {
		t.Fatalf("got %d changes, want 2 (C and D)", len(changes))
	}

	want := map[string]struct {
		depth int
		path  string
	}{
		"A": {0, "/A"},
		"B": {1, "/A/B"},
		"C": {1, "/A/C"},
		"D": {2, "/A/C/D"},
	}
	for id, w := range want {
		f, _ := forest.Get(id)
		if f.Depth != w.depth || f.Path != w.path {
			t.Errorf("%s = (%d, %q), want (%d, %q)", id, f.Depth, f.Path, w.depth, w.path)
		}
	}

	if v := forest.Verify(); len(v) != 0 {
		t.Errorf("Verify() after propagate = %v, want none", v)
	}
}

func TestPropagate_ToRoot(t *testing.T) {
	forest := NewForest(buildFolders(t, "A", "A/B", "B/C"))

	forest.SetParent("B", nil)
	changes := forest.Propagate("B", 0, RootPath("B"))

	if len(changes) != 2 {
		t.Fatalf("got %d changes, want 2", len(changes))
	}
	c, _ := forest.Get("C")
	if c.Depth != 1 || c.Path != "/B/C" {
		t.Errorf("C = (%d, %q), want (1, \"/B/C\")", c.Depth, c.Path)
	}
	if len(forest.Roots()) != 2 {
		t.Errorf("got %d roots, want 2", len(forest.Roots()))
	}
}

func TestSubtreeHeight(t *testing.T) {
	forest := NewForest(buildFolders(t, "A", "A/B", "B/C", "A/D"))

	tests := map[string]int{"A": 2, "B": 1, "C": 0, "D": 0}
	for id, want := range tests {
		if got := forest.SubtreeHeight(id); got != want {
			t.Errorf("SubtreeHeight(%s) = %d, want %d", id, got, want)
		}
	}
}

func TestNewForest_SkipsDeleted(t *testing.T) {
	folders := buildFolders(t, "A", "A/B")
	now := time.Now()
	folders[1].DeletedAt = &now
	forest := NewForest(folders)

	if forest.Len() != 1 {
		t.Fatalf("Len() = %d, want 1", forest.Len())
	}
	if _, ok := forest.Get("B"); ok {
		t.Errorf("deleted folder should not be indexed")
	}
	if n := len(forest.Children(strPtr("A"))); n != 0 {
		t.Errorf("A has %d live children, want 0", n)
	}
}

func TestChainDepthBoundary(t *testing.T) {
	forest := NewForest(chain(t, 10))

	leaf, _ := forest.Get("c09")
	if leaf.Depth != models.MaxDepth {
		t.Fatalf("leaf depth = %d, want %d", leaf.Depth, models.MaxDepth)
	}
	if v := forest.Verify(); len(v) != 0 {
		t.Errorf("a 10-level chain should be valid, got %v", v)
	}
}
