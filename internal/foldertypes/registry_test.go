package foldertypes

import (
	"testing"

	"educreate/internal/domain/models"
)

func TestNewRegistry_Embedded(t *testing.T) {
	r, err := NewRegistry()
	if err != nil {
		t.Fatalf("NewRegistry() error = %v", err)
	}

	for _, id := range []models.FolderType{models.FolderTypeActivities, models.FolderTypeResults} {
		info, ok := r.Get(id)
		if !ok {
			t.Fatalf("type %q not registered", id)
		}
		if info.DefaultColor == "" || info.DefaultIcon == "" {
			t.Errorf("type %q has no defaults: %+v", id, info)
		}
	}

	if r.IsKnown("documents") {
		t.Errorf("unexpected type documents")
	}

	list := r.List()
	if len(list) != 2 || list[0].ID != models.FolderTypeActivities {
		t.Errorf("List() = %+v, want activities first", list)
	}
}

func TestNewRegistryFromYAML_Errors(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"empty", "types: []"},
		{"missing id", "types:\n  - display_name: X"},
		{"duplicate", "types:\n  - id: a\n  - id: a"},
		{"malformed", "types: ["},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := NewRegistryFromYAML([]byte(tt.yaml)); err == nil {
				t.Errorf("expected error")
			}
		})
	}
}
