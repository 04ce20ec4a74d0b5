// Package foldertypes loads the set of allowed folder types and their
// presentation defaults from an embedded YAML file.
package foldertypes

import (
	"embed"
	"fmt"
	"sort"
	"sync"

	"gopkg.in/yaml.v3"

	"educreate/internal/domain/models"
)

//go:embed config/*.yaml
var configFiles embed.FS

const typesFilename = "config/folder_types.yaml"

// Registry manages the known folder types
type Registry struct {
	types map[models.FolderType]TypeInfo
	mu    sync.RWMutex
}

// NewRegistry creates a registry from the embedded folder type file
func NewRegistry() (*Registry, error) {
	data, err := configFiles.ReadFile(typesFilename)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", typesFilename, err)
	}
	return NewRegistryFromYAML(data)
}

// NewRegistryFromYAML creates a registry from raw YAML in the embedded file's format
func NewRegistryFromYAML(data []byte) (*Registry, error) {
	var file typesFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to unmarshal folder types: %w", err)
	}
	if len(file.Types) == 0 {
		return nil, fmt.Errorf("no folder types defined")
	}

	r := &Registry{types: make(map[models.FolderType]TypeInfo, len(file.Types))}
	for _, t := range file.Types {
		if t.ID == "" {
			return nil, fmt.Errorf("folder type without id")
		}
		if _, dup := r.types[t.ID]; dup {
			return nil, fmt.Errorf("duplicate folder type %q", t.ID)
		}
		r.types[t.ID] = t
	}
	return r, nil
}

// Get returns the type with the given id
func (r *Registry) Get(id models.FolderType) (TypeInfo, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	t, ok := r.types[id]
	return t, ok
}

// IsKnown reports whether id names a registered type
func (r *Registry) IsKnown(id models.FolderType) bool {
	_, ok := r.Get(id)
	return ok
}

// List returns every type in sort order
func (r *Registry) List() []TypeInfo {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]TypeInfo, 0, len(r.types))
	for _, t := range r.types {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].SortOrder < out[j].SortOrder })
	return out
}

// IDs returns the registered type ids in sort order, for validation rules
func (r *Registry) IDs() []interface{} {
	types := r.List()
	ids := make([]interface{}, len(types))
	for i, t := range types {
		ids[i] = t.ID
	}
	return ids
}
