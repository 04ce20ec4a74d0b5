package foldertypes

import "educreate/internal/domain/models"

// TypeInfo describes one folder type as listed in the embedded YAML.
type TypeInfo struct {
	ID           models.FolderType `yaml:"id" json:"id"`
	DisplayName  string            `yaml:"display_name" json:"displayName"`
	Description  string            `yaml:"description" json:"description"`
	DefaultColor string            `yaml:"default_color" json:"defaultColor"`
	DefaultIcon  string            `yaml:"default_icon" json:"defaultIcon"`
	SortOrder    int               `yaml:"sort_order" json:"sortOrder"`
}

type typesFile struct {
	Types []TypeInfo `yaml:"types"`
}
