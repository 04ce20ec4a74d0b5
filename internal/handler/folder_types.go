package handler

import (
	"net/http"

	"educreate/internal/foldertypes"
	"educreate/internal/httputil"
)

// FolderTypesHandler serves the folder type registry
type FolderTypesHandler struct {
	registry *foldertypes.Registry
}

// NewFolderTypesHandler creates a new folder types handler
func NewFolderTypesHandler(registry *foldertypes.Registry) *FolderTypesHandler {
	return &FolderTypesHandler{registry: registry}
}

// FolderTypesResponse lists the folder types a client may create
type FolderTypesResponse struct {
	Types []foldertypes.TypeInfo `json:"types"`
}

// ListTypes returns every registered folder type with its display defaults.
// GET /api/folder-types
func (h *FolderTypesHandler) ListTypes(w http.ResponseWriter, r *http.Request) {
	httputil.RespondJSON(w, http.StatusOK, FolderTypesResponse{Types: h.registry.List()})
}
