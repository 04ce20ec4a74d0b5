package handler

import "net/http"

// RegisterFolderRoutes mounts the folder API on mux. Literal segments
// (tree, trash, verify) take precedence over {id} under ServeMux rules.
func RegisterFolderRoutes(mux *http.ServeMux, folders *FolderHandler, hierarchy *HierarchyHandler, types *FolderTypesHandler) {
	mux.HandleFunc("GET /api/folder-types", types.ListTypes)

	mux.HandleFunc("GET /api/folders", folders.ListFolders)
	mux.HandleFunc("POST /api/folders", folders.CreateFolder)
	mux.HandleFunc("GET /api/folders/tree", folders.GetTree)
	mux.HandleFunc("GET /api/folders/trash", folders.ListDeleted)
	mux.HandleFunc("GET /api/folders/verify", hierarchy.Verify)
	mux.HandleFunc("POST /api/folders/repair", hierarchy.Repair)
	mux.HandleFunc("GET /api/folders/{id}", folders.GetFolder)
	mux.HandleFunc("PATCH /api/folders/{id}", folders.UpdateFolder)
	mux.HandleFunc("DELETE /api/folders/{id}", folders.DeleteFolder)
	mux.HandleFunc("PATCH /api/folders/{id}/move", folders.MoveFolder)
	mux.HandleFunc("POST /api/folders/{id}/restore", folders.RestoreFolder)
}
