package handler

import (
	"log/slog"
	"net/http"

	"educreate/internal/domain"
	"educreate/internal/domain/models"
	"educreate/internal/domain/services"
	"educreate/internal/httputil"
)

// FolderHandler handles HTTP requests for folder operations
type FolderHandler struct {
	folderService services.FolderService
	logger        *slog.Logger
}

// NewFolderHandler creates a new folder handler
func NewFolderHandler(folderService services.FolderService, logger *slog.Logger) *FolderHandler {
	return &FolderHandler{
		folderService: folderService,
		logger:        logger,
	}
}

// updateFolderBody is the PATCH /api/folders/{id} payload
type updateFolderBody struct {
	Name        *string                 `json:"name"`
	Color       *string                 `json:"color"`
	Icon        *string                 `json:"icon"`
	Description httputil.OptionalString `json:"description"`
}

// moveFolderBody is the PATCH /api/folders/{id}/move payload
type moveFolderBody struct {
	TargetParentID httputil.OptionalString `json:"targetParentId"`
}

// MoveFolderResponse is returned by a successful move
type MoveFolderResponse struct {
	Success bool                 `json:"success"`
	Folder  *models.FolderDetail `json:"folder"`
}

// DeleteFolderResponse reports what a delete put in the recycle bin
type DeleteFolderResponse struct {
	DeletedFolderID string `json:"deletedFolderId"`
	DeletedCount    int    `json:"deletedCount"`
}

// folderType reads ?type=, defaulting to activities
func folderType(r *http.Request) models.FolderType {
	if t := r.URL.Query().Get("type"); t != "" {
		return models.FolderType(t)
	}
	return models.FolderTypeActivities
}

// ListFolders returns live folders of one type.
// GET /api/folders?type=&parentId=
func (h *FolderHandler) ListFolders(w http.ResponseWriter, r *http.Request) {
	parent := httputil.QueryOptional(r, "parentId")
	folders, err := h.folderService.ListFolders(r.Context(), httputil.GetUserID(r), &services.ListFoldersRequest{
		Type:      folderType(r),
		ParentSet: parent.Present,
		ParentID:  parent.Value,
	})
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, folders)
}

// CreateFolder creates a new folder.
// POST /api/folders
func (h *FolderHandler) CreateFolder(w http.ResponseWriter, r *http.Request) {
	var req services.CreateFolderRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "validation_failed", err.Error())
		return
	}
	if req.Type == "" {
		req.Type = models.FolderTypeActivities
	}

	userID := httputil.GetUserID(r)
	folder, err := h.folderService.CreateFolder(r.Context(), userID, &req)
	if err != nil {
		HandleCreateConflict(w, h.logger, err, func(id string) (*models.FolderDetail, error) {
			return h.folderService.GetFolder(r.Context(), userID, id)
		})
		return
	}

	httputil.RespondJSON(w, http.StatusCreated, folder)
}

// GetTree returns the nested folder tree.
// GET /api/folders/tree?type=
func (h *FolderHandler) GetTree(w http.ResponseWriter, r *http.Request) {
	tree, err := h.folderService.GetTree(r.Context(), httputil.GetUserID(r), folderType(r))
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, tree)
}

// ListDeleted returns the recycle bin.
// GET /api/folders/trash?type=
func (h *FolderHandler) ListDeleted(w http.ResponseWriter, r *http.Request) {
	folders, err := h.folderService.ListDeleted(r.Context(), httputil.GetUserID(r), folderType(r))
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, folders)
}

// GetFolder returns a folder with its parent and children.
// GET /api/folders/{id}
func (h *FolderHandler) GetFolder(w http.ResponseWriter, r *http.Request) {
	folder, err := h.folderService.GetFolder(r.Context(), httputil.GetUserID(r), r.PathValue("id"))
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, folder)
}

// UpdateFolder renames or restyles a folder.
// PATCH /api/folders/{id}
func (h *FolderHandler) UpdateFolder(w http.ResponseWriter, r *http.Request) {
	var body updateFolderBody
	if err := httputil.ParseJSON(w, r, &body); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "validation_failed", err.Error())
		return
	}

	folder, err := h.folderService.UpdateFolder(r.Context(), httputil.GetUserID(r), r.PathValue("id"), &services.UpdateFolderRequest{
		Name:           body.Name,
		Color:          body.Color,
		Icon:           body.Icon,
		DescriptionSet: body.Description.Present,
		Description:    body.Description.Value,
	})
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, folder)
}

// MoveFolder re-parents a folder.
// PATCH /api/folders/{id}/move with {"targetParentId": "<id>" | null}
func (h *FolderHandler) MoveFolder(w http.ResponseWriter, r *http.Request) {
	var body moveFolderBody
	if err := httputil.ParseJSON(w, r, &body); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "validation_failed", err.Error())
		return
	}
	if !body.TargetParentID.Present {
		httputil.RespondError(w, http.StatusBadRequest, domain.Code(domain.ErrValidation), "targetParentId is required (null moves to root)")
		return
	}

	folder, err := h.folderService.MoveFolder(r.Context(), httputil.GetUserID(r), r.PathValue("id"), body.TargetParentID.Value)
	if err != nil {
		handleMoveError(w, h.logger, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, MoveFolderResponse{Success: true, Folder: folder})
}

// DeleteFolder moves a folder and its subtree to the recycle bin.
// DELETE /api/folders/{id}
func (h *FolderHandler) DeleteFolder(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	count, err := h.folderService.DeleteFolder(r.Context(), httputil.GetUserID(r), id)
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, DeleteFolderResponse{DeletedFolderID: id, DeletedCount: count})
}

// RestoreFolder brings a folder back from the recycle bin.
// POST /api/folders/{id}/restore
func (h *FolderHandler) RestoreFolder(w http.ResponseWriter, r *http.Request) {
	folder, err := h.folderService.RestoreFolder(r.Context(), httputil.GetUserID(r), r.PathValue("id"))
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, folder)
}
