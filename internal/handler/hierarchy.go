package handler

import (
	"log/slog"
	"net/http"

	"educreate/internal/domain/services"
	"educreate/internal/hierarchy"
	"educreate/internal/httputil"
)

// HierarchyHandler exposes hierarchy verification and repair
type HierarchyHandler struct {
	hierarchyService services.HierarchyService
	logger           *slog.Logger
}

// NewHierarchyHandler creates a new hierarchy handler
func NewHierarchyHandler(hierarchyService services.HierarchyService, logger *slog.Logger) *HierarchyHandler {
	return &HierarchyHandler{
		hierarchyService: hierarchyService,
		logger:           logger,
	}
}

// VerifyResponse lists the invariant violations found
type VerifyResponse struct {
	Consistent bool                  `json:"consistent"`
	Violations []hierarchy.Violation `json:"violations"`
}

// RepairResponse reports how many folders were rewritten
type RepairResponse struct {
	UpdatedCount int `json:"updatedCount"`
}

// Verify checks the caller's folder hierarchy.
// GET /api/folders/verify
func (h *HierarchyHandler) Verify(w http.ResponseWriter, r *http.Request) {
	violations, err := h.hierarchyService.VerifyHierarchy(r.Context(), httputil.GetUserID(r))
	if err != nil {
		handleError(w, h.logger, err)
		return
	}
	if violations == nil {
		violations = []hierarchy.Violation{}
	}

	httputil.RespondJSON(w, http.StatusOK, VerifyResponse{Consistent: len(violations) == 0, Violations: violations})
}

// Repair recomputes depth and path for the caller's folders.
// POST /api/folders/repair
func (h *HierarchyHandler) Repair(w http.ResponseWriter, r *http.Request) {
	n, err := h.hierarchyService.RepairHierarchy(r.Context(), httputil.GetUserID(r))
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, RepairResponse{UpdatedCount: n})
}
