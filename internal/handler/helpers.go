package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"educreate/internal/domain"
	"educreate/internal/httputil"
)

// statusFor maps domain errors to HTTP status codes
func statusFor(err error) int {
	var httpErr domain.HTTPError
	switch {
	case errors.Is(err, domain.ErrValidation),
		errors.Is(err, domain.ErrInvalidMove),
		errors.Is(err, domain.ErrDepthLimitExceeded):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, domain.ErrForbidden):
		return http.StatusForbidden
	case errors.As(err, &httpErr):
		return httpErr.StatusCode()
	case errors.Is(err, domain.ErrConflict):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// handleError converts domain errors to problem responses. Unexpected errors
// are logged and answered with an opaque 500.
func handleError(w http.ResponseWriter, logger *slog.Logger, err error) {
	respondDomainError(w, logger, err, statusFor(err))
}

// handleMoveError is handleError for the move route, where a name conflict
// is a rejected request (400) rather than a resource clash.
func handleMoveError(w http.ResponseWriter, logger *slog.Logger, err error) {
	status := statusFor(err)
	if errors.Is(err, domain.ErrConflict) {
		status = http.StatusBadRequest
	}
	respondDomainError(w, logger, err, status)
}

func respondDomainError(w http.ResponseWriter, logger *slog.Logger, err error, status int) {
	if status == http.StatusInternalServerError {
		logger.Error("request failed", "error", err)
		httputil.RespondError(w, status, "internal", "internal server error")
		return
	}

	var conflictErr *domain.ConflictError
	if errors.As(err, &conflictErr) && conflictErr.ResourceID != "" {
		httputil.RespondErrorWithExtras(w, status, domain.Code(err), err.Error(), map[string]interface{}{
			"resourceType": conflictErr.ResourceType,
			"resourceId":   conflictErr.ResourceID,
		})
		return
	}
	httputil.RespondError(w, status, domain.Code(err), err.Error())
}

// HandleCreateConflict answers a creation conflict with the existing
// resource and 409; any other error goes through handleError.
func HandleCreateConflict[T any](w http.ResponseWriter, logger *slog.Logger, err error, fetchFn func(id string) (*T, error)) {
	var conflictErr *domain.ConflictError
	if errors.As(err, &conflictErr) && conflictErr.ResourceID != "" {
		existing, fetchErr := fetchFn(conflictErr.ResourceID)
		if fetchErr != nil {
			handleError(w, logger, fetchErr)
			return
		}
		httputil.RespondJSON(w, http.StatusConflict, existing)
		return
	}

	handleError(w, logger, err)
}
