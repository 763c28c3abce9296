package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"libratrack-admin-backend/internal/domain"
	"libratrack-admin-backend/internal/logger"
)

type errorResponse struct {
	Error  string `json:"error"`
	Queued *bool  `json:"queued,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		logger.Error("Failed to encode response", "error", err)
	}
}

// statusFor maps a service error to an HTTP status. Sentinels win over the
// dependency error that may carry them.
func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrInvalidState):
		return http.StatusConflict
	}

	var depErr *domain.DependencyError
	if errors.As(err, &depErr) {
		if depErr.Timeout() {
			return http.StatusGatewayTimeout
		}
		return http.StatusBadGateway
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return http.StatusGatewayTimeout
	}
	return http.StatusInternalServerError
}

func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		logger.ErrorContext(r.Context(), "Request failed", "path", r.URL.Path, "status", status, "error", err)
	} else {
		logger.WarnContext(r.Context(), "Request rejected", "path", r.URL.Path, "status", status, "error", err)
	}
	writeJSON(w, status, errorResponse{Error: err.Error()})
}

// writeUnconfirmed reports a return whose outcome is unknown, along with
// whether its late fine was queued for when the return shows up.
func writeUnconfirmed(w http.ResponseWriter, r *http.Request, partial *domain.PartialFailureError) {
	status := statusFor(partial)
	logger.ErrorContext(r.Context(), "Return unconfirmed", "path", r.URL.Path, "status", status, "lendingID", partial.LendingID, "queued", partial.Queued, "error", partial.Err)
	queued := partial.Queued
	writeJSON(w, status, errorResponse{Error: partial.Error(), Queued: &queued})
}
