package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"wardrobe-rental-backend/internal/domain"
	"wardrobe-rental-backend/internal/logger"
	"wardrobe-rental-backend/internal/security"
	"wardrobe-rental-backend/internal/service"
)

type errorResponse struct {
	Error     string             `json:"error"`
	Fields    map[string]string  `json:"fields,omitempty"`
	Conflicts []service.Conflict `json:"conflicts,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Error("Failed to encode response", "error", err)
	}
}

// writeError maps service errors onto HTTP status codes.
func writeError(w http.ResponseWriter, err error) {
	var verrs domain.ValidationErrors
	if errors.As(err, &verrs) {
		writeJSON(w, http.StatusUnprocessableEntity, errorResponse{Error: "validation failed", Fields: verrs})
		return
	}
	if ae, ok := service.AsAvailabilityError(err); ok {
		writeJSON(w, http.StatusConflict, errorResponse{Error: domain.ErrUnavailable.Error(), Conflicts: ae.Conflicts})
		return
	}

	switch {
	case errors.Is(err, domain.ErrNotFound):
		writeJSON(w, http.StatusNotFound, errorResponse{Error: err.Error()})
	case errors.Is(err, domain.ErrInvalidTransition):
		writeJSON(w, http.StatusConflict, errorResponse{Error: err.Error()})
	case errors.Is(err, domain.ErrInvalidInput):
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
	case errors.Is(err, security.ErrInvalidCredentials):
		writeJSON(w, http.StatusUnauthorized, errorResponse{Error: err.Error()})
	default:
		logger.Error("Unhandled API error", "error", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal error"})
	}
}

func decodeJSON(r *http.Request, v any) error {
	if r.Body == nil {
		return fmt.Errorf("%w: request body is required", domain.ErrInvalidInput)
	}
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		if errors.Is(err, domain.ErrInvalidInput) {
			return err
		}
		return fmt.Errorf("%w: malformed JSON body: %v", domain.ErrInvalidInput, err)
	}
	return nil
}
