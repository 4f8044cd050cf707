package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"gorm.io/gorm"

	"taskplan/internal/service"
)

type apiError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type errorResponse struct {
	Error apiError `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, errorResponse{Error: apiError{Code: code, Message: message}})
}

// writeServiceError maps the service error taxonomy onto HTTP statuses. The
// store's message passes through untouched.
func writeServiceError(w http.ResponseWriter, err error) {
	var validationErr *service.ValidationError
	var storeError *service.StoreError

	switch {
	case errors.Is(err, service.ErrUnauthorized):
		writeError(w, http.StatusUnauthorized, "UNAUTHORIZED", "Not authenticated")
	case errors.Is(err, service.ErrInvalidCredentials):
		writeError(w, http.StatusUnauthorized, "INVALID_CREDENTIALS", err.Error())
	case errors.As(err, &validationErr):
		writeError(w, http.StatusUnprocessableEntity, "VALIDATION_ERROR", validationErr.Error())
	case errors.Is(err, gorm.ErrRecordNotFound):
		writeError(w, http.StatusNotFound, "NOT_FOUND", "Not found")
	case errors.As(err, &storeError):
		writeError(w, http.StatusInternalServerError, "STORE_ERROR", storeError.Error())
	default:
		writeError(w, http.StatusInternalServerError, "INTERNAL", "Internal error")
	}
}
