package utils

import (
	"encoding/json"
	"errors"
	"net/http"

	"tripnest-backend/internal/dto"
	"tripnest-backend/internal/models"
)

// WriteJSONResponse writes a JSON response to the HTTP response writer
func WriteJSONResponse(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// WriteErrorResponse writes an error envelope with the given status
func WriteErrorResponse(w http.ResponseWriter, status int, errMsg, message string) {
	WriteJSONResponse(w, status, dto.ErrorResponse{Error: errMsg, Message: message})
}

// DecodeJSONRequest decodes the request body into dst and writes a 400
// response on failure. Callers return immediately on error.
func DecodeJSONRequest(w http.ResponseWriter, r *http.Request, dst interface{}) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		WriteErrorResponse(w, http.StatusBadRequest, "Invalid request body", err.Error())
		return err
	}
	return nil
}

// WriteDomainError maps model-layer errors onto HTTP status codes and
// writes the error envelope. Unknown errors become 500s.
func WriteDomainError(w http.ResponseWriter, err error) {
	var ve *models.ValidationError
	switch {
	case errors.As(err, &ve):
		WriteErrorResponse(w, http.StatusBadRequest, "Validation error", ve.Error())
	case errors.Is(err, models.ErrUserNotFound):
		WriteErrorResponse(w, http.StatusNotFound, "User not found", err.Error())
	case errors.Is(err, models.ErrNoSuchInvitation):
		WriteErrorResponse(w, http.StatusNotFound, "Not Found", err.Error())
	case errors.Is(err, models.ErrNotFound):
		WriteErrorResponse(w, http.StatusNotFound, "Not Found", err.Error())
	case errors.Is(err, models.ErrForbidden):
		WriteErrorResponse(w, http.StatusForbidden, "Forbidden", err.Error())
	case errors.Is(err, models.ErrDuplicateEmail),
		errors.Is(err, models.ErrSelfInvite),
		errors.Is(err, models.ErrAlreadyMember),
		errors.Is(err, models.ErrDuplicatePending):
		WriteErrorResponse(w, http.StatusConflict, "Conflict", err.Error())
	default:
		WriteErrorResponse(w, http.StatusInternalServerError, "Database error", err.Error())
	}
}
