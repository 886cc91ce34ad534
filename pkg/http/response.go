package http

import (
	"encoding/json"
	"net/http"
	apperrors "rezerveo/pkg/errors"
	"rezerveo/pkg/logger"

	"github.com/google/uuid"
)

type SuccessResponse struct {
	Data    any    `json:"data,omitempty"`
	Message string `json:"message,omitempty"`
}

type PaginatedResponse struct {
	Data       any   `json:"data"`
	TotalCount int64 `json:"total_count"`
	Limit      int   `json:"limit"`
	Offset     int64 `json:"offset"`
}

func WriteJSON(w http.ResponseWriter, statusCode int, data any) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	return json.NewEncoder(w).Encode(data)
}

// WriteError maps a domain error to its transport status. Unclassified
// failures get a generic body plus a correlation id; the id is generated
// and logged here, at the point the failure is surfaced, so operators can
// match the response to the log line.
func WriteError(w http.ResponseWriter, log *logger.Logger, err error) error {
	appErr := apperrors.AsAppError(err)

	response := apperrors.ErrorResponse{
		Code:    appErr.Code,
		Message: appErr.Message,
		Details: appErr.Details,
	}

	if appErr.Code == apperrors.CodeInternal {
		correlationID := uuid.NewString()
		log.Error("Unclassified failure surfaced to caller",
			"correlation_id", correlationID,
			"error", appErr.Error(),
		)
		response.Message = "Internal server error"
		response.Details = nil
		response.CorrelationID = correlationID
	}

	return WriteJSON(w, appErr.StatusCode(), response)
}

func WriteSuccess(w http.ResponseWriter, data any) error {
	return WriteJSON(w, http.StatusOK, SuccessResponse{Data: data})
}

// WriteMessage reports a success that carries an informational message
// instead of a payload, e.g. a repeated slot cancellation.
func WriteMessage(w http.ResponseWriter, message string) error {
	return WriteJSON(w, http.StatusOK, SuccessResponse{Message: message})
}

func WriteCreated(w http.ResponseWriter, data any) error {
	return WriteJSON(w, http.StatusCreated, SuccessResponse{Data: data})
}

func WriteNoContent(w http.ResponseWriter) {
	w.WriteHeader(http.StatusNoContent)
}

func WritePaginated(w http.ResponseWriter, data any, totalCount int64, limit int, offset int64) error {
	return WriteJSON(w, http.StatusOK, PaginatedResponse{
		Data:       data,
		TotalCount: totalCount,
		Limit:      limit,
		Offset:     offset,
	})
}
