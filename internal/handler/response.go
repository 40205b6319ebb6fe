package handler

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"supplierx/internal/domain"
	"supplierx/internal/middleware"
)

// APIResponse is the standard envelope for all API responses.
type APIResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   *APIError   `json:"error,omitempty"`
}

// APIError holds error details in the response.
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// RespondOK sends a 200 success response.
func RespondOK(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, APIResponse{Success: true, Data: data})
}

// RespondMultiStatus sends a 207 response for a run where some files failed.
func RespondMultiStatus(c *gin.Context, data interface{}) {
	c.JSON(http.StatusMultiStatus, APIResponse{Success: true, Data: data})
}

// RespondError sends an error response with the given status code.
func RespondError(c *gin.Context, status int, code, msg string) {
	c.JSON(status, APIResponse{
		Success: false,
		Error:   &APIError{Code: code, Message: msg},
	})
}

// MapDomainError translates domain errors to HTTP status codes and error codes.
func MapDomainError(err error) (status int, code, msg string) {
	switch {
	case errors.Is(err, domain.ErrNoFiles):
		return http.StatusBadRequest, "MISSING_FILES", "at least one file is required in 'files' field"
	case errors.Is(err, domain.ErrMissingCredential):
		return http.StatusUnauthorized, "MISSING_CREDENTIAL", "model credential is required"
	case errors.Is(err, domain.ErrEmptyResult):
		return http.StatusBadRequest, "EMPTY_RESULT", "no extraction results to export"
	case errors.Is(err, domain.ErrTooManyFiles):
		return http.StatusBadRequest, "TOO_MANY_FILES", "too many files in one batch"
	case errors.Is(err, domain.ErrFileTooLarge):
		return http.StatusRequestEntityTooLarge, "FILE_TOO_LARGE", "upload exceeds maximum allowed size"
	case errors.Is(err, domain.ErrInvalidRecord):
		return http.StatusBadRequest, "INVALID_RECORD", "every result must be a JSON object with a filename"
	default:
		return http.StatusInternalServerError, "INTERNAL_ERROR", "an internal error occurred"
	}
}

// HandleError maps a domain error and sends the appropriate error response.
func HandleError(c *gin.Context, err error) {
	status, code, msg := MapDomainError(err)
	if status >= 500 {
		requestID := c.GetString(middleware.ContextKeyRequestID)
		log.Printf("[%s] internal error: %v", requestID, err)
	}
	RespondError(c, status, code, msg)
}
