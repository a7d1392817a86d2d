package util

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gotcha-app/backend/internal/errors"
	"github.com/gotcha-app/backend/internal/logger"
	"go.uber.org/zap"
)

// ErrorResponse represents a standard error response
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message,omitempty"`
	Field   string `json:"field,omitempty"`
	Details string `json:"details,omitempty"`
}

// RespondWithAPIError sends a structured API error response
func RespondWithAPIError(c *gin.Context, apiErr *errors.APIError) {
	if apiErr.Status >= http.StatusInternalServerError {
		logger.Log.Error("API error",
			zap.String("code", string(apiErr.Code)),
			zap.String("message", apiErr.Message),
			zap.String("field", apiErr.Field),
			zap.Int("status", apiErr.Status),
		)
	} else if apiErr.Status >= http.StatusBadRequest {
		logger.Log.Warn("API error",
			zap.String("code", string(apiErr.Code)),
			zap.String("message", apiErr.Message),
			zap.String("field", apiErr.Field),
		)
	}

	response := ErrorResponse{
		Code:    string(apiErr.Code),
		Message: apiErr.Message,
		Field:   apiErr.Field,
		Details: apiErr.Details,
	}
	c.JSON(apiErr.Status, response)
}

// RespondUnauthorized sends a 401 Unauthorized response
func RespondUnauthorized(c *gin.Context, message ...string) {
	msg := "user not authenticated"
	if len(message) > 0 && message[0] != "" {
		msg = message[0]
	}
	RespondWithAPIError(c, errors.Unauthorized(msg))
}

// RespondNotFound sends a 404 Not Found response
func RespondNotFound(c *gin.Context, resource string) {
	RespondWithAPIError(c, errors.NotFound(resource))
}

// RespondBadRequest sends a 400 Bad Request response
func RespondBadRequest(c *gin.Context, message ...string) {
	msg := "bad request"
	if len(message) > 0 && message[0] != "" {
		msg = message[0]
	}
	RespondWithAPIError(c, errors.BadRequest(msg))
}

// RespondForbidden sends a 403 Forbidden response
func RespondForbidden(c *gin.Context, message ...string) {
	msg := "forbidden"
	if len(message) > 0 && message[0] != "" {
		msg = message[0]
	}
	RespondWithAPIError(c, errors.Forbidden(msg))
}

// RespondInternalError sends a 500 Internal Server Error response
func RespondInternalError(c *gin.Context, message ...string) {
	msg := "internal server error"
	if len(message) > 0 && message[0] != "" {
		msg = message[0]
	}
	RespondWithAPIError(c, errors.InternalError(msg))
}

// RespondConflict sends a 409 Conflict response
func RespondConflict(c *gin.Context, message string) {
	RespondWithAPIError(c, errors.Conflict(message))
}

// RespondValidationError sends a 400 response tied to a specific input field
func RespondValidationError(c *gin.Context, field, message string) {
	RespondWithAPIError(c, errors.ValidationError(field, message))
}
