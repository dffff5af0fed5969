package http

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"inventory-api/internal/service"
)

const (
	codeInvalidBody        = "invalid_body"
	codeInvalidID          = "invalid_id"
	codeValidation         = "validation_error"
	codeDuplicateEmail     = "duplicate_email"
	codeDuplicateName      = "duplicate_name"
	codeUserNotFound       = "user_not_found"
	codeInvalidCredentials = "invalid_credentials"
	codeProductNotFound    = "product_not_found"
	codeTokenMissing       = "token_missing"
	codeTokenInvalid       = "token_invalid"
	codeTokenExpired       = "token_expired"
	codeSnapshotsDisabled  = "snapshots_disabled"
	codeInternal           = "internal_error"
)

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Message string `json:"message"`
	Code    string `json:"code"`
	Field   string `json:"field,omitempty"`
}

func writeError(c *gin.Context, status int, code, message, field string) {
	c.AbortWithStatusJSON(status, ErrorResponse{Message: message, Code: code, Field: field})
}

func (h *Handler) abort(c *gin.Context, status int, code, message string) {
	writeError(c, status, code, message, "")
}

// bind decodes the JSON body into dst, answering 400 on failure.
func (h *Handler) bind(c *gin.Context, dst any) bool {
	err := c.ShouldBindJSON(dst)
	if err == nil {
		return true
	}

	var typeErr *json.UnmarshalTypeError
	switch {
	case errors.As(err, &typeErr):
		writeError(c, http.StatusBadRequest, codeValidation, typeErr.Field+" has the wrong type", typeErr.Field)
	case errors.Is(err, io.EOF):
		writeError(c, http.StatusBadRequest, codeInvalidBody, "request body is required", "")
	default:
		writeError(c, http.StatusBadRequest, codeInvalidBody, "malformed JSON body", "")
	}
	return false
}

// fail maps a service error to a status code. Unknown errors are logged
// and answered with a generic 500.
func (h *Handler) fail(c *gin.Context, err error) {
	var verr *service.ValidationError
	switch {
	case errors.As(err, &verr):
		writeError(c, http.StatusBadRequest, codeValidation, verr.Error(), verr.Field)
	case errors.Is(err, service.ErrDuplicateEmail):
		h.abort(c, http.StatusConflict, codeDuplicateEmail, "email already registered")
	case errors.Is(err, service.ErrDuplicateName):
		h.abort(c, http.StatusConflict, codeDuplicateName, "a product with that name already exists")
	case errors.Is(err, service.ErrUserNotFound):
		h.abort(c, http.StatusNotFound, codeUserNotFound, "user not found")
	case errors.Is(err, service.ErrInvalidCredentials):
		h.abort(c, http.StatusUnauthorized, codeInvalidCredentials, "invalid credentials")
	case errors.Is(err, service.ErrProductNotFound):
		h.abort(c, http.StatusNotFound, codeProductNotFound, "product not found")
	case errors.Is(err, service.ErrSnapshotsDisabled):
		h.abort(c, http.StatusServiceUnavailable, codeSnapshotsDisabled, "snapshots are not configured")
	default:
		_ = c.Error(err)
		h.logger.WithError(err).WithField("path", c.Request.URL.Path).Error("unhandled service error")
		h.abort(c, http.StatusInternalServerError, codeInternal, "internal server error")
	}
}
