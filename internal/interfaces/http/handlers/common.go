// Package handlers contains the gin request handlers for the query-builder
// HTTP API.
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/turtacn/PatQuery-Bridge/internal/interfaces/http/middleware"
	"github.com/turtacn/PatQuery-Bridge/pkg/errors"
)

// ErrorResponse is the envelope every failed request returns.
type ErrorResponse struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	Detail    string `json:"detail,omitempty"`
	RequestID string `json:"request_id,omitempty"`
}

// respondError maps err onto its HTTP status and writes the standard error
// envelope.  Unknown (non-AppError) failures are masked as internal errors so
// implementation details never leak to clients.
func respondError(c *gin.Context, err error) {
	appErr := errors.FromError(err)
	_ = c.Error(err)
	c.AbortWithStatusJSON(errors.HTTPStatusForCode(appErr.Code), ErrorResponse{
		Code:      appErr.Code.String(),
		Message:   appErr.Message,
		Detail:    appErr.Detail,
		RequestID: middleware.GetRequestID(c),
	})
}

// bindJSON decodes the request body into dest, answering 400 on malformed
// input.  Returns false when the request has already been terminated.
func bindJSON(c *gin.Context, dest interface{}) bool {
	if err := c.ShouldBindJSON(dest); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, ErrorResponse{
			Code:      errors.ErrCodeBadRequest.String(),
			Message:   "malformed request body",
			Detail:    err.Error(),
			RequestID: middleware.GetRequestID(c),
		})
		return false
	}
	return true
}

//Personal.AI order the ending
