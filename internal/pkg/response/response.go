package response

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"lifelessons/internal/apiclient"
)

func Success(c *gin.Context, statusCode int, data interface{}) {
	c.JSON(statusCode, gin.H{
		"success": true,
		"data":    data,
	})
}

func Error(c *gin.Context, statusCode int, code string, message string) {
	c.JSON(statusCode, gin.H{
		"success": false,
		"error": gin.H{
			"code":    code,
			"message": message,
		},
	})
}

func ErrorWithDetails(c *gin.Context, statusCode int, code string, message string, details any) {
	c.JSON(statusCode, gin.H{
		"success": false,
		"error": gin.H{
			"code":    code,
			"message": message,
			"details": details,
		},
	})
}

// Upstream maps an error from the lessons API to the envelope. Anything the
// API did not classify becomes a 502.
func Upstream(c *gin.Context, err error) {
	switch {
	case errors.Is(err, apiclient.ErrNotFound):
		Error(c, http.StatusNotFound, "NOT_FOUND", "Resource not found")
	case errors.Is(err, apiclient.ErrConflict):
		Error(c, http.StatusConflict, "CONFLICT", messageOr(err, "Conflict"))
	case errors.Is(err, apiclient.ErrBadRequest):
		Error(c, http.StatusBadRequest, "UPSTREAM_REJECTED", messageOr(err, "Bad request"))
	case errors.Is(err, apiclient.ErrInvalidBody):
		Error(c, http.StatusUnprocessableEntity, "INVALID_PAYLOAD", "Request is missing required fields")
	case errors.Is(err, apiclient.ErrUnauthorized):
		Error(c, http.StatusUnauthorized, "UPSTREAM_UNAUTHORIZED", "Upstream rejected the identity token")
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		Error(c, http.StatusGatewayTimeout, "UPSTREAM_TIMEOUT", "Upstream request timed out")
	default:
		Error(c, http.StatusBadGateway, "UPSTREAM_ERROR", "Upstream request failed")
	}
	_ = c.Error(err)
}

func messageOr(err error, fallback string) string {
	if msg := apiclient.MessageOf(err); msg != "" {
		return msg
	}
	return fallback
}
