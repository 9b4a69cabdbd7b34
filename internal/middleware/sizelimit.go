package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jwalitptl/frontdesk-api/internal/handler"
)

const DefaultMaxBodySize int64 = 1 << 20 // 1MB

// SizeLimit rejects bodies larger than maxBytes and caps reads beyond it.
func SizeLimit(maxBytes int64) gin.HandlerFunc {
	if maxBytes <= 0 {
		maxBytes = DefaultMaxBodySize
	}
	return func(c *gin.Context) {
		if c.Request.ContentLength > maxBytes {
			resp := handler.NewErrorResponse("request body too large")
			resp.Code = "BODY_TOO_LARGE"
			c.AbortWithStatusJSON(http.StatusRequestEntityTooLarge, resp)
			return
		}
		if c.Request.Body != nil {
			c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		}
		c.Next()
	}
}
