// Package middleware provides the gin middleware chain for the HTTP API:
// request identity, access logging, panic recovery, CORS, and request
// metrics. Every middleware is a plain gin.HandlerFunc constructor so the
// router can assemble the chain explicitly.
package middleware

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/turtacn/RxGene-Intelligence/pkg/types/common"
)

// RequestIDHeader is the header used to receive and echo the request id.
const RequestIDHeader = "X-Request-ID"

// RequestID assigns every request a UUID. A well-formed id supplied by the
// caller is kept so ids stay stable across service hops; anything else is
// replaced. The id is stored on the request context under
// common.ContextKeyRequestID, where the application and upstream layers
// expect it, and echoed back in the response header.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(RequestIDHeader)
		if _, err := uuid.Parse(id); err != nil {
			id = uuid.New().String()
		}

		ctx := context.WithValue(c.Request.Context(), common.ContextKeyRequestID, id)
		c.Request = c.Request.WithContext(ctx)
		c.Writer.Header().Set(RequestIDHeader, id)

		c.Next()
	}
}

// RequestIDFrom returns the request id assigned by RequestID, or an empty
// string when the middleware did not run.
func RequestIDFrom(c *gin.Context) string {
	if id, ok := c.Request.Context().Value(common.ContextKeyRequestID).(string); ok {
		return id
	}
	return ""
}

//Personal.AI order the ending
