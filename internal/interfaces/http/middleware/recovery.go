package middleware

import (
	"net/http"
	"runtime/debug"

	"github.com/gin-gonic/gin"

	"github.com/turtacn/RxGene-Intelligence/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/RxGene-Intelligence/internal/infrastructure/monitoring/metrics"
	"github.com/turtacn/RxGene-Intelligence/pkg/errors"
	"github.com/turtacn/RxGene-Intelligence/pkg/types/common"
)

// Recovery returns middleware that converts a handler panic into a 500
// response with the standard envelope. The panic value and stack are logged;
// the client only ever sees the generic internal-error message.
func Recovery(logger logging.Logger, appMetrics *metrics.AppMetrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				logger.Error("handler panic recovered",
					logging.Any("panic", r),
					logging.String("method", c.Request.Method),
					logging.String("path", c.Request.URL.Path),
					logging.String("request_id", RequestIDFrom(c)),
					logging.String("stack", string(debug.Stack())),
				)
				metrics.RecordError(appMetrics, "http", "panic", "critical")

				resp := common.NewErrorResponse(
					string(errors.ErrCodeInternal),
					errors.DefaultMessageForCode(errors.ErrCodeInternal),
				)
				resp.RequestID = RequestIDFrom(c)
				c.AbortWithStatusJSON(http.StatusInternalServerError, resp)
			}
		}()

		c.Next()
	}
}

//Personal.AI order the ending
