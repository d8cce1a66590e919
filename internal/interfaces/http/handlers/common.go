// Package handlers implements the gin HTTP handlers for the resolution and
// interaction-query APIs plus the health probes. Handlers stay thin: bind,
// call the application service, translate the result into the shared
// response envelope.
package handlers

import (
	stdliberrors "errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/turtacn/RxGene-Intelligence/internal/interfaces/http/middleware"
	"github.com/turtacn/RxGene-Intelligence/pkg/errors"
	"github.com/turtacn/RxGene-Intelligence/pkg/types/common"
)

// respond writes a success envelope with the request id filled in.
func respond[T any](c *gin.Context, status int, data T) {
	resp := common.NewSuccessResponse(data)
	resp.RequestID = middleware.RequestIDFrom(c)
	c.JSON(status, resp)
}

// respondError maps an application error onto the HTTP status registered for
// its code and writes an error envelope. Server-side failures are masked
// with the code's default message so internals never leak to clients.
func respondError(c *gin.Context, err error) {
	code := errors.GetCode(err)
	status := errors.HTTPStatusForCode(code)

	// The envelope carries the code separately, so only the human-readable
	// message goes into the message field.
	message := err.Error()
	var ae *errors.AppError
	if stdliberrors.As(err, &ae) {
		message = ae.Message
	}
	if status >= http.StatusInternalServerError {
		message = errors.DefaultMessageForCode(code)
	}

	resp := common.NewErrorResponse(string(code), message)
	resp.RequestID = middleware.RequestIDFrom(c)
	c.AbortWithStatusJSON(status, resp)
}

// respondBadRequest reports a malformed request body or parameter.
func respondBadRequest(c *gin.Context, err error) {
	respondError(c, errors.Wrap(err, errors.ErrCodeBadRequest, "malformed request"))
}

//Personal.AI order the ending
