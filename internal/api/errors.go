package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/aristath/taskblaster/internal/board"
	"github.com/aristath/taskblaster/internal/orchestrator"
)

// errorBody is the JSON shape of every error response.
type errorBody struct {
	Error   board.Code `json:"error"`
	Message string     `json:"message"`
}

// respondError translates err into a status code and error body. Internal
// errors are logged and their text withheld.
func (s *Server) respondError(c *gin.Context, err error) {
	code := board.CodeOf(err)
	status := code.HTTPStatus()
	msg := err.Error()

	if code == board.CodeInternal {
		s.logger.ErrorContext(c.Request.Context(), "request failed",
			"request_id", c.GetString(ctxRequestID), "error", err)
		msg = "internal error"
		if errors.Is(err, orchestrator.ErrUnavailable) {
			status = http.StatusServiceUnavailable
			msg = "storage unavailable"
		}
	}

	c.AbortWithStatusJSON(status, errorBody{Error: code, Message: msg})
}

// badRequest reports a malformed body or parameter.
func badRequest(c *gin.Context, err error) {
	c.AbortWithStatusJSON(http.StatusBadRequest, errorBody{Error: board.CodeValidation, Message: err.Error()})
}
