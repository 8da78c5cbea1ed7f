package api

import (
	"fmt"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/aristath/taskblaster/internal/events"
)

const streamBuffer = 64

// handleEvents streams a project's board events as server-sent events.
// An optional ?topic= narrows the stream to task, column or project events.
func (s *Server) handleEvents(c *gin.Context) {
	if s.opts.Bus == nil {
		c.AbortWithStatusJSON(http.StatusNotFound, errorBody{Error: "NOT_FOUND", Message: "event stream disabled"})
		return
	}

	var sub <-chan events.Event
	switch topic := c.Query("topic"); topic {
	case "":
		sub = s.opts.Bus.SubscribeAll(streamBuffer)
	case events.TopicTask, events.TopicColumn, events.TopicProject:
		sub = s.opts.Bus.Subscribe(topic, streamBuffer)
	default:
		badRequest(c, fmt.Errorf("unknown topic %q", topic))
		return
	}
	defer s.opts.Bus.Unsubscribe(sub)

	code := c.Param("code")
	if _, err := s.mover.Project(c.Request.Context(), code); err != nil {
		s.respondError(c, err)
		return
	}

	c.Stream(func(w io.Writer) bool {
		select {
		case <-c.Request.Context().Done():
			return false
		case e, ok := <-sub:
			if !ok {
				return false
			}
			if e.ProjectCode() == code {
				c.SSEvent(e.EventType(), e)
			}
			return true
		}
	})
}
