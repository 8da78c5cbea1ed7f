package api

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/aristath/taskblaster/internal/events"
	"github.com/aristath/taskblaster/internal/orchestrator"
)

// Options configures a Server.
type Options struct {
	Tokens         map[string]string // Bearer token -> user name; empty disables auth
	RequestTimeout time.Duration     // Deadline applied to every request context
	Logger         *slog.Logger
	Bus            *events.EventBus                // Enables the event stream when set
	Ping           func(ctx context.Context) error // Health probe for /healthz
}

// Server is the board's HTTP API.
type Server struct {
	mover  *orchestrator.Mover
	router *gin.Engine
	opts   Options
	logger *slog.Logger
}

// NewServer creates the API server and registers its routes.
func NewServer(mover *orchestrator.Mover, opts Options) *Server {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	router := gin.New()

	s := &Server{
		mover:  mover,
		router: router,
		opts:   opts,
		logger: opts.Logger,
	}

	router.Use(gin.Recovery(), requestID(), accessLog(s.logger), timeout(opts.RequestTimeout))
	router.GET("/healthz", s.handleHealth)

	api := router.Group("/", auth(opts.Tokens))
	{
		api.GET("/projects", s.handleListProjects)
		api.POST("/projects", s.handleCreateProject)
		api.GET("/projects/:code", s.handleGetProject)
		api.GET("/projects/:code/board", s.handleBoard)
		api.GET(eventsRoute, s.handleEvents)

		api.GET("/projects/:code/tasks", s.handleListTasks)
		api.POST("/projects/:code/tasks", s.handleCreateTask)
		api.GET("/projects/:code/tasks/:taskId", s.handleGetTask)
		api.PUT("/projects/:code/tasks/:taskId", s.handleUpdateTask)
		api.DELETE("/projects/:code/tasks/:taskId", s.handleDeleteTask)
		api.PATCH("/projects/:code/tasks/:taskId/status", s.handleChangeStatus)
		api.PUT("/projects/:code/tasks/:taskId/tags", s.handleSetTags)

		kanban := api.Group("/projects/:code/kanban/tasks")
		{
			kanban.PATCH("/:taskId/position", s.handleReorder)
			kanban.GET("/column/:status", s.handleColumn)
			kanban.GET("/column/:status/positions", s.handleColumnPositions)
			kanban.PATCH("/column/:status/positions", s.handleBulkReorder)
		}
	}

	return s
}

// Handler returns the router for use in an http.Server.
func (s *Server) Handler() http.Handler {
	return s.router
}
