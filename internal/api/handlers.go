package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/aristath/taskblaster/internal/orchestrator"
)

func (s *Server) handleHealth(c *gin.Context) {
	if s.opts.Ping != nil {
		if err := s.opts.Ping(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
			return
		}
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// Projects

func (s *Server) handleListProjects(c *gin.Context) {
	projects, err := s.mover.ListProjects(c.Request.Context())
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"projects": projects})
}

func (s *Server) handleCreateProject(c *gin.Context) {
	var req createProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	project, err := s.mover.CreateProject(c.Request.Context(), orchestrator.NewProject{
		Code:        req.Code,
		Title:       req.Title,
		Description: req.Description,
	})
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, project)
}

func (s *Server) handleGetProject(c *gin.Context) {
	project, err := s.mover.Project(c.Request.Context(), c.Param("code"))
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, project)
}

func (s *Server) handleBoard(c *gin.Context) {
	view, err := s.mover.Board(c.Request.Context(), c.Param("code"))
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

// Tasks

func (s *Server) handleListTasks(c *gin.Context) {
	tasks, err := s.mover.ListTasks(c.Request.Context(), c.Param("code"))
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"tasks": tasks})
}

func (s *Server) handleCreateTask(c *gin.Context) {
	var req createTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	nt, err := req.toNewTask()
	if err != nil {
		s.respondError(c, err)
		return
	}

	task, err := s.mover.CreateTask(c.Request.Context(), c.Param("code"), nt)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, task)
}

func (s *Server) handleGetTask(c *gin.Context) {
	task, err := s.mover.GetTask(c.Request.Context(), c.Param("code"), c.Param("taskId"))
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, task)
}

func (s *Server) handleUpdateTask(c *gin.Context) {
	var req updateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	patch, err := req.toPatch()
	if err != nil {
		s.respondError(c, err)
		return
	}

	task, err := s.mover.UpdateTask(c.Request.Context(), c.Param("code"), c.Param("taskId"), patch)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, task)
}

func (s *Server) handleDeleteTask(c *gin.Context) {
	if err := s.mover.DeleteTask(c.Request.Context(), c.Param("code"), c.Param("taskId")); err != nil {
		s.respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) handleChangeStatus(c *gin.Context) {
	var req statusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	status, err := parseStatusParam(req.Status)
	if err != nil {
		s.respondError(c, err)
		return
	}

	task, err := s.mover.ChangeStatus(c.Request.Context(), c.Param("code"), c.Param("taskId"), status)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, task)
}

func (s *Server) handleSetTags(c *gin.Context) {
	var req tagsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	task, err := s.mover.SetTags(c.Request.Context(), c.Param("code"), c.Param("taskId"), req.Tags)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, task)
}

// Kanban

func (s *Server) handleReorder(c *gin.Context) {
	var req positionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	intent := orchestrator.ReorderIntent{Index: *req.NewPosition}
	if req.Status != "" {
		status, err := parseStatusParam(req.Status)
		if err != nil {
			s.respondError(c, err)
			return
		}
		intent.Status = status
	}

	task, err := s.mover.Reorder(c.Request.Context(), c.Param("code"), c.Param("taskId"), intent)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, task)
}

func (s *Server) handleColumn(c *gin.Context) {
	status, err := parseStatusParam(c.Param("status"))
	if err != nil {
		s.respondError(c, err)
		return
	}

	tasks, err := s.mover.Column(c.Request.Context(), c.Param("code"), status)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": status, "tasks": tasks})
}

func (s *Server) handleColumnPositions(c *gin.Context) {
	status, err := parseStatusParam(c.Param("status"))
	if err != nil {
		s.respondError(c, err)
		return
	}

	tasks, err := s.mover.Column(c.Request.Context(), c.Param("code"), status)
	if err != nil {
		s.respondError(c, err)
		return
	}
	positions := make([]columnPosition, len(tasks))
	for i, t := range tasks {
		positions[i] = columnPosition{TaskID: t.DisplayID, Position: t.Position}
	}
	c.JSON(http.StatusOK, gin.H{"status": status, "positions": positions})
}

func (s *Server) handleBulkReorder(c *gin.Context) {
	status, err := parseStatusParam(c.Param("status"))
	if err != nil {
		s.respondError(c, err)
		return
	}
	var req bulkPositionsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	if err := s.mover.BulkReorder(c.Request.Context(), c.Param("code"), status, req.toUpdates()); err != nil {
		s.respondError(c, err)
		return
	}

	tasks, err := s.mover.Column(c.Request.Context(), c.Param("code"), status)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": status, "tasks": tasks})
}
