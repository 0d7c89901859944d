package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"zcrum/internal/service"
)

// handleListProjects returns the caller organization's projects.
func (s *Server) handleListProjects(c *gin.Context) {
	actor, ok := s.actor(c)
	if !ok {
		return
	}

	projects, err := s.svc.ListProjects(c.Request.Context(), actor)
	if err != nil {
		s.respondError(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, gin.H{"projects": projects})
}

// handleCreateProject creates a new project. Org admins only.
func (s *Server) handleCreateProject(c *gin.Context) {
	actor, ok := s.actor(c)
	if !ok {
		return
	}

	var req service.ProjectInput
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request format"})
		return
	}

	project, err := s.svc.CreateProject(c.Request.Context(), actor, req)
	if err != nil {
		s.respondError(c, err)
		return
	}
	respondSuccess(c, http.StatusCreated, gin.H{"project": project})
}

// handleGetProject returns one project with its sprints.
func (s *Server) handleGetProject(c *gin.Context) {
	actor, ok := s.actor(c)
	if !ok {
		return
	}

	project, err := s.svc.GetProject(c.Request.Context(), actor, c.Param("id"))
	if err != nil {
		s.respondError(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, gin.H{"project": project})
}

// handleUpdateProject edits a project's name and description.
func (s *Server) handleUpdateProject(c *gin.Context) {
	actor, ok := s.actor(c)
	if !ok {
		return
	}

	var req service.ProjectInput
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request format"})
		return
	}

	project, err := s.svc.UpdateProject(c.Request.Context(), actor, c.Param("id"), req)
	if err != nil {
		s.respondError(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, gin.H{"project": project})
}

// handleDeleteProject removes a project and everything it owns.
func (s *Server) handleDeleteProject(c *gin.Context) {
	actor, ok := s.actor(c)
	if !ok {
		return
	}

	if err := s.svc.DeleteProject(c.Request.Context(), actor, c.Param("id")); err != nil {
		s.respondError(c, err)
		return
	}
	respondSuccess(c, http.StatusNoContent, nil)
}
