package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"zcrum/internal/models"
	"zcrum/internal/service"
)

// handleCreateSprint creates a PLANNED sprint with a generated name.
func (s *Server) handleCreateSprint(c *gin.Context) {
	actor, ok := s.actor(c)
	if !ok {
		return
	}

	var req service.SprintInput
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request format"})
		return
	}

	sprint, err := s.svc.CreateSprint(c.Request.Context(), actor, c.Param("id"), req)
	if err != nil {
		s.respondError(c, err)
		return
	}
	respondSuccess(c, http.StatusCreated, gin.H{"sprint": sprint})
}

type sprintStatusRequest struct {
	Status models.SprintStatus `json:"status" binding:"required"`
}

// handleSprintStatus applies a lifecycle transition to a sprint.
func (s *Server) handleSprintStatus(c *gin.Context) {
	actor, ok := s.actor(c)
	if !ok {
		return
	}

	var req sprintStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request format"})
		return
	}

	sprint, err := s.svc.UpdateSprintStatus(c.Request.Context(), actor, c.Param("id"), req.Status)
	if err != nil {
		s.respondError(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, gin.H{"sprint": sprint})
}

// handleDeleteSprint removes a sprint while it is still PLANNED.
func (s *Server) handleDeleteSprint(c *gin.Context) {
	actor, ok := s.actor(c)
	if !ok {
		return
	}

	if err := s.svc.DeleteSprint(c.Request.Context(), actor, c.Param("id")); err != nil {
		s.respondError(c, err)
		return
	}
	respondSuccess(c, http.StatusNoContent, nil)
}
