package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"zcrum/internal/board"
	"zcrum/internal/models"
	"zcrum/internal/service"
)

// handleCreateIssue creates an issue at the tail of its board column.
func (s *Server) handleCreateIssue(c *gin.Context) {
	actor, ok := s.actor(c)
	if !ok {
		return
	}

	var req service.IssueInput
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request format"})
		return
	}

	issue, err := s.svc.CreateIssue(c.Request.Context(), actor, c.Param("id"), req)
	if err != nil {
		s.respondError(c, err)
		return
	}
	respondSuccess(c, http.StatusCreated, gin.H{"issue": issue})
}

// handleSprintIssues returns a sprint's issues in board order.
func (s *Server) handleSprintIssues(c *gin.Context) {
	actor, ok := s.actor(c)
	if !ok {
		return
	}

	issues, err := s.svc.SprintIssues(c.Request.Context(), actor, c.Param("id"))
	if err != nil {
		s.respondError(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, gin.H{"issues": issues})
}

// handleBoardMove applies one drag-and-drop gesture to the sprint board and
// returns the authoritative issue list. When the placement batch fails, the
// re-fetched server state rides along with the error so clients can drop
// their optimistic view.
func (s *Server) handleBoardMove(c *gin.Context) {
	actor, ok := s.actor(c)
	if !ok {
		return
	}

	var mv board.Move
	if err := c.ShouldBindJSON(&mv); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request format"})
		return
	}

	issues, err := s.svc.MoveIssue(c.Request.Context(), actor, c.Param("id"), mv)
	if err != nil {
		if errors.Is(err, models.ErrPersistence) && issues != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error(), "issues": issues})
			return
		}
		s.respondError(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, gin.H{"issues": issues})
}

// handleUpdateIssue applies a dialog edit of status and priority.
func (s *Server) handleUpdateIssue(c *gin.Context) {
	actor, ok := s.actor(c)
	if !ok {
		return
	}

	var req service.IssueUpdate
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request format"})
		return
	}

	issue, err := s.svc.UpdateIssue(c.Request.Context(), actor, c.Param("id"), req)
	if err != nil {
		s.respondError(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, gin.H{"issue": issue})
}

// handleDeleteIssue removes an issue; reporter or org admin only.
func (s *Server) handleDeleteIssue(c *gin.Context) {
	actor, ok := s.actor(c)
	if !ok {
		return
	}

	if err := s.svc.DeleteIssue(c.Request.Context(), actor, c.Param("id")); err != nil {
		s.respondError(c, err)
		return
	}
	respondSuccess(c, http.StatusNoContent, nil)
}

// handleUserIssues returns the caller's reported and assigned issues.
func (s *Server) handleUserIssues(c *gin.Context) {
	actor, ok := s.actor(c)
	if !ok {
		return
	}

	issues, err := s.svc.UserIssues(c.Request.Context(), actor)
	if err != nil {
		s.respondError(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, gin.H{"issues": issues})
}
