package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// handleActivity returns the organization's audit trail, newest first.
func (s *Server) handleActivity(c *gin.Context) {
	actor, ok := s.actor(c)
	if !ok {
		return
	}

	logs, err := s.svc.ActivityFeed(c.Request.Context(), actor)
	if err != nil {
		s.respondError(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, gin.H{"activity": logs})
}
