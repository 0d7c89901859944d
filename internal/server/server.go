package server

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"zcrum/internal/auth"
	"zcrum/internal/models"
	"zcrum/internal/service"
)

// Server provides the HTTP handlers for the project-management backend.
type Server struct {
	engine *gin.Engine
	svc    *service.Service
	logger *slog.Logger
}

// New constructs the HTTP server with routes and middleware configured.
// users is the store the auth middleware syncs identity accounts into.
func New(svc *service.Service, users auth.UserStore, jwtSecret string, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}

	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())

	srv := &Server{
		engine: router,
		svc:    svc,
		logger: logger,
	}

	srv.registerRoutes(jwtSecret, users)
	return srv
}

// Engine exposes the underlying Gin engine.
func (s *Server) Engine() *gin.Engine {
	return s.engine
}

// registerRoutes wires all API handlers together. Everything except the
// health probe sits behind the identity middleware.
func (s *Server) registerRoutes(jwtSecret string, users auth.UserStore) {
	api := s.engine.Group("/api")
	api.GET("/healthz", s.handleHealth)

	authed := api.Group("")
	authed.Use(auth.Middleware(jwtSecret, users, s.logger))
	{
		projects := authed.Group("/projects")
		{
			projects.GET("", s.handleListProjects)
			projects.POST("", s.handleCreateProject)
			projects.GET(":id", s.handleGetProject)
			projects.PUT(":id", s.handleUpdateProject)
			projects.DELETE(":id", s.handleDeleteProject)
			projects.POST(":id/sprints", s.handleCreateSprint)
			projects.POST(":id/issues", s.handleCreateIssue)
		}

		sprints := authed.Group("/sprints")
		{
			sprints.GET(":id/issues", s.handleSprintIssues)
			sprints.PATCH(":id/status", s.handleSprintStatus)
			sprints.DELETE(":id", s.handleDeleteSprint)
			sprints.POST(":id/moves", s.handleBoardMove)
		}

		issues := authed.Group("/issues")
		{
			issues.PATCH(":id", s.handleUpdateIssue)
			issues.DELETE(":id", s.handleDeleteIssue)
		}

		authed.GET("/me/issues", s.handleUserIssues)
		authed.GET("/activity", s.handleActivity)
	}
}

// handleHealth provides a basic readiness endpoint.
func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// actor fetches the authenticated actor or aborts with 401.
func (s *Server) actor(c *gin.Context) (auth.Actor, bool) {
	actor, err := auth.ActorFrom(c)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return auth.Actor{}, false
	}
	return actor, true
}

// respondError maps domain errors onto HTTP statuses and logs server faults.
func (s *Server) respondError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, models.ErrUnauthorized):
		status = http.StatusUnauthorized
	case errors.Is(err, models.ErrForbidden):
		status = http.StatusForbidden
	case models.IsNotFound(err):
		status = http.StatusNotFound
	case errors.Is(err, models.ErrValidation):
		status = http.StatusUnprocessableEntity
	case models.IsStateTransition(err), errors.Is(err, models.ErrDuplicateSprintName):
		status = http.StatusConflict
	}

	if status == http.StatusInternalServerError {
		s.logger.Error("request failed", slog.String("path", c.FullPath()), slog.String("error", err.Error()))
	}
	c.JSON(status, gin.H{"error": err.Error()})
}

// respondSuccess wraps a payload in a JSON envelope for consistency.
func respondSuccess(c *gin.Context, status int, payload any) {
	if payload == nil {
		c.Status(status)
		return
	}
	c.JSON(status, payload)
}
