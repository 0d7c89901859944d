// Package auth resolves the calling user from a bearer token issued by the
// external identity provider and centralizes the permission policy.
package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"zcrum/internal/models"
)

// Organization roles supplied by the identity provider.
const (
	RoleAdmin  = "admin"
	RoleMember = "member"
)

// Claims is the token payload the identity provider signs for each session.
type Claims struct {
	Email    string `json:"email"`
	Name     string `json:"name"`
	ImageURL string `json:"image_url,omitempty"`
	OrgID    string `json:"org_id"`
	OrgRole  string `json:"org_role"`
	jwt.RegisteredClaims
}

// Identity is the resolved caller: who they are and which organization and
// role the current session is scoped to.
type Identity struct {
	UserID   string
	Email    string
	Name     string
	ImageURL string
	OrgID    string
	OrgRole  string
}

// IsAdmin reports whether the session carries the organization admin role.
func (id Identity) IsAdmin() bool {
	return id.OrgRole == RoleAdmin
}

// Actor pairs the session identity with the local user row it maps to.
type Actor struct {
	Identity Identity
	User     models.User
}

// ParseToken validates a signed bearer token and extracts the identity.
func ParseToken(secret, token string) (Identity, error) {
	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %q", t.Method.Alg())
		}
		return []byte(secret), nil
	})
	if err != nil || !parsed.Valid {
		return Identity{}, fmt.Errorf("%w: invalid token", models.ErrUnauthorized)
	}
	if claims.Subject == "" || claims.OrgID == "" {
		return Identity{}, fmt.Errorf("%w: token missing subject or organization", models.ErrUnauthorized)
	}

	return Identity{
		UserID:   claims.Subject,
		Email:    claims.Email,
		Name:     claims.Name,
		ImageURL: claims.ImageURL,
		OrgID:    claims.OrgID,
		OrgRole:  claims.OrgRole,
	}, nil
}

// SignToken mints a token for the given identity. The server never issues
// tokens in production; this exists for local tooling and tests.
func SignToken(secret string, id Identity, ttl time.Duration) (string, error) {
	claims := Claims{
		Email:    id.Email,
		Name:     id.Name,
		ImageURL: id.ImageURL,
		OrgID:    id.OrgID,
		OrgRole:  id.OrgRole,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   id.UserID,
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
}

// UserStore mirrors identity-provider accounts into local user rows.
type UserStore interface {
	EnsureUser(ctx context.Context, user models.User) (models.User, error)
}

const actorContextKey = "zcrum.actor"

// Middleware authenticates the request, upserts the local user row for the
// caller and stores the resulting actor in the request context.
func Middleware(secret string, users UserStore, logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		token, found := strings.CutPrefix(header, "Bearer ")
		if !found || token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing bearer token"})
			return
		}

		identity, err := ParseToken(secret, token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}

		user, err := users.EnsureUser(c.Request.Context(), models.User{
			ExternalID: identity.UserID,
			Email:      identity.Email,
			Name:       identity.Name,
			ImageURL:   identity.ImageURL,
		})
		if err != nil {
			logger.Error("user sync failed", slog.String("external_id", identity.UserID), slog.String("error", err.Error()))
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "user sync failed"})
			return
		}

		c.Set(actorContextKey, Actor{Identity: identity, User: user})
		c.Next()
	}
}

// ActorFrom returns the authenticated actor stored by Middleware.
func ActorFrom(c *gin.Context) (Actor, error) {
	value, ok := c.Get(actorContextKey)
	if !ok {
		return Actor{}, errors.Join(models.ErrUnauthorized, errors.New("no actor in context"))
	}
	actor, ok := value.(Actor)
	if !ok {
		return Actor{}, errors.Join(models.ErrUnauthorized, errors.New("malformed actor in context"))
	}
	return actor, nil
}
