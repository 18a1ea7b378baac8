package middleware

import (
	"net/http"
	"strings"

	"titlehub/internal/http-api/access"
	"titlehub/internal/http-api/models"
	"titlehub/internal/http-api/repository"
	"titlehub/internal/http-api/service"

	"github.com/gin-gonic/gin"
)

const userContextKey = "currentUser"

// AuthMiddleware authenticates API requests from the Authorization header.
// The token carries the stable user id; the user row (and with it the role)
// is resolved fresh per request so role changes take effect immediately.
func AuthMiddleware(authService service.AuthService, userRepo repository.UserRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := resolveUser(c, authService, userRepo)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid or missing bearer token"})
			c.Abort()
			return
		}

		c.Set(userContextKey, user)
		c.Next()
	}
}

// OptionalAuth resolves the caller when a token is present but lets anonymous
// requests through. Read endpoints are public; ownership decisions downstream
// see an anonymous caller.
func OptionalAuth(authService service.AuthService, userRepo repository.UserRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetHeader("Authorization") != "" {
			if user, ok := resolveUser(c, authService, userRepo); ok {
				c.Set(userContextKey, user)
			}
		}
		c.Next()
	}
}

func resolveUser(c *gin.Context, authService service.AuthService, userRepo repository.UserRepository) (*models.User, bool) {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		return nil, false
	}

	// Extract token (format: "Bearer <token>")
	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || parts[0] != "Bearer" {
		return nil, false
	}

	claims, err := authService.ValidateToken(parts[1])
	if err != nil {
		return nil, false
	}

	user, err := userRepo.FindByID(c.Request.Context(), claims.UserID)
	if err != nil {
		return nil, false
	}
	return user, true
}

// CurrentUser returns the authenticated user, or nil for anonymous requests.
func CurrentUser(c *gin.Context) *models.User {
	v, exists := c.Get(userContextKey)
	if !exists {
		return nil
	}
	user, ok := v.(*models.User)
	if !ok {
		return nil
	}
	return user
}

// Caller builds the access-control view of the request's identity.
func Caller(c *gin.Context) access.Caller {
	return access.CallerFor(CurrentUser(c))
}

// Require gates a route on the central access predicate. Routes whose
// decision depends on object ownership skip this and call access.Allow in
// the handler with the owner id.
func Require(action access.Action, resource access.Resource) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !access.Allow(action, resource, Caller(c), "") {
			c.JSON(http.StatusForbidden, gin.H{"error": "permission denied"})
			c.Abort()
			return
		}
		c.Next()
	}
}
