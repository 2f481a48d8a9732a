package middleware

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"lifelessons/internal/domain"
	"lifelessons/internal/pkg/response"
	"lifelessons/internal/workspace"
)

// UserResolver maps a workspace to its backend user record.
type UserResolver interface {
	Resolve(ctx context.Context, ws *workspace.Workspace) (*domain.User, error)
}

// RequireRole ensures that the signed-in user's backend record has the
// specified role. Roles live in the backend, not in the session token.
func RequireRole(users UserResolver, requiredRole domain.UserRole) gin.HandlerFunc {
	return func(c *gin.Context) {
		ws := workspace.FromGin(c)
		if ws == nil || ws.Anonymous() {
			response.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "Authentication required")
			c.Abort()
			return
		}

		u, err := users.Resolve(c.Request.Context(), ws)
		if err != nil {
			response.Upstream(c, err)
			c.Abort()
			return
		}

		if u.Role != requiredRole {
			response.Error(c, http.StatusForbidden, "FORBIDDEN", "Access denied: insufficient permissions")
			c.Abort()
			return
		}

		c.Set("role", string(u.Role))
		c.Next()
	}
}

// AdminOnly middleware requires admin role
func AdminOnly(users UserResolver) gin.HandlerFunc {
	return RequireRole(users, domain.RoleAdmin)
}
