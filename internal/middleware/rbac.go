package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/noah-isme/art-studio-api/internal/models"
	appErrors "github.com/noah-isme/art-studio-api/pkg/errors"
	"github.com/noah-isme/art-studio-api/pkg/response"
)

// RequireSession rejects anonymous requests with 401.
func RequireSession() gin.HandlerFunc {
	return func(c *gin.Context) {
		if CurrentSession(c) == nil {
			response.Abort(c, appErrors.ErrUnauthorized)
			return
		}
		c.Next()
	}
}

// RequireRoles enforces role-based access for routes that are not guarded by
// a service. Anonymous callers get 401, other roles 403.
func RequireRoles(roles ...models.UserRole) gin.HandlerFunc {
	allowed := make(map[models.UserRole]struct{}, len(roles))
	for _, r := range roles {
		allowed[r] = struct{}{}
	}

	return func(c *gin.Context) {
		session := CurrentSession(c)
		if session == nil {
			response.Abort(c, appErrors.ErrUnauthorized)
			return
		}
		if _, ok := allowed[session.Role]; !ok {
			response.Abort(c, appErrors.ErrForbidden)
			return
		}
		c.Next()
	}
}
