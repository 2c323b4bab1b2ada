package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/noah-isme/art-studio-api/internal/models"
)

// ContextSessionKey is the gin context key storing the request session.
const ContextSessionKey = "session"

// TokenValidator turns a bearer token into a session.
type TokenValidator interface {
	ValidateToken(token string) (*models.Session, error)
}

// Session attaches the caller's session when the request carries a valid
// bearer token. It never blocks: handlers pass whatever it found (possibly
// nil) to the services, which decide what an anonymous caller may do.
func Session(auth TokenValidator) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := bearerToken(c.GetHeader("Authorization"))
		if !ok || auth == nil {
			c.Next()
			return
		}

		session, err := auth.ValidateToken(token)
		if err != nil || session == nil {
			c.Next()
			return
		}

		c.Set(ContextSessionKey, session)
		c.Next()
	}
}

// CurrentSession returns the session attached by Session, or nil.
func CurrentSession(c *gin.Context) *models.Session {
	value, exists := c.Get(ContextSessionKey)
	if !exists {
		return nil
	}
	session, ok := value.(*models.Session)
	if !ok {
		return nil
	}
	return session
}

// SessionLogFields adds the caller to access log lines.
func SessionLogFields(c *gin.Context) []zap.Field {
	session := CurrentSession(c)
	if session == nil {
		return nil
	}
	return []zap.Field{zap.String("user_id", session.UserID), zap.String("role", string(session.Role))}
}

func bearerToken(header string) (string, bool) {
	parts := strings.SplitN(strings.TrimSpace(header), " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", false
	}
	token := strings.TrimSpace(parts[1])
	return token, token != ""
}
