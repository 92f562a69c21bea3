package middleware

import (
	"net/http"
	"strings"

	"hotel-backoffice/models"
	"hotel-backoffice/services"
	"hotel-backoffice/utils"

	"github.com/gin-gonic/gin"
)

const (
	userIDKey   = "user_id"
	userRoleKey = "user_role"
)

// TokenParser validates a bearer token.
type TokenParser interface {
	ParseToken(raw string) (*services.Claims, error)
}

// Authenticate requires a valid "Bearer <jwt>" Authorization header.
func Authenticate(tokens TokenParser) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			utils.AbortJSONError(c, http.StatusUnauthorized, "authentication required")
			return
		}
		if !strings.HasPrefix(header, "Bearer ") {
			utils.AbortJSONError(c, http.StatusUnauthorized, "invalid authorization header")
			return
		}

		claims, err := tokens.ParseToken(strings.TrimSpace(strings.TrimPrefix(header, "Bearer ")))
		if err != nil {
			utils.AbortJSONError(c, http.StatusUnauthorized, "invalid or expired token")
			return
		}
		id, _ := claims.UserID()
		c.Set(userIDKey, id)
		c.Set(userRoleKey, claims.Role)
		c.Next()
	}
}

// Authorize allows only the given roles. It must run after Authenticate.
func Authorize(roles ...models.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		role, ok := CurrentRole(c)
		if !ok {
			utils.AbortJSONError(c, http.StatusUnauthorized, "authentication required")
			return
		}
		for _, allowed := range roles {
			if role == allowed {
				c.Next()
				return
			}
		}
		utils.AbortJSONError(c, http.StatusForbidden, "AuthorizationError: role "+string(role)+" cannot access this resource")
	}
}

// CurrentUserID returns the authenticated user's id.
func CurrentUserID(c *gin.Context) (uint, bool) {
	v, ok := c.Get(userIDKey)
	if !ok {
		return 0, false
	}
	id, ok := v.(uint)
	return id, ok && id != 0
}

func CurrentRole(c *gin.Context) (models.Role, bool) {
	v, ok := c.Get(userRoleKey)
	if !ok {
		return "", false
	}
	role, ok := v.(models.Role)
	return role, ok
}
