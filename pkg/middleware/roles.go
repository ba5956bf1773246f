package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/nutricoach/backend/internal/models"
)

// RequireRoles closes over the set of permitted roles for a route. It must
// run after Auth: it reads the claims Auth attached and does not re-verify
// the token. Requests whose role is outside the set are rejected with 403.
func RequireRoles(allowed ...models.Role) gin.HandlerFunc {
	set := make(map[models.Role]struct{}, len(allowed))
	for _, r := range allowed {
		set[r] = struct{}{}
	}
	return func(c *gin.Context) {
		claims := ClaimsFrom(c)
		if claims == nil {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "access denied"})
			return
		}
		if _, ok := set[claims.Role]; !ok {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "access denied"})
			return
		}
		c.Next()
	}
}
