package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/nutricoach/backend/internal/tokens"
)

// ClaimsKey is the context key under which verified claims are stored.
const ClaimsKey = "claims"

// Verifier is the minimal interface the middleware depends on. Satisfied by
// *tokens.Issuer and by test fakes.
type Verifier interface {
	Verify(raw string) (*tokens.Claims, error)
}

// Auth returns a middleware that extracts the Bearer token, verifies it and
// attaches the decoded claims to the request context. A missing or garbled
// Authorization header is 401; a token that fails verification is 403 and the
// chain is halted either way.
func Auth(ver Verifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		auth := c.GetHeader("Authorization")
		if auth == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing Authorization header"})
			return
		}
		raw, ok := strings.CutPrefix(auth, "Bearer ")
		if !ok || raw == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid Authorization header"})
			return
		}

		claims, err := ver.Verify(raw)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "invalid or expired token"})
			return
		}

		c.Set(ClaimsKey, claims)
		c.Next()
	}
}

// ClaimsFrom returns the claims attached by Auth, or nil when the middleware
// did not run.
func ClaimsFrom(c *gin.Context) *tokens.Claims {
	v, ok := c.Get(ClaimsKey)
	if !ok {
		return nil
	}
	claims, ok := v.(*tokens.Claims)
	if !ok {
		return nil
	}
	return claims
}
