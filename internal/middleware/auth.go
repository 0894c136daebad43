package middleware

import (
	"net/http"
	"strings"

	"reviewhub/internal/policy"
	"reviewhub/internal/service"

	"github.com/gin-gonic/gin"
)

const principalKey = "principal"

// Authenticate resolves the caller into a policy.Principal. Requests without
// an Authorization header pass through as anonymous; the policy layer decides
// what anonymous may do. A present-but-invalid credential is a hard 401.
//
// The user row is re-read on every request, so a role change or deletion is
// effective immediately instead of living on inside an old token.
func Authenticate(authService service.AuthService, userService service.UserService) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.Set(principalKey, policy.Anonymous())
			c.Next()
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid authorization header format"})
			c.Abort()
			return
		}

		userID, err := authService.ValidateAccessToken(parts[1])
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			c.Abort()
			return
		}

		user, err := userService.GetByID(c.Request.Context(), userID)
		if err != nil {
			// token for a user that no longer exists
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			c.Abort()
			return
		}

		c.Set(principalKey, policy.FromUser(user))
		c.Next()
	}
}

// SetPrincipal stores the caller snapshot on the request context. Exposed so
// handler tests can inject a principal without running the full middleware.
func SetPrincipal(c *gin.Context, p policy.Principal) {
	c.Set(principalKey, p)
}

// Principal returns the caller snapshot set by Authenticate, anonymous when
// the middleware did not run.
func Principal(c *gin.Context) policy.Principal {
	v, exists := c.Get(principalKey)
	if !exists {
		return policy.Anonymous()
	}
	p, ok := v.(policy.Principal)
	if !ok {
		return policy.Anonymous()
	}
	return p
}
