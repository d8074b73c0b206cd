package middlewares

import (
	"net/http"
	"strings"

	"bitbucket.org/mmdatafocus/store_backend/config"
	"bitbucket.org/mmdatafocus/store_backend/utils"
	"github.com/gin-gonic/gin"
)

// AuthMiddleware validates the bearer token and checks it against the active
// session set, then stashes the claims into the request context for the
// models layer.
func AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		auth := c.GetHeader("Authorization")
		if auth == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authorization header required"})
			return
		}

		token := strings.TrimPrefix(auth, "Bearer ")
		if token == auth {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "bearer token required"})
			return
		}

		validated, err := utils.JwtValidate(token)
		if err != nil || !validated.Valid {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid or expired token"})
			return
		}

		claims, ok := validated.Claims.(*utils.JwtCustomClaim)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token claims"})
			return
		}

		// signed-out tokens are gone from redis even before they expire
		if _, active, err := config.GetRedisValue("Token:" + token); err == nil && config.GetRedisDB() != nil && !active {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "session expired"})
			return
		}

		ctx := c.Request.Context()
		ctx = utils.SetTokenInContext(ctx, token)
		ctx = utils.SetUserIdInContext(ctx, claims.ID)
		ctx = utils.SetEmailInContext(ctx, claims.Email)
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}
