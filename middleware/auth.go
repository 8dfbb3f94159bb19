package middleware

import (
	"net/http"
	"strings"

	"sokoni/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const (
	ctxUserID     = "userID"
	ctxRole       = "role"
	ctxProviderID = "providerID"
)

// JWTAuthMiddleware validates the bearer token issued by the hosted auth provider
// and stores the user id and role in the context.
func JWTAuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		tokenString := strings.TrimPrefix(authHeader, "Bearer ")
		if authHeader == "" && c.IsWebsocket() {
			// Browsers cannot set headers on a websocket handshake.
			tokenString = c.Query("access_token")
		} else if !strings.HasPrefix(authHeader, "Bearer ") {
			tokenString = ""
		}
		if tokenString == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, utils.ErrorResponse{Message: "Missing or invalid Authorization header"})
			return
		}

		claims, err := utils.ValidateToken(tokenString)
		if err != nil {
			zap.L().Debug("token rejected", zap.Error(err))
			c.AbortWithStatusJSON(http.StatusUnauthorized, utils.ErrorResponse{Message: "Invalid token"})
			return
		}

		c.Set(ctxUserID, claims.Subject)
		c.Set(ctxRole, claims.Role)
		c.Next()
	}
}

// UserID returns the authenticated user id.
func UserID(c *gin.Context) string {
	return c.GetString(ctxUserID)
}

// Role returns the authenticated user's role claim.
func Role(c *gin.Context) string {
	return c.GetString(ctxRole)
}

// ProviderID returns the provider record id resolved by ProviderContextMiddleware.
func ProviderID(c *gin.Context) string {
	return c.GetString(ctxProviderID)
}
