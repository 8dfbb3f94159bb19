package middleware

import (
	"net/http"
	"strings"

	"sokoni/utils"

	"github.com/gin-gonic/gin"
)

// RequireRole lets the request through only when the token's role is one of roles.
func RequireRole(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		role := Role(c)
		for _, r := range roles {
			if r == role {
				c.Next()
				return
			}
		}
		c.AbortWithStatusJSON(http.StatusForbidden, utils.ErrorResponse{
			Message: "Forbidden",
			Details: "this action requires role " + strings.Join(roles, " or "),
		})
	}
}
