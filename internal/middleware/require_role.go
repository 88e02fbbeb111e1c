// require_role.go
package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// RequireRole corta el request si la identidad no trae alguno de los roles.
// Devuelve 401, igual que el comportamiento histórico (no 403).
func RequireRole(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		ident := Identity(c)
		for _, r := range roles {
			if ident.UserType == r {
				c.Next()
				return
			}
		}
		c.JSON(http.StatusUnauthorized, gin.H{"message": "Invalid Admin Token"})
		c.Abort()
	}
}
