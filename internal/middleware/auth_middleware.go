// auth_middleware.go
package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"samarithanna-api/internal/service"
)

const identityKey = "identity"

// Auth valida el token y deja la identidad en el contexto de gin.
// Los handlers la sacan con Identity(c) y la pasan explícita a los servicios.
func Auth(auth *service.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"message": "No Token"})
			c.Abort()
			return
		}

		token := strings.TrimPrefix(authHeader, "Bearer ")
		token = strings.TrimSpace(token)

		ident, err := auth.ParseToken(token)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"message": "Invalid Token"})
			c.Abort()
			return
		}

		c.Set(identityKey, ident)
		c.Next()
	}
}

// Identity recupera la identidad que dejó el middleware Auth.
func Identity(c *gin.Context) service.Identity {
	ident, _ := c.Get(identityKey)
	id, _ := ident.(service.Identity)
	return id
}
