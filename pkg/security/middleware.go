package security

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// roleRank orders roles so a higher role passes any lower requirement.
var roleRank = map[string]int{
	"user":  1,
	"admin": 2,
}

func JWTMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authorization header missing"})
			return
		}

		tokenString := strings.TrimPrefix(authHeader, "Bearer ")
		claims, err := ParseToken(tokenString)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid token"})
			return
		}

		c.Set("userID", claims["userID"])
		c.Set("empCode", claims["empCode"])
		c.Set("role", claims["role"])
		c.Next()
	}
}

// Authorize requires at least the given role.
func Authorize(requiredRole string) gin.HandlerFunc {
	return func(c *gin.Context) {
		role, exists := c.Get("role")
		if !exists {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Forbidden: insufficient permissions"})
			return
		}

		roleName, _ := role.(string)
		if roleRank[roleName] < roleRank[requiredRole] {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Forbidden: insufficient permissions"})
			return
		}
		c.Next()
	}
}

// ActorID extracts the authenticated employee id from the request context.
// Returns nil when the request is unauthenticated.
func ActorID(c *gin.Context) *int {
	value, exists := c.Get("userID")
	if !exists {
		return nil
	}

	switch id := value.(type) {
	case int:
		return &id
	case float64:
		converted := int(id)
		return &converted
	default:
		return nil
	}
}
