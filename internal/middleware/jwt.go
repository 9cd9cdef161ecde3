package middleware

import (
	"net/http"              // HTTP status codes
	"playhub/internal/utils" // JWT utility functions
	"strings"               // String manipulation

	"github.com/gin-gonic/gin" // Gin web framework
)

// extractToken pulls the JWT from the token cookie or the Authorization header
func extractToken(c *gin.Context) string {
	// Cookie takes priority over the Authorization header
	if cookie, err := c.Cookie("token"); err == nil && cookie != "" {
		return cookie
	}
	authHeader := c.GetHeader("Authorization") // Get Authorization header
	if strings.HasPrefix(authHeader, "Bearer ") {
		return strings.TrimPrefix(authHeader, "Bearer ") // Extract the token string
	}
	return ""
}

// JWTAuthMiddleware validates JWT tokens and extracts user information
func JWTAuthMiddleware(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenStr := extractToken(c) // Get the token from cookie or header
		if tokenStr == "" {
			// If missing, abort with unauthorized status
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
			return
		}
		claims, err := utils.ParseJWT(tokenStr, secret) // Parse the JWT token
		if err != nil {
			// If parsing fails, abort with unauthorized status
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
			return
		}
		c.Set("userID", claims.UserID)     // Store userID in context
		c.Set("username", claims.Username) // Store username in context
		c.Next()                           // Proceed to the next handler
	}
}

// OptionalAuthMiddleware resolves the identity when a valid token is present,
// and continues without one otherwise
func OptionalAuthMiddleware(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenStr := extractToken(c) // Get the token from cookie or header
		if tokenStr != "" {
			// A bad token is simply ignored here
			if claims, err := utils.ParseJWT(tokenStr, secret); err == nil {
				c.Set("userID", claims.UserID)     // Store userID in context
				c.Set("username", claims.Username) // Store username in context
			}
		}
		c.Next() // Proceed either way
	}
}
