package api

import (
	"context"  // Context for Redis operations
	"net/http" // HTTP status codes
	"strings"  // String manipulation
	"time"     // Time durations

	"playhub/internal/domain" // Importing domain models
	"playhub/internal/utils"  // Utility functions
	"playhub/internal/ws"     // Presence registry

	"github.com/gin-gonic/gin"     // Gin web framework
	"github.com/redis/go-redis/v9" // Redis client
	"gorm.io/gorm"                 // GORM ORM library
)

// PublicProfile is the user shape visible to other users
type PublicProfile struct {
	ID          string `json:"id"`           // User id
	Username    string `json:"username"`     // Login name
	DisplayName string `json:"display_name"` // Public name
	Coins       int64  `json:"coins"`        // Balance
	AvatarData  string `json:"avatar_data"`  // Avatar descriptor
	CreatedAt   int64  `json:"created_at"`   // Registration time
}

// SearchUsersHandler finds users by username or display name
func SearchUsersHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		query := strings.TrimSpace(c.Query("q")) // Search text
		// Queries shorter than two characters return nothing
		if len(query) < 2 {
			c.JSON(http.StatusOK, []PublicProfile{})
			return
		}
		like := "%" + query + "%" // Substring match
		var users []PublicProfile
		// Search both names, bounded result set
		if err := db.Model(&domain.User{}).
			Where("username LIKE ? OR display_name LIKE ?", like, like).
			Limit(20).
			Find(&users).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Search failed"})
			return
		}
		c.JSON(http.StatusOK, users) // Return matches
	}
}

// OnlineUsersHandler lists currently identified connections from the presence registry
func OnlineUsersHandler(registry *ws.Registry) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, registry.Online()) // Live identified users only
	}
}

// GetUserHandler returns a public profile, cached briefly in Redis
func GetUserHandler(db *gorm.DB, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.Param("id")                   // Target user id
		ctx := context.Background()               // Context for Redis operations
		cacheKey := utils.ProfileKey(userID)      // Profile cache key
		var profile PublicProfile                 // Profile to return
		found, err := utils.GetCache(ctx, rdb, cacheKey, &profile)
		// If found in cache, return it
		if err == nil && found {
			c.JSON(http.StatusOK, profile)
			return
		}
		// If not in cache, fetch from DB
		if err := db.Model(&domain.User{}).First(&profile, "id = ?", userID).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
			return
		}
		_ = utils.SetCache(ctx, rdb, cacheKey, profile, 60*time.Second) // Cache for 60 seconds
		c.JSON(http.StatusOK, profile)                                  // Return profile
	}
}

// UpdateDisplayNameRequest carries the new display name
type UpdateDisplayNameRequest struct {
	DisplayName string `json:"display_name" binding:"required"` // New public name
}

// UpdateDisplayNameHandler renames the authenticated user, enforcing uniqueness
func UpdateDisplayNameHandler(db *gorm.DB, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, exists := c.Get("userID") // Get userID from context
		if !exists {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
			return
		}
		// Only the owner may rename themselves
		if c.Param("id") != userID.(string) {
			c.JSON(http.StatusForbidden, gin.H{"error": "Not authorized"})
			return
		}
		var req UpdateDisplayNameRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "display_name required"})
			return
		}
		name := strings.TrimSpace(req.DisplayName) // Canonical name
		// Validate length
		if len(name) < domain.UsernameMin || len(name) > domain.UsernameMax {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Name must be 3-20 characters"})
			return
		}
		// Reject names held by someone else
		var count int64
		db.Model(&domain.User{}).Where("display_name = ? AND id != ?", name, userID).Count(&count)
		if count > 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Name already in use"})
			return
		}
		// Apply the rename
		if err := db.Model(&domain.User{}).Where("id = ?", userID).Update("display_name", name).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Update failed"})
			return
		}
		// Invalidate the cached profile
		_ = utils.DeleteCache(context.Background(), rdb, utils.ProfileKey(userID.(string)))
		c.JSON(http.StatusOK, gin.H{"success": true})
	}
}
